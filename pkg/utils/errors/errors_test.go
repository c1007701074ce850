/*
Copyright IBM Corp All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package errors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrapfSimpleNesting(t *testing.T) {
	nestedErr := errors.New("nested err")
	err := errors.Wrapf(nestedErr, "some error")
	assert.True(t, HasCause(err, nestedErr))
}

func TestWrapfDoubleNesting(t *testing.T) {
	nestedErr := errors.New("nested err")
	err := errors.Wrapf(errors.Wrapf(nestedErr, "some error"), "other error")
	assert.True(t, HasCause(err, nestedErr))
}

func TestKindf(t *testing.T) {
	cause := errors.New("connection reset")
	err := Kindf(Write, cause, "failed putting [%s]", "k1")
	assert.True(t, HasCause(err, Write))
	assert.False(t, HasCause(err, Read))
	assert.Contains(t, err.Error(), "failed putting [k1]")
	assert.Contains(t, err.Error(), "connection reset")

	err = Kindf(NotFound, nil, "asset [%s]", "a1")
	assert.True(t, HasCause(err, NotFound))
	assert.Equal(t, "asset [a1]: not found", err.Error())
}

func TestKind(t *testing.T) {
	assert.Equal(t, Agreement, Kind(Wrapf(Wrapf(Agreement, "hash mismatch"), "transfer")))
	assert.Equal(t, Deserialization, Kind(Kindf(Deserialization, errors.New("eof"), "record")))
	assert.Nil(t, Kind(errors.New("plain")))
	assert.Nil(t, Kind(nil))
}
