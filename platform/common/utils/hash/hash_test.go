/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256(t *testing.T) {
	digest, err := SHA256([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(digest))
	assert.Equal(t, digest, SHA256OrPanic([]byte("abc")))
}

func TestEqual(t *testing.T) {
	a := SHA256OrPanic([]byte(`{"ID":"a1","AppraisedValue":100}`))
	b := SHA256OrPanic([]byte(`{"ID":"a1","AppraisedValue":100}`))
	c := SHA256OrPanic([]byte(`{"ID":"a1","AppraisedValue":101}`))
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.False(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
}
