/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package errors

import "github.com/pkg/errors"

// Kinds of failures surfaced to the invocation boundary.
// Every error produced by the platform packages wraps exactly one of them.
var (
	// NotFound signals the expected absence of a record
	NotFound = errors.New("not found")
	// AlreadyExists signals a create on a key that is already populated
	AlreadyExists = errors.New("already exists")
	// Validation signals missing, empty or malformed input
	Validation = errors.New("invalid input")
	// Authorization signals an invoker that may not perform the operation
	Authorization = errors.New("not authorized")
	// Agreement signals a missing agreement or a hash mismatch between parties
	Agreement = errors.New("agreement not satisfied")
	// Write signals a failed ledger write or delete
	Write = errors.New("ledger write failed")
	// Read signals a failed ledger read
	Read = errors.New("ledger read failed")
	// Deserialization signals stored bytes that do not have the expected shape
	Deserialization = errors.New("cannot deserialize")
)

// HasCause recursively checks errors wrapped using Wrapf until it detects the target error
func HasCause(source, target error) bool {
	return source != nil && target != nil && errors.Is(source, target)
}

// Wrapf wraps an error in a way compatible with HasCause
func Wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}

func Errorf(format string, args ...any) error {
	return errors.Errorf(format, args...)
}

func New(message string) error {
	return errors.New(message)
}

// Kind returns the failure kind wrapped by err, nil if err carries none of them
func Kind(err error) error {
	for _, kind := range []error{NotFound, AlreadyExists, Validation, Authorization, Agreement, Write, Read, Deserialization} {
		if HasCause(err, kind) {
			return kind
		}
	}
	return nil
}

// Kindf wraps kind with a formatted message and, when cause is not nil,
// the cause's message. The result matches kind under HasCause.
func Kindf(kind, cause error, format string, args ...any) error {
	if cause == nil {
		return errors.Wrapf(kind, format, args...)
	}
	return errors.Wrapf(kind, "%s: %s", errors.Errorf(format, args...).Error(), cause.Error())
}
