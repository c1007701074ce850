/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package state

import (
	"encoding/json"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
)

// Record is a value stored under a key derived from its parts.
// The derived key is never part of the serialized payload.
type Record interface {
	// Class identifies the kind of record, it is the namespace the record is stored under
	Class() string
	// KeyParts returns the ordered parts the record key is built from
	KeyParts() []string
}

// Validator is implemented by records that check their own fields after decoding
type Validator interface {
	Validate() error
}

// Key returns the application key of r
func Key(r Record) (string, error) {
	return JoinKey(r.KeyParts()...)
}

// Codec turns records into bytes and back
type Codec[R Record] interface {
	Marshal(R) ([]byte, error)
	Unmarshal([]byte) (R, error)
}

// JSONCodec encodes records as JSON.
// Decoding always builds a fresh *T and, if *T is a Validator, validates it.
type JSONCodec[T any, P interface {
	*T
	Record
}] struct{}

func (JSONCodec[T, P]) Marshal(r P) ([]byte, error) {
	if r == nil {
		return nil, errors.Wrapf(errors.Validation, "nil record")
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Kindf(errors.Validation, err, "failed marshalling record of class [%s]", r.Class())
	}
	return raw, nil
}

func (JSONCodec[T, P]) Unmarshal(raw []byte) (P, error) {
	if len(raw) == 0 {
		return nil, errors.Wrapf(errors.Deserialization, "empty payload")
	}
	r := P(new(T))
	if err := json.Unmarshal(raw, r); err != nil {
		return nil, errors.Kindf(errors.Deserialization, err, "failed unmarshalling payload")
	}
	if v, ok := any(r).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, errors.Kindf(errors.Deserialization, err, "decoded record is not valid")
		}
	}
	return r, nil
}
