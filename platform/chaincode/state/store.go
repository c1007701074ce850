/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package state

import (
	"strings"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/services/logging"
)

var logger = logging.MustGetLogger()

// Store keeps the records of one namespace.
// It holds no ledger handle: every operation runs against the backend of the current transaction.
type Store[R Record] struct {
	namespace string
	class     string
	codec     Codec[R]
}

type StoreOption func(*storeOptions)

type storeOptions struct {
	class string
}

// WithClass makes the store hold records of class under a namespace of another name
func WithClass(class string) StoreOption {
	return func(o *storeOptions) {
		o.class = class
	}
}

// NewStore returns a store for the records kept under namespace.
// Unless WithClass says otherwise, records must be of class namespace.
func NewStore[R Record](namespace string, codec Codec[R], opts ...StoreOption) (*Store[R], error) {
	if err := partialCompositeKey(namespace, nil); err != nil {
		return nil, err
	}
	if err := ledger.ValidateCompositeKeyAttribute(namespace); err != nil {
		return nil, errors.Wrapf(err, "invalid namespace [%s]", namespace)
	}
	if codec == nil {
		return nil, errors.Wrapf(errors.Validation, "no codec for namespace [%s]", namespace)
	}
	o := &storeOptions{class: namespace}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.class) == 0 {
		return nil, errors.Wrapf(errors.Validation, "empty class for namespace [%s]", namespace)
	}
	return &Store[R]{namespace: namespace, class: o.class, codec: codec}, nil
}

func (s *Store[R]) Namespace() string {
	return s.namespace
}

// Class is the class of the records of the store
func (s *Store[R]) Class() string {
	return s.class
}

// LedgerKey returns the namespace-qualified key the record with the given parts is stored under
func (s *Store[R]) LedgerKey(b ledger.KeyBuilder, parts ...string) (string, error) {
	return CompositeKey(b, s.namespace, parts)
}

// Add writes r. It does not check for an existing value, callers that must not
// overwrite check Exists first.
func (s *Store[R]) Add(b Backend, r R) error {
	return s.put(b, r)
}

// Update overwrites r, last write wins
func (s *Store[R]) Update(b Backend, r R) error {
	return s.put(b, r)
}

func (s *Store[R]) put(b Backend, r R) error {
	if class := r.Class(); class != s.class {
		return errors.Wrapf(errors.Validation, "record of class [%s] does not belong to namespace [%s] of class [%s]", class, s.namespace, s.class)
	}
	key, err := s.LedgerKey(b, r.KeyParts()...)
	if err != nil {
		return err
	}
	raw, err := s.codec.Marshal(r)
	if err != nil {
		return err
	}
	logger.Debugf("put [%s] in [%s]", logging.Printable(key), b.Name())
	if err := b.Put(key, raw); err != nil {
		return errors.Kindf(errors.Write, err, "failed writing [%s:%s] to [%s]", s.namespace, strings.Join(r.KeyParts(), KeySeparator), b.Name())
	}
	return nil
}

// Get returns the record stored under parts.
// Absence fails with NotFound, bytes that do not decode fail with Deserialization.
func (s *Store[R]) Get(b Backend, parts ...string) (R, error) {
	var zero R
	raw, err := s.getRaw(b, parts)
	if err != nil {
		return zero, err
	}
	if len(raw) == 0 {
		return zero, errors.Kindf(errors.NotFound, nil, "[%s:%s] in [%s]", s.namespace, strings.Join(parts, KeySeparator), b.Name())
	}
	r, err := s.decode(raw)
	if err != nil {
		return zero, errors.Kindf(errors.Deserialization, err, "failed decoding [%s:%s] from [%s]", s.namespace, strings.Join(parts, KeySeparator), b.Name())
	}
	return r, nil
}

// Exists tells whether a value is stored under parts, without decoding it
func (s *Store[R]) Exists(b Backend, parts ...string) (bool, error) {
	raw, err := s.getRaw(b, parts)
	if err != nil {
		return false, err
	}
	return len(raw) != 0, nil
}

// Delete removes the record stored under parts. Deleting an absent record is not an error.
func (s *Store[R]) Delete(b Backend, parts ...string) error {
	key, err := s.LedgerKey(b, parts...)
	if err != nil {
		return err
	}
	logger.Debugf("delete [%s] from [%s]", logging.Printable(key), b.Name())
	if err := b.Delete(key); err != nil {
		return errors.Kindf(errors.Write, err, "failed deleting [%s:%s] from [%s]", s.namespace, strings.Join(parts, KeySeparator), b.Name())
	}
	return nil
}

func (s *Store[R]) getRaw(b Backend, parts []string) ([]byte, error) {
	key, err := s.LedgerKey(b, parts...)
	if err != nil {
		return nil, err
	}
	logger.Debugf("get [%s] from [%s]", logging.Printable(key), b.Name())
	raw, err := b.Get(key)
	if err != nil {
		return nil, errors.Kindf(errors.Read, err, "failed reading [%s:%s] from [%s]", s.namespace, strings.Join(parts, KeySeparator), b.Name())
	}
	return raw, nil
}

// decode builds the typed record and checks that it carries the class of this store
func (s *Store[R]) decode(raw []byte) (R, error) {
	var zero R
	r, err := s.codec.Unmarshal(raw)
	if err != nil {
		return zero, err
	}
	if class := r.Class(); class != s.class {
		return zero, errors.Wrapf(errors.Deserialization, "decoded class [%s], expected [%s]", class, s.class)
	}
	return r, nil
}
