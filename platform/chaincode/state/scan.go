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
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/utils/collections/iterators"
)

// Entry is an element of a scan. Record is nil when Raw could not be decoded,
// in which case DecodeErr says why.
type Entry[R Record] struct {
	Key       string
	KeyParts  []string
	Record    R
	Raw       []byte
	DecodeErr error
}

// Decoded tells whether the entry carries a typed record
func (e *Entry[R]) Decoded() bool {
	return e.DecodeErr == nil
}

// Page is a bounded slice of a paged scan
type Page[R Record] struct {
	Entries  []*Entry[R]
	Bookmark string
	Fetched  int32
}

// ScanAll lazily iterates over every record of the namespace.
// Each call opens a fresh scan. Entries that do not decode are returned with their raw bytes.
func (s *Store[R]) ScanAll(b Backend) (iterators.Iterator[*Entry[R]], error) {
	return s.ScanPartial(b)
}

// ScanPartial iterates over the records whose key starts with the given parts
func (s *Store[R]) ScanPartial(b Backend, parts ...string) (iterators.Iterator[*Entry[R]], error) {
	if err := partialCompositeKey(s.namespace, parts); err != nil {
		return nil, err
	}
	logger.Debugf("scan [%s:%s] in [%s]", s.namespace, strings.Join(parts, KeySeparator), b.Name())
	it, err := b.ScanPartial(s.namespace, parts)
	if err != nil {
		return nil, errors.Kindf(errors.Read, err, "failed scanning [%s] in [%s]", s.namespace, b.Name())
	}
	return &entryIterator[R]{store: s, keys: b, it: it}, nil
}

// ScanPage reads at most pageSize records of the namespace starting at bookmark.
// An empty bookmark starts from the first record, an empty returned bookmark means no more records.
func (s *Store[R]) ScanPage(b PublicBackend, pageSize int32, bookmark string, parts ...string) (*Page[R], error) {
	if pageSize <= 0 {
		return nil, errors.Wrapf(errors.Validation, "page size must be positive, got [%d]", pageSize)
	}
	if err := partialCompositeKey(s.namespace, parts); err != nil {
		return nil, err
	}
	logger.Debugf("scan page of [%d] of [%s] from [%s]", pageSize, s.namespace, logging.Printable(bookmark))
	it, next, fetched, err := b.ScanPartialPage(s.namespace, parts, pageSize, bookmark)
	if err != nil {
		return nil, errors.Kindf(errors.Read, err, "failed scanning page of [%s] in [%s]", s.namespace, b.Name())
	}
	entries, err := iterators.ReadAllPointers[Entry[R]](&entryIterator[R]{store: s, keys: b, it: it})
	if err != nil {
		return nil, err
	}
	return &Page[R]{Entries: entries, Bookmark: next, Fetched: fetched}, nil
}

type entryIterator[R Record] struct {
	store *Store[R]
	keys  ledger.KeyBuilder
	it    ledger.StateQueryIterator
}

func (e *entryIterator[R]) Next() (*Entry[R], error) {
	if !e.it.HasNext() {
		return nil, nil
	}
	kv, err := e.it.Next()
	if err != nil {
		return nil, errors.Kindf(errors.Read, err, "failed iterating over [%s]", e.store.namespace)
	}
	_, parts, err := e.keys.SplitCompositeKey(kv.Key)
	if err != nil {
		return nil, errors.Kindf(errors.Read, err, "failed splitting key [%s]", logging.Printable(kv.Key))
	}
	entry := &Entry[R]{Key: strings.Join(parts, KeySeparator), KeyParts: parts, Raw: kv.Value}
	r, err := e.store.decode(kv.Value)
	if err != nil {
		logger.Debugf("passing through undecodable entry [%s]: %s", logging.Printable(kv.Key), err)
		entry.DecodeErr = err
		return entry, nil
	}
	entry.Record = r
	return entry, nil
}

func (e *entryIterator[R]) Close() {
	if err := e.it.Close(); err != nil {
		logger.Warnf("failed closing scan over [%s]: %s", e.store.namespace, err)
	}
}
