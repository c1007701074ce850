/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package state

import (
	"strings"
	"time"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/utils/collections/iterators"
)

// Modification is a past write or delete of a record
type Modification[R Record] struct {
	TxID      string
	Timestamp time.Time
	IsDelete  bool
	// Record is nil for deletes and for values that do not decode
	Record    R
	DecodeErr error
}

// History iterates over the modifications of the record stored under parts, newest first
func (s *Store[R]) History(b PublicBackend, parts ...string) (iterators.Iterator[*Modification[R]], error) {
	key, err := s.LedgerKey(b, parts...)
	if err != nil {
		return nil, err
	}
	it, err := b.History(key)
	if err != nil {
		return nil, errors.Kindf(errors.Read, err, "failed reading history of [%s:%s]", s.namespace, strings.Join(parts, KeySeparator))
	}
	return &historyIterator[R]{store: s, it: it}, nil
}

type historyIterator[R Record] struct {
	store *Store[R]
	it    ledger.HistoryQueryIterator
}

func (h *historyIterator[R]) Next() (*Modification[R], error) {
	if !h.it.HasNext() {
		return nil, nil
	}
	km, err := h.it.Next()
	if err != nil {
		return nil, errors.Kindf(errors.Read, err, "failed iterating over history in [%s]", h.store.namespace)
	}
	m := &Modification[R]{TxID: km.TxId, IsDelete: km.IsDelete}
	if km.Timestamp != nil {
		m.Timestamp = km.Timestamp.AsTime().UTC()
	}
	if km.IsDelete {
		return m, nil
	}
	if m.Record, err = h.store.decode(km.Value); err != nil {
		m.DecodeErr = err
	}
	return m, nil
}

func (h *historyIterator[R]) Close() {
	if err := h.it.Close(); err != nil {
		logger.Warnf("failed closing history over [%s]: %s", h.store.namespace, err)
	}
}
