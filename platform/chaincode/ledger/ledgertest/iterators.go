/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledgertest

import (
	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger/fabric-protos-go/ledger/queryresult"
)

type stateIterator struct {
	kvs    []*queryresult.KV
	pos    int
	closed bool
}

func (it *stateIterator) HasNext() bool {
	return !it.closed && it.pos < len(it.kvs)
}

func (it *stateIterator) Next() (*queryresult.KV, error) {
	if !it.HasNext() {
		return nil, errors.New("no such key")
	}
	kv := it.kvs[it.pos]
	it.pos++
	return kv, nil
}

func (it *stateIterator) Close() error {
	it.closed = true
	return nil
}

type historyIterator struct {
	mods   []*queryresult.KeyModification
	pos    int
	closed bool
}

func (it *historyIterator) HasNext() bool {
	return !it.closed && it.pos < len(it.mods)
}

func (it *historyIterator) Next() (*queryresult.KeyModification, error) {
	if !it.HasNext() {
		return nil, errors.New("no such key")
	}
	m := it.mods[it.pos]
	it.pos++
	return m, nil
}

func (it *historyIterator) Close() error {
	it.closed = true
	return nil
}
