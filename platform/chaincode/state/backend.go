/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package state

import (
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
)

// Backend is the flat key-value space a Store reads and writes in a transaction:
// the world state or a private data collection.
type Backend interface {
	ledger.KeyBuilder

	// Name identifies the backend in errors and logs
	Name() string
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	// ScanPartial iterates over the composite keys starting with objectType and parts
	ScanPartial(objectType string, parts []string) (ledger.StateQueryIterator, error)
}

// WorldStateName is the name of the public backend
const WorldStateName = "world state"

// PublicBackend reads and writes the world state, and supports paging and history
type PublicBackend interface {
	Backend
	ScanPartialPage(objectType string, parts []string, pageSize int32, bookmark string) (ledger.StateQueryIterator, string, int32, error)
	History(key string) (ledger.HistoryQueryIterator, error)
}

// WorldState returns the public backend of the given stub
func WorldState(stub ledger.Stub) PublicBackend {
	return &worldState{Stub: stub}
}

type worldState struct {
	ledger.Stub
}

func (w *worldState) Name() string {
	return WorldStateName
}

func (w *worldState) Get(key string) ([]byte, error) {
	return w.GetState(key)
}

func (w *worldState) Put(key string, value []byte) error {
	return w.PutState(key, value)
}

func (w *worldState) Delete(key string) error {
	return w.DelState(key)
}

func (w *worldState) ScanPartial(objectType string, parts []string) (ledger.StateQueryIterator, error) {
	return w.GetStateByPartialCompositeKey(objectType, parts)
}

func (w *worldState) ScanPartialPage(objectType string, parts []string, pageSize int32, bookmark string) (ledger.StateQueryIterator, string, int32, error) {
	it, meta, err := w.GetStateByPartialCompositeKeyWithPagination(objectType, parts, pageSize, bookmark)
	if err != nil {
		return nil, "", 0, err
	}
	if meta == nil {
		return it, "", 0, nil
	}
	return it, meta.Bookmark, meta.FetchedRecordsCount, nil
}

func (w *worldState) History(key string) (ledger.HistoryQueryIterator, error) {
	return w.GetHistoryForKey(key)
}
