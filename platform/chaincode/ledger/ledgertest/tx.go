/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledgertest

import (
	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/utils/hash"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric-protos-go/ledger/queryresult"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type write struct {
	collection string
	key        string
	value      []byte
	delete     bool
	validation bool
}

// Tx is the stub of a single simulated transaction.
// It embeds shim.ChaincodeStubInterface so that it can be handed to contractapi;
// calling a method it does not override panics.
type Tx struct {
	shim.ChaincodeStubInterface

	ledger    *Ledger
	peerOrg   string
	client    *Identity
	txID      string
	timestamp *timestamppb.Timestamp
	transient map[string][]byte
	writes    []write
	event     *Event
}

// WithTransient sets a transient field of the proposal
func (t *Tx) WithTransient(key string, value []byte) *Tx {
	t.transient[key] = value
	return t
}

// Context returns the invocation context seen by the contracts
func (t *Tx) Context() *ledger.Context {
	return ledger.NewContext(t, t.client, t.PeerMSPID)
}

// TransactionContext returns a contractapi context backed by this transaction
func (t *Tx) TransactionContext() *contractapi.TransactionContext {
	ctx := &contractapi.TransactionContext{}
	ctx.SetStub(t)
	ctx.SetClientIdentity(t.client)
	return ctx
}

// PeerMSPID returns the org of the endorsing peer
func (t *Tx) PeerMSPID() (string, error) {
	return t.peerOrg, nil
}

// Commit makes the writes of the transaction visible
func (t *Tx) Commit() error {
	return t.ledger.commit(t)
}

// Event returns the event set by the transaction, nil if none
func (t *Tx) Event() *Event {
	return t.event
}

func (t *Tx) GetTxID() string {
	return t.txID
}

func (t *Tx) GetTxTimestamp() (*timestamppb.Timestamp, error) {
	return t.timestamp, nil
}

func (t *Tx) GetTransient() (map[string][]byte, error) {
	return t.transient, nil
}

func (t *Tx) SetEvent(name string, payload []byte) error {
	if len(name) == 0 {
		return errors.New("event name can not be empty string")
	}
	t.event = &Event{TxID: t.txID, Name: name, Payload: payload}
	return nil
}

func (t *Tx) CreateCompositeKey(objectType string, attributes []string) (string, error) {
	return shim.CreateCompositeKey(objectType, attributes)
}

func (t *Tx) SplitCompositeKey(compositeKey string) (string, []string, error) {
	return ledger.SplitCompositeKey(compositeKey)
}

func (t *Tx) GetState(key string) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.New("key must not be an empty string")
	}
	t.ledger.mu.RLock()
	defer t.ledger.mu.RUnlock()
	return clone(t.ledger.state[key]), nil
}

func (t *Tx) PutState(key string, value []byte) error {
	if len(key) == 0 {
		return errors.New("key must not be an empty string")
	}
	t.writes = append(t.writes, write{key: key, value: clone(value)})
	return nil
}

func (t *Tx) DelState(key string) error {
	if len(key) == 0 {
		return errors.New("key must not be an empty string")
	}
	t.writes = append(t.writes, write{key: key, delete: true})
	return nil
}

func (t *Tx) SetStateValidationParameter(key string, ep []byte) error {
	t.writes = append(t.writes, write{key: key, value: clone(ep), validation: true})
	return nil
}

func (t *Tx) GetStateByRange(startKey, endKey string) (ledger.StateQueryIterator, error) {
	if ledger.IsCompositeKey(startKey) || ledger.IsCompositeKey(endKey) {
		return nil, errors.New("range queries do not accept composite keys, use GetStateByPartialCompositeKey")
	}
	t.ledger.mu.RLock()
	defer t.ledger.mu.RUnlock()
	var kvs []*queryresult.KV
	for _, k := range sortedKeys(t.ledger.state, startKey, endKey) {
		if ledger.IsCompositeKey(k) {
			continue
		}
		kvs = append(kvs, &queryresult.KV{Key: k, Value: clone(t.ledger.state[k])})
	}
	return &stateIterator{kvs: kvs}, nil
}

func (t *Tx) GetStateByPartialCompositeKey(objectType string, keys []string) (ledger.StateQueryIterator, error) {
	kvs, _, err := t.partial(t.ledger.state, objectType, keys, 0, "")
	if err != nil {
		return nil, err
	}
	return &stateIterator{kvs: kvs}, nil
}

func (t *Tx) GetStateByPartialCompositeKeyWithPagination(objectType string, keys []string, pageSize int32, bookmark string) (ledger.StateQueryIterator, *pb.QueryResponseMetadata, error) {
	if pageSize <= 0 {
		return nil, nil, errors.Errorf("invalid page size [%d]", pageSize)
	}
	kvs, next, err := t.partial(t.ledger.state, objectType, keys, int(pageSize), bookmark)
	if err != nil {
		return nil, nil, err
	}
	return &stateIterator{kvs: kvs}, &pb.QueryResponseMetadata{FetchedRecordsCount: int32(len(kvs)), Bookmark: next}, nil
}

func (t *Tx) GetHistoryForKey(key string) (ledger.HistoryQueryIterator, error) {
	t.ledger.mu.RLock()
	defer t.ledger.mu.RUnlock()
	mods := t.ledger.history[key]
	res := make([]*queryresult.KeyModification, 0, len(mods))
	// newest first, as the peer returns them
	for i := len(mods) - 1; i >= 0; i-- {
		res = append(res, mods[i])
	}
	return &historyIterator{mods: res}, nil
}

func (t *Tx) GetPrivateData(collection, key string) ([]byte, error) {
	t.ledger.mu.RLock()
	defer t.ledger.mu.RUnlock()
	c, err := t.ledger.readCollection(t.peerOrg, collection)
	if err != nil {
		return nil, err
	}
	return clone(c.data[key]), nil
}

func (t *Tx) GetPrivateDataHash(collection, key string) ([]byte, error) {
	t.ledger.mu.RLock()
	defer t.ledger.mu.RUnlock()
	return t.ledger.hash(collection, key)
}

func (t *Tx) PutPrivateData(collection string, key string, value []byte) error {
	if len(collection) == 0 || len(key) == 0 {
		return errors.New("collection and key must not be empty")
	}
	if len(value) == 0 {
		return errors.New("private data value must not be empty")
	}
	t.writes = append(t.writes, write{collection: collection, key: key, value: clone(value)})
	return nil
}

func (t *Tx) DelPrivateData(collection, key string) error {
	if len(collection) == 0 || len(key) == 0 {
		return errors.New("collection and key must not be empty")
	}
	t.writes = append(t.writes, write{collection: collection, key: key, delete: true})
	return nil
}

func (t *Tx) GetPrivateDataByPartialCompositeKey(collection, objectType string, keys []string) (ledger.StateQueryIterator, error) {
	t.ledger.mu.RLock()
	c, err := t.ledger.readCollection(t.peerOrg, collection)
	t.ledger.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	kvs, _, err := t.partial(c.data, objectType, keys, 0, "")
	if err != nil {
		return nil, err
	}
	return &stateIterator{kvs: kvs}, nil
}

// partial returns up to limit entries of m under the partial key, starting at bookmark,
// and the key to resume from. A zero limit returns everything.
func (t *Tx) partial(m map[string][]byte, objectType string, keys []string, limit int, bookmark string) ([]*queryresult.KV, string, error) {
	partialKey, err := shim.CreateCompositeKey(objectType, keys)
	if err != nil {
		return nil, "", err
	}
	start, end := ledger.PartialCompositeKeyRange(partialKey)
	if len(bookmark) != 0 {
		if bookmark < start || bookmark >= end {
			return nil, "", errors.Errorf("bookmark [%x] is outside the queried range", bookmark)
		}
		start = bookmark
	}

	t.ledger.mu.RLock()
	defer t.ledger.mu.RUnlock()
	var kvs []*queryresult.KV
	for _, k := range sortedKeys(m, start, end) {
		if limit > 0 && len(kvs) == limit {
			return kvs, k, nil
		}
		kvs = append(kvs, &queryresult.KV{Key: k, Value: clone(m[k])})
	}
	return kvs, "", nil
}

func clone(v []byte) []byte {
	if v == nil {
		return nil
	}
	return append([]byte(nil), v...)
}

// Hash returns the hash the ledger keeps for a private value
func Hash(value []byte) []byte {
	return hash.SHA256OrPanic(value)
}
