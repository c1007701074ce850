/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"github.com/hyperledger/fabric-chaincode-go/shim"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// StateQueryIterator iterates over the results of a range or partial composite key query
type StateQueryIterator = shim.StateQueryIteratorInterface

// HistoryQueryIterator iterates over the modifications of a key
type HistoryQueryIterator = shim.HistoryQueryIteratorInterface

// WorldState is the flat key-value view of the public ledger for the current transaction
type WorldState interface {
	GetState(key string) ([]byte, error)
	PutState(key string, value []byte) error
	DelState(key string) error
	GetStateByRange(startKey, endKey string) (StateQueryIterator, error)
	GetStateByPartialCompositeKey(objectType string, keys []string) (StateQueryIterator, error)
	GetStateByPartialCompositeKeyWithPagination(objectType string, keys []string, pageSize int32, bookmark string) (StateQueryIterator, *pb.QueryResponseMetadata, error)
	GetHistoryForKey(key string) (HistoryQueryIterator, error)
	SetStateValidationParameter(key string, ep []byte) error
}

// PrivateData gives access to the private data collections the peer is a member of
type PrivateData interface {
	GetPrivateData(collection, key string) ([]byte, error)
	PutPrivateData(collection string, key string, value []byte) error
	DelPrivateData(collection, key string) error
	GetPrivateDataHash(collection, key string) ([]byte, error)
	GetPrivateDataByPartialCompositeKey(collection, objectType string, keys []string) (StateQueryIterator, error)
}

// KeyBuilder builds and splits the namespace-qualified keys written to the ledger
type KeyBuilder interface {
	CreateCompositeKey(objectType string, attributes []string) (string, error)
	SplitCompositeKey(compositeKey string) (string, []string, error)
}

// Stub is the subset of the chaincode stub the contracts depend on.
// shim.ChaincodeStubInterface satisfies it.
type Stub interface {
	WorldState
	PrivateData
	KeyBuilder

	GetTransient() (map[string][]byte, error)
	GetTxID() string
	GetTxTimestamp() (*timestamppb.Timestamp, error)
	SetEvent(name string, payload []byte) error
}

// Identity exposes the submitter of the current transaction.
// cid.ClientIdentity satisfies it.
type Identity interface {
	GetID() (string, error)
	GetMSPID() (string, error)
}
