/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pvt

import (
	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/services/logging"
)

// Collection is a private data collection seen from the current transaction.
// It can back a state.Store.
type Collection struct {
	stub interface {
		ledger.PrivateData
		ledger.KeyBuilder
	}
	name string
}

func NewCollection(stub ledger.Stub, name string) *Collection {
	return &Collection{stub: stub, name: name}
}

func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) Get(key string) ([]byte, error) {
	return c.stub.GetPrivateData(c.name, key)
}

func (c *Collection) Put(key string, value []byte) error {
	return c.stub.PutPrivateData(c.name, key, value)
}

func (c *Collection) Delete(key string) error {
	return c.stub.DelPrivateData(c.name, key)
}

func (c *Collection) ScanPartial(objectType string, parts []string) (ledger.StateQueryIterator, error) {
	return c.stub.GetPrivateDataByPartialCompositeKey(c.name, objectType, parts)
}

func (c *Collection) CreateCompositeKey(objectType string, attributes []string) (string, error) {
	return c.stub.CreateCompositeKey(objectType, attributes)
}

func (c *Collection) SplitCompositeKey(compositeKey string) (string, []string, error) {
	return c.stub.SplitCompositeKey(compositeKey)
}

// Hash returns the SHA-256 the ledger keeps for key, available to members and non-members alike.
// Absence fails with NotFound.
func (c *Collection) Hash(key string) ([]byte, error) {
	h, err := c.stub.GetPrivateDataHash(c.name, key)
	if err != nil {
		return nil, errors.Kindf(errors.Read, err, "failed reading hash of [%s] in [%s]", logging.Printable(key), c.name)
	}
	if len(h) == 0 {
		return nil, errors.Kindf(errors.NotFound, nil, "hash of [%s] in [%s]", logging.Printable(key), c.name)
	}
	logger.Debugf("hash of [%s] in [%s] is [%s]", logging.Printable(key), c.name, logging.Base64(h))
	return h, nil
}
