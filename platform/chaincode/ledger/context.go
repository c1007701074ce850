/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"encoding/base64"
	"time"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// PeerMSPIDFunc returns the MSP id of the peer executing the chaincode
type PeerMSPIDFunc func() (string, error)

// Context bundles what a single invocation may use: the stub, the submitter and the executing peer's org.
// It is built per transaction and never cached.
type Context struct {
	stub      Stub
	identity  Identity
	peerMSPID PeerMSPIDFunc
}

func NewContext(stub Stub, identity Identity, peerMSPID PeerMSPIDFunc) *Context {
	return &Context{stub: stub, identity: identity, peerMSPID: peerMSPID}
}

// FromTransactionContext adapts the context handed to contract functions.
// When peerMSPID is nil, the peer org is read from the environment the peer launched the chaincode with.
func FromTransactionContext(ctx contractapi.TransactionContextInterface, peerMSPID PeerMSPIDFunc) *Context {
	if peerMSPID == nil {
		peerMSPID = shim.GetMSPID
	}
	return NewContext(ctx.GetStub(), ctx.GetClientIdentity(), peerMSPID)
}

func (c *Context) Stub() Stub {
	return c.stub
}

func (c *Context) Identity() Identity {
	return c.identity
}

// PeerMSPID returns the org of the executing peer
func (c *Context) PeerMSPID() (string, error) {
	id, err := c.peerMSPID()
	if err != nil {
		return "", errors.Kindf(errors.Authorization, err, "failed getting peer MSPID")
	}
	if len(id) == 0 {
		return "", errors.Wrapf(errors.Authorization, "peer MSPID is empty")
	}
	return id, nil
}

// ClientMSPID returns the org of the submitting client
func (c *Context) ClientMSPID() (string, error) {
	id, err := c.identity.GetMSPID()
	if err != nil {
		return "", errors.Kindf(errors.Authorization, err, "failed getting client MSPID")
	}
	if len(id) == 0 {
		return "", errors.Wrapf(errors.Authorization, "client MSPID is empty")
	}
	return id, nil
}

// SubmitterID returns the decoded identity of the submitting client
func (c *Context) SubmitterID() (string, error) {
	b64ID, err := c.identity.GetID()
	if err != nil {
		return "", errors.Kindf(errors.Authorization, err, "failed reading client identity")
	}
	decoded, err := base64.StdEncoding.DecodeString(b64ID)
	if err != nil {
		return "", errors.Kindf(errors.Authorization, err, "failed to base64 decode client identity")
	}
	if len(decoded) == 0 {
		return "", errors.Wrapf(errors.Authorization, "client identity is empty")
	}
	return string(decoded), nil
}

// Transient returns the value of a transient field, failing when it is missing or empty
func (c *Context) Transient(key string) ([]byte, error) {
	transientMap, err := c.stub.GetTransient()
	if err != nil {
		return nil, errors.Kindf(errors.Read, err, "error getting transient")
	}
	value, ok := transientMap[key]
	if !ok || len(value) == 0 {
		return nil, errors.Wrapf(errors.Validation, "%s key not found in the transient map input", key)
	}
	return value, nil
}

// TxTime returns the timestamp the client set on the transaction proposal.
// Every endorser sees the same value, unlike the local clock.
func (c *Context) TxTime() (time.Time, error) {
	ts, err := c.stub.GetTxTimestamp()
	if err != nil {
		return time.Time{}, errors.Kindf(errors.Read, err, "failed getting transaction timestamp")
	}
	if err := ts.CheckValid(); err != nil {
		return time.Time{}, errors.Kindf(errors.Validation, err, "invalid transaction timestamp")
	}
	return ts.AsTime().UTC(), nil
}
