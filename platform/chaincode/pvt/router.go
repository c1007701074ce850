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

var logger = logging.MustGetLogger()

// Router resolves the private collections of a deployment.
// A deployment uses a single naming scheme.
type Router struct {
	naming Naming
	shared string
}

func NewRouter(naming Naming, shared string) (*Router, error) {
	if naming == nil {
		return nil, errors.Wrapf(errors.Validation, "no collection naming")
	}
	if len(shared) == 0 {
		return nil, errors.Wrapf(errors.Validation, "no shared collection")
	}
	return &Router{naming: naming, shared: shared}, nil
}

// CollectionFor returns the private collection of org
func (r *Router) CollectionFor(mspID string) (string, error) {
	if len(mspID) == 0 {
		return "", errors.Wrapf(errors.Validation, "empty MSPID")
	}
	return r.naming.CollectionName(mspID), nil
}

// SharedCollection returns the collection every org of the deployment is a member of
func (r *Router) SharedCollection() string {
	return r.shared
}

// VerifyInvokerOrgMatchesPeerOrg fails with Authorization unless the submitting client
// belongs to the org of the peer executing the transaction.
// It gates every write to an org collection and must run before it.
func (r *Router) VerifyInvokerOrgMatchesPeerOrg(ctx *ledger.Context) error {
	clientMSPID, err := ctx.ClientMSPID()
	if err != nil {
		return err
	}
	peerMSPID, err := ctx.PeerMSPID()
	if err != nil {
		return err
	}
	if clientMSPID != peerMSPID {
		logger.Warnf("client from org [%s] is not authorized to read or write private data from an org [%s] peer", clientMSPID, peerMSPID)
		return errors.Wrapf(errors.Authorization, "client from org [%s] is not authorized to read or write private data from an org [%s] peer", clientMSPID, peerMSPID)
	}
	return nil
}

// ClientCollection verifies the org match and returns the collection of the client's org
func (r *Router) ClientCollection(ctx *ledger.Context) (*Collection, error) {
	if err := r.VerifyInvokerOrgMatchesPeerOrg(ctx); err != nil {
		return nil, err
	}
	clientMSPID, err := ctx.ClientMSPID()
	if err != nil {
		return nil, err
	}
	name, err := r.CollectionFor(clientMSPID)
	if err != nil {
		return nil, err
	}
	return NewCollection(ctx.Stub(), name), nil
}

// OrgCollection returns the collection of org, without any membership check.
// Non-members can only read its hashes.
func (r *Router) OrgCollection(ctx *ledger.Context, mspID string) (*Collection, error) {
	name, err := r.CollectionFor(mspID)
	if err != nil {
		return nil, err
	}
	return NewCollection(ctx.Stub(), name), nil
}

// Shared returns the shared collection
func (r *Router) Shared(ctx *ledger.Context) *Collection {
	return NewCollection(ctx.Stub(), r.shared)
}
