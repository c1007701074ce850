/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sbe

import (
	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/services/logging"
	"github.com/hyperledger/fabric-chaincode-go/pkg/statebased"
)

var logger = logging.MustGetLogger()

// ValidationParameterSetter installs key-level endorsement policies
type ValidationParameterSetter interface {
	SetStateValidationParameter(key string, ep []byte) error
}

// OrgPolicy returns a key-level endorsement policy requiring a peer of each org
func OrgPolicy(orgs ...string) ([]byte, error) {
	if len(orgs) == 0 {
		return nil, errors.Wrapf(errors.Validation, "no orgs for endorsement policy")
	}
	ep, err := statebased.NewStateEP(nil)
	if err != nil {
		return nil, errors.Kindf(errors.Validation, err, "failed creating endorsement policy")
	}
	if err := ep.AddOrgs(statebased.RoleTypePeer, orgs...); err != nil {
		return nil, errors.Kindf(errors.Validation, err, "failed adding orgs %v to endorsement policy", orgs)
	}
	policy, err := ep.Policy()
	if err != nil {
		return nil, errors.Kindf(errors.Validation, err, "failed marshalling endorsement policy")
	}
	return policy, nil
}

// SetOrgEndorsement restricts future writes of key to transactions endorsed by a peer of each org
func SetOrgEndorsement(stub ValidationParameterSetter, key string, orgs ...string) error {
	policy, err := OrgPolicy(orgs...)
	if err != nil {
		return err
	}
	logger.Debugf("setting endorsement of [%s] to peers of %v", logging.Printable(key), orgs)
	if err := stub.SetStateValidationParameter(key, policy); err != nil {
		return errors.Kindf(errors.Write, err, "failed setting state based endorsement for orgs %v", orgs)
	}
	return nil
}

// Orgs lists the orgs a key-level endorsement policy requires
func Orgs(policy []byte) ([]string, error) {
	ep, err := statebased.NewStateEP(policy)
	if err != nil {
		return nil, errors.Kindf(errors.Deserialization, err, "failed parsing endorsement policy")
	}
	return ep.ListOrgs(), nil
}
