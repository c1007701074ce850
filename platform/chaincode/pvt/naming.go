/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pvt

import (
	"strings"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
)

// Scheme names a collection naming convention
type Scheme string

const (
	// Implicit uses the per-org collections every channel has, _implicit_org_<MSPID>
	Implicit Scheme = "implicit"
	// Explicit uses collections declared in the collection config, <MSPID>PrivateCollection
	Explicit Scheme = "explicit"
)

const (
	implicitPrefix = "_implicit_org_"
	explicitSuffix = "PrivateCollection"
)

// Naming maps an org to the name of its private collection
type Naming interface {
	Scheme() Scheme
	CollectionName(mspID string) string
}

// NamingFor returns the naming of the given scheme
func NamingFor(scheme Scheme) (Naming, error) {
	switch Scheme(strings.ToLower(string(scheme))) {
	case Implicit:
		return ImplicitNaming{}, nil
	case Explicit:
		return ExplicitNaming{}, nil
	default:
		return nil, errors.Wrapf(errors.Validation, "unknown collection naming scheme [%s]", scheme)
	}
}

type ImplicitNaming struct{}

func (ImplicitNaming) Scheme() Scheme { return Implicit }

func (ImplicitNaming) CollectionName(mspID string) string {
	return implicitPrefix + mspID
}

type ExplicitNaming struct{}

func (ExplicitNaming) Scheme() Scheme { return Explicit }

func (ExplicitNaming) CollectionName(mspID string) string {
	return mspID + explicitSuffix
}
