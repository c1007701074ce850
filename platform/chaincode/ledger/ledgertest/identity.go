/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledgertest

import (
	"encoding/base64"
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/pkg/cid"
)

// Identity is a submitting client. Only GetID and GetMSPID are implemented.
type Identity struct {
	cid.ClientIdentity

	MSPID string
	// ID is the decoded X.509 identity, e.g. x509::CN=alice::CN=ca
	ID string
}

// NewIdentity returns a client of org named after the common name of its certificate
func NewIdentity(mspID, commonName string) *Identity {
	return &Identity{
		MSPID: mspID,
		ID:    fmt.Sprintf("x509::CN=%s,OU=client::CN=ca.%s", commonName, mspID),
	}
}

// GetID returns the base64 encoded identity, as cid does
func (i *Identity) GetID() (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(i.ID)), nil
}

func (i *Identity) GetMSPID() (string, error) {
	return i.MSPID, nil
}
