/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package assettransfer

import (
	"encoding/json"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
)

const (
	// PropertiesKey carries the private properties of a new asset
	PropertiesKey = "asset_properties"
	// ValueKey carries the appraisal of a prospective buyer, or the one to verify
	ValueKey = "asset_value"
)

// appraisal is the transient input holding a private appraised value.
// AssetID is optional, when given it must match the asset the transaction is about.
type appraisal struct {
	AssetID        string `json:"assetID"`
	AppraisedValue int    `json:"appraisedValue"`
}

// readAppraisal decodes the transient field key into the detail of assetID
func readAppraisal(ctx *ledger.Context, key, assetID string) (*AssetDetail, error) {
	raw, err := ctx.Transient(key)
	if err != nil {
		return nil, err
	}
	input := &appraisal{}
	if err := json.Unmarshal(raw, input); err != nil {
		return nil, errors.Kindf(errors.Validation, err, "failed to unmarshal %s", key)
	}
	if len(input.AssetID) != 0 && input.AssetID != assetID {
		return nil, errors.Wrapf(errors.Validation, "%s is about asset [%s], not [%s]", key, input.AssetID, assetID)
	}
	detail := &AssetDetail{ID: assetID, AppraisedValue: input.AppraisedValue}
	if err := detail.Validate(); err != nil {
		return nil, err
	}
	return detail, nil
}
