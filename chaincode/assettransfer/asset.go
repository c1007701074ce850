/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package assettransfer

import (
	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
)

const (
	// DetailClass tags the appraisal an org keeps in its own collection
	DetailClass = "assetDetail"
	// AgreementClass tags transfer agreements in the shared collection
	AgreementClass = "transferAgreement"
	// SaleReceiptClass and BuyReceiptClass tag the receipts left to the seller and the buyer
	SaleReceiptClass = "SR"
	BuyReceiptClass  = "BR"
)

// Asset is the public part of an asset, readable by every org of the channel
type Asset struct {
	ObjectType        string `json:"objectType"`
	ID                string `json:"assetID"`
	Color             string `json:"color"`
	Size              int    `json:"size"`
	Owner             string `json:"owner"`
	OwnerOrg          string `json:"ownerOrg"`
	PublicDescription string `json:"publicDescription"`
}

func (a *Asset) Class() string { return a.ObjectType }

func (a *Asset) KeyParts() []string { return []string{a.ID} }

func (a *Asset) Validate() error {
	if len(a.ID) == 0 {
		return errors.Wrapf(errors.Validation, "asset without id")
	}
	if len(a.Owner) == 0 || len(a.OwnerOrg) == 0 {
		return errors.Wrapf(errors.Validation, "asset [%s] without owner", a.ID)
	}
	return nil
}

// AssetDetail is an org's private appraisal of an asset.
// Every org stores it under the same key, so that equal appraisals have equal hashes.
type AssetDetail struct {
	ID             string `json:"assetID"`
	AppraisedValue int    `json:"appraisedValue"`
}

func (d *AssetDetail) Class() string { return DetailClass }

func (d *AssetDetail) KeyParts() []string { return []string{d.ID} }

func (d *AssetDetail) Validate() error {
	if len(d.ID) == 0 {
		return errors.Wrapf(errors.Validation, "asset detail without id")
	}
	if d.AppraisedValue <= 0 {
		return errors.Wrapf(errors.Validation, "appraised value of [%s] must be a positive integer", d.ID)
	}
	return nil
}

// TransferAgreement records who agreed to buy an asset, and in which org the buyer keeps its appraisal
type TransferAgreement struct {
	ID       string `json:"assetID"`
	BuyerID  string `json:"buyerID"`
	BuyerMSP string `json:"buyerMSP"`
}

func (t *TransferAgreement) Class() string { return AgreementClass }

func (t *TransferAgreement) KeyParts() []string { return []string{t.ID} }

func (t *TransferAgreement) Validate() error {
	if len(t.ID) == 0 || len(t.BuyerID) == 0 || len(t.BuyerMSP) == 0 {
		return errors.Wrapf(errors.Validation, "transfer agreement without asset or buyer")
	}
	return nil
}

// Receipt is the private trace of a completed transfer
type Receipt struct {
	Type           string `json:"type"`
	ID             string `json:"assetID"`
	TxID           string `json:"txID"`
	AppraisedValue int    `json:"appraisedValue"`
	Timestamp      string `json:"timestamp"`
}

func (r *Receipt) Class() string { return r.Type }

func (r *Receipt) KeyParts() []string { return []string{r.ID, r.TxID} }

// AssetPage is a page of ListAssetsWithPagination
type AssetPage struct {
	Assets              []*Asset `json:"assets"`
	FetchedRecordsCount int32    `json:"fetchedRecordsCount"`
	Bookmark            string   `json:"bookmark"`
}

// AssetModification is an entry of GetAssetHistory
type AssetModification struct {
	TxID      string `json:"txId"`
	Timestamp string `json:"timestamp"`
	IsDelete  bool   `json:"isDelete"`
	Asset     *Asset `json:"asset,omitempty" metadata:",optional"`
}
