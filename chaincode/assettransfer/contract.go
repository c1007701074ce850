/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package assettransfer

import (
	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/config"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// ContractName is the name clients prefix transactions with, as in AssetTransfer:ReadAsset
const ContractName = "AssetTransfer"

// Contract exposes the asset transfer protocol as chaincode transactions
type Contract struct {
	contractapi.Contract

	protocol  *Protocol
	peerMSPID ledger.PeerMSPIDFunc
}

func NewContract(c *config.Config) (*Contract, error) {
	router, err := c.Router()
	if err != nil {
		return nil, err
	}
	protocol, err := NewProtocol(c.Asset.Namespace, router)
	if err != nil {
		return nil, err
	}
	contract := &Contract{protocol: protocol, peerMSPID: c.PeerMSPID()}
	contract.Name = ContractName
	contract.Info.Title = "Asset transfer"
	contract.Info.Description = "Transfers assets between orgs agreeing on a private appraised value"
	contract.Info.Version = "1.0.0"
	return contract, nil
}

// GetEvaluateTransactions lists the read-only transactions, clients evaluate them instead of submitting
func (s *Contract) GetEvaluateTransactions() []string {
	return []string{
		"ReadAsset",
		"ReadAssetPrivateDetails",
		"ReadTransferAgreement",
		"AssetExists",
		"ListAssets",
		"ListAssetsWithPagination",
		"GetAssetHistory",
		"VerifyTransferAgreement",
		"VerifyAssetDetails",
	}
}

func (s *Contract) context(ctx contractapi.TransactionContextInterface) *ledger.Context {
	return ledger.FromTransactionContext(ctx, s.peerMSPID)
}

// CreateAsset creates an asset owned by the submitter.
// The transient field asset_properties carries {"appraisedValue": n}.
func (s *Contract) CreateAsset(ctx contractapi.TransactionContextInterface, assetID string, color string, size int, publicDescription string) error {
	_, err := s.protocol.CreateAsset(s.context(ctx), &NewAsset{
		ID:                assetID,
		Color:             color,
		Size:              size,
		PublicDescription: publicDescription,
	})
	return err
}

// AgreeToTransfer records the submitter's appraisal, carried by the transient field asset_value,
// and makes the submitter the buyer of the asset
func (s *Contract) AgreeToTransfer(ctx contractapi.TransactionContextInterface, assetID string) error {
	_, err := s.protocol.AgreeToTransfer(s.context(ctx), assetID)
	return err
}

// TransferAsset transfers the asset to the agreed buyer of buyerOrg
func (s *Contract) TransferAsset(ctx contractapi.TransactionContextInterface, assetID string, buyerOrg string) error {
	_, err := s.protocol.TransferAsset(s.context(ctx), assetID, buyerOrg)
	return err
}

// VerifyTransferAgreement dry runs the checks TransferAsset performs
func (s *Contract) VerifyTransferAgreement(ctx contractapi.TransactionContextInterface, assetID string, buyerOrg string) (bool, error) {
	if _, _, err := s.protocol.VerifyAgreement(s.context(ctx), assetID, buyerOrg); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Contract) ChangePublicDescription(ctx contractapi.TransactionContextInterface, assetID string, description string) error {
	_, err := s.protocol.ChangePublicDescription(s.context(ctx), assetID, description)
	return err
}

func (s *Contract) DeleteAsset(ctx contractapi.TransactionContextInterface, assetID string) error {
	return s.protocol.DeleteAsset(s.context(ctx), assetID)
}

// VerifyAssetDetails tells whether the appraisal in the transient field asset_value matches the owner's
func (s *Contract) VerifyAssetDetails(ctx contractapi.TransactionContextInterface, assetID string) (bool, error) {
	return s.protocol.VerifyAssetDetails(s.context(ctx), assetID)
}

func (s *Contract) ReadAsset(ctx contractapi.TransactionContextInterface, assetID string) (*Asset, error) {
	asset, err := s.protocol.ReadAsset(s.context(ctx), assetID)
	if err != nil {
		return nil, notExisting(err, "asset [%s]", assetID)
	}
	return asset, nil
}

func (s *Contract) ReadAssetPrivateDetails(ctx contractapi.TransactionContextInterface, collection string, assetID string) (*AssetDetail, error) {
	detail, err := s.protocol.ReadAssetPrivateDetails(s.context(ctx), collection, assetID)
	if err != nil {
		return nil, notExisting(err, "details of asset [%s] in [%s]", assetID, collection)
	}
	return detail, nil
}

func (s *Contract) ReadTransferAgreement(ctx contractapi.TransactionContextInterface, assetID string) (*TransferAgreement, error) {
	agreement, err := s.protocol.ReadTransferAgreement(s.context(ctx), assetID)
	if err != nil {
		return nil, notExisting(err, "transfer agreement for asset [%s]", assetID)
	}
	return agreement, nil
}

func (s *Contract) AssetExists(ctx contractapi.TransactionContextInterface, assetID string) (bool, error) {
	return s.protocol.AssetExists(s.context(ctx), assetID)
}

func (s *Contract) ListAssets(ctx contractapi.TransactionContextInterface) ([]*Asset, error) {
	return s.protocol.ListAssets(s.context(ctx))
}

func (s *Contract) ListAssetsWithPagination(ctx contractapi.TransactionContextInterface, pageSize int32, bookmark string) (*AssetPage, error) {
	return s.protocol.ListAssetsWithPagination(s.context(ctx), pageSize, bookmark)
}

func (s *Contract) GetAssetHistory(ctx contractapi.TransactionContextInterface, assetID string) ([]*AssetModification, error) {
	return s.protocol.GetAssetHistory(s.context(ctx), assetID)
}

// notExisting rewords NotFound for clients, keeping its kind
func notExisting(err error, format string, args ...any) error {
	if errors.Kind(err) == errors.NotFound {
		return errors.Kindf(errors.NotFound, nil, format+" does not exist", args...)
	}
	return err
}
