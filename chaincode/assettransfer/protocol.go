/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package assettransfer

import (
	"encoding/json"
	"time"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/pvt"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/sbe"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/state"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/services/logging"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/utils/collections/iterators"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/utils/hash"
)

var logger = logging.MustGetLogger()

const (
	CreateAssetEvent   = "CreateAsset"
	TransferAssetEvent = "TransferAsset"
)

// Protocol moves assets between orgs that agree on a private appraisal.
// An asset goes from created, to agreed once a buyer records its appraisal and the
// agreement, to transferred once the owner verifies the appraisals match.
// It keeps no state between transactions.
type Protocol struct {
	router     *pvt.Router
	assets     *state.Store[*Asset]
	details    *state.Store[*AssetDetail]
	agreements *state.Store[*TransferAgreement]
	sales      *state.Store[*Receipt]
	buys       *state.Store[*Receipt]
}

// NewProtocol stores public assets under namespace and private data in the collections of router
func NewProtocol(namespace string, router *pvt.Router) (*Protocol, error) {
	if router == nil {
		return nil, errors.Wrapf(errors.Validation, "no collection router")
	}
	assets, err := state.NewStore[*Asset](namespace, state.JSONCodec[Asset, *Asset]{})
	if err != nil {
		return nil, err
	}
	details, err := state.NewStore[*AssetDetail](DetailClass, state.JSONCodec[AssetDetail, *AssetDetail]{})
	if err != nil {
		return nil, err
	}
	agreements, err := state.NewStore[*TransferAgreement](AgreementClass, state.JSONCodec[TransferAgreement, *TransferAgreement]{})
	if err != nil {
		return nil, err
	}
	sales, err := state.NewStore[*Receipt](SaleReceiptClass, state.JSONCodec[Receipt, *Receipt]{})
	if err != nil {
		return nil, err
	}
	buys, err := state.NewStore[*Receipt](BuyReceiptClass, state.JSONCodec[Receipt, *Receipt]{})
	if err != nil {
		return nil, err
	}
	return &Protocol{
		router:     router,
		assets:     assets,
		details:    details,
		agreements: agreements,
		sales:      sales,
		buys:       buys,
	}, nil
}

// NewAsset holds the public fields of an asset to create
type NewAsset struct {
	ID                string
	Color             string
	Size              int
	PublicDescription string
}

func (n *NewAsset) validate() error {
	if len(n.ID) == 0 {
		return errors.Wrapf(errors.Validation, "assetID must be a non-empty string")
	}
	if len(n.Color) == 0 {
		return errors.Wrapf(errors.Validation, "color must be a non-empty string")
	}
	if n.Size <= 0 {
		return errors.Wrapf(errors.Validation, "size must be a positive integer")
	}
	return nil
}

// CreateAsset writes the public asset, owned by the submitter, and the submitter org's appraisal.
// The appraisal comes from the transient field asset_properties and never reaches the world state.
// Only peers of the creating org may endorse later changes of the public asset.
func (p *Protocol) CreateAsset(ctx *ledger.Context, input *NewAsset) (*Asset, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	detail, err := readAppraisal(ctx, PropertiesKey, input.ID)
	if err != nil {
		return nil, err
	}
	collection, err := p.router.ClientCollection(ctx)
	if err != nil {
		return nil, err
	}
	ws := state.WorldState(ctx.Stub())
	exists, err := p.assets.Exists(ws, input.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Kindf(errors.AlreadyExists, nil, "asset [%s]", input.ID)
	}
	owner, err := ctx.SubmitterID()
	if err != nil {
		return nil, err
	}
	ownerOrg, err := ctx.ClientMSPID()
	if err != nil {
		return nil, err
	}

	asset := &Asset{
		ObjectType:        p.assets.Namespace(),
		ID:                input.ID,
		Color:             input.Color,
		Size:              input.Size,
		Owner:             owner,
		OwnerOrg:          ownerOrg,
		PublicDescription: input.PublicDescription,
	}
	if err := p.assets.Add(ws, asset); err != nil {
		return nil, err
	}
	if err := p.endorseBy(ctx, asset.ID, ownerOrg); err != nil {
		return nil, err
	}
	if err := p.details.Add(collection, detail); err != nil {
		return nil, err
	}
	if err := p.emit(ctx, CreateAssetEvent, asset); err != nil {
		return nil, err
	}
	logger.Infof("asset [%s] created by org [%s]", asset.ID, ownerOrg)
	return asset, nil
}

// AgreeToTransfer records the submitter's appraisal, from the transient field asset_value,
// in its org collection and makes the submitter the buyer of the asset.
// A later agreement on the same asset replaces the earlier one.
func (p *Protocol) AgreeToTransfer(ctx *ledger.Context, assetID string) (*TransferAgreement, error) {
	if len(assetID) == 0 {
		return nil, errors.Wrapf(errors.Validation, "assetID must be a non-empty string")
	}
	detail, err := readAppraisal(ctx, ValueKey, assetID)
	if err != nil {
		return nil, err
	}
	collection, err := p.router.ClientCollection(ctx)
	if err != nil {
		return nil, err
	}
	asset, err := p.ReadAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	buyerID, err := ctx.SubmitterID()
	if err != nil {
		return nil, err
	}
	buyerMSP, err := ctx.ClientMSPID()
	if err != nil {
		return nil, err
	}
	if buyerID == asset.Owner {
		return nil, errors.Wrapf(errors.Validation, "owner of asset [%s] cannot agree to buy it", assetID)
	}

	if err := p.details.Add(collection, detail); err != nil {
		return nil, err
	}
	agreement := &TransferAgreement{ID: assetID, BuyerID: buyerID, BuyerMSP: buyerMSP}
	if err := p.agreements.Update(p.router.Shared(ctx), agreement); err != nil {
		return nil, err
	}
	logger.Infof("agreement to transfer asset [%s] recorded in [%s]", assetID, collection.Name())
	return agreement, nil
}

// VerifyAgreement checks that the submitter owns the asset, that an agreement from a buyer of
// buyerOrg exists, and that the owner org and buyerOrg hold appraisals with byte-equal hashes.
// Appraised values are never read.
func (p *Protocol) VerifyAgreement(ctx *ledger.Context, assetID, buyerOrg string) (*Asset, *TransferAgreement, error) {
	if len(assetID) == 0 || len(buyerOrg) == 0 {
		return nil, nil, errors.Wrapf(errors.Validation, "assetID and buyerOrg must be non-empty strings")
	}
	asset, err := p.ReadAsset(ctx, assetID)
	if err != nil {
		return nil, nil, err
	}
	submitter, err := ctx.SubmitterID()
	if err != nil {
		return nil, nil, err
	}
	clientOrg, err := ctx.ClientMSPID()
	if err != nil {
		return nil, nil, err
	}
	if submitter != asset.Owner || clientOrg != asset.OwnerOrg {
		return nil, nil, errors.Wrapf(errors.Agreement, "submitting client is not the owner of asset [%s]", assetID)
	}

	agreement, err := p.agreements.Get(p.router.Shared(ctx), assetID)
	if err != nil {
		if errors.HasCause(err, errors.NotFound) {
			return nil, nil, errors.Wrapf(errors.Agreement, "no transfer agreement for asset [%s]", assetID)
		}
		return nil, nil, err
	}
	if agreement.BuyerMSP != buyerOrg {
		return nil, nil, errors.Wrapf(errors.Agreement, "transfer agreement for asset [%s] is from org [%s], not [%s]", assetID, agreement.BuyerMSP, buyerOrg)
	}

	ownerHash, err := p.detailHash(ctx, asset.OwnerOrg, assetID)
	if err != nil {
		return nil, nil, err
	}
	buyerHash, err := p.detailHash(ctx, buyerOrg, assetID)
	if err != nil {
		return nil, nil, err
	}
	if !hash.Equal(ownerHash, buyerHash) {
		logger.Warnf("appraisal hashes of asset [%s] differ: [%s] vs [%s]", assetID, logging.Base64(ownerHash), logging.Base64(buyerHash))
		return nil, nil, errors.Wrapf(errors.Agreement, "hash of appraised value for asset [%s] in [%s] does not match the one in [%s]", assetID, asset.OwnerOrg, buyerOrg)
	}
	return asset, agreement, nil
}

// TransferAsset hands the asset to the buyer recorded in the agreement, after verifying it.
// Writes are not undone on a later failure: the failed transaction is discarded as a whole.
func (p *Protocol) TransferAsset(ctx *ledger.Context, assetID, buyerOrg string) (*Asset, error) {
	if err := p.router.VerifyInvokerOrgMatchesPeerOrg(ctx); err != nil {
		return nil, err
	}
	asset, agreement, err := p.VerifyAgreement(ctx, assetID, buyerOrg)
	if err != nil {
		return nil, err
	}
	sellerOrg := asset.OwnerOrg
	seller, err := p.router.OrgCollection(ctx, sellerOrg)
	if err != nil {
		return nil, err
	}
	buyer, err := p.router.OrgCollection(ctx, buyerOrg)
	if err != nil {
		return nil, err
	}
	// read before deleting, the transaction does not see its own writes
	detail, err := p.details.Get(seller, assetID)
	if err != nil {
		return nil, err
	}

	asset.Owner = agreement.BuyerID
	asset.OwnerOrg = buyerOrg
	ws := state.WorldState(ctx.Stub())
	if err := p.assets.Update(ws, asset); err != nil {
		return nil, err
	}
	if err := p.endorseBy(ctx, assetID, buyerOrg); err != nil {
		return nil, err
	}
	if seller.Name() != buyer.Name() {
		if err := p.details.Delete(seller, assetID); err != nil {
			return nil, err
		}
	}
	if err := p.agreements.Delete(p.router.Shared(ctx), assetID); err != nil {
		return nil, err
	}
	if err := p.writeReceipts(ctx, seller, buyer, detail); err != nil {
		return nil, err
	}
	if err := p.emit(ctx, TransferAssetEvent, asset); err != nil {
		return nil, err
	}
	logger.Infof("asset [%s] transferred from org [%s] to org [%s]", assetID, sellerOrg, buyerOrg)
	return asset, nil
}

// ChangePublicDescription updates the public description. Only the owner org may change it.
func (p *Protocol) ChangePublicDescription(ctx *ledger.Context, assetID, description string) (*Asset, error) {
	asset, err := p.ownedBySubmitterOrg(ctx, assetID)
	if err != nil {
		return nil, err
	}
	asset.PublicDescription = description
	if err := p.assets.Update(state.WorldState(ctx.Stub()), asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// DeleteAsset removes the public asset, the owner org's appraisal and any pending agreement.
// Only the owner may delete it.
func (p *Protocol) DeleteAsset(ctx *ledger.Context, assetID string) error {
	asset, err := p.ownedBySubmitterOrg(ctx, assetID)
	if err != nil {
		return err
	}
	submitter, err := ctx.SubmitterID()
	if err != nil {
		return err
	}
	if submitter != asset.Owner {
		return errors.Wrapf(errors.Authorization, "submitting client is not the owner of asset [%s]", assetID)
	}
	collection, err := p.router.ClientCollection(ctx)
	if err != nil {
		return err
	}
	if err := p.assets.Delete(state.WorldState(ctx.Stub()), assetID); err != nil {
		return err
	}
	if err := p.details.Delete(collection, assetID); err != nil {
		return err
	}
	if err := p.agreements.Delete(p.router.Shared(ctx), assetID); err != nil {
		return err
	}
	logger.Infof("asset [%s] deleted", assetID)
	return nil
}

// VerifyAssetDetails tells whether the appraisal in the transient field asset_value
// hashes to what the owner org keeps for the asset
func (p *Protocol) VerifyAssetDetails(ctx *ledger.Context, assetID string) (bool, error) {
	detail, err := readAppraisal(ctx, ValueKey, assetID)
	if err != nil {
		return false, err
	}
	asset, err := p.ReadAsset(ctx, assetID)
	if err != nil {
		return false, err
	}
	raw, err := state.JSONCodec[AssetDetail, *AssetDetail]{}.Marshal(detail)
	if err != nil {
		return false, err
	}
	expected, err := hash.SHA256(raw)
	if err != nil {
		return false, errors.Kindf(errors.Validation, err, "failed hashing appraisal")
	}
	actual, err := p.detailHash(ctx, asset.OwnerOrg, assetID)
	if err != nil {
		return false, err
	}
	return hash.Equal(expected, actual), nil
}

// ReadAsset returns the public asset, failing with NotFound when it does not exist
func (p *Protocol) ReadAsset(ctx *ledger.Context, assetID string) (*Asset, error) {
	if len(assetID) == 0 {
		return nil, errors.Wrapf(errors.Validation, "assetID must be a non-empty string")
	}
	return p.assets.Get(state.WorldState(ctx.Stub()), assetID)
}

// AssetExists tells whether the public asset exists
func (p *Protocol) AssetExists(ctx *ledger.Context, assetID string) (bool, error) {
	if len(assetID) == 0 {
		return false, errors.Wrapf(errors.Validation, "assetID must be a non-empty string")
	}
	return p.assets.Exists(state.WorldState(ctx.Stub()), assetID)
}

// ReadAssetPrivateDetails reads an appraisal from a collection the peer is a member of
func (p *Protocol) ReadAssetPrivateDetails(ctx *ledger.Context, collection, assetID string) (*AssetDetail, error) {
	if len(collection) == 0 || len(assetID) == 0 {
		return nil, errors.Wrapf(errors.Validation, "collection and assetID must be non-empty strings")
	}
	return p.details.Get(pvt.NewCollection(ctx.Stub(), collection), assetID)
}

// ReadTransferAgreement returns the pending agreement on the asset, failing with NotFound when there is none
func (p *Protocol) ReadTransferAgreement(ctx *ledger.Context, assetID string) (*TransferAgreement, error) {
	if len(assetID) == 0 {
		return nil, errors.Wrapf(errors.Validation, "assetID must be a non-empty string")
	}
	return p.agreements.Get(p.router.Shared(ctx), assetID)
}

// ListAssets returns every public asset. Entries that do not decode are skipped.
func (p *Protocol) ListAssets(ctx *ledger.Context) ([]*Asset, error) {
	it, err := p.assets.ScanAll(state.WorldState(ctx.Stub()))
	if err != nil {
		return nil, err
	}
	entries, err := iterators.ReadAllPointers[state.Entry[*Asset]](it)
	if err != nil {
		return nil, err
	}
	return decodedAssets(entries), nil
}

// ListAssetsWithPagination returns at most pageSize public assets starting at bookmark
func (p *Protocol) ListAssetsWithPagination(ctx *ledger.Context, pageSize int32, bookmark string) (*AssetPage, error) {
	page, err := p.assets.ScanPage(state.WorldState(ctx.Stub()), pageSize, bookmark)
	if err != nil {
		return nil, err
	}
	return &AssetPage{
		Assets:              decodedAssets(page.Entries),
		FetchedRecordsCount: page.Fetched,
		Bookmark:            page.Bookmark,
	}, nil
}

// GetAssetHistory returns the modifications of the public asset, newest first
func (p *Protocol) GetAssetHistory(ctx *ledger.Context, assetID string) ([]*AssetModification, error) {
	if len(assetID) == 0 {
		return nil, errors.Wrapf(errors.Validation, "assetID must be a non-empty string")
	}
	it, err := p.assets.History(state.WorldState(ctx.Stub()), assetID)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	history := make([]*AssetModification, 0)
	for {
		m, err := it.Next()
		if err != nil {
			return nil, err
		}
		if m == nil {
			return history, nil
		}
		history = append(history, &AssetModification{
			TxID:      m.TxID,
			Timestamp: m.Timestamp.Format(time.RFC3339),
			IsDelete:  m.IsDelete,
			Asset:     m.Record,
		})
	}
}

func decodedAssets(entries []*state.Entry[*Asset]) []*Asset {
	assets := make([]*Asset, 0, len(entries))
	for _, e := range entries {
		if !e.Decoded() {
			logger.Warnf("skipping asset [%s]: %s", e.Key, e.DecodeErr)
			continue
		}
		assets = append(assets, e.Record)
	}
	return assets
}

func (p *Protocol) ownedBySubmitterOrg(ctx *ledger.Context, assetID string) (*Asset, error) {
	if err := p.router.VerifyInvokerOrgMatchesPeerOrg(ctx); err != nil {
		return nil, err
	}
	asset, err := p.ReadAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	clientOrg, err := ctx.ClientMSPID()
	if err != nil {
		return nil, err
	}
	if clientOrg != asset.OwnerOrg {
		return nil, errors.Wrapf(errors.Authorization, "client from org [%s] does not own asset [%s]", clientOrg, assetID)
	}
	return asset, nil
}

func (p *Protocol) detailHash(ctx *ledger.Context, org, assetID string) ([]byte, error) {
	collection, err := p.router.OrgCollection(ctx, org)
	if err != nil {
		return nil, err
	}
	key, err := p.details.LedgerKey(collection, assetID)
	if err != nil {
		return nil, err
	}
	h, err := collection.Hash(key)
	if err != nil {
		if errors.HasCause(err, errors.NotFound) {
			return nil, errors.Wrapf(errors.Agreement, "no appraisal of asset [%s] in [%s]", assetID, collection.Name())
		}
		return nil, err
	}
	return h, nil
}

func (p *Protocol) endorseBy(ctx *ledger.Context, assetID, org string) error {
	key, err := p.assets.LedgerKey(ctx.Stub(), assetID)
	if err != nil {
		return err
	}
	return sbe.SetOrgEndorsement(ctx.Stub(), key, org)
}

func (p *Protocol) writeReceipts(ctx *ledger.Context, seller, buyer *pvt.Collection, detail *AssetDetail) error {
	ts, err := ctx.TxTime()
	if err != nil {
		return err
	}
	txID := ctx.Stub().GetTxID()
	receipt := func(class string) *Receipt {
		return &Receipt{
			Type:           class,
			ID:             detail.ID,
			TxID:           txID,
			AppraisedValue: detail.AppraisedValue,
			Timestamp:      ts.Format(time.RFC3339),
		}
	}
	if err := p.sales.Add(seller, receipt(SaleReceiptClass)); err != nil {
		return err
	}
	return p.buys.Add(buyer, receipt(BuyReceiptClass))
}

func (p *Protocol) emit(ctx *ledger.Context, name string, asset *Asset) error {
	payload, err := json.Marshal(asset)
	if err != nil {
		return errors.Kindf(errors.Validation, err, "failed marshalling event [%s]", name)
	}
	if err := ctx.Stub().SetEvent(name, payload); err != nil {
		return errors.Kindf(errors.Write, err, "failed setting event [%s]", name)
	}
	return nil
}
