/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package assettransfer

import (
	"encoding/json"
	"testing"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger/ledgertest"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/pvt"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/sbe"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	org1 = "Org1MSP"
	org2 = "Org2MSP"
)

type network struct {
	t        *testing.T
	ledger   *ledgertest.Ledger
	protocol *Protocol
	alice    *ledgertest.Identity
	bob      *ledgertest.Identity
}

func newNetwork(t *testing.T) *network {
	router, err := pvt.NewRouter(pvt.ImplicitNaming{}, ledgertest.DefaultSharedCollection)
	require.NoError(t, err)
	protocol, err := NewProtocol("asset", router)
	require.NoError(t, err)
	return &network{
		t:        t,
		ledger:   ledgertest.New(org1, org2),
		protocol: protocol,
		alice:    ledgertest.NewIdentity(org1, "alice"),
		bob:      ledgertest.NewIdentity(org2, "bob"),
	}
}

// submit runs f in a transaction and commits it when f succeeds
func (n *network) submit(peerOrg string, client *ledgertest.Identity, transient map[string]string, f func(tx *ledgertest.Tx) error) error {
	tx := n.ledger.NewTx(peerOrg, client)
	for k, v := range transient {
		tx.WithTransient(k, []byte(v))
	}
	if err := f(tx); err != nil {
		return err
	}
	require.NoError(n.t, tx.Commit())
	return nil
}

func (n *network) evaluate(peerOrg string, client *ledgertest.Identity) *ledgertest.Tx {
	return n.ledger.NewTx(peerOrg, client)
}

func (n *network) createAsset(id string, value string) error {
	return n.submit(org1, n.alice, map[string]string{PropertiesKey: value}, func(tx *ledgertest.Tx) error {
		_, err := n.protocol.CreateAsset(tx.Context(), &NewAsset{ID: id, Color: "blue", Size: 35, PublicDescription: "a blue asset"})
		return err
	})
}

func (n *network) agree(id string, value string) error {
	return n.submit(org2, n.bob, map[string]string{ValueKey: value}, func(tx *ledgertest.Tx) error {
		_, err := n.protocol.AgreeToTransfer(tx.Context(), id)
		return err
	})
}

func (n *network) transfer(id string) error {
	return n.submit(org1, n.alice, nil, func(tx *ledgertest.Tx) error {
		_, err := n.protocol.TransferAsset(tx.Context(), id, org2)
		return err
	})
}

func (n *network) ledgerKey(objectType string, parts ...string) string {
	k, err := shim.CreateCompositeKey(objectType, parts)
	require.NoError(n.t, err)
	return k
}

func TestCreateAsset(t *testing.T) {
	n := newNetwork(t)
	require.NoError(t, n.createAsset("asset1", `{"appraisedValue":100}`))

	asset, err := n.protocol.ReadAsset(n.evaluate(org2, n.bob).Context(), "asset1")
	require.NoError(t, err)
	assert.Equal(t, &Asset{
		ObjectType:        "asset",
		ID:                "asset1",
		Color:             "blue",
		Size:              35,
		Owner:             n.alice.ID,
		OwnerOrg:          org1,
		PublicDescription: "a blue asset",
	}, asset)

	// the appraisal stays private
	public := n.ledger.State(n.ledgerKey("asset", "asset1"))
	assert.NotContains(t, string(public), "appraisedValue")
	assert.JSONEq(t, `{"assetID":"asset1","appraisedValue":100}`, string(n.ledger.PrivateState("_implicit_org_Org1MSP", n.ledgerKey(DetailClass, "asset1"))))

	orgs, err := sbe.Orgs(n.ledger.ValidationParameter(n.ledgerKey("asset", "asset1")))
	require.NoError(t, err)
	assert.Equal(t, []string{org1}, orgs)

	events := n.ledger.Events()
	require.Len(t, events, 1)
	assert.Equal(t, CreateAssetEvent, events[0].Name)
}

func TestCreateAssetTwiceFails(t *testing.T) {
	n := newNetwork(t)
	require.NoError(t, n.createAsset("asset1", `{"appraisedValue":100}`))

	err := n.submit(org1, n.alice, map[string]string{PropertiesKey: `{"appraisedValue":999}`}, func(tx *ledgertest.Tx) error {
		_, err := n.protocol.CreateAsset(tx.Context(), &NewAsset{ID: "asset1", Color: "red", Size: 1})
		return err
	})
	assert.True(t, errors.HasCause(err, errors.AlreadyExists))

	asset, err := n.protocol.ReadAsset(n.evaluate(org1, n.alice).Context(), "asset1")
	require.NoError(t, err)
	assert.Equal(t, "blue", asset.Color)
	detail, err := n.protocol.ReadAssetPrivateDetails(n.evaluate(org1, n.alice).Context(), "_implicit_org_Org1MSP", "asset1")
	require.NoError(t, err)
	assert.Equal(t, 100, detail.AppraisedValue)
}

func TestCreateAssetInputValidation(t *testing.T) {
	n := newNetwork(t)

	// client of org1 on a peer of org2
	err := n.submit(org2, n.alice, map[string]string{PropertiesKey: `{"appraisedValue":100}`}, func(tx *ledgertest.Tx) error {
		_, err := n.protocol.CreateAsset(tx.Context(), &NewAsset{ID: "asset1", Color: "blue", Size: 1})
		return err
	})
	assert.True(t, errors.HasCause(err, errors.Authorization))

	for name, transient := range map[string]map[string]string{
		"missing":      nil,
		"empty":        {PropertiesKey: ""},
		"not json":     {PropertiesKey: "100"},
		"not positive": {PropertiesKey: `{"appraisedValue":0}`},
		"other asset":  {PropertiesKey: `{"assetID":"asset2","appraisedValue":100}`},
	} {
		err := n.submit(org1, n.alice, transient, func(tx *ledgertest.Tx) error {
			_, err := n.protocol.CreateAsset(tx.Context(), &NewAsset{ID: "asset1", Color: "blue", Size: 1})
			return err
		})
		assert.True(t, errors.HasCause(err, errors.Validation), name)
	}

	exists, err := n.protocol.AssetExists(n.evaluate(org1, n.alice).Context(), "asset1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAgreementVerification(t *testing.T) {
	n := newNetwork(t)
	require.NoError(t, n.createAsset("asset1", `{"appraisedValue":100}`))

	// nothing to verify yet
	_, _, err := n.protocol.VerifyAgreement(n.evaluate(org1, n.alice).Context(), "asset1", org2)
	assert.True(t, errors.HasCause(err, errors.Agreement))

	require.NoError(t, n.agree("asset1", `{"assetID":"asset1","appraisedValue":100}`))

	agreement, err := n.protocol.ReadTransferAgreement(n.evaluate(org1, n.alice).Context(), "asset1")
	require.NoError(t, err)
	assert.Equal(t, n.bob.ID, agreement.BuyerID)

	_, _, err = n.protocol.VerifyAgreement(n.evaluate(org1, n.alice).Context(), "asset1", org2)
	assert.NoError(t, err)

	// only the owner verifies
	_, _, err = n.protocol.VerifyAgreement(n.evaluate(org2, n.bob).Context(), "asset1", org2)
	assert.True(t, errors.HasCause(err, errors.Agreement))

	// the buyer changes its mind
	require.NoError(t, n.agree("asset1", `{"appraisedValue":90}`))
	_, _, err = n.protocol.VerifyAgreement(n.evaluate(org1, n.alice).Context(), "asset1", org2)
	assert.True(t, errors.HasCause(err, errors.Agreement))

	// a third org never appraised the asset
	_, _, err = n.protocol.VerifyAgreement(n.evaluate(org1, n.alice).Context(), "asset1", "Org3MSP")
	assert.Error(t, err)
}

func TestOwnerCannotAgree(t *testing.T) {
	n := newNetwork(t)
	require.NoError(t, n.createAsset("asset1", `{"appraisedValue":100}`))

	err := n.submit(org1, n.alice, map[string]string{ValueKey: `{"appraisedValue":100}`}, func(tx *ledgertest.Tx) error {
		_, err := n.protocol.AgreeToTransfer(tx.Context(), "asset1")
		return err
	})
	assert.True(t, errors.HasCause(err, errors.Validation))

	err = n.agree("missing", `{"appraisedValue":100}`)
	assert.True(t, errors.HasCause(err, errors.NotFound))
}

func TestTransferAsset(t *testing.T) {
	n := newNetwork(t)
	require.NoError(t, n.createAsset("asset1", `{"appraisedValue":100}`))
	require.NoError(t, n.agree("asset1", `{"appraisedValue":100}`))

	tx := n.ledger.NewTx(org1, n.alice)
	asset, err := n.protocol.TransferAsset(tx.Context(), "asset1", org2)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Equal(t, n.bob.ID, asset.Owner)

	read, err := n.protocol.ReadAsset(n.evaluate(org2, n.bob).Context(), "asset1")
	require.NoError(t, err)
	assert.Equal(t, n.bob.ID, read.Owner)
	assert.Equal(t, org2, read.OwnerOrg)

	_, err = n.protocol.ReadTransferAgreement(n.evaluate(org2, n.bob).Context(), "asset1")
	assert.True(t, errors.HasCause(err, errors.NotFound))

	assert.Nil(t, n.ledger.PrivateState("_implicit_org_Org1MSP", n.ledgerKey(DetailClass, "asset1")))
	assert.NotNil(t, n.ledger.PrivateState("_implicit_org_Org2MSP", n.ledgerKey(DetailClass, "asset1")))

	receipt := &Receipt{}
	require.NoError(t, json.Unmarshal(n.ledger.PrivateState("_implicit_org_Org2MSP", n.ledgerKey(BuyReceiptClass, "asset1", tx.GetTxID())), receipt))
	assert.Equal(t, 100, receipt.AppraisedValue)
	assert.NotEmpty(t, receipt.Timestamp)
	assert.NotNil(t, n.ledger.PrivateState("_implicit_org_Org1MSP", n.ledgerKey(SaleReceiptClass, "asset1", tx.GetTxID())))

	orgs, err := sbe.Orgs(n.ledger.ValidationParameter(n.ledgerKey("asset", "asset1")))
	require.NoError(t, err)
	assert.Equal(t, []string{org2}, orgs)

	require.Equal(t, TransferAssetEvent, tx.Event().Name)

	// the former owner can no longer transfer it
	err = n.transfer("asset1")
	assert.True(t, errors.HasCause(err, errors.Agreement))
}

func TestTransferWithoutMatchingAgreementChangesNothing(t *testing.T) {
	n := newNetwork(t)
	require.NoError(t, n.createAsset("asset1", `{"appraisedValue":100}`))
	require.NoError(t, n.agree("asset1", `{"appraisedValue":50}`))

	err := n.transfer("asset1")
	assert.True(t, errors.HasCause(err, errors.Agreement))

	asset, err := n.protocol.ReadAsset(n.evaluate(org1, n.alice).Context(), "asset1")
	require.NoError(t, err)
	assert.Equal(t, n.alice.ID, asset.Owner)
	_, err = n.protocol.ReadTransferAgreement(n.evaluate(org1, n.alice).Context(), "asset1")
	assert.NoError(t, err)
}

func TestTransferToAnotherOrgThanTheBuyers(t *testing.T) {
	n := newNetwork(t)
	require.NoError(t, n.createAsset("asset1", `{"appraisedValue":100}`))
	require.NoError(t, n.agree("asset1", `{"appraisedValue":50}`))

	agreement, err := n.protocol.ReadTransferAgreement(n.evaluate(org1, n.alice).Context(), "asset1")
	require.NoError(t, err)
	assert.Equal(t, org2, agreement.BuyerMSP)

	// the owner org would compare its own hash with itself
	_, _, err = n.protocol.VerifyAgreement(n.evaluate(org1, n.alice).Context(), "asset1", org1)
	assert.True(t, errors.HasCause(err, errors.Agreement))

	err = n.submit(org1, n.alice, nil, func(tx *ledgertest.Tx) error {
		_, err := n.protocol.TransferAsset(tx.Context(), "asset1", org1)
		return err
	})
	assert.True(t, errors.HasCause(err, errors.Agreement))

	asset, err := n.protocol.ReadAsset(n.evaluate(org1, n.alice).Context(), "asset1")
	require.NoError(t, err)
	assert.Equal(t, n.alice.ID, asset.Owner)
	assert.Equal(t, org1, asset.OwnerOrg)
}

func TestTransferRequiresOrgMatch(t *testing.T) {
	n := newNetwork(t)
	require.NoError(t, n.createAsset("asset1", `{"appraisedValue":100}`))
	require.NoError(t, n.agree("asset1", `{"appraisedValue":100}`))

	err := n.submit(org2, n.alice, nil, func(tx *ledgertest.Tx) error {
		_, err := n.protocol.TransferAsset(tx.Context(), "asset1", org2)
		return err
	})
	assert.True(t, errors.HasCause(err, errors.Authorization))
}

func TestVerifyAssetDetails(t *testing.T) {
	n := newNetwork(t)
	require.NoError(t, n.createAsset("asset1", `{"appraisedValue":100}`))

	for value, expected := range map[string]bool{
		`{"appraisedValue":100}`:                    true,
		`{"assetID":"asset1","appraisedValue":100}`: true,
		`{"appraisedValue":101}`:                    false,
	} {
		tx := n.evaluate(org2, n.bob).WithTransient(ValueKey, []byte(value))
		ok, err := n.protocol.VerifyAssetDetails(tx.Context(), "asset1")
		require.NoError(t, err)
		assert.Equal(t, expected, ok, value)
	}
}

func TestChangeDescriptionAndDelete(t *testing.T) {
	n := newNetwork(t)
	require.NoError(t, n.createAsset("asset1", `{"appraisedValue":100}`))
	require.NoError(t, n.agree("asset1", `{"appraisedValue":100}`))

	err := n.submit(org2, n.bob, nil, func(tx *ledgertest.Tx) error {
		_, err := n.protocol.ChangePublicDescription(tx.Context(), "asset1", "mine")
		return err
	})
	assert.True(t, errors.HasCause(err, errors.Authorization))

	require.NoError(t, n.submit(org1, n.alice, nil, func(tx *ledgertest.Tx) error {
		_, err := n.protocol.ChangePublicDescription(tx.Context(), "asset1", "a faded blue asset")
		return err
	}))
	asset, err := n.protocol.ReadAsset(n.evaluate(org1, n.alice).Context(), "asset1")
	require.NoError(t, err)
	assert.Equal(t, "a faded blue asset", asset.PublicDescription)

	require.NoError(t, n.submit(org1, n.alice, nil, func(tx *ledgertest.Tx) error {
		return n.protocol.DeleteAsset(tx.Context(), "asset1")
	}))
	_, err = n.protocol.ReadAsset(n.evaluate(org1, n.alice).Context(), "asset1")
	assert.True(t, errors.HasCause(err, errors.NotFound))
	_, err = n.protocol.ReadTransferAgreement(n.evaluate(org1, n.alice).Context(), "asset1")
	assert.True(t, errors.HasCause(err, errors.NotFound))
	assert.Nil(t, n.ledger.PrivateState("_implicit_org_Org1MSP", n.ledgerKey(DetailClass, "asset1")))
}

func TestListAndHistory(t *testing.T) {
	n := newNetwork(t)
	for _, id := range []string{"asset1", "asset2", "asset3"} {
		require.NoError(t, n.createAsset(id, `{"appraisedValue":100}`))
	}
	n.ledger.PutRaw(n.ledgerKey("asset", "asset4"), []byte("corrupted"))

	assets, err := n.protocol.ListAssets(n.evaluate(org2, n.bob).Context())
	require.NoError(t, err)
	require.Len(t, assets, 3)
	assert.Equal(t, "asset1", assets[0].ID)

	page, err := n.protocol.ListAssetsWithPagination(n.evaluate(org2, n.bob).Context(), 2, "")
	require.NoError(t, err)
	assert.Len(t, page.Assets, 2)
	assert.EqualValues(t, 2, page.FetchedRecordsCount)
	page, err = n.protocol.ListAssetsWithPagination(n.evaluate(org2, n.bob).Context(), 2, page.Bookmark)
	require.NoError(t, err)
	assert.Len(t, page.Assets, 1, "the corrupted entry is skipped")
	assert.EqualValues(t, 2, page.FetchedRecordsCount)
	assert.Empty(t, page.Bookmark)

	require.NoError(t, n.agree("asset1", `{"appraisedValue":100}`))
	require.NoError(t, n.transfer("asset1"))

	history, err := n.protocol.GetAssetHistory(n.evaluate(org2, n.bob).Context(), "asset1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, org2, history[0].Asset.OwnerOrg)
	assert.Equal(t, org1, history[1].Asset.OwnerOrg)
	assert.NotEqual(t, history[0].TxID, history[1].TxID)
}
