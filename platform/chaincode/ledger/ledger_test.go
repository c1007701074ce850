/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger_test

import (
	"testing"
	"time"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger/ledgertest"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCompositeKey(t *testing.T) {
	ck, err := shim.CreateCompositeKey("org.bookingnet.commission.booking", []string{"agent1", "1234567"})
	require.NoError(t, err)

	objectType, attrs, err := ledger.SplitCompositeKey(ck)
	require.NoError(t, err)
	assert.Equal(t, "org.bookingnet.commission.booking", objectType)
	assert.Equal(t, []string{"agent1", "1234567"}, attrs)

	ck, err = shim.CreateCompositeKey("asset", nil)
	require.NoError(t, err)
	objectType, attrs, err = ledger.SplitCompositeKey(ck)
	require.NoError(t, err)
	assert.Equal(t, "asset", objectType)
	assert.Empty(t, attrs)

	_, _, err = ledger.SplitCompositeKey("plain")
	assert.True(t, errors.HasCause(err, errors.Validation))
}

func TestValidateCompositeKeyAttribute(t *testing.T) {
	assert.NoError(t, ledger.ValidateCompositeKeyAttribute("asset1"))
	assert.NoError(t, ledger.ValidateCompositeKeyAttribute(""))
	assert.True(t, errors.HasCause(ledger.ValidateCompositeKeyAttribute("a\x00b"), errors.Validation))
	assert.True(t, errors.HasCause(ledger.ValidateCompositeKeyAttribute("a"+string(rune(0x10FFFF))), errors.Validation))
	assert.True(t, errors.HasCause(ledger.ValidateCompositeKeyAttribute(string([]byte{0xff, 0xfe})), errors.Validation))
}

func TestContext(t *testing.T) {
	l := ledgertest.New("Org1MSP", "Org2MSP")
	tx := l.NewTx("Org1MSP", ledgertest.NewIdentity("Org1MSP", "alice")).
		WithTransient("asset_value", []byte(`{"assetID":"a1"}`))
	ctx := tx.Context()

	peer, err := ctx.PeerMSPID()
	require.NoError(t, err)
	assert.Equal(t, "Org1MSP", peer)

	client, err := ctx.ClientMSPID()
	require.NoError(t, err)
	assert.Equal(t, "Org1MSP", client)

	id, err := ctx.SubmitterID()
	require.NoError(t, err)
	assert.Equal(t, "x509::CN=alice,OU=client::CN=ca.Org1MSP", id)

	v, err := ctx.Transient("asset_value")
	require.NoError(t, err)
	assert.Equal(t, `{"assetID":"a1"}`, string(v))

	_, err = ctx.Transient("asset_properties")
	assert.True(t, errors.HasCause(err, errors.Validation))

	ts, err := ctx.TxTime()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
	assert.False(t, ts.IsZero())
}

func TestContextRejectsMalformedIdentity(t *testing.T) {
	l := ledgertest.New("Org1MSP")
	client := &ledgertest.Identity{MSPID: "Org1MSP"}
	ctx := ledger.NewContext(l.NewTx("Org1MSP", client), badID{client}, func() (string, error) { return "", nil })

	_, err := ctx.SubmitterID()
	assert.True(t, errors.HasCause(err, errors.Authorization))

	_, err = ctx.PeerMSPID()
	assert.True(t, errors.HasCause(err, errors.Authorization))
}

type badID struct {
	*ledgertest.Identity
}

func (badID) GetID() (string, error) {
	return "not base64!", nil
}

func TestTransactionsReadCommittedState(t *testing.T) {
	l := ledgertest.New("Org1MSP")
	tx := l.NewTx("Org1MSP", ledgertest.NewIdentity("Org1MSP", "alice"))

	require.NoError(t, tx.PutState("k1", []byte("v1")))
	v, err := tx.GetState("k1")
	require.NoError(t, err)
	assert.Nil(t, v, "writes are not visible before commit")

	require.NoError(t, tx.Commit())
	assert.Equal(t, []byte("v1"), l.State("k1"))

	tx = l.NewTx("Org1MSP", ledgertest.NewIdentity("Org1MSP", "alice"))
	require.NoError(t, tx.DelState("k1"))
	require.NoError(t, tx.Commit())
	assert.Nil(t, l.State("k1"))

	it, err := l.NewTx("Org1MSP", nil).GetHistoryForKey("k1")
	require.NoError(t, err)
	defer it.Close()
	first, err := it.Next()
	require.NoError(t, err)
	assert.True(t, first.IsDelete)
	second, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), second.Value)
	assert.False(t, it.HasNext())
}

func TestPrivateDataMembership(t *testing.T) {
	l := ledgertest.New("Org1MSP", "Org2MSP")
	tx := l.NewTx("Org1MSP", ledgertest.NewIdentity("Org1MSP", "alice"))
	require.NoError(t, tx.PutPrivateData("_implicit_org_Org1MSP", "k", []byte("secret")))
	require.NoError(t, tx.Commit())

	other := l.NewTx("Org2MSP", ledgertest.NewIdentity("Org2MSP", "bob"))
	_, err := other.GetPrivateData("_implicit_org_Org1MSP", "k")
	assert.Error(t, err)

	h, err := other.GetPrivateDataHash("_implicit_org_Org1MSP", "k")
	require.NoError(t, err)
	assert.Equal(t, ledgertest.Hash([]byte("secret")), h)

	h, err = other.GetPrivateDataHash("_implicit_org_Org1MSP", "missing")
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestPartialCompositeKeyPagination(t *testing.T) {
	l := ledgertest.New("Org1MSP")
	tx := l.NewTx("Org1MSP", nil)
	for _, id := range []string{"a1", "a2", "a3"} {
		k, err := tx.CreateCompositeKey("asset", []string{id})
		require.NoError(t, err)
		require.NoError(t, tx.PutState(k, []byte(id)))
	}
	require.NoError(t, tx.PutState("plain", []byte("x")))
	require.NoError(t, tx.Commit())

	tx = l.NewTx("Org1MSP", nil)
	it, meta, err := tx.GetStateByPartialCompositeKeyWithPagination("asset", nil, 2, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, meta.FetchedRecordsCount)
	assert.NotEmpty(t, meta.Bookmark)
	require.NoError(t, it.Close())

	it, meta, err = tx.GetStateByPartialCompositeKeyWithPagination("asset", nil, 2, meta.Bookmark)
	require.NoError(t, err)
	kv, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("a3"), kv.Value)
	assert.EqualValues(t, 1, meta.FetchedRecordsCount)
	assert.Empty(t, meta.Bookmark)

	_, err = tx.GetStateByRange(meta.Bookmark, "\x00asset\x00")
	assert.Error(t, err)
}
