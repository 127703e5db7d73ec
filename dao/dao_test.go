package dao

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/signet-labs/roomsig/common"
	"github.com/signet-labs/roomsig/model"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.MultisigAccount{},
		&model.MultisigTransaction{},
		&model.MultisigEvent{},
	))

	return NewDao(context.Background(), db, nil)
}

func testKey() common.TxKey {
	return common.TxKey{
		AccountID: "0xmsig",
		ChainID:   "polkadot",
		CallHash:  "0xhash",
		CallPoint: common.Timepoint{Height: 100, Index: 2},
	}
}

func TestAccountRoundTrip(t *testing.T) {
	d := newTestDao(t)

	missing, err := d.GetAccount("0xmsig", "polkadot")
	require.NoError(t, err)
	assert.Nil(t, missing)

	account := &model.MultisigAccount{
		AccountID:        "0xmsig",
		ChainID:          "polkadot",
		RoomID:           "!room1:roomsig.io",
		CreatorAccountID: "0xaa01",
		Threshold:        2,
	}
	account.SetSignatoryList([]string{"0xaa01", "0xbb02"})
	require.NoError(t, d.CreateAccount(account))

	got, err := d.GetAccount("0xmsig", "polkadot")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "!room1:roomsig.io", got.RoomID)

	signers, err := got.SignatoryList()
	require.NoError(t, err)
	assert.Equal(t, []string{"0xaa01", "0xbb02"}, signers)

	accounts, err := d.ListAccounts()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestMigrateAccountRoom(t *testing.T) {
	d := newTestDao(t)

	account := &model.MultisigAccount{
		AccountID:        "0xmsig",
		ChainID:          "polkadot",
		RoomID:           "!room1:roomsig.io",
		CreatorAccountID: "0xaa01",
	}
	require.NoError(t, d.CreateAccount(account))

	require.NoError(t, d.MigrateAccountRoom(account, "!room2:roomsig.io", "0xbb02"))

	got, err := d.GetAccount("0xmsig", "polkadot")
	require.NoError(t, err)
	assert.Equal(t, "!room2:roomsig.io", got.RoomID)
	assert.Equal(t, "0xbb02", got.CreatorAccountID)

	// the in-memory record tracks the write
	assert.Equal(t, "!room2:roomsig.io", account.RoomID)
}

func TestCreateTransactionWithEventIsAtomic(t *testing.T) {
	d := newTestDao(t)
	key := testKey()

	tx := &model.MultisigTransaction{
		AccountID:  key.AccountID,
		ChainID:    key.ChainID,
		CallHash:   key.CallHash,
		CallHeight: key.CallPoint.Height,
		CallIndex:  key.CallPoint.Index,
		Status:     string(common.TxSigning),
	}
	event := &model.MultisigEvent{
		TxAccountID:  key.AccountID,
		TxChainID:    key.ChainID,
		TxCallHash:   key.CallHash,
		TxCallHeight: key.CallPoint.Height,
		TxCallIndex:  key.CallPoint.Index,
		Signatory:    "0xaa01",
		Status:       string(common.EventSigned),
	}
	require.NoError(t, d.CreateTransactionWithEvent(tx, event))

	gotTx, err := d.GetTransaction(key)
	require.NoError(t, err)
	require.NotNil(t, gotTx)

	gotEvent, err := d.GetEvent(key, "0xaa01")
	require.NoError(t, err)
	require.NotNil(t, gotEvent)

	// the unique key rolls back both rows together
	dup := *tx
	dup.ID = 0
	dupEvent := *event
	dupEvent.ID = 0
	dupEvent.Signatory = "0xbb02"
	require.Error(t, d.CreateTransactionWithEvent(&dup, &dupEvent))

	events, err := d.GetTransactionEvents(key)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventUpdateInPlace(t *testing.T) {
	d := newTestDao(t)
	key := testKey()

	event := &model.MultisigEvent{
		TxAccountID:  key.AccountID,
		TxChainID:    key.ChainID,
		TxCallHash:   key.CallHash,
		TxCallHeight: key.CallPoint.Height,
		TxCallIndex:  key.CallPoint.Index,
		Signatory:    "0xaa01",
		Status:       string(common.EventPendingSigned),
	}
	require.NoError(t, d.CreateEvent(event))

	event.Status = string(common.EventSigned)
	event.ExtrinsicHash = "0xe1e1"
	require.NoError(t, d.UpdateEvent(event))

	got, err := d.GetEvent(key, "0xaa01")
	require.NoError(t, err)
	assert.Equal(t, string(common.EventSigned), got.Status)
	assert.Equal(t, "0xe1e1", got.ExtrinsicHash)

	events, err := d.GetTransactionEvents(key)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestCacheNoRedisIsNoop(t *testing.T) {
	d := newTestDao(t)

	account := &model.MultisigAccount{AccountID: "0xmsig", ChainID: "polkadot"}
	require.NoError(t, d.CacheAccountDigest(account))
	require.NoError(t, d.NotifyNewAccount(account))
	require.NoError(t, d.WarmAccountCache())
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "msig_digest_polkadot_0xmsig", BuildAccountDigestKey("polkadot", "0xmsig"))
	assert.Equal(t, "multisig_notify", BuildMultisigNotifyKey())
}
