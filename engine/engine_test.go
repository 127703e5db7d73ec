package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/signet-labs/roomsig/common"
	"github.com/signet-labs/roomsig/crypto"
	"github.com/signet-labs/roomsig/dao"
	"github.com/signet-labs/roomsig/model"
	"github.com/signet-labs/roomsig/transport"
)

var (
	testSignatories = []string{"0xaa01", "0xbb02", "0xcc03"}
	testThreshold   = uint16(2)
	testChain       = "polkadot"
	testCallData    = []byte{0x04, 0x00, 0x01}
)

func newTestDao(t *testing.T) *dao.Dao {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps the in-memory database alive
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.MultisigAccount{},
		&model.MultisigTransaction{},
		&model.MultisigEvent{},
	))

	return dao.NewDao(context.Background(), db, nil)
}

func testAccountID(t *testing.T) string {
	t.Helper()
	id, err := crypto.Derive(testSignatories, testThreshold, common.CryptoSr25519)
	require.NoError(t, err)
	return id
}

func seedAccount(t *testing.T, d *dao.Dao) *model.MultisigAccount {
	t.Helper()

	account := &model.MultisigAccount{
		AccountID:        testAccountID(t),
		ChainID:          testChain,
		RoomID:           "!room1:roomsig.io",
		CreatorAccountID: testSignatories[0],
		Name:             "ops multisig",
		Threshold:        testThreshold,
		CryptoType:       string(common.CryptoSr25519),
		DateCreated:      1700000000,
	}
	account.SetSignatoryList(testSignatories)
	require.NoError(t, d.CreateAccount(account))

	return account
}

func basePayload(t *testing.T, ptype string, sender string) *common.Payload {
	t.Helper()

	return &common.Payload{
		Type:    ptype,
		Sender:  "@" + sender + ":roomsig.io",
		RoomID:  "!room1:roomsig.io",
		EventID: "$evt-" + ptype + "-" + sender,
		Content: common.PayloadContent{
			AccountID:          testAccountID(t),
			ChainID:            testChain,
			CallHash:           crypto.CallHash(testCallData),
			CallTimepoint:      common.Timepoint{Height: 100, Index: 2},
			Signatories:        testSignatories,
			Threshold:          testThreshold,
			CryptoType:         common.CryptoSr25519,
			SenderAccountID:    sender,
			ExtrinsicHash:      "0xe1e1",
			ExtrinsicTimepoint: common.Timepoint{Height: 101, Index: 3},
		},
	}
}

type fakeGateway struct {
	mtx      sync.Mutex
	joined   []string
	left     []string
	failJoin bool
	handlers transport.Handlers
}

func (g *fakeGateway) JoinRoom(ctx context.Context, roomID string) error {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if g.failJoin {
		return context.DeadlineExceeded
	}
	g.joined = append(g.joined, roomID)
	return nil
}

func (g *fakeGateway) LeaveRoom(ctx context.Context, roomID string) error {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.left = append(g.left, roomID)
	return nil
}

func (g *fakeGateway) Start(h transport.Handlers) error {
	g.handlers = h
	return nil
}

func (g *fakeGateway) Close() {}

func (g *fakeGateway) joinedRooms() []string {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	out := make([]string, len(g.joined))
	copy(out, g.joined)
	return out
}

func (g *fakeGateway) leftRooms() []string {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	out := make([]string, len(g.left))
	copy(out, g.left)
	return out
}
