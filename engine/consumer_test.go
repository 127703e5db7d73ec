package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signet-labs/roomsig/common"
)

func TestConsumerReconcilesFromGateway(t *testing.T) {
	d := newTestDao(t)
	seedAccount(t, d)

	gw := &fakeGateway{}
	c := NewConsumer(context.Background(), d, gw)
	require.NoError(t, c.Start())

	p := basePayload(t, common.PayloadApprove, testSignatories[0])
	gw.handlers.OnMultisigEvent(p)

	require.Eventually(t, func() bool {
		tx, err := d.GetTransaction(p.TxKey())
		return err == nil && tx != nil
	}, 5*time.Second, 10*time.Millisecond)

	tx, err := d.GetTransaction(p.TxKey())
	require.NoError(t, err)
	assert.Equal(t, string(common.TxSigning), tx.Status)
}

func TestConsumerDiscoversInviteFromGateway(t *testing.T) {
	d := newTestDao(t)

	gw := &fakeGateway{}
	c := NewConsumer(context.Background(), d, gw)
	require.NoError(t, c.Start())

	p := basePayload(t, common.PayloadInvite, testSignatories[0])
	p.RoomName = "ops multisig"
	gw.handlers.OnInvite(p)

	require.Eventually(t, func() bool {
		account, err := d.GetAccount(testAccountID(t), testChain)
		return err == nil && account != nil
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{p.RoomID}, gw.joinedRooms())
}

func TestConsumerRejectedPayloadNotStored(t *testing.T) {
	d := newTestDao(t)
	seedAccount(t, d)

	gw := &fakeGateway{}
	c := NewConsumer(context.Background(), d, gw)

	p := basePayload(t, common.PayloadApprove, "0xdd04")

	// rejection is a drop, not a failure
	require.NoError(t, c.process(common.IntentApprove, p))

	tx, err := d.GetTransaction(p.TxKey())
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestConsumerUnknownAccountDropped(t *testing.T) {
	d := newTestDao(t)

	gw := &fakeGateway{}
	c := NewConsumer(context.Background(), d, gw)

	p := basePayload(t, common.PayloadApprove, testSignatories[0])

	require.NoError(t, c.process(common.IntentApprove, p))

	tx, err := d.GetTransaction(p.TxKey())
	require.NoError(t, err)
	assert.Nil(t, tx)
}
