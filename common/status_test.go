package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeEventStatus(t *testing.T) {
	tests := []struct {
		name string
		old  EventStatus
		new  EventStatus
		want EventStatus
	}{
		{"pending upgrades to signed", EventPendingSigned, EventSigned, EventSigned},
		{"signed not regressed by pending", EventSigned, EventPendingSigned, EventSigned},
		{"cancelled not regressed by pending", EventCancelled, EventPendingCancelled, EventCancelled},
		{"error cancelled not regressed", EventErrorCancelled, EventPendingCancelled, EventErrorCancelled},
		{"pending cancel upgrades", EventPendingCancelled, EventCancelled, EventCancelled},
		{"duplicate settled is stable", EventSigned, EventSigned, EventSigned},
		{"cross family replaces", EventSigned, EventCancelled, EventCancelled},
		{"cross family replaces back", EventCancelled, EventSigned, EventSigned},
		{"pending to pending", EventPendingSigned, EventPendingSigned, EventPendingSigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeEventStatus(tt.old, tt.new))
		})
	}
}

func TestMergeTxStatus(t *testing.T) {
	terminal := []TxStatus{TxCancelled, TxErrorCancelled, TxExecuted, TxError}

	// signing is the only state with an exit
	for _, next := range terminal {
		assert.Equal(t, next, MergeTxStatus(TxSigning, next))
	}
	assert.Equal(t, TxSigning, MergeTxStatus(TxSigning, TxSigning))

	// settled transactions never transition again
	for _, old := range terminal {
		for _, next := range append(terminal, TxSigning) {
			assert.Equal(t, old, MergeTxStatus(old, next))
		}
	}
}

func TestTxStatusFromOutcome(t *testing.T) {
	assert.Equal(t, TxExecuted, TxStatusFromOutcome(OutcomeExecuted))
	assert.Equal(t, TxError, TxStatusFromOutcome(OutcomeError))
	assert.Equal(t, TxError, TxStatusFromOutcome("Unknown"))
}

func TestLaneKeyDistinct(t *testing.T) {
	a := TxKey{AccountID: "0xaa", ChainID: "polkadot", CallHash: "0x01", CallPoint: Timepoint{Height: 10, Index: 1}}
	b := a
	b.CallPoint.Index = 2

	assert.NotEqual(t, a.LaneKey(), b.LaneKey())
	assert.Equal(t, a.LaneKey(), a.LaneKey())
}
