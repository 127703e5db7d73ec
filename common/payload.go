package common

import "github.com/shopspring/decimal"

// Room payload type tags. The transport owns the namespace; anything it
// delivers outside this set classifies to noop.
const (
	PayloadInvite  = "io.roomsig.mst_invite"
	PayloadUpdate  = "io.roomsig.mst_update"
	PayloadCancel  = "io.roomsig.mst_cancel"
	PayloadApprove = "io.roomsig.mst_approve"

	// markers injected by the gateway stream, not room traffic
	PayloadSyncEnd = "io.roomsig.sync_end"
	PayloadLogout  = "io.roomsig.logout"
)

// Payload is one inbound room event as delivered by the gateway.
type Payload struct {
	Type     string         `json:"type"`
	Sender   string         `json:"sender"`
	RoomID   string         `json:"room_id"`
	RoomName string         `json:"room_name"`
	EventID  string         `json:"event_id"`
	Content  PayloadContent `json:"content"`
}

type PayloadContent struct {
	AccountID     string    `json:"account_id"`
	ChainID       string    `json:"chain_id"`
	CallHash      string    `json:"call_hash"`
	CallTimepoint Timepoint `json:"call_timepoint"`

	// multisig definition, carried on every payload so the derived
	// address can be re-checked against the stored account
	Signatories []string   `json:"signatories"`
	Threshold   uint16     `json:"threshold"`
	CryptoType  CryptoType `json:"crypto_type"`

	SenderAccountID string `json:"sender_account_id"`

	// enrichment, present once any signatory has the full call
	CallData    []byte          `json:"call_data,omitempty"`
	Description string          `json:"description,omitempty"`
	Value       decimal.Decimal `json:"value"`

	ExtrinsicHash      string    `json:"extrinsic_hash,omitempty"`
	ExtrinsicTimepoint Timepoint `json:"extrinsic_timepoint"`

	Error       bool   `json:"error,omitempty"`
	CallOutcome string `json:"call_outcome,omitempty"`
}

func (p *Payload) TxKey() TxKey {
	return TxKey{
		AccountID: p.Content.AccountID,
		ChainID:   p.Content.ChainID,
		CallHash:  p.Content.CallHash,
		CallPoint: p.Content.CallTimepoint,
	}
}
