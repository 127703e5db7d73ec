package common

import (
	"strconv"

	"golang.org/x/xerrors"
)

var (
	ErrInvalidDerivation    = xerrors.New("invalid multisig derivation")
	ErrUnknownAccount       = xerrors.New("unknown multisig account")
	ErrSenderNotSignatory   = xerrors.New("sender is not a signatory")
	ErrAddressMismatch      = xerrors.New("multisig address mismatch")
	ErrCallDataHashMismatch = xerrors.New("call data does not match call hash")
)

type CryptoType string

const (
	CryptoSr25519 CryptoType = "sr25519"
	CryptoEd25519 CryptoType = "ed25519"
	CryptoEcdsa   CryptoType = "ecdsa"
)

// Timepoint identifies the block and extrinsic index a call was submitted at.
type Timepoint struct {
	Height uint64 `json:"height"`
	Index  uint32 `json:"index"`
}

// TxKey is the identity of one multisig transaction. At most one
// transaction record exists per key.
type TxKey struct {
	AccountID string
	ChainID   string
	CallHash  string
	CallPoint Timepoint
}

// LaneKey serializes reconciliations: two payloads with the same lane key
// never interleave their read-modify-write cycles.
func (k TxKey) LaneKey() string {
	return k.ChainID + "_" + k.AccountID + "_" + k.CallHash + "_" +
		strconv.FormatUint(k.CallPoint.Height, 10) + "_" + strconv.FormatUint(uint64(k.CallPoint.Index), 10)
}

type TxStatus string

const (
	TxSigning        TxStatus = "SIGNING"
	TxCancelled      TxStatus = "CANCELLED"
	TxErrorCancelled TxStatus = "ERROR_CANCELLED"
	TxExecuted       TxStatus = "EXECUTED"
	TxError          TxStatus = "ERROR"
)

const (
	OutcomeExecuted = "Executed"
	OutcomeError    = "Error"
)

// TxStatusFromOutcome maps a final-approve call outcome to the terminal
// transaction status. Unknown outcomes settle as TxError.
func TxStatusFromOutcome(outcome string) TxStatus {
	if outcome == OutcomeExecuted {
		return TxExecuted
	}
	return TxError
}

// MergeTxStatus advances the transaction-level status. SIGNING is the
// only state with an exit: once a transaction settles, a late or
// redelivered terminal payload never rewrites the recorded outcome.
func MergeTxStatus(old, incoming TxStatus) TxStatus {
	if old != TxSigning {
		return old
	}
	return incoming
}

type EventStatus string

// The pending variants are written by the local signing flow, which
// records the user's own approval or cancellation before its room event
// echoes back. Remote payloads carry settled facts, so the engine
// writes the settled variants directly; MergeEventStatus upgrades any
// locally pending row when the echo arrives.
const (
	EventPendingSigned    EventStatus = "PENDING_SIGNED"
	EventSigned           EventStatus = "SIGNED"
	EventPendingCancelled EventStatus = "PENDING_CANCELLED"
	EventCancelled        EventStatus = "CANCELLED"
	EventErrorCancelled   EventStatus = "ERROR_CANCELLED"
)

type intentFamily uint8

const (
	familySign intentFamily = iota
	familyCancel
)

func eventStatusFamily(s EventStatus) intentFamily {
	switch s {
	case EventPendingCancelled, EventCancelled, EventErrorCancelled:
		return familyCancel
	default:
		return familySign
	}
}

func eventStatusSettled(s EventStatus) bool {
	switch s {
	case EventSigned, EventCancelled, EventErrorCancelled:
		return true
	default:
		return false
	}
}

// MergeEventStatus folds a redelivered or late status into a stored one.
// A settled status is never regressed by a weaker status of the same
// intent family; a status from the other family always replaces.
func MergeEventStatus(old, incoming EventStatus) EventStatus {
	if eventStatusSettled(old) && eventStatusFamily(old) == eventStatusFamily(incoming) {
		return old
	}
	return incoming
}

// Intent is the classified meaning of one inbound room payload.
type Intent uint8

const (
	IntentNoop Intent = iota
	IntentInvite
	IntentUpdate
	IntentCancel
	IntentApprove
	IntentFinalApprove
)

func (i Intent) String() string {
	switch i {
	case IntentInvite:
		return "invite"
	case IntentUpdate:
		return "update"
	case IntentCancel:
		return "cancel"
	case IntentApprove:
		return "approve"
	case IntentFinalApprove:
		return "final_approve"
	default:
		return "noop"
	}
}
