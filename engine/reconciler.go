package engine

import (
	"time"

	"github.com/signet-labs/roomsig/common"
	"github.com/signet-labs/roomsig/dao"
	"github.com/signet-labs/roomsig/model"
)

// Reconciler folds validated, classified payloads into the transaction
// and event stores. It is the sole writer; idempotence and duplicate
// suppression live here.
type Reconciler struct {
	dao *dao.Dao
}

func NewReconciler(d *dao.Dao) *Reconciler {
	return &Reconciler{dao: d}
}

// Reconcile applies one payload. The account is the caller's snapshot
// for this invocation; nothing is read from shared mutable state.
func (r *Reconciler) Reconcile(account *model.MultisigAccount, intent common.Intent, p *common.Payload) error {
	// rows are keyed by the validated account, not the payload's claim
	key := common.TxKey{
		AccountID: account.AccountID,
		ChainID:   account.ChainID,
		CallHash:  p.Content.CallHash,
		CallPoint: p.Content.CallTimepoint,
	}

	tx, err := r.dao.GetTransaction(key)
	if err != nil {
		return err
	}

	if tx == nil {
		return r.createFirst(key, intent, p)
	}

	return r.merge(tx, intent, p)
}

// createFirst handles the first payload seen for a transaction key.
// The transaction row and the sender's event row are written in one
// database transaction.
func (r *Reconciler) createFirst(key common.TxKey, intent common.Intent, p *common.Payload) error {
	if intent == common.IntentUpdate {
		// nothing to enrich yet; the creating payload will follow
		log.Debugw("update for unknown transaction dropped", "call_hash", key.CallHash)
		return nil
	}

	now := time.Now().Unix()
	c := &p.Content

	tx := &model.MultisigTransaction{
		AccountID:    key.AccountID,
		ChainID:      key.ChainID,
		CallHash:     key.CallHash,
		CallHeight:   key.CallPoint.Height,
		CallIndex:    key.CallPoint.Index,
		Status:       string(txStatusFor(intent, p)),
		BlockCreated: key.CallPoint.Height,
		IndexCreated: key.CallPoint.Index,
		DateCreated:  now,
	}

	if intent == common.IntentCancel {
		tx.CancelDescription = c.Description
	} else {
		tx.CallData = c.CallData
		tx.Description = c.Description
		tx.Value = c.Value
	}

	event := r.newEvent(key, intent, p, now)

	return r.dao.CreateTransactionWithEvent(tx, event)
}

// merge applies a payload against an already-known transaction.
func (r *Reconciler) merge(tx *model.MultisigTransaction, intent common.Intent, p *common.Payload) error {
	txDirty := false

	switch intent {
	case common.IntentUpdate, common.IntentApprove:
		// enrichment fields attach even on terminal transactions;
		// an approve never changes transaction-level status
		txDirty = enrich(tx, p)

	case common.IntentCancel:
		if tx.CancelDescription == "" && p.Content.Description != "" {
			tx.CancelDescription = p.Content.Description
			txDirty = true
		}
		if advanceTxStatus(tx, txStatusFor(intent, p)) {
			txDirty = true
		}

	case common.IntentFinalApprove:
		if enrich(tx, p) {
			txDirty = true
		}
		// quorum-level finality, independent of any single signer's
		// event record; a settled transaction never transitions again
		if advanceTxStatus(tx, txStatusFor(intent, p)) {
			txDirty = true
		}
	}

	if intent != common.IntentUpdate {
		if err := r.applyEvent(tx.Key(), intent, p); err != nil {
			return err
		}
	}

	if txDirty {
		return r.dao.UpdateTransaction(tx)
	}
	return nil
}

// applyEvent creates or updates the sender's event record for the key.
func (r *Reconciler) applyEvent(key common.TxKey, intent common.Intent, p *common.Payload) error {
	event, err := r.dao.GetEvent(key, p.Content.SenderAccountID)
	if err != nil {
		return err
	}

	now := time.Now().Unix()

	if event == nil {
		return r.dao.CreateEvent(r.newEvent(key, intent, p, now))
	}

	// chain placement always refreshes to the latest delivery
	event.ExtrinsicHash = p.Content.ExtrinsicHash
	event.EventHeight = p.Content.ExtrinsicTimepoint.Height
	event.EventIndex = p.Content.ExtrinsicTimepoint.Index

	// first-write-wins
	if event.DateCreated == 0 {
		event.DateCreated = now
	}

	event.Status = string(common.MergeEventStatus(
		common.EventStatus(event.Status), eventStatusFor(intent, p)))

	if intent == common.IntentFinalApprove {
		event.MultisigOutcome = p.Content.CallOutcome
	}

	return r.dao.UpdateEvent(event)
}

func (r *Reconciler) newEvent(key common.TxKey, intent common.Intent, p *common.Payload, now int64) *model.MultisigEvent {
	c := &p.Content

	event := &model.MultisigEvent{
		TxAccountID:   key.AccountID,
		TxChainID:     key.ChainID,
		TxCallHash:    key.CallHash,
		TxCallHeight:  key.CallPoint.Height,
		TxCallIndex:   key.CallPoint.Index,
		Signatory:     c.SenderAccountID,
		Status:        string(eventStatusFor(intent, p)),
		ExtrinsicHash: c.ExtrinsicHash,
		EventHeight:   c.ExtrinsicTimepoint.Height,
		EventIndex:    c.ExtrinsicTimepoint.Index,
		DateCreated:   now,
	}

	if intent == common.IntentFinalApprove {
		event.MultisigOutcome = c.CallOutcome
	}

	return event
}

// advanceTxStatus applies the transaction-status lattice; reports
// whether the row changed.
func advanceTxStatus(tx *model.MultisigTransaction, next common.TxStatus) bool {
	merged := string(common.MergeTxStatus(common.TxStatus(tx.Status), next))
	if tx.Status == merged {
		return false
	}
	tx.Status = merged
	return true
}

func txStatusFor(intent common.Intent, p *common.Payload) common.TxStatus {
	switch intent {
	case common.IntentCancel:
		if p.Content.Error {
			return common.TxErrorCancelled
		}
		return common.TxCancelled
	case common.IntentFinalApprove:
		return common.TxStatusFromOutcome(p.Content.CallOutcome)
	default:
		return common.TxSigning
	}
}

func eventStatusFor(intent common.Intent, p *common.Payload) common.EventStatus {
	if intent == common.IntentCancel {
		if p.Content.Error {
			return common.EventErrorCancelled
		}
		return common.EventCancelled
	}
	return common.EventSigned
}

// enrich fills call data, description and decoded value the first time
// any payload carries them. Never touches status.
func enrich(tx *model.MultisigTransaction, p *common.Payload) bool {
	dirty := false

	if len(tx.CallData) == 0 && len(p.Content.CallData) > 0 {
		tx.CallData = p.Content.CallData
		tx.Value = p.Content.Value
		dirty = true
	}
	if tx.Description == "" && p.Content.Description != "" {
		tx.Description = p.Content.Description
		dirty = true
	}

	return dirty
}
