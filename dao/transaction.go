package dao

import (
	"errors"

	"gorm.io/gorm"

	"github.com/signet-labs/roomsig/common"
	"github.com/signet-labs/roomsig/model"
)

// GetTransaction returns nil without error when no transaction matches
// the key.
func (d *Dao) GetTransaction(key common.TxKey) (*model.MultisigTransaction, error) {
	var tx model.MultisigTransaction
	result := d.db.Where(
		"account_id = ? AND chain_id = ? AND call_hash = ? AND call_height = ? AND call_index = ?",
		key.AccountID, key.ChainID, key.CallHash, key.CallPoint.Height, key.CallPoint.Index,
	).Take(&tx)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Errorf("GetTransaction failed:%v", result.Error)
		return nil, result.Error
	}
	return &tx, nil
}

// CreateTransactionWithEvent writes the first event for a transaction
// key in one database transaction, so a half-written first event is
// never observable.
func (d *Dao) CreateTransactionWithEvent(tx *model.MultisigTransaction, event *model.MultisigEvent) error {
	err := d.db.Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Create(tx).Error; err != nil {
			return err
		}
		return dbtx.Create(event).Error
	})
	if err != nil {
		log.Errorf("CreateTransactionWithEvent failed:%v", err)
		return err
	}
	return nil
}

func (d *Dao) UpdateTransaction(tx *model.MultisigTransaction) error {
	if err := d.db.Save(tx).Error; err != nil {
		log.Errorf("UpdateTransaction failed:%v", err)
		return err
	}
	return nil
}

// GetEvent returns nil without error when the signatory has no recorded
// event for the key.
func (d *Dao) GetEvent(key common.TxKey, signatory string) (*model.MultisigEvent, error) {
	var event model.MultisigEvent
	result := d.db.Where(
		"tx_account_id = ? AND tx_chain_id = ? AND tx_call_hash = ? AND tx_call_height = ? AND tx_call_index = ? AND signatory = ?",
		key.AccountID, key.ChainID, key.CallHash, key.CallPoint.Height, key.CallPoint.Index, signatory,
	).Take(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Errorf("GetEvent failed:%v", result.Error)
		return nil, result.Error
	}
	return &event, nil
}

func (d *Dao) CreateEvent(event *model.MultisigEvent) error {
	if err := d.db.Create(event).Error; err != nil {
		log.Errorf("CreateEvent failed:%v", err)
		return err
	}
	return nil
}

func (d *Dao) UpdateEvent(event *model.MultisigEvent) error {
	if err := d.db.Save(event).Error; err != nil {
		log.Errorf("UpdateEvent failed:%v", err)
		return err
	}
	return nil
}

// GetTransactionEvents lists every signatory event recorded for one
// transaction key.
func (d *Dao) GetTransactionEvents(key common.TxKey) ([]*model.MultisigEvent, error) {
	var events []*model.MultisigEvent
	err := d.db.Where(
		"tx_account_id = ? AND tx_chain_id = ? AND tx_call_hash = ? AND tx_call_height = ? AND tx_call_index = ?",
		key.AccountID, key.ChainID, key.CallHash, key.CallPoint.Height, key.CallPoint.Index,
	).Find(&events).Error
	if err != nil {
		log.Errorf("GetTransactionEvents failed:%v", err)
		return nil, err
	}
	return events, nil
}
