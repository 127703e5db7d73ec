package dao

import (
	"errors"

	"gorm.io/gorm"

	"github.com/signet-labs/roomsig/model"
)

// GetAccount returns nil without error when no account matches.
func (d *Dao) GetAccount(accountID string, chainID string) (*model.MultisigAccount, error) {
	var account model.MultisigAccount
	result := d.db.Where("account_id = ? AND chain_id = ?", accountID, chainID).Take(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Errorf("GetAccount failed:%v", result.Error)
		return nil, result.Error
	}
	return &account, nil
}

func (d *Dao) CreateAccount(account *model.MultisigAccount) error {
	if err := d.db.Create(account).Error; err != nil {
		log.Errorf("CreateAccount failed:%v", err)
		return err
	}
	return nil
}

func (d *Dao) ListAccounts() ([]*model.MultisigAccount, error) {
	var accounts []*model.MultisigAccount
	if err := d.db.Find(&accounts).Error; err != nil {
		log.Errorf("ListAccounts failed:%v", err)
		return nil, err
	}
	return accounts, nil
}

// MigrateAccountRoom rebinds an account to the winning room and records
// the winning inviter as creator, so both sides of a room conflict end
// on the same pair.
func (d *Dao) MigrateAccountRoom(account *model.MultisigAccount, roomID string, creatorAccountID string) error {
	account.RoomID = roomID
	account.CreatorAccountID = creatorAccountID
	err := d.db.Model(&model.MultisigAccount{}).Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"room_id":            roomID,
			"creator_account_id": creatorAccountID,
		}).Error
	if err != nil {
		log.Errorf("MigrateAccountRoom failed:%v", err)
		return err
	}
	return nil
}
