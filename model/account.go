package model

import "encoding/json"

type MultisigAccount struct {
	ID uint64 `gorm:"primaryKey;autoIncrement:true"`

	AccountID string `gorm:"uniqueIndex:idx_account_chain;type:varchar(255)"`
	ChainID   string `gorm:"uniqueIndex:idx_account_chain;type:varchar(255)"`

	RoomID           string `gorm:"type:varchar(255)"`
	CreatorAccountID string `gorm:"type:varchar(255)"`
	Name             string `gorm:"type:varchar(255)"`

	Threshold   uint16
	Signatories string `gorm:"type:longtext"` // JSON array of account ids
	CryptoType  string `gorm:"type:varchar(32)"`

	DateCreated int64
}

func (MultisigAccount) TableName() string {
	return "multisig_accounts"
}

func (a *MultisigAccount) SignatoryList() ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(a.Signatories), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *MultisigAccount) SetSignatoryList(signatories []string) {
	raw, _ := json.Marshal(signatories)
	a.Signatories = string(raw)
}
