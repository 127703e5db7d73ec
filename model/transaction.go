package model

import (
	"github.com/shopspring/decimal"

	"github.com/signet-labs/roomsig/common"
)

type MultisigTransaction struct {
	ID uint64 `gorm:"primaryKey;autoIncrement:true"`

	AccountID  string `gorm:"uniqueIndex:idx_tx_key;type:varchar(255)"`
	ChainID    string `gorm:"uniqueIndex:idx_tx_key;type:varchar(255)"`
	CallHash   string `gorm:"uniqueIndex:idx_tx_key;index;type:varchar(255)"`
	CallHeight uint64 `gorm:"uniqueIndex:idx_tx_key"`
	CallIndex  uint32 `gorm:"uniqueIndex:idx_tx_key"`

	Status string `gorm:"type:varchar(32)"`

	// filled lazily, first payload that carries them wins
	CallData          []byte
	Description       string          `gorm:"type:text"`
	CancelDescription string          `gorm:"type:text"`
	Value             decimal.Decimal `gorm:"type:DECIMAL(38,0)"`

	BlockCreated uint64
	IndexCreated uint32
	DateCreated  int64
}

func (MultisigTransaction) TableName() string {
	return "multisig_transactions"
}

func (t *MultisigTransaction) Key() common.TxKey {
	return common.TxKey{
		AccountID: t.AccountID,
		ChainID:   t.ChainID,
		CallHash:  t.CallHash,
		CallPoint: common.Timepoint{Height: t.CallHeight, Index: t.CallIndex},
	}
}
