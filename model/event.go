package model

// MultisigEvent is one signatory's recorded contribution to one
// transaction. At most one row per (transaction key, signatory); late
// or redelivered payloads update the row in place.
type MultisigEvent struct {
	ID uint64 `gorm:"primaryKey;autoIncrement:true"`

	TxAccountID  string `gorm:"uniqueIndex:idx_event_key;type:varchar(255)"`
	TxChainID    string `gorm:"uniqueIndex:idx_event_key;type:varchar(255)"`
	TxCallHash   string `gorm:"uniqueIndex:idx_event_key;index;type:varchar(255)"`
	TxCallHeight uint64 `gorm:"uniqueIndex:idx_event_key"`
	TxCallIndex  uint32 `gorm:"uniqueIndex:idx_event_key"`
	Signatory    string `gorm:"uniqueIndex:idx_event_key;type:varchar(255)"`

	Status string `gorm:"type:varchar(32)"`

	ExtrinsicHash string `gorm:"type:varchar(255)"`
	EventHeight   uint64
	EventIndex    uint32

	MultisigOutcome string `gorm:"type:varchar(32)"`
	DateCreated     int64
}

func (MultisigEvent) TableName() string {
	return "multisig_events"
}
