package model

import (
	"time"
)

// Transfer is one committed balance movement between two CPFs.
//
// Rows are append-only: created exclusively inside the transfer engine's
// transaction, never updated or deleted. The CPFs are stored as plain
// values, not live foreign keys, so the history survives client deletion.
type Transfer struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	ReferenceNo string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	SourceCPF   string    `gorm:"column:source_cpf;type:char(11);index;not null"`
	TargetCPF   string    `gorm:"column:target_cpf;type:char(11);index;not null"`
	Amount      int64     `gorm:"not null"` // minor units, always positive
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Transfer) TableName() string {
	return "transfer"
}
