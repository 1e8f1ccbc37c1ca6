package model

import (
	"time"
)

// Account holds the balance of exactly one client. An account cannot exist
// without its backing client and is removed in the same transaction that
// removes the client. Balance is kept in integer minor units and must stay
// non-negative after every committed transfer; the only writer of Balance
// is the transfer engine's transaction.
type Account struct {
	CPF       string    `gorm:"column:cpf;type:char(11);primaryKey"` // owner client's CPF
	Number    string    `gorm:"type:char(36);uniqueIndex;not null"`  // opaque account number
	Balance   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Account) TableName() string {
	return "account"
}
