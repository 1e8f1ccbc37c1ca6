package model

import (
	"time"
)

// Client is a registered bank client, keyed by CPF.
// The CPF is the natural primary key; uniqueness is enforced at creation.
type Client struct {
	CPF       string    `gorm:"column:cpf;type:char(11);primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Phone     string    `gorm:"type:varchar(20);not null"` // E.164, +55 prefixed
	Email     string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Client) TableName() string {
	return "client"
}
