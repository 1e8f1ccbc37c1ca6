package model

import (
	"time"
)

const (
	OutboxStatusPending = "PENDING"
	OutboxStatusSent    = "SENT"
	OutboxStatusFailed  = "FAILED"
)

// OutboxMessage is written in the same transaction as the state change it
// announces; a background sender publishes pending rows to Kafka.
type OutboxMessage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	MessageKey string    `gorm:"type:varchar(64);not null"`
	Topic      string    `gorm:"type:varchar(64);not null"`
	Payload    string    `gorm:"type:text;not null"`
	Status     string    `gorm:"type:varchar(20);index;not null;default:PENDING"`
	RetryCount int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (OutboxMessage) TableName() string {
	return "outbox_message"
}
