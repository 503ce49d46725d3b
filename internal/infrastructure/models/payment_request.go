package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRequest struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	RequesterID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	RecipientID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	MessageID     *uuid.UUID `gorm:"type:uuid"`
	Amount        int64      `gorm:"not null"`
	Currency      string     `gorm:"type:varchar(10);not null;default:'sats'"`
	Type          string     `gorm:"type:varchar(20);not null"`
	Status        string     `gorm:"type:varchar(20);not null;index"`
	Description   string     `gorm:"type:text"`
	ExpiresAt     time.Time  `gorm:"not null;index"`
	DeclineReason string     `gorm:"type:text"`
	CancelReason  string     `gorm:"type:text"`
	ExpiredAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
