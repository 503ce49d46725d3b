package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransferTransaction struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	SourceWalletID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	DestinationWalletID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Amount              int64      `gorm:"not null"`
	Fee                 int64      `gorm:"not null;default:0"`
	Status              string     `gorm:"type:varchar(20);not null;index"`
	Timestamp           time.Time  `gorm:"not null"`
	Description         string     `gorm:"type:text"`
	MessageID           *uuid.UUID `gorm:"type:uuid"`
	ProcessingAttempts  int        `gorm:"not null;default:0"`
	LastAttempt         time.Time
	ErrorMessage        string `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Transaction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	WalletID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Type         string    `gorm:"type:varchar(20);not null"`
	Amount       int64     `gorm:"not null"`
	Fee          int64     `gorm:"not null;default:0"`
	Status       string    `gorm:"type:varchar(20);not null"`
	Timestamp    time.Time `gorm:"not null"`
	Description  string    `gorm:"type:text"`
	Counterparty string    `gorm:"type:varchar(255)"`
	Tag          string    `gorm:"type:varchar(50);index"`
	TransferID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
