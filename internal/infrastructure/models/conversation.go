package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Conversation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	InitiatorID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_conversations_pair"`
	CounterpartID uuid.UUID  `gorm:"type:uuid;not null;index:idx_conversations_pair"`
	LastMessageID *uuid.UUID `gorm:"type:uuid"`
	LastMessageAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

type Participant struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           string    `gorm:"type:varchar(20);not null"`
	JoinedAt       time.Time
}

type Message struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ConversationID uuid.UUID      `gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Content        string         `gorm:"type:text"`
	Type           string         `gorm:"type:varchar(30);not null"`
	Status         string         `gorm:"type:varchar(20)"`
	Visibility     string         `gorm:"type:varchar(20);not null"`
	Amount         int64          `gorm:"not null;default:0"`
	RequestID      *uuid.UUID     `gorm:"type:uuid;index"`
	RequestStatus  string         `gorm:"type:varchar(20)"`
	TransferID     *uuid.UUID     `gorm:"type:uuid;index"`
	Timestamp      time.Time      `gorm:"not null"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

type Notification struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type            string     `gorm:"type:varchar(30);not null"`
	Title           string     `gorm:"type:varchar(255)"`
	Description     string     `gorm:"type:text"`
	Status          string     `gorm:"type:varchar(20);not null;default:'unread'"`
	Priority        int        `gorm:"not null;default:0"`
	PaymentStatus   string     `gorm:"type:varchar(20)"`
	RelatedEntityID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
