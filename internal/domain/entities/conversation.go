package entities

import (
	"time"

	"github.com/google/uuid"
)

// ParticipantRole is the role a user holds inside a conversation
type ParticipantRole string

const (
	ParticipantRoleAdmin  ParticipantRole = "admin"
	ParticipantRoleMember ParticipantRole = "member"
)

// Conversation is a 1:1 chat between two users. The transfer engine
// resolves or lazily creates one per counterparty pair.
type Conversation struct {
	ID            uuid.UUID  `json:"id"`
	InitiatorID   uuid.UUID  `json:"initiatorId"`
	CounterpartID uuid.UUID  `json:"counterpartId"`
	LastMessageID *uuid.UUID `json:"lastMessageId,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Participant is a membership record of a user in a conversation
type Participant struct {
	ID             uuid.UUID       `json:"id"`
	ConversationID uuid.UUID       `json:"conversationId"`
	UserID         uuid.UUID       `json:"userId"`
	Role           ParticipantRole `json:"role"`
	JoinedAt       time.Time       `json:"joinedAt"`
}
