package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"sats-chat.backend/internal/domain/entities"
)

// ConversationRepository defines conversation data operations
type ConversationRepository interface {
	Create(ctx context.Context, conversation *entities.Conversation, participants []*entities.Participant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Conversation, error)
	// GetByParticipants matches the pair in either ordering
	GetByParticipants(ctx context.Context, userA, userB uuid.UUID) (*entities.Conversation, error)
	UpdateLastMessage(ctx context.Context, id uuid.UUID, messageID uuid.UUID, at time.Time) error
}

// MessageRepository defines chat-message data operations
type MessageRepository interface {
	Create(ctx context.Context, message *entities.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Message, error)
	// UpdateRequestState syncs the denormalized request fields on the
	// message linked to a payment request
	UpdateRequestState(ctx context.Context, id uuid.UUID, status entities.PaymentRequestStatus, amount *int64) error
}

// NotificationRepository defines notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *entities.Notification) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Notification, int, error)
	GetByRelatedEntity(ctx context.Context, relatedEntityID uuid.UUID) ([]*entities.Notification, error)
	// UpdatePaymentStatusByRelatedEntity patches the display status on
	// every notification tied to an entity, in place, without duplicating
	UpdatePaymentStatusByRelatedEntity(ctx context.Context, relatedEntityID uuid.UUID, status entities.PaymentDataStatus) error
}
