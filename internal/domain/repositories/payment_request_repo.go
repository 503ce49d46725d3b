package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"sats-chat.backend/internal/domain/entities"
)

// PaymentRequestPatch is the set of mutable fields a state transition
// may write alongside the status flip
type PaymentRequestPatch struct {
	MessageID     *uuid.UUID
	Amount        *int64
	ExpiresAt     *time.Time
	DeclineReason *string
	CancelReason  *string
	ExpiredAt     *time.Time
}

// PaymentRequestRepository defines payment-request data operations
type PaymentRequestRepository interface {
	Create(ctx context.Context, request *entities.PaymentRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentRequest, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.PaymentRequest, int, error)
	// UpdateStatus flips the status with a compare-and-swap (WHERE
	// status = from); returns ErrAlreadyTerminal when zero rows match,
	// which makes every transition idempotent under races.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.PaymentRequestStatus, patch PaymentRequestPatch) error
	// UpdatePending patches fields of a still-pending request without a
	// status change (edit / remind paths).
	UpdatePending(ctx context.Context, id uuid.UUID, patch PaymentRequestPatch) error
	GetExpiredPending(ctx context.Context, now time.Time, limit int) ([]*entities.PaymentRequest, error)
}
