package usecases

import (
	"context"

	"sats-chat.backend/internal/domain/entities"
)

// Notifier fans a persisted notification out to the user's live clients.
// Called after the owning transaction commits; implementations must not
// fail the business operation.
type Notifier interface {
	PublishNotification(ctx context.Context, notification *entities.Notification)
}

// NopNotifier discards notifications (tests, offline tooling)
type NopNotifier struct{}

func (NopNotifier) PublishNotification(context.Context, *entities.Notification) {}
