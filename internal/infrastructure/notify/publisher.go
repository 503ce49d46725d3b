package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"go.uber.org/zap"
	"sats-chat.backend/internal/domain/entities"
	"sats-chat.backend/pkg/logger"
	"sats-chat.backend/pkg/redis"
)

const (
	publishAttempts = 3
	publishDelay    = 200 * time.Millisecond
)

// ChannelForUser returns the redis channel a user's clients subscribe to
func ChannelForUser(userID string) string {
	return "notify:user:" + userID
}

// Publisher fans persisted notifications out to per-user redis channels.
// Delivery is best-effort at-least-once: failures are logged and never
// fail the business operation that produced the notification.
type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) PublishNotification(ctx context.Context, notification *entities.Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		logger.Error(ctx, "failed to marshal notification", zap.Error(err))
		return
	}

	channel := ChannelForUser(notification.UserID.String())
	err = retry.Do(
		func() error {
			return redis.Publish(ctx, channel, payload)
		},
		retry.Attempts(publishAttempts),
		retry.Delay(publishDelay),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
	)
	if err != nil {
		logger.Warn(ctx, "notification publish failed",
			zap.String("channel", channel),
			zap.String("notification_id", notification.ID.String()),
			zap.Error(err),
		)
		return
	}

	logger.Debug(ctx, fmt.Sprintf("notification published to %s", channel))
}
