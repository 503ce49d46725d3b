package entities

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType is the event class a notification announces
type NotificationType string

const (
	NotificationPaymentSent     NotificationType = "payment_sent"
	NotificationPaymentReceived NotificationType = "payment_received"
	NotificationRequestCreated  NotificationType = "request_created"
	NotificationRequestReminder NotificationType = "request_reminder"
	NotificationRequestUpdated  NotificationType = "request_updated"
	NotificationRequestExpired  NotificationType = "request_expired"
)

// PaymentDataStatus is the display status notifications carry for the
// underlying payment or request
type PaymentDataStatus string

const (
	PaymentDataCompleted PaymentDataStatus = "completed"
	PaymentDataPending   PaymentDataStatus = "pending"
	PaymentDataFailed    PaymentDataStatus = "failed"
	PaymentDataExpired   PaymentDataStatus = "expired"
)

// Priority assigned to payment notifications
const PaymentNotificationPriority = 50

// Notification is a user-scoped announcement. Notifications tied to an
// entity via RelatedEntityID are patched in place when that entity's
// status changes rather than duplicated.
type Notification struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"userId"`
	Type            NotificationType  `json:"type"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Status          string            `json:"status"` // unread, read
	Priority        int               `json:"priority"`
	PaymentStatus   PaymentDataStatus `json:"paymentStatus,omitempty"`
	RelatedEntityID *uuid.UUID        `json:"relatedEntityId,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}
