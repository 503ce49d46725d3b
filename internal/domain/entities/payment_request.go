package entities

import (
	"time"

	"github.com/google/uuid"
)

// PaymentRequestStatus represents the status of a payment request.
// pending is initial; approved, declined, cancelled and expired are
// terminal (completed is recorded after a successful approve-driven
// transfer and is also terminal).
type PaymentRequestStatus string

const (
	PaymentRequestStatusPending   PaymentRequestStatus = "pending"
	PaymentRequestStatusApproved  PaymentRequestStatus = "approved"
	PaymentRequestStatusDeclined  PaymentRequestStatus = "declined"
	PaymentRequestStatusCancelled PaymentRequestStatus = "cancelled"
	PaymentRequestStatusCompleted PaymentRequestStatus = "completed"
	PaymentRequestStatusExpired   PaymentRequestStatus = "expired"
)

// IsTerminal reports whether no further status-changing action may succeed
func (s PaymentRequestStatus) IsTerminal() bool {
	return s != PaymentRequestStatusPending
}

// PaymentRequestType is the settlement rail the requester asked for
type PaymentRequestType string

const (
	PaymentRequestTypeLightning PaymentRequestType = "lightning"
	PaymentRequestTypeOnchain   PaymentRequestType = "onchain"
)

// PaymentRequest models a request for funds from one user (requester)
// to another (recipient), driven through a strict one-way state machine.
type PaymentRequest struct {
	ID            uuid.UUID            `json:"id"`
	RequesterID   uuid.UUID            `json:"requesterId"`
	RecipientID   uuid.UUID            `json:"recipientId"`
	MessageID     *uuid.UUID           `json:"messageId,omitempty"`
	Amount        int64                `json:"amount"` // sats, > 0
	Currency      string               `json:"currency"`
	Type          PaymentRequestType   `json:"type"`
	Status        PaymentRequestStatus `json:"status"`
	Description   string               `json:"description,omitempty"`
	ExpiresAt     time.Time            `json:"expiresAt"`
	DeclineReason string               `json:"declineReason,omitempty"`
	CancelReason  string               `json:"cancelReason,omitempty"`
	ExpiredAt     *time.Time           `json:"expiredAt,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// IsExpired reports whether the request has passed its expiry timestamp.
// Checked at call time independently of the stored status so interactive
// actions cannot race the background sweeper.
func (r *PaymentRequest) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
