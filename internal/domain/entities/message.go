package entities

import (
	"time"

	"github.com/google/uuid"
)

// MessageType is the kind of chat message the engine emits
type MessageType string

const (
	MessageTypePaymentSent     MessageType = "payment_sent"
	MessageTypePaymentReceived MessageType = "payment_received"
	MessageTypePaymentRequest  MessageType = "payment_request"
)

// MessageVisibility scopes a message to one side of the conversation
type MessageVisibility string

const (
	VisibilitySender    MessageVisibility = "sender"
	VisibilityRecipient MessageVisibility = "recipient"
	VisibilityBoth      MessageVisibility = "both"
)

// Message is a chat message produced as a transfer or payment-request
// side effect. Amount and RequestStatus are denormalized copies of the
// linked PaymentRequest and must be kept in sync on every transition;
// the request row stays the source of truth.
type Message struct {
	ID             uuid.UUID            `json:"id"`
	ConversationID uuid.UUID            `json:"conversationId"`
	SenderID       uuid.UUID            `json:"senderId"`
	Content        string               `json:"content"`
	Type           MessageType          `json:"type"`
	Status         string               `json:"status"`
	Visibility     MessageVisibility    `json:"visibility"`
	Amount         int64                `json:"amount,omitempty"`
	RequestID      *uuid.UUID           `json:"requestId,omitempty"`
	RequestStatus  PaymentRequestStatus `json:"requestStatus,omitempty"`
	TransferID     *uuid.UUID           `json:"transferId,omitempty"`
	Timestamp      time.Time            `json:"timestamp"`
}
