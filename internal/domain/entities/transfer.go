package entities

import (
	"time"

	"github.com/google/uuid"
)

// TransferStatus represents the lifecycle of an internal transfer
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusFailed    TransferStatus = "failed"
)

// TransferTransaction is the top-level record of an internal sats
// transfer between two wallets. Immutable once completed; amount and
// endpoints never change after creation.
type TransferTransaction struct {
	ID                  uuid.UUID      `json:"id"`
	SourceWalletID      uuid.UUID      `json:"sourceWalletId"`
	DestinationWalletID uuid.UUID      `json:"destinationWalletId"`
	Amount              int64          `json:"amount"` // sats, > 0
	Fee                 int64          `json:"fee"`    // informational, 0 for internal transfers
	Status              TransferStatus `json:"status"`
	Timestamp           time.Time      `json:"timestamp"`
	Description         string         `json:"description"`
	MessageID           *uuid.UUID     `json:"messageId,omitempty"`
	ProcessingAttempts  int            `json:"processingAttempts"`
	LastAttempt         time.Time      `json:"lastAttempt"`
	ErrorMessage        string         `json:"errorMessage,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// LedgerEntryType distinguishes the two legs of a double-entry pair
type LedgerEntryType string

const (
	LedgerEntryPayment LedgerEntryType = "payment"
	LedgerEntryReceive LedgerEntryType = "receive"
)

// Tag on ledger legs produced by the transfer engine
const LedgerTagInternalTransfer = "internal_transfer"

// Transaction is a single ledger leg on one wallet. Exactly two are
// created per completed transfer: a payment leg on the source wallet and
// a receive leg on the destination wallet, both carrying the same amount
// and cross-referencing the transfer id.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	WalletID     uuid.UUID       `json:"walletId"`
	Type         LedgerEntryType `json:"type"`
	Amount       int64           `json:"amount"`
	Fee          int64           `json:"fee"`
	Status       string          `json:"status"`
	Timestamp    time.Time       `json:"timestamp"`
	Description  string          `json:"description"`
	Counterparty string          `json:"counterparty"` // recipient on payment legs, sender on receive legs
	Tag          string          `json:"tag"`
	TransferID   uuid.UUID       `json:"transferId"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// TransferResult is returned to the caller of a successful transfer
type TransferResult struct {
	TransferID        uuid.UUID `json:"transferId"`
	ConversationID    uuid.UUID `json:"conversationId"`
	SentMessageID     uuid.UUID `json:"sentMessageId"`
	ReceivedMessageID uuid.UUID `json:"receivedMessageId"`
}
