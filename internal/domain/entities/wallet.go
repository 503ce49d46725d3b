package entities

import (
	"time"

	"github.com/google/uuid"
)

// WalletType represents the kind of wallet under an account
type WalletType string

const (
	WalletTypeSpending WalletType = "spending"
	WalletTypeSavings  WalletType = "savings"
	WalletTypeBusiness WalletType = "business"
	WalletTypeMultisig WalletType = "multisig"
)

// Wallet represents a balance-holding wallet owned by an account.
// Balance is integer satoshis and is never negative; only the transfer
// engine mutates it.
type Wallet struct {
	ID          uuid.UUID  `json:"id"`
	AccountID   uuid.UUID  `json:"accountId"`
	Type        WalletType `json:"type"`
	Balance     int64      `json:"balance"` // sats
	Currency    string     `json:"currency"`
	Label       string     `json:"label,omitempty"`
	LastUpdated time.Time  `json:"lastUpdated"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Account owns wallets; every user has one personal account
type Account struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Type      string    `json:"type"` // personal, business
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is the identity collaborator's view of a user; the engine only
// reads id, username and email (network-identity metadata on lazily
// created wallets).
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
