package repositories

import (
	"context"

	"github.com/google/uuid"
	"sats-chat.backend/internal/domain/entities"
)

// WalletRepository defines wallet data operations
type WalletRepository interface {
	Create(ctx context.Context, wallet *entities.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	GetByAccountAndType(ctx context.Context, accountID uuid.UUID, walletType entities.WalletType) (*entities.Wallet, error)
	// Debit atomically decrements the balance, refusing to go negative:
	// a conditional UPDATE ... WHERE balance >= amount. Returns
	// ErrInsufficientFunds when the condition fails and ErrWalletNotFound
	// when the wallet does not exist.
	Debit(ctx context.Context, id uuid.UUID, amount int64) error
	Credit(ctx context.Context, id uuid.UUID, amount int64) error
}

// AccountRepository defines account lookups
type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error)
	GetPersonalByUserID(ctx context.Context, userID uuid.UUID) (*entities.Account, error)
}

// UserRepository defines user lookups (identity is an external
// collaborator; the engine only reads)
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}
