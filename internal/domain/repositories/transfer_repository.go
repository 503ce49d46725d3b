package repositories

import (
	"context"

	"github.com/google/uuid"
	"sats-chat.backend/internal/domain/entities"
)

// TransferRepository defines transfer-transaction data operations
type TransferRepository interface {
	Create(ctx context.Context, transfer *entities.TransferTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.TransferTransaction, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, messageID uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
}

// LedgerRepository defines ledger-leg data operations
type LedgerRepository interface {
	Create(ctx context.Context, tx *entities.Transaction) error
	GetByTransferID(ctx context.Context, transferID uuid.UUID) ([]*entities.Transaction, error)
	GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.Transaction, int, error)
}
