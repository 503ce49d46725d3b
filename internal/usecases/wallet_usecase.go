package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"sats-chat.backend/internal/domain/entities"
	domainerrors "sats-chat.backend/internal/domain/errors"
	domainRepos "sats-chat.backend/internal/domain/repositories"
	"sats-chat.backend/pkg/utils"
)

// WalletUsecase resolves and validates wallets for the transfer engine
type WalletUsecase struct {
	walletRepo  domainRepos.WalletRepository
	accountRepo domainRepos.AccountRepository
	userRepo    domainRepos.UserRepository
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(
	walletRepo domainRepos.WalletRepository,
	accountRepo domainRepos.AccountRepository,
	userRepo domainRepos.UserRepository,
) *WalletUsecase {
	return &WalletUsecase{
		walletRepo:  walletRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
	}
}

// GetOrCreateSpendingWallet finds the user's default spending wallet,
// lazily creating a zero-balance one under their personal account. The
// unique (account_id, type) index makes concurrent first-use creation
// safe: the loser of the race re-reads the winner's row.
func (u *WalletUsecase) GetOrCreateSpendingWallet(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	account, err := u.accountRepo.GetPersonalByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	wallet, err := u.walletRepo.GetByAccountAndType(ctx, account.ID, entities.WalletTypeSpending)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, domainerrors.ErrWalletNotFound) {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	wallet = &entities.Wallet{
		ID:        utils.GenerateUUIDv7(),
		AccountID: account.ID,
		Type:      entities.WalletTypeSpending,
		Balance:   0,
		Currency:  "sats",
		Label:     networkIdentity(user),
		CreatedAt: time.Now(),
	}
	if err := u.walletRepo.Create(ctx, wallet); err != nil {
		var appErr *domainerrors.AppError
		if errors.As(err, &appErr) {
			// Lost the creation race; the wallet exists now
			return u.walletRepo.GetByAccountAndType(ctx, account.ID, entities.WalletTypeSpending)
		}
		return nil, err
	}
	return wallet, nil
}

// ValidateTransferEligibility checks a wallet may serve as a transfer
// source for the given amount. Read-only, no side effects.
func (u *WalletUsecase) ValidateTransferEligibility(ctx context.Context, walletID uuid.UUID, amount int64) (*entities.Wallet, error) {
	if amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	wallet, err := u.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	if wallet.Type != entities.WalletTypeSpending {
		return nil, domainerrors.ErrInvalidWalletType
	}

	if wallet.Balance < amount {
		return nil, domainerrors.ErrInsufficientFunds
	}

	return wallet, nil
}

// networkIdentity derives the wallet's network-identity label from the
// owning user
func networkIdentity(user *entities.User) string {
	if user.Username != "" {
		return fmt.Sprintf("%s@satschat", user.Username)
	}
	return user.Email
}
