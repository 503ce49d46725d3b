package usecases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"sats-chat.backend/internal/domain/entities"
	domainerrors "sats-chat.backend/internal/domain/errors"
)

func newWalletUsecaseForTest() (*WalletUsecase, *MockWalletRepository, *MockAccountRepository, *MockUserRepository) {
	walletRepo := new(MockWalletRepository)
	accountRepo := new(MockAccountRepository)
	userRepo := new(MockUserRepository)
	return NewWalletUsecase(walletRepo, accountRepo, userRepo), walletRepo, accountRepo, userRepo
}

func TestGetOrCreateSpendingWallet_Existing(t *testing.T) {
	uc, walletRepo, accountRepo, _ := newWalletUsecaseForTest()
	ctx := context.Background()

	userID := uuid.New()
	account := &entities.Account{ID: uuid.New(), UserID: userID, Type: "personal"}
	wallet := &entities.Wallet{ID: uuid.New(), AccountID: account.ID, Type: entities.WalletTypeSpending, Balance: 5000}

	accountRepo.On("GetPersonalByUserID", ctx, userID).Return(account, nil)
	walletRepo.On("GetByAccountAndType", ctx, account.ID, entities.WalletTypeSpending).Return(wallet, nil)

	got, err := uc.GetOrCreateSpendingWallet(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, got.ID)
	walletRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetOrCreateSpendingWallet_LazyCreate(t *testing.T) {
	uc, walletRepo, accountRepo, userRepo := newWalletUsecaseForTest()
	ctx := context.Background()

	userID := uuid.New()
	account := &entities.Account{ID: uuid.New(), UserID: userID, Type: "personal"}
	user := &entities.User{ID: userID, Username: "alice", Email: "alice@example.com"}

	accountRepo.On("GetPersonalByUserID", ctx, userID).Return(account, nil)
	walletRepo.On("GetByAccountAndType", ctx, account.ID, entities.WalletTypeSpending).Return(nil, domainerrors.ErrWalletNotFound)
	userRepo.On("GetByID", ctx, userID).Return(user, nil)
	walletRepo.On("Create", ctx, mock.MatchedBy(func(w *entities.Wallet) bool {
		return w.AccountID == account.ID &&
			w.Type == entities.WalletTypeSpending &&
			w.Balance == 0 &&
			w.Currency == "sats" &&
			w.Label == "alice@satschat"
	})).Return(nil)

	got, err := uc.GetOrCreateSpendingWallet(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Balance)
	assert.Equal(t, "alice@satschat", got.Label)
	walletRepo.AssertExpectations(t)
}

func TestGetOrCreateSpendingWallet_CreationRaceRereads(t *testing.T) {
	uc, walletRepo, accountRepo, userRepo := newWalletUsecaseForTest()
	ctx := context.Background()

	userID := uuid.New()
	account := &entities.Account{ID: uuid.New(), UserID: userID, Type: "personal"}
	user := &entities.User{ID: userID, Username: "bob"}
	winner := &entities.Wallet{ID: uuid.New(), AccountID: account.ID, Type: entities.WalletTypeSpending}

	accountRepo.On("GetPersonalByUserID", ctx, userID).Return(account, nil)
	walletRepo.On("GetByAccountAndType", ctx, account.ID, entities.WalletTypeSpending).
		Return(nil, domainerrors.ErrWalletNotFound).Once()
	userRepo.On("GetByID", ctx, userID).Return(user, nil)
	walletRepo.On("Create", ctx, mock.Anything).Return(domainerrors.Conflict("wallet already exists", nil))
	walletRepo.On("GetByAccountAndType", ctx, account.ID, entities.WalletTypeSpending).
		Return(winner, nil).Once()

	got, err := uc.GetOrCreateSpendingWallet(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
}

func TestValidateTransferEligibility(t *testing.T) {
	walletID := uuid.New()

	tests := []struct {
		name    string
		amount  int64
		wallet  *entities.Wallet
		getErr  error
		wantErr error
	}{
		{
			name:    "zero amount",
			amount:  0,
			wantErr: domainerrors.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			amount:  -10,
			wantErr: domainerrors.ErrInvalidAmount,
		},
		{
			name:    "wallet not found",
			amount:  100,
			getErr:  domainerrors.ErrWalletNotFound,
			wantErr: domainerrors.ErrWalletNotFound,
		},
		{
			name:    "non-spending wallet",
			amount:  100,
			wallet:  &entities.Wallet{ID: walletID, Type: entities.WalletTypeSavings, Balance: 1000},
			wantErr: domainerrors.ErrInvalidWalletType,
		},
		{
			name:    "insufficient balance",
			amount:  100,
			wallet:  &entities.Wallet{ID: walletID, Type: entities.WalletTypeSpending, Balance: 99},
			wantErr: domainerrors.ErrInsufficientFunds,
		},
		{
			name:   "eligible",
			amount: 100,
			wallet: &entities.Wallet{ID: walletID, Type: entities.WalletTypeSpending, Balance: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, walletRepo, _, _ := newWalletUsecaseForTest()
			ctx := context.Background()
			if tt.amount > 0 {
				if tt.getErr != nil {
					walletRepo.On("GetByID", ctx, walletID).Return(nil, tt.getErr)
				} else {
					walletRepo.On("GetByID", ctx, walletID).Return(tt.wallet, nil)
				}
			}

			got, err := uc.ValidateTransferEligibility(ctx, walletID, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, walletID, got.ID)
		})
	}
}
