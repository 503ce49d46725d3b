package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"sats-chat.backend/internal/domain/entities"
	domainerrors "sats-chat.backend/internal/domain/errors"
	"sats-chat.backend/internal/infrastructure/models"
)

// WalletRepositoryImpl implements WalletRepository
type WalletRepositoryImpl struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepositoryImpl {
	return &WalletRepositoryImpl{db: db}
}

func (r *WalletRepositoryImpl) Create(ctx context.Context, wallet *entities.Wallet) error {
	now := time.Now()
	m := &models.Wallet{
		ID:          wallet.ID,
		AccountID:   wallet.AccountID,
		Type:        string(wallet.Type),
		Balance:     wallet.Balance,
		Currency:    wallet.Currency,
		Label:       wallet.Label,
		LastUpdated: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.Conflict("wallet already exists for account", err)
		}
		return err
	}
	wallet.LastUpdated = now
	wallet.CreatedAt = now
	return nil
}

func (r *WalletRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *WalletRepositoryImpl) GetByAccountAndType(ctx context.Context, accountID uuid.UUID, walletType entities.WalletType) (*entities.Wallet, error) {
	var m models.Wallet
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("account_id = ? AND type = ?", accountID, string(walletType)).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrWalletNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Debit is the single point where a balance decreases. The conditional
// update refuses to overdraw even when a stale read-side check passed.
func (r *WalletRepositoryImpl) Debit(ctx context.Context, id uuid.UUID, amount int64) error {
	res := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Wallet{}).
		Where("id = ? AND balance >= ?", id, amount).
		Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance - ?", amount),
			"last_updated": time.Now(),
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Wallet{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrWalletNotFound
		}
		return domainerrors.ErrInsufficientFunds
	}
	return nil
}

func (r *WalletRepositoryImpl) Credit(ctx context.Context, id uuid.UUID, amount int64) error {
	res := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Wallet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance + ?", amount),
			"last_updated": time.Now(),
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrWalletNotFound
	}
	return nil
}

func (r *WalletRepositoryImpl) toEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		ID:          m.ID,
		AccountID:   m.AccountID,
		Type:        entities.WalletType(m.Type),
		Balance:     m.Balance,
		Currency:    m.Currency,
		Label:       m.Label,
		LastUpdated: m.LastUpdated,
		CreatedAt:   m.CreatedAt,
	}
}

// isUniqueViolation detects duplicate-key errors across postgres and the
// sqlite driver used in tests
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// AccountRepositoryImpl implements AccountRepository
type AccountRepositoryImpl struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepositoryImpl {
	return &AccountRepositoryImpl{db: db}
}

func (r *AccountRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	var m models.Account
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}
		return nil, err
	}
	return accountToEntity(&m), nil
}

func (r *AccountRepositoryImpl) GetPersonalByUserID(ctx context.Context, userID uuid.UUID) (*entities.Account, error) {
	var m models.Account
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, "personal").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}
		return nil, err
	}
	return accountToEntity(&m), nil
}

func accountToEntity(m *models.Account) *entities.Account {
	return &entities.Account{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      m.Type,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// UserRepositoryImpl implements UserRepository
type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}
		return nil, err
	}
	return &entities.User{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}, nil
}
