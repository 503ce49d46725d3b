package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"sats-chat.backend/internal/domain/entities"
	domainerrors "sats-chat.backend/internal/domain/errors"
	"sats-chat.backend/internal/infrastructure/models"
)

// TransferRepositoryImpl implements TransferRepository
type TransferRepositoryImpl struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) *TransferRepositoryImpl {
	return &TransferRepositoryImpl{db: db}
}

func (r *TransferRepositoryImpl) Create(ctx context.Context, transfer *entities.TransferTransaction) error {
	now := time.Now()
	m := &models.TransferTransaction{
		ID:                  transfer.ID,
		SourceWalletID:      transfer.SourceWalletID,
		DestinationWalletID: transfer.DestinationWalletID,
		Amount:              transfer.Amount,
		Fee:                 transfer.Fee,
		Status:              string(transfer.Status),
		Timestamp:           transfer.Timestamp,
		Description:         transfer.Description,
		MessageID:           transfer.MessageID,
		ProcessingAttempts:  transfer.ProcessingAttempts,
		LastAttempt:         transfer.LastAttempt,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *TransferRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.TransferTransaction, error) {
	var m models.TransferTransaction
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *TransferRepositoryImpl) MarkCompleted(ctx context.Context, id uuid.UUID, messageID uuid.UUID) error {
	return GetDB(ctx, r.db).WithContext(ctx).Model(&models.TransferTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     entities.TransferStatusCompleted,
			"message_id": messageID,
			"updated_at": time.Now(),
		}).Error
}

func (r *TransferRepositoryImpl) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	return GetDB(ctx, r.db).WithContext(ctx).Model(&models.TransferTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        entities.TransferStatusFailed,
			"error_message": errorMessage,
			"last_attempt":  time.Now(),
			"updated_at":    time.Now(),
		}).Error
}

func (r *TransferRepositoryImpl) toEntity(m *models.TransferTransaction) *entities.TransferTransaction {
	return &entities.TransferTransaction{
		ID:                  m.ID,
		SourceWalletID:      m.SourceWalletID,
		DestinationWalletID: m.DestinationWalletID,
		Amount:              m.Amount,
		Fee:                 m.Fee,
		Status:              entities.TransferStatus(m.Status),
		Timestamp:           m.Timestamp,
		Description:         m.Description,
		MessageID:           m.MessageID,
		ProcessingAttempts:  m.ProcessingAttempts,
		LastAttempt:         m.LastAttempt,
		ErrorMessage:        m.ErrorMessage,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// LedgerRepositoryImpl implements LedgerRepository
type LedgerRepositoryImpl struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepositoryImpl {
	return &LedgerRepositoryImpl{db: db}
}

func (r *LedgerRepositoryImpl) Create(ctx context.Context, tx *entities.Transaction) error {
	m := &models.Transaction{
		ID:           tx.ID,
		WalletID:     tx.WalletID,
		Type:         string(tx.Type),
		Amount:       tx.Amount,
		Fee:          tx.Fee,
		Status:       tx.Status,
		Timestamp:    tx.Timestamp,
		Description:  tx.Description,
		Counterparty: tx.Counterparty,
		Tag:          tx.Tag,
		TransferID:   tx.TransferID,
		CreatedAt:    time.Now(),
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *LedgerRepositoryImpl) GetByTransferID(ctx context.Context, transferID uuid.UUID) ([]*entities.Transaction, error) {
	var ms []models.Transaction
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("transfer_id = ?", transferID).
		Order("type ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	var txs []*entities.Transaction
	for _, m := range ms {
		model := m
		txs = append(txs, r.toEntity(&model))
	}
	return txs, nil
}

func (r *LedgerRepositoryImpl) GetByWalletID(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.Transaction, int, error) {
	var total int64
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Transaction{}).
		Where("wallet_id = ?", walletID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Transaction
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("timestamp DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var txs []*entities.Transaction
	for _, m := range ms {
		model := m
		txs = append(txs, r.toEntity(&model))
	}
	return txs, int(total), nil
}

func (r *LedgerRepositoryImpl) toEntity(m *models.Transaction) *entities.Transaction {
	return &entities.Transaction{
		ID:           m.ID,
		WalletID:     m.WalletID,
		Type:         entities.LedgerEntryType(m.Type),
		Amount:       m.Amount,
		Fee:          m.Fee,
		Status:       m.Status,
		Timestamp:    m.Timestamp,
		Description:  m.Description,
		Counterparty: m.Counterparty,
		Tag:          m.Tag,
		TransferID:   m.TransferID,
		CreatedAt:    m.CreatedAt,
	}
}
