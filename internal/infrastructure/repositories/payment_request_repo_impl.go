package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"sats-chat.backend/internal/domain/entities"
	domainerrors "sats-chat.backend/internal/domain/errors"
	domainRepos "sats-chat.backend/internal/domain/repositories"
	"sats-chat.backend/internal/infrastructure/models"
)

// PaymentRequestRepositoryImpl implements PaymentRequestRepository
type PaymentRequestRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRequestRepository(db *gorm.DB) *PaymentRequestRepositoryImpl {
	return &PaymentRequestRepositoryImpl{db: db}
}

func (r *PaymentRequestRepositoryImpl) Create(ctx context.Context, req *entities.PaymentRequest) error {
	now := time.Now()
	m := &models.PaymentRequest{
		ID:          req.ID,
		RequesterID: req.RequesterID,
		RecipientID: req.RecipientID,
		MessageID:   req.MessageID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Type:        string(req.Type),
		Status:      string(req.Status),
		Description: req.Description,
		ExpiresAt:   req.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	req.CreatedAt = now
	req.UpdatedAt = now
	return nil
}

func (r *PaymentRequestRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentRequest, error) {
	var m models.PaymentRequest
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRequestNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *PaymentRequestRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.PaymentRequest, int, error) {
	var total int64
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.PaymentRequest{}).
		Where("requester_id = ? OR recipient_id = ?", userID, userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.PaymentRequest
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("requester_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var requests []*entities.PaymentRequest
	for _, m := range ms {
		model := m
		requests = append(requests, r.toEntity(&model))
	}
	return requests, int(total), nil
}

// UpdateStatus is the compare-and-swap state transition point. Zero
// affected rows means the request was missing or not in the expected
// from-status; callers distinguish the two via a follow-up read.
func (r *PaymentRequestRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.PaymentRequestStatus, patch domainRepos.PaymentRequestPatch) error {
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": time.Now(),
	}
	applyPatch(updates, patch)

	res := GetDB(ctx, r.db).WithContext(ctx).Model(&models.PaymentRequest{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.PaymentRequest{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrRequestNotFound
		}
		return domainerrors.ErrAlreadyTerminal
	}
	return nil
}

func (r *PaymentRequestRepositoryImpl) UpdatePending(ctx context.Context, id uuid.UUID, patch domainRepos.PaymentRequestPatch) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	applyPatch(updates, patch)

	res := GetDB(ctx, r.db).WithContext(ctx).Model(&models.PaymentRequest{}).
		Where("id = ? AND status = ?", id, entities.PaymentRequestStatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.PaymentRequest{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrRequestNotFound
		}
		return domainerrors.ErrAlreadyTerminal
	}
	return nil
}

func (r *PaymentRequestRepositoryImpl) GetExpiredPending(ctx context.Context, now time.Time, limit int) ([]*entities.PaymentRequest, error) {
	var ms []models.PaymentRequest
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("status = ? AND expires_at < ?", entities.PaymentRequestStatusPending, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var requests []*entities.PaymentRequest
	for _, m := range ms {
		model := m
		requests = append(requests, r.toEntity(&model))
	}
	return requests, nil
}

func applyPatch(updates map[string]interface{}, patch domainRepos.PaymentRequestPatch) {
	if patch.MessageID != nil {
		updates["message_id"] = *patch.MessageID
	}
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}
	if patch.ExpiresAt != nil {
		updates["expires_at"] = *patch.ExpiresAt
	}
	if patch.DeclineReason != nil {
		updates["decline_reason"] = *patch.DeclineReason
	}
	if patch.CancelReason != nil {
		updates["cancel_reason"] = *patch.CancelReason
	}
	if patch.ExpiredAt != nil {
		updates["expired_at"] = *patch.ExpiredAt
	}
}

func (r *PaymentRequestRepositoryImpl) toEntity(m *models.PaymentRequest) *entities.PaymentRequest {
	return &entities.PaymentRequest{
		ID:            m.ID,
		RequesterID:   m.RequesterID,
		RecipientID:   m.RecipientID,
		MessageID:     m.MessageID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Type:          entities.PaymentRequestType(m.Type),
		Status:        entities.PaymentRequestStatus(m.Status),
		Description:   m.Description,
		ExpiresAt:     m.ExpiresAt,
		DeclineReason: m.DeclineReason,
		CancelReason:  m.CancelReason,
		ExpiredAt:     m.ExpiredAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
