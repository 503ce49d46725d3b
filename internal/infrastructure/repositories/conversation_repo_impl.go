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

// ConversationRepositoryImpl implements ConversationRepository
type ConversationRepositoryImpl struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepositoryImpl {
	return &ConversationRepositoryImpl{db: db}
}

func (r *ConversationRepositoryImpl) Create(ctx context.Context, conversation *entities.Conversation, participants []*entities.Participant) error {
	now := time.Now()
	db := GetDB(ctx, r.db).WithContext(ctx)

	m := &models.Conversation{
		ID:            conversation.ID,
		InitiatorID:   conversation.InitiatorID,
		CounterpartID: conversation.CounterpartID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(m).Error; err != nil {
		return err
	}

	for _, p := range participants {
		pm := &models.Participant{
			ID:             p.ID,
			ConversationID: p.ConversationID,
			UserID:         p.UserID,
			Role:           string(p.Role),
			JoinedAt:       now,
		}
		if err := db.Create(pm).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ConversationRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Conversation, error) {
	var m models.Conversation
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByParticipants looks the pair up in both orderings before reporting
// not found, so either side can have initiated the conversation.
func (r *ConversationRepositoryImpl) GetByParticipants(ctx context.Context, userA, userB uuid.UUID) (*entities.Conversation, error) {
	var m models.Conversation
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("(initiator_id = ? AND counterpart_id = ?) OR (initiator_id = ? AND counterpart_id = ?)",
			userA, userB, userB, userA).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *ConversationRepositoryImpl) UpdateLastMessage(ctx context.Context, id uuid.UUID, messageID uuid.UUID, at time.Time) error {
	return GetDB(ctx, r.db).WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_message_id": messageID,
			"last_message_at": at,
			"updated_at":      time.Now(),
		}).Error
}

func (r *ConversationRepositoryImpl) toEntity(m *models.Conversation) *entities.Conversation {
	return &entities.Conversation{
		ID:            m.ID,
		InitiatorID:   m.InitiatorID,
		CounterpartID: m.CounterpartID,
		LastMessageID: m.LastMessageID,
		LastMessageAt: m.LastMessageAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// MessageRepositoryImpl implements MessageRepository
type MessageRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepositoryImpl {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entities.Message) error {
	m := &models.Message{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Content:        message.Content,
		Type:           string(message.Type),
		Status:         message.Status,
		Visibility:     string(message.Visibility),
		Amount:         message.Amount,
		RequestID:      message.RequestID,
		RequestStatus:  string(message.RequestStatus),
		TransferID:     message.TransferID,
		Timestamp:      message.Timestamp,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *MessageRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Message, error) {
	var m models.Message
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		Type:           entities.MessageType(m.Type),
		Status:         m.Status,
		Visibility:     entities.MessageVisibility(m.Visibility),
		Amount:         m.Amount,
		RequestID:      m.RequestID,
		RequestStatus:  entities.PaymentRequestStatus(m.RequestStatus),
		TransferID:     m.TransferID,
		Timestamp:      m.Timestamp,
	}, nil
}

func (r *MessageRepositoryImpl) UpdateRequestState(ctx context.Context, id uuid.UUID, status entities.PaymentRequestStatus, amount *int64) error {
	updates := map[string]interface{}{
		"request_status": string(status),
	}
	if amount != nil {
		updates["amount"] = *amount
	}
	return GetDB(ctx, r.db).WithContext(ctx).Model(&models.Message{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// NotificationRepositoryImpl implements NotificationRepository
type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepositoryImpl {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *entities.Notification) error {
	now := time.Now()
	m := &models.Notification{
		ID:              notification.ID,
		UserID:          notification.UserID,
		Type:            string(notification.Type),
		Title:           notification.Title,
		Description:     notification.Description,
		Status:          notification.Status,
		Priority:        notification.Priority,
		PaymentStatus:   string(notification.PaymentStatus),
		RelatedEntityID: notification.RelatedEntityID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

func (r *NotificationRepositoryImpl) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Notification, int, error) {
	var total int64
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Notification
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var notifications []*entities.Notification
	for _, m := range ms {
		model := m
		notifications = append(notifications, r.toEntity(&model))
	}
	return notifications, int(total), nil
}

func (r *NotificationRepositoryImpl) GetByRelatedEntity(ctx context.Context, relatedEntityID uuid.UUID) ([]*entities.Notification, error) {
	var ms []models.Notification
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("related_entity_id = ?", relatedEntityID).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	var notifications []*entities.Notification
	for _, m := range ms {
		model := m
		notifications = append(notifications, r.toEntity(&model))
	}
	return notifications, nil
}

func (r *NotificationRepositoryImpl) UpdatePaymentStatusByRelatedEntity(ctx context.Context, relatedEntityID uuid.UUID, status entities.PaymentDataStatus) error {
	return GetDB(ctx, r.db).WithContext(ctx).Model(&models.Notification{}).
		Where("related_entity_id = ?", relatedEntityID).
		Updates(map[string]interface{}{
			"payment_status": string(status),
			"updated_at":     time.Now(),
		}).Error
}

func (r *NotificationRepositoryImpl) toEntity(m *models.Notification) *entities.Notification {
	return &entities.Notification{
		ID:              m.ID,
		UserID:          m.UserID,
		Type:            entities.NotificationType(m.Type),
		Title:           m.Title,
		Description:     m.Description,
		Status:          m.Status,
		Priority:        m.Priority,
		PaymentStatus:   entities.PaymentDataStatus(m.PaymentStatus),
		RelatedEntityID: m.RelatedEntityID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
