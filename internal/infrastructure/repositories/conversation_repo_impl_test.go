package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"sats-chat.backend/internal/domain/entities"
	domainerrors "sats-chat.backend/internal/domain/errors"
)

func TestConversationRepository_CreateAndLookup(t *testing.T) {
	db := newTestDB(t)
	createConversationTables(t, db)
	ctx := context.Background()
	repo := NewConversationRepository(db)

	alice := uuid.New()
	bob := uuid.New()
	conversation := &entities.Conversation{
		ID:            uuid.New(),
		InitiatorID:   alice,
		CounterpartID: bob,
	}
	participants := []*entities.Participant{
		{ID: uuid.New(), ConversationID: conversation.ID, UserID: alice, Role: entities.ParticipantRoleAdmin},
		{ID: uuid.New(), ConversationID: conversation.ID, UserID: bob, Role: entities.ParticipantRoleMember},
	}
	require.NoError(t, repo.Create(ctx, conversation, participants))

	got, err := repo.GetByID(ctx, conversation.ID)
	require.NoError(t, err)
	require.Equal(t, alice, got.InitiatorID)

	// Either ordering of the pair resolves the same conversation
	got, err = repo.GetByParticipants(ctx, alice, bob)
	require.NoError(t, err)
	require.Equal(t, conversation.ID, got.ID)
	got, err = repo.GetByParticipants(ctx, bob, alice)
	require.NoError(t, err)
	require.Equal(t, conversation.ID, got.ID)

	_, err = repo.GetByParticipants(ctx, alice, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestConversationRepository_UpdateLastMessage(t *testing.T) {
	db := newTestDB(t)
	createConversationTables(t, db)
	ctx := context.Background()
	repo := NewConversationRepository(db)

	conversation := &entities.Conversation{
		ID:            uuid.New(),
		InitiatorID:   uuid.New(),
		CounterpartID: uuid.New(),
	}
	require.NoError(t, repo.Create(ctx, conversation, nil))

	messageID := uuid.New()
	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastMessage(ctx, conversation.ID, messageID, at))

	got, err := repo.GetByID(ctx, conversation.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessageID)
	require.Equal(t, messageID, *got.LastMessageID)
	require.NotNil(t, got.LastMessageAt)
	require.True(t, got.LastMessageAt.Equal(at))
}

func TestMessageRepository_UpdateRequestState(t *testing.T) {
	db := newTestDB(t)
	createConversationTables(t, db)
	ctx := context.Background()
	repo := NewMessageRepository(db)

	requestID := uuid.New()
	message := &entities.Message{
		ID:             uuid.New(),
		ConversationID: uuid.New(),
		SenderID:       uuid.New(),
		Content:        "Requested 1000 sats",
		Type:           entities.MessageTypePaymentRequest,
		Status:         "delivered",
		Visibility:     entities.VisibilityBoth,
		Amount:         1_000,
		RequestID:      &requestID,
		RequestStatus:  entities.PaymentRequestStatusPending,
		Timestamp:      time.Now(),
	}
	require.NoError(t, repo.Create(ctx, message))

	// Status-only sync keeps the amount
	require.NoError(t, repo.UpdateRequestState(ctx, message.ID, entities.PaymentRequestStatusDeclined, nil))
	got, err := repo.GetByID(ctx, message.ID)
	require.NoError(t, err)
	require.Equal(t, entities.PaymentRequestStatusDeclined, got.RequestStatus)
	require.Equal(t, int64(1_000), got.Amount)

	// Edit syncs both
	newAmount := int64(2_000)
	require.NoError(t, repo.UpdateRequestState(ctx, message.ID, entities.PaymentRequestStatusPending, &newAmount))
	got, err = repo.GetByID(ctx, message.ID)
	require.NoError(t, err)
	require.Equal(t, entities.PaymentRequestStatusPending, got.RequestStatus)
	require.Equal(t, newAmount, got.Amount)
}

func TestNotificationRepository_StatusPatchByRelatedEntity(t *testing.T) {
	db := newTestDB(t)
	createConversationTables(t, db)
	ctx := context.Background()
	repo := NewNotificationRepository(db)

	requestID := uuid.New()
	userA := uuid.New()
	userB := uuid.New()
	for _, userID := range []uuid.UUID{userA, userB} {
		require.NoError(t, repo.Create(ctx, &entities.Notification{
			ID:              uuid.New(),
			UserID:          userID,
			Type:            entities.NotificationRequestCreated,
			Title:           "Payment Request",
			Status:          "unread",
			Priority:        entities.PaymentNotificationPriority,
			PaymentStatus:   entities.PaymentDataPending,
			RelatedEntityID: &requestID,
		}))
	}
	unrelated := uuid.New()
	require.NoError(t, repo.Create(ctx, &entities.Notification{
		ID:              uuid.New(),
		UserID:          userA,
		Type:            entities.NotificationRequestCreated,
		Status:          "unread",
		PaymentStatus:   entities.PaymentDataPending,
		RelatedEntityID: &unrelated,
	}))

	require.NoError(t, repo.UpdatePaymentStatusByRelatedEntity(ctx, requestID, entities.PaymentDataExpired))

	// Patched in place, both parties, nothing duplicated
	related, err := repo.GetByRelatedEntity(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, related, 2)
	for _, n := range related {
		require.Equal(t, entities.PaymentDataExpired, n.PaymentStatus)
	}

	others, err := repo.GetByRelatedEntity(ctx, unrelated)
	require.NoError(t, err)
	require.Len(t, others, 1)
	require.Equal(t, entities.PaymentDataPending, others[0].PaymentStatus)

	mine, total, err := repo.GetByUserID(ctx, userA, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, mine, 2)
}
