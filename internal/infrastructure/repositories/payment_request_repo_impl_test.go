package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"sats-chat.backend/internal/domain/entities"
	domainerrors "sats-chat.backend/internal/domain/errors"
	domainRepos "sats-chat.backend/internal/domain/repositories"
)

func newPendingRequest(t *testing.T, repo *PaymentRequestRepositoryImpl, expiresAt time.Time) *entities.PaymentRequest {
	t.Helper()
	request := &entities.PaymentRequest{
		ID:          uuid.New(),
		RequesterID: uuid.New(),
		RecipientID: uuid.New(),
		Amount:      1_000,
		Currency:    "sats",
		Type:        entities.PaymentRequestTypeLightning,
		Status:      entities.PaymentRequestStatusPending,
		ExpiresAt:   expiresAt,
	}
	require.NoError(t, repo.Create(context.Background(), request))
	return request
}

func TestPaymentRequestRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createPaymentRequestTable(t, db)
	ctx := context.Background()
	repo := NewPaymentRequestRepository(db)

	request := newPendingRequest(t, repo, time.Now().Add(time.Hour))

	got, err := repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	require.Equal(t, request.RequesterID, got.RequesterID)
	require.Equal(t, entities.PaymentRequestStatusPending, got.Status)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrRequestNotFound)
}

func TestPaymentRequestRepository_GetByUserID(t *testing.T) {
	db := newTestDB(t)
	createPaymentRequestTable(t, db)
	ctx := context.Background()
	repo := NewPaymentRequestRepository(db)

	request := newPendingRequest(t, repo, time.Now().Add(time.Hour))
	newPendingRequest(t, repo, time.Now().Add(time.Hour))

	// Visible from both sides of the request
	asRequester, total, err := repo.GetByUserID(ctx, request.RequesterID, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, asRequester, 1)

	asRecipient, total, err := repo.GetByUserID(ctx, request.RecipientID, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, request.ID, asRecipient[0].ID)

	none, total, err := repo.GetByUserID(ctx, uuid.New(), 10, 0)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, none)
}

func TestPaymentRequestRepository_UpdateStatus_CAS(t *testing.T) {
	db := newTestDB(t)
	createPaymentRequestTable(t, db)
	ctx := context.Background()
	repo := NewPaymentRequestRepository(db)

	request := newPendingRequest(t, repo, time.Now().Add(time.Hour))

	reason := "not now"
	require.NoError(t, repo.UpdateStatus(ctx, request.ID,
		entities.PaymentRequestStatusPending, entities.PaymentRequestStatusDeclined,
		domainRepos.PaymentRequestPatch{DeclineReason: &reason}))

	got, err := repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	require.Equal(t, entities.PaymentRequestStatusDeclined, got.Status)
	require.Equal(t, reason, got.DeclineReason)

	// A second transition from pending finds zero matching rows
	err = repo.UpdateStatus(ctx, request.ID,
		entities.PaymentRequestStatusPending, entities.PaymentRequestStatusExpired,
		domainRepos.PaymentRequestPatch{})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyTerminal)

	// Missing rows are distinguished from lost races
	err = repo.UpdateStatus(ctx, uuid.New(),
		entities.PaymentRequestStatusPending, entities.PaymentRequestStatusExpired,
		domainRepos.PaymentRequestPatch{})
	require.ErrorIs(t, err, domainerrors.ErrRequestNotFound)
}

func TestPaymentRequestRepository_UpdateStatus_ExpiredAtPatch(t *testing.T) {
	db := newTestDB(t)
	createPaymentRequestTable(t, db)
	ctx := context.Background()
	repo := NewPaymentRequestRepository(db)

	request := newPendingRequest(t, repo, time.Now().Add(-time.Hour))

	expiredAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateStatus(ctx, request.ID,
		entities.PaymentRequestStatusPending, entities.PaymentRequestStatusExpired,
		domainRepos.PaymentRequestPatch{ExpiredAt: &expiredAt}))

	got, err := repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	require.Equal(t, entities.PaymentRequestStatusExpired, got.Status)
	require.NotNil(t, got.ExpiredAt)
	require.True(t, got.ExpiredAt.Equal(expiredAt))
}

func TestPaymentRequestRepository_UpdatePending(t *testing.T) {
	db := newTestDB(t)
	createPaymentRequestTable(t, db)
	ctx := context.Background()
	repo := NewPaymentRequestRepository(db)

	request := newPendingRequest(t, repo, time.Now().Add(time.Hour))

	newAmount := int64(2_500)
	newExpiry := time.Now().Add(time.Minute).UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdatePending(ctx, request.ID, domainRepos.PaymentRequestPatch{
		Amount:    &newAmount,
		ExpiresAt: &newExpiry,
	}))

	got, err := repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	require.Equal(t, newAmount, got.Amount)
	require.True(t, got.ExpiresAt.Equal(newExpiry))

	// Terminal requests refuse further edits
	require.NoError(t, repo.UpdateStatus(ctx, request.ID,
		entities.PaymentRequestStatusPending, entities.PaymentRequestStatusCancelled,
		domainRepos.PaymentRequestPatch{}))
	err = repo.UpdatePending(ctx, request.ID, domainRepos.PaymentRequestPatch{Amount: &newAmount})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyTerminal)

	err = repo.UpdatePending(ctx, uuid.New(), domainRepos.PaymentRequestPatch{Amount: &newAmount})
	require.ErrorIs(t, err, domainerrors.ErrRequestNotFound)
}

func TestPaymentRequestRepository_GetExpiredPending(t *testing.T) {
	db := newTestDB(t)
	createPaymentRequestTable(t, db)
	ctx := context.Background()
	repo := NewPaymentRequestRepository(db)

	now := time.Now()
	oldest := newPendingRequest(t, repo, now.Add(-2*time.Hour))
	overdue := newPendingRequest(t, repo, now.Add(-time.Hour))
	newPendingRequest(t, repo, now.Add(time.Hour)) // still live

	finalized := newPendingRequest(t, repo, now.Add(-time.Hour))
	require.NoError(t, repo.UpdateStatus(ctx, finalized.ID,
		entities.PaymentRequestStatusPending, entities.PaymentRequestStatusDeclined,
		domainRepos.PaymentRequestPatch{}))

	due, err := repo.GetExpiredPending(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	require.Equal(t, oldest.ID, due[0].ID)
	require.Equal(t, overdue.ID, due[1].ID)

	// Batch cap
	due, err = repo.GetExpiredPending(ctx, now, 1)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, oldest.ID, due[0].ID)
}
