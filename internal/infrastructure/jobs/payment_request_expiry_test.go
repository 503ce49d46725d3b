package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"sats-chat.backend/internal/domain/entities"
	"sats-chat.backend/internal/infrastructure/models"
	"sats-chat.backend/internal/infrastructure/repositories"
	"sats-chat.backend/internal/usecases"
)

func newSweeperFixture(t *testing.T) (*gorm.DB, *usecases.PaymentRequestUsecase) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")

	schemas := []string{
		`CREATE TABLE payment_requests (
			id TEXT PRIMARY KEY,
			requester_id TEXT NOT NULL,
			recipient_id TEXT NOT NULL,
			message_id TEXT,
			amount INTEGER NOT NULL,
			currency TEXT NOT NULL DEFAULT 'sats',
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			description TEXT,
			expires_at DATETIME NOT NULL,
			decline_reason TEXT,
			cancel_reason TEXT,
			expired_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		);`,
		`CREATE TABLE messages (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			sender_id TEXT NOT NULL,
			content TEXT,
			type TEXT NOT NULL,
			status TEXT,
			visibility TEXT NOT NULL,
			amount INTEGER NOT NULL DEFAULT 0,
			request_id TEXT,
			request_status TEXT,
			transfer_id TEXT,
			timestamp DATETIME NOT NULL,
			deleted_at DATETIME
		);`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'unread',
			priority INTEGER NOT NULL DEFAULT 0,
			payment_status TEXT,
			related_entity_id TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
	}
	for _, q := range schemas {
		require.NoError(t, db.Exec(q).Error)
	}

	walletRepo := repositories.NewWalletRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	userRepo := repositories.NewUserRepository(db)
	transferRepo := repositories.NewTransferRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	conversationRepo := repositories.NewConversationRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	requestRepo := repositories.NewPaymentRequestRepository(db)
	uow := repositories.NewUnitOfWork(db)

	walletUC := usecases.NewWalletUsecase(walletRepo, accountRepo, userRepo)
	transferUC := usecases.NewTransferUsecase(
		walletUC, walletRepo, accountRepo, userRepo,
		transferRepo, ledgerRepo, conversationRepo, messageRepo, notificationRepo,
		uow, usecases.NopNotifier{},
	)
	requestUC := usecases.NewPaymentRequestUsecase(
		requestRepo, messageRepo, notificationRepo, conversationRepo,
		walletUC, transferUC, uow, usecases.NopNotifier{},
		24*time.Hour, time.Minute, 100,
	)
	return db, requestUC
}

// seeds a pending request with its chat message and the recipient's
// creation notification, the way CreatePaymentRequest lays them down
func seedPendingRequest(t *testing.T, db *gorm.DB, expiresAt time.Time) *models.PaymentRequest {
	t.Helper()
	now := time.Now()
	messageID := uuid.New()
	request := &models.PaymentRequest{
		ID:          uuid.New(),
		RequesterID: uuid.New(),
		RecipientID: uuid.New(),
		MessageID:   &messageID,
		Amount:      1_000,
		Currency:    "sats",
		Type:        string(entities.PaymentRequestTypeLightning),
		Status:      string(entities.PaymentRequestStatusPending),
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Create(request).Error)
	require.NoError(t, db.Create(&models.Message{
		ID:             messageID,
		ConversationID: uuid.New(),
		SenderID:       request.RequesterID,
		Content:        "Requested 1000 sats",
		Type:           string(entities.MessageTypePaymentRequest),
		Visibility:     string(entities.VisibilityBoth),
		Amount:         request.Amount,
		RequestID:      &request.ID,
		RequestStatus:  string(entities.PaymentRequestStatusPending),
		Timestamp:      now,
	}).Error)
	require.NoError(t, db.Create(&models.Notification{
		ID:              uuid.New(),
		UserID:          request.RecipientID,
		Type:            string(entities.NotificationRequestCreated),
		Title:           "Payment Request",
		Status:          "unread",
		Priority:        entities.PaymentNotificationPriority,
		PaymentStatus:   string(entities.PaymentDataPending),
		RelatedEntityID: &request.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}).Error)
	return request
}

func TestSweepOnce_ExpiresOverdueRequests(t *testing.T) {
	db, requestUC := newSweeperFixture(t)
	ctx := context.Background()

	createdAt := time.Now()
	overdue := seedPendingRequest(t, db, createdAt.Add(-time.Hour))
	live := seedPendingRequest(t, db, createdAt.Add(time.Hour))

	job := NewPaymentRequestExpiryJob(requestUC, time.Minute)
	job.SweepOnce(ctx, createdAt)

	// The overdue request is terminal with the sweep clock recorded
	var got models.PaymentRequest
	require.NoError(t, db.Where("id = ?", overdue.ID).First(&got).Error)
	require.Equal(t, string(entities.PaymentRequestStatusExpired), got.Status)
	require.NotNil(t, got.ExpiredAt)

	// Its chat message mirrors the new status
	var message models.Message
	require.NoError(t, db.Where("id = ?", overdue.MessageID).First(&message).Error)
	require.Equal(t, string(entities.PaymentRequestStatusExpired), message.RequestStatus)

	// The creation notification is patched in place and both parties got
	// a fresh expiry notification
	var notifications []models.Notification
	require.NoError(t, db.Where("related_entity_id = ?", overdue.ID).Find(&notifications).Error)
	require.Len(t, notifications, 3)
	for _, n := range notifications {
		require.Equal(t, string(entities.PaymentDataExpired), n.PaymentStatus)
	}

	// The live request is untouched
	var liveGot models.PaymentRequest
	require.NoError(t, db.Where("id = ?", live.ID).First(&liveGot).Error)
	require.Equal(t, string(entities.PaymentRequestStatusPending), liveGot.Status)
}

func TestSweepOnce_Idempotent(t *testing.T) {
	db, requestUC := newSweeperFixture(t)
	ctx := context.Background()

	now := time.Now()
	overdue := seedPendingRequest(t, db, now.Add(-time.Hour))

	job := NewPaymentRequestExpiryJob(requestUC, time.Minute)
	job.SweepOnce(ctx, now)

	var countAfterFirst int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("related_entity_id = ?", overdue.ID).Count(&countAfterFirst).Error)

	// A second sweep finds nothing pending and adds nothing
	job.SweepOnce(ctx, now.Add(time.Minute))

	var got models.PaymentRequest
	require.NoError(t, db.Where("id = ?", overdue.ID).First(&got).Error)
	require.Equal(t, string(entities.PaymentRequestStatusExpired), got.Status)

	var countAfterSecond int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("related_entity_id = ?", overdue.ID).Count(&countAfterSecond).Error)
	require.Equal(t, countAfterFirst, countAfterSecond)
}

func TestStartStop(t *testing.T) {
	_, requestUC := newSweeperFixture(t)

	job := NewPaymentRequestExpiryJob(requestUC, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	job.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
