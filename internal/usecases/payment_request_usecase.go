package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"sats-chat.backend/internal/domain/entities"
	domainerrors "sats-chat.backend/internal/domain/errors"
	domainRepos "sats-chat.backend/internal/domain/repositories"
	"sats-chat.backend/pkg/logger"
	"sats-chat.backend/pkg/utils"
)

// PaymentRequestUsecase drives a payment request through its one-way
// state machine: pending -> approved/declined/cancelled/expired, each
// target terminal. Every transition runs through one cascade (request
// CAS patch, denormalized message sync, notification status patch) so
// the interactive paths, the sweeper and the operator variants cannot
// drift apart.
type PaymentRequestUsecase struct {
	requestRepo      domainRepos.PaymentRequestRepository
	messageRepo      domainRepos.MessageRepository
	notificationRepo domainRepos.NotificationRepository
	conversationRepo domainRepos.ConversationRepository
	walletUC         *WalletUsecase
	transferUC       *TransferUsecase
	uow              domainRepos.UnitOfWork
	notifier         Notifier

	requestTTL     time.Duration
	editWindow     time.Duration
	sweepBatchSize int

	// now is a hook for tests; interactive paths read the clock here,
	// the sweep takes its clock as a parameter
	now func() time.Time
}

// NewPaymentRequestUsecase creates a new payment request usecase
func NewPaymentRequestUsecase(
	requestRepo domainRepos.PaymentRequestRepository,
	messageRepo domainRepos.MessageRepository,
	notificationRepo domainRepos.NotificationRepository,
	conversationRepo domainRepos.ConversationRepository,
	walletUC *WalletUsecase,
	transferUC *TransferUsecase,
	uow domainRepos.UnitOfWork,
	notifier Notifier,
	requestTTL, editWindow time.Duration,
	sweepBatchSize int,
) *PaymentRequestUsecase {
	return &PaymentRequestUsecase{
		requestRepo:      requestRepo,
		messageRepo:      messageRepo,
		notificationRepo: notificationRepo,
		conversationRepo: conversationRepo,
		walletUC:         walletUC,
		transferUC:       transferUC,
		uow:              uow,
		notifier:         notifier,
		requestTTL:       requestTTL,
		editWindow:       editWindow,
		sweepBatchSize:   sweepBatchSize,
		now:              time.Now,
	}
}

// CreatePaymentRequestInput carries the parameters of a new request
type CreatePaymentRequestInput struct {
	RequesterID    uuid.UUID
	RecipientID    uuid.UUID
	Amount         int64
	Currency       string
	Type           entities.PaymentRequestType
	Description    string
	ConversationID *uuid.UUID
}

// CreatePaymentRequest creates a pending request from the requester to
// the recipient, with its chat message and the recipient's notification.
func (u *PaymentRequestUsecase) CreatePaymentRequest(ctx context.Context, input CreatePaymentRequestInput) (*entities.PaymentRequest, error) {
	if input.Amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}
	if input.RequesterID == input.RecipientID {
		return nil, domainerrors.BadRequest("cannot request funds from yourself")
	}

	currency := input.Currency
	if currency == "" {
		currency = "sats"
	}
	requestType := input.Type
	if requestType == "" {
		requestType = entities.PaymentRequestTypeLightning
	}

	now := u.now()
	request := &entities.PaymentRequest{
		ID:          utils.GenerateUUIDv7(),
		RequesterID: input.RequesterID,
		RecipientID: input.RecipientID,
		Amount:      input.Amount,
		Currency:    currency,
		Type:        requestType,
		Status:      entities.PaymentRequestStatusPending,
		Description: input.Description,
		ExpiresAt:   now.Add(u.requestTTL),
	}

	var notification *entities.Notification
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		conversation, err := resolveOrCreateConversation(txCtx, u.conversationRepo, input.ConversationID, input.RequesterID, input.RecipientID)
		if err != nil {
			return err
		}

		if err := u.requestRepo.Create(txCtx, request); err != nil {
			return err
		}

		message := &entities.Message{
			ID:             utils.GenerateUUIDv7(),
			ConversationID: conversation.ID,
			SenderID:       input.RequesterID,
			Content:        fmt.Sprintf("Requested %d sats", input.Amount),
			Type:           entities.MessageTypePaymentRequest,
			Status:         "delivered",
			Visibility:     entities.VisibilityBoth,
			Amount:         input.Amount,
			RequestID:      &request.ID,
			RequestStatus:  entities.PaymentRequestStatusPending,
			Timestamp:      now,
		}
		if err := u.messageRepo.Create(txCtx, message); err != nil {
			return err
		}
		if err := u.requestRepo.UpdatePending(txCtx, request.ID, domainRepos.PaymentRequestPatch{MessageID: &message.ID}); err != nil {
			return err
		}
		request.MessageID = &message.ID

		if err := u.conversationRepo.UpdateLastMessage(txCtx, conversation.ID, message.ID, now); err != nil {
			return err
		}

		notification = &entities.Notification{
			ID:              utils.GenerateUUIDv7(),
			UserID:          input.RecipientID,
			Type:            entities.NotificationRequestCreated,
			Title:           "Payment Request",
			Description:     fmt.Sprintf("Requested %d sats from you", input.Amount),
			Status:          "unread",
			Priority:        entities.PaymentNotificationPriority,
			PaymentStatus:   entities.PaymentDataPending,
			RelatedEntityID: &request.ID,
		}
		return u.notificationRepo.Create(txCtx, notification)
	})
	if err != nil {
		return nil, err
	}

	u.notifier.PublishNotification(ctx, notification)
	logger.Info(ctx, "payment request created",
		zap.String("request_id", request.ID.String()),
		zap.Int64("amount", request.Amount))
	return request, nil
}

// GetPaymentRequest returns a request by id
func (u *PaymentRequestUsecase) GetPaymentRequest(ctx context.Context, id uuid.UUID) (*entities.PaymentRequest, error) {
	return u.requestRepo.GetByID(ctx, id)
}

// ListPaymentRequests lists requests a user is party to
func (u *PaymentRequestUsecase) ListPaymentRequests(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.PaymentRequest, int, error) {
	return u.requestRepo.GetByUserID(ctx, userID, limit, offset)
}

// ApproveOutput is the result of a successful approve
type ApproveOutput struct {
	Request  *entities.PaymentRequest `json:"request"`
	Transfer *entities.TransferResult `json:"transfer"`
}

// ApprovePaymentRequest lets the recipient approve a pending request.
// Approval flips the status, then drives the transfer engine with the
// approver's spending wallet as source; if the transfer fails the
// request is reverted to declined with the failure as the reason, so
// "approved" is only provisional until the transfer confirms.
func (u *PaymentRequestUsecase) ApprovePaymentRequest(ctx context.Context, requestID, actorID uuid.UUID) (*ApproveOutput, error) {
	request, err := u.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actorID != request.RecipientID {
		return nil, domainerrors.ErrPermissionDenied
	}

	// Expiry is checked both against the stored status and the wall
	// clock: the sweeper may not have run yet.
	now := u.now()
	if request.Status == entities.PaymentRequestStatusExpired {
		return nil, domainerrors.ErrRequestExpired
	}
	if request.Status == entities.PaymentRequestStatusPending && request.IsExpired(now) {
		if err := u.expire(ctx, request, now); err != nil && !errors.Is(err, domainerrors.ErrAlreadyTerminal) {
			logger.Error(ctx, "lazy expire failed",
				zap.String("request_id", requestID.String()), zap.Error(err))
		}
		return nil, domainerrors.ErrRequestExpired
	}
	if request.Status.IsTerminal() {
		return nil, domainerrors.ErrAlreadyTerminal
	}

	if err := u.transition(ctx, request, entities.PaymentRequestStatusPending, entities.PaymentRequestStatusApproved, domainRepos.PaymentRequestPatch{}, nil); err != nil {
		return nil, err
	}

	sourceWallet, err := u.walletUC.GetOrCreateSpendingWallet(ctx, actorID)
	var transferResult *entities.TransferResult
	if err == nil {
		transferResult, err = u.transferUC.TransferSats(ctx, TransferSatsInput{
			SourceWalletID:    sourceWallet.ID,
			DestinationUserID: request.RequesterID,
			Amount:            request.Amount,
			Description:       requestDescription(request),
			ConversationID:    nil,
		})
	}
	if err != nil {
		reason := fmt.Sprintf("transfer failed: %v", err)
		if revertErr := u.transition(ctx, request, entities.PaymentRequestStatusApproved, entities.PaymentRequestStatusDeclined, domainRepos.PaymentRequestPatch{DeclineReason: &reason}, nil); revertErr != nil {
			logger.Error(ctx, "failed to revert approved request",
				zap.String("request_id", requestID.String()), zap.Error(revertErr))
		}
		return nil, err
	}

	if err := u.transition(ctx, request, entities.PaymentRequestStatusApproved, entities.PaymentRequestStatusCompleted, domainRepos.PaymentRequestPatch{}, nil); err != nil {
		logger.Error(ctx, "failed to mark approved request completed",
			zap.String("request_id", requestID.String()), zap.Error(err))
	}

	request.Status = entities.PaymentRequestStatusCompleted
	return &ApproveOutput{Request: request, Transfer: transferResult}, nil
}

// DeclinePaymentRequest lets the recipient decline a pending request
func (u *PaymentRequestUsecase) DeclinePaymentRequest(ctx context.Context, requestID, actorID uuid.UUID, reason string) error {
	request, err := u.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if actorID != request.RecipientID {
		return domainerrors.ErrPermissionDenied
	}
	if request.Status.IsTerminal() {
		return domainerrors.ErrAlreadyTerminal
	}

	patch := domainRepos.PaymentRequestPatch{}
	if reason != "" {
		patch.DeclineReason = &reason
	}
	return u.transition(ctx, request, entities.PaymentRequestStatusPending, entities.PaymentRequestStatusDeclined, patch, nil)
}

// CancelPaymentRequest lets the requester withdraw a pending request
func (u *PaymentRequestUsecase) CancelPaymentRequest(ctx context.Context, requestID, actorID uuid.UUID, reason string) error {
	request, err := u.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if actorID != request.RequesterID {
		return domainerrors.ErrPermissionDenied
	}
	if request.Status.IsTerminal() {
		return domainerrors.ErrAlreadyTerminal
	}

	patch := domainRepos.PaymentRequestPatch{}
	if reason != "" {
		patch.CancelReason = &reason
	}
	return u.transition(ctx, request, entities.PaymentRequestStatusPending, entities.PaymentRequestStatusCancelled, patch, nil)
}

// RemindPaymentRequest sends a fresh reminder notification to the other
// party of a still-pending request; the status is untouched.
func (u *PaymentRequestUsecase) RemindPaymentRequest(ctx context.Context, requestID, actorID uuid.UUID) error {
	request, err := u.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if actorID != request.RequesterID && actorID != request.RecipientID {
		return domainerrors.ErrPermissionDenied
	}
	if request.Status.IsTerminal() {
		return domainerrors.ErrAlreadyTerminal
	}

	now := u.now()
	if request.IsExpired(now) {
		if err := u.expire(ctx, request, now); err != nil && !errors.Is(err, domainerrors.ErrAlreadyTerminal) {
			logger.Error(ctx, "lazy expire failed",
				zap.String("request_id", requestID.String()), zap.Error(err))
		}
		return domainerrors.ErrRequestExpired
	}

	counterparty := request.RecipientID
	if actorID == request.RecipientID {
		counterparty = request.RequesterID
	}

	notification := &entities.Notification{
		ID:              utils.GenerateUUIDv7(),
		UserID:          counterparty,
		Type:            entities.NotificationRequestReminder,
		Title:           "Payment Request Reminder",
		Description:     fmt.Sprintf("Reminder: %d sats requested", request.Amount),
		Status:          "unread",
		Priority:        entities.PaymentNotificationPriority,
		PaymentStatus:   entities.PaymentDataPending,
		RelatedEntityID: &request.ID,
	}
	if err := u.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}
	u.notifier.PublishNotification(ctx, notification)
	return nil
}

// EditPaymentRequest changes the amount of a pending request. The edit
// resets expiresAt to a short re-confirmation window, syncs the message
// amount and notifies the recipient.
func (u *PaymentRequestUsecase) EditPaymentRequest(ctx context.Context, requestID, actorID uuid.UUID, newAmount int64) (*entities.PaymentRequest, error) {
	if newAmount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	request, err := u.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actorID != request.RequesterID {
		return nil, domainerrors.ErrPermissionDenied
	}
	if request.Status.IsTerminal() {
		return nil, domainerrors.ErrAlreadyTerminal
	}

	now := u.now()
	expiresAt := now.Add(u.editWindow)
	var notification *entities.Notification
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.requestRepo.UpdatePending(txCtx, request.ID, domainRepos.PaymentRequestPatch{
			Amount:    &newAmount,
			ExpiresAt: &expiresAt,
		}); err != nil {
			return err
		}
		if request.MessageID != nil {
			if err := u.messageRepo.UpdateRequestState(txCtx, *request.MessageID, entities.PaymentRequestStatusPending, &newAmount); err != nil {
				return err
			}
		}

		notification = &entities.Notification{
			ID:              utils.GenerateUUIDv7(),
			UserID:          request.RecipientID,
			Type:            entities.NotificationRequestUpdated,
			Title:           "Payment Request Updated",
			Description:     fmt.Sprintf("Request updated to %d sats", newAmount),
			Status:          "unread",
			Priority:        entities.PaymentNotificationPriority,
			PaymentStatus:   entities.PaymentDataPending,
			RelatedEntityID: &request.ID,
		}
		return u.notificationRepo.Create(txCtx, notification)
	})
	if err != nil {
		return nil, err
	}

	u.notifier.PublishNotification(ctx, notification)
	request.Amount = newAmount
	request.ExpiresAt = expiresAt
	return request, nil
}

// ExpirePaymentRequest is the operator's single-request variant of the
// expiry sweep; it shares the expire transition with the sweeper.
func (u *PaymentRequestUsecase) ExpirePaymentRequest(ctx context.Context, requestID uuid.UUID, now time.Time) error {
	request, err := u.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status.IsTerminal() {
		return domainerrors.ErrAlreadyTerminal
	}
	if !request.IsExpired(now) {
		return domainerrors.BadRequest("payment request has not passed its expiry")
	}
	return u.expire(ctx, request, now)
}

// SweepExpired expires every pending request whose expiresAt has passed,
// up to the batch cap. Idempotent: the CAS transition skips requests
// another sweep or an interactive action already finalized. Takes the
// clock as a parameter so the scheduler, the operator endpoint and tests
// share one deterministic code path.
func (u *PaymentRequestUsecase) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := u.requestRepo.GetExpiredPending(ctx, now, u.sweepBatchSize)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, request := range expired {
		if err := u.expire(ctx, request, now); err != nil {
			if errors.Is(err, domainerrors.ErrAlreadyTerminal) {
				continue
			}
			return count, err
		}
		count++
	}
	return count, nil
}

// expire is the single expire-transition code path shared by the
// sweeper, the operator variants and the lazy checks on interactive
// actions.
func (u *PaymentRequestUsecase) expire(ctx context.Context, request *entities.PaymentRequest, now time.Time) error {
	expiredAt := now
	notifications := []*entities.Notification{
		expiryNotification(request, request.RequesterID, "Your payment request expired"),
		expiryNotification(request, request.RecipientID, "A payment request to you expired"),
	}
	return u.transition(ctx, request,
		entities.PaymentRequestStatusPending, entities.PaymentRequestStatusExpired,
		domainRepos.PaymentRequestPatch{ExpiredAt: &expiredAt}, notifications)
}

// transition applies one state-machine step and its full cascade inside
// a single store transaction: the CAS status patch, the denormalized
// message sync, the in-place notification status patch and any fresh
// notifications the transition carries.
func (u *PaymentRequestUsecase) transition(ctx context.Context, request *entities.PaymentRequest, from, to entities.PaymentRequestStatus, patch domainRepos.PaymentRequestPatch, freshNotifications []*entities.Notification) error {
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.requestRepo.UpdateStatus(txCtx, request.ID, from, to, patch); err != nil {
			return err
		}
		if request.MessageID != nil {
			if err := u.messageRepo.UpdateRequestState(txCtx, *request.MessageID, to, patch.Amount); err != nil {
				return err
			}
		}
		if err := u.notificationRepo.UpdatePaymentStatusByRelatedEntity(txCtx, request.ID, paymentDataStatusFor(to)); err != nil {
			return err
		}
		for _, n := range freshNotifications {
			if err := u.notificationRepo.Create(txCtx, n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, n := range freshNotifications {
		u.notifier.PublishNotification(ctx, n)
	}
	requestTransitionsTotal.WithLabelValues(string(to)).Inc()
	logger.Info(ctx, "payment request transitioned",
		zap.String("request_id", request.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return nil
}

// paymentDataStatusFor maps a request status to the display status
// mirrored onto its notifications
func paymentDataStatusFor(status entities.PaymentRequestStatus) entities.PaymentDataStatus {
	switch status {
	case entities.PaymentRequestStatusApproved, entities.PaymentRequestStatusCompleted:
		return entities.PaymentDataCompleted
	case entities.PaymentRequestStatusDeclined, entities.PaymentRequestStatusCancelled:
		return entities.PaymentDataFailed
	case entities.PaymentRequestStatusExpired:
		return entities.PaymentDataExpired
	default:
		return entities.PaymentDataPending
	}
}

func expiryNotification(request *entities.PaymentRequest, userID uuid.UUID, description string) *entities.Notification {
	return &entities.Notification{
		ID:              utils.GenerateUUIDv7(),
		UserID:          userID,
		Type:            entities.NotificationRequestExpired,
		Title:           "Payment Request Expired",
		Description:     fmt.Sprintf("%s (%d sats)", description, request.Amount),
		Status:          "unread",
		Priority:        entities.PaymentNotificationPriority,
		PaymentStatus:   entities.PaymentDataExpired,
		RelatedEntityID: &request.ID,
	}
}

func requestDescription(request *entities.PaymentRequest) string {
	if request.Description != "" {
		return request.Description
	}
	return fmt.Sprintf("Payment request %s", request.ID)
}
