package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"sats-chat.backend/internal/domain/entities"
	domainRepos "sats-chat.backend/internal/domain/repositories"
	"sats-chat.backend/pkg/logger"
	"sats-chat.backend/pkg/utils"
)

// TransferUsecase executes internal sats transfers between two wallets:
// balance mutation, double-entry ledger legs, conversation/message
// creation and notification fan-out. The whole mutation group runs in
// one store transaction; the TransferTransaction record brackets it
// (pending before, completed/failed after) so a failed attempt stays
// auditable while the partial writes roll back.
type TransferUsecase struct {
	walletUC         *WalletUsecase
	walletRepo       domainRepos.WalletRepository
	accountRepo      domainRepos.AccountRepository
	userRepo         domainRepos.UserRepository
	transferRepo     domainRepos.TransferRepository
	ledgerRepo       domainRepos.LedgerRepository
	conversationRepo domainRepos.ConversationRepository
	messageRepo      domainRepos.MessageRepository
	notificationRepo domainRepos.NotificationRepository
	uow              domainRepos.UnitOfWork
	notifier         Notifier
}

// NewTransferUsecase creates a new transfer usecase
func NewTransferUsecase(
	walletUC *WalletUsecase,
	walletRepo domainRepos.WalletRepository,
	accountRepo domainRepos.AccountRepository,
	userRepo domainRepos.UserRepository,
	transferRepo domainRepos.TransferRepository,
	ledgerRepo domainRepos.LedgerRepository,
	conversationRepo domainRepos.ConversationRepository,
	messageRepo domainRepos.MessageRepository,
	notificationRepo domainRepos.NotificationRepository,
	uow domainRepos.UnitOfWork,
	notifier Notifier,
) *TransferUsecase {
	return &TransferUsecase{
		walletUC:         walletUC,
		walletRepo:       walletRepo,
		accountRepo:      accountRepo,
		userRepo:         userRepo,
		transferRepo:     transferRepo,
		ledgerRepo:       ledgerRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		notificationRepo: notificationRepo,
		uow:              uow,
		notifier:         notifier,
	}
}

// TransferSatsInput carries the parameters of an internal transfer
type TransferSatsInput struct {
	SourceWalletID    uuid.UUID
	DestinationUserID uuid.UUID
	Amount            int64
	Description       string
	MessageID         *uuid.UUID
	ConversationID    *uuid.UUID
}

// TransferSats moves sats from a source wallet to the destination user's
// spending wallet. Validation errors surface before any mutation; once
// the pending TransferTransaction exists, any failure marks it failed
// and re-throws.
func (u *TransferUsecase) TransferSats(ctx context.Context, input TransferSatsInput) (*entities.TransferResult, error) {
	// 1. Validate source eligibility and resolve its owner
	sourceWallet, err := u.walletUC.ValidateTransferEligibility(ctx, input.SourceWalletID, input.Amount)
	if err != nil {
		transfersTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	sourceAccount, err := u.accountRepo.GetByID(ctx, sourceWallet.AccountID)
	if err != nil {
		transfersTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	sourceUser, err := u.userRepo.GetByID(ctx, sourceAccount.UserID)
	if err != nil {
		transfersTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	// 2. Resolve or lazily create the destination spending wallet
	destUser, err := u.userRepo.GetByID(ctx, input.DestinationUserID)
	if err != nil {
		transfersTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	destWallet, err := u.walletUC.GetOrCreateSpendingWallet(ctx, input.DestinationUserID)
	if err != nil {
		transfersTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	// 3. Record the attempt before mutating anything
	now := time.Now()
	transfer := &entities.TransferTransaction{
		ID:                  utils.GenerateUUIDv7(),
		SourceWalletID:      sourceWallet.ID,
		DestinationWalletID: destWallet.ID,
		Amount:              input.Amount,
		Fee:                 0, // informational; never subtracted from the debit
		Status:              entities.TransferStatusPending,
		Timestamp:           now,
		Description:         input.Description,
		MessageID:           input.MessageID,
		ProcessingAttempts:  1,
		LastAttempt:         now,
	}
	if err := u.transferRepo.Create(ctx, transfer); err != nil {
		transfersTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	// 4–9. The mutation group, all-or-nothing
	var (
		result        entities.TransferResult
		notifications []*entities.Notification
	)
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		// 4. Move balances; the conditional debit is the overdraw guard
		if err := u.walletRepo.Debit(txCtx, sourceWallet.ID, input.Amount); err != nil {
			return err
		}
		if err := u.walletRepo.Credit(txCtx, destWallet.ID, input.Amount); err != nil {
			return err
		}

		// 5. Double-entry ledger pair
		if err := u.createLedgerPair(txCtx, transfer, sourceUser, destUser); err != nil {
			return err
		}

		// 6. Resolve or create the 1:1 conversation
		conversation, err := resolveOrCreateConversation(txCtx, u.conversationRepo, input.ConversationID, sourceUser.ID, destUser.ID)
		if err != nil {
			return err
		}

		// 7. Paired chat messages, one visible to each side
		sentMsg, receivedMsg, err := u.createTransferMessages(txCtx, transfer, conversation.ID, sourceUser.ID)
		if err != nil {
			return err
		}

		// 8. Counterparty notifications
		notifications, err = u.createTransferNotifications(txCtx, transfer, sourceUser, destUser)
		if err != nil {
			return err
		}

		// 9. Conversation bookkeeping
		if err := u.conversationRepo.UpdateLastMessage(txCtx, conversation.ID, receivedMsg.ID, receivedMsg.Timestamp); err != nil {
			return err
		}

		result = entities.TransferResult{
			TransferID:        transfer.ID,
			ConversationID:    conversation.ID,
			SentMessageID:     sentMsg.ID,
			ReceivedMessageID: receivedMsg.ID,
		}
		return nil
	})
	if err != nil {
		if markErr := u.transferRepo.MarkFailed(ctx, transfer.ID, err.Error()); markErr != nil {
			logger.Error(ctx, "failed to mark transfer failed",
				zap.String("transfer_id", transfer.ID.String()), zap.Error(markErr))
		}
		transfersTotal.WithLabelValues("failed").Inc()
		logger.Warn(ctx, "transfer failed",
			zap.String("transfer_id", transfer.ID.String()),
			zap.Int64("amount", input.Amount),
			zap.Error(err))
		return nil, err
	}

	// 10. Seal the transfer
	if err := u.transferRepo.MarkCompleted(ctx, transfer.ID, result.SentMessageID); err != nil {
		return nil, err
	}

	for _, n := range notifications {
		u.notifier.PublishNotification(ctx, n)
	}

	transfersTotal.WithLabelValues("completed").Inc()
	transferredSats.Add(float64(input.Amount))
	logger.Info(ctx, "transfer completed",
		zap.String("transfer_id", transfer.ID.String()),
		zap.String("source_wallet", sourceWallet.ID.String()),
		zap.String("dest_wallet", destWallet.ID.String()),
		zap.Int64("amount", input.Amount))

	return &result, nil
}

// GetTransfer returns a transfer with its ledger legs
func (u *TransferUsecase) GetTransfer(ctx context.Context, id uuid.UUID) (*entities.TransferTransaction, []*entities.Transaction, error) {
	transfer, err := u.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	legs, err := u.ledgerRepo.GetByTransferID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return transfer, legs, nil
}

// GetWalletTransactions lists a wallet's recent ledger legs
func (u *TransferUsecase) GetWalletTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]*entities.Transaction, int, error) {
	if _, err := u.walletRepo.GetByID(ctx, walletID); err != nil {
		return nil, 0, err
	}
	return u.ledgerRepo.GetByWalletID(ctx, walletID, limit, offset)
}

func (u *TransferUsecase) createLedgerPair(ctx context.Context, transfer *entities.TransferTransaction, sourceUser, destUser *entities.User) error {
	description := transfer.Description
	if description == "" {
		description = fmt.Sprintf("Internal transfer %s", transfer.ID)
	}

	paymentLeg := &entities.Transaction{
		ID:           utils.GenerateUUIDv7(),
		WalletID:     transfer.SourceWalletID,
		Type:         entities.LedgerEntryPayment,
		Amount:       transfer.Amount,
		Fee:          transfer.Fee,
		Status:       string(entities.TransferStatusCompleted),
		Timestamp:    transfer.Timestamp,
		Description:  description,
		Counterparty: destUser.Username,
		Tag:          entities.LedgerTagInternalTransfer,
		TransferID:   transfer.ID,
	}
	if err := u.ledgerRepo.Create(ctx, paymentLeg); err != nil {
		return err
	}

	receiveLeg := &entities.Transaction{
		ID:           utils.GenerateUUIDv7(),
		WalletID:     transfer.DestinationWalletID,
		Type:         entities.LedgerEntryReceive,
		Amount:       transfer.Amount,
		Fee:          transfer.Fee,
		Status:       string(entities.TransferStatusCompleted),
		Timestamp:    transfer.Timestamp,
		Description:  description,
		Counterparty: sourceUser.Username,
		Tag:          entities.LedgerTagInternalTransfer,
		TransferID:   transfer.ID,
	}
	return u.ledgerRepo.Create(ctx, receiveLeg)
}

func (u *TransferUsecase) createTransferMessages(ctx context.Context, transfer *entities.TransferTransaction, conversationID, senderID uuid.UUID) (*entities.Message, *entities.Message, error) {
	sentMsg := &entities.Message{
		ID:             utils.GenerateUUIDv7(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        fmt.Sprintf("You sent %d sats", transfer.Amount),
		Type:           entities.MessageTypePaymentSent,
		Status:         "delivered",
		Visibility:     entities.VisibilitySender,
		Amount:         transfer.Amount,
		TransferID:     &transfer.ID,
		Timestamp:      time.Now(),
	}
	if err := u.messageRepo.Create(ctx, sentMsg); err != nil {
		return nil, nil, err
	}

	receivedMsg := &entities.Message{
		ID:             utils.GenerateUUIDv7(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        fmt.Sprintf("You received %d sats", transfer.Amount),
		Type:           entities.MessageTypePaymentReceived,
		Status:         "delivered",
		Visibility:     entities.VisibilityRecipient,
		Amount:         transfer.Amount,
		TransferID:     &transfer.ID,
		Timestamp:      time.Now(),
	}
	if err := u.messageRepo.Create(ctx, receivedMsg); err != nil {
		return nil, nil, err
	}
	return sentMsg, receivedMsg, nil
}

func (u *TransferUsecase) createTransferNotifications(ctx context.Context, transfer *entities.TransferTransaction, sourceUser, destUser *entities.User) ([]*entities.Notification, error) {
	senderNotif := &entities.Notification{
		ID:              utils.GenerateUUIDv7(),
		UserID:          sourceUser.ID,
		Type:            entities.NotificationPaymentSent,
		Title:           "Payment Sent",
		Description:     fmt.Sprintf("You sent %d sats to %s", transfer.Amount, destUser.Username),
		Status:          "unread",
		Priority:        entities.PaymentNotificationPriority,
		PaymentStatus:   entities.PaymentDataCompleted,
		RelatedEntityID: &transfer.ID,
	}
	if err := u.notificationRepo.Create(ctx, senderNotif); err != nil {
		return nil, err
	}

	recipientNotif := &entities.Notification{
		ID:              utils.GenerateUUIDv7(),
		UserID:          destUser.ID,
		Type:            entities.NotificationPaymentReceived,
		Title:           "Payment Received",
		Description:     fmt.Sprintf("You received %d sats from %s", transfer.Amount, sourceUser.Username),
		Status:          "unread",
		Priority:        entities.PaymentNotificationPriority,
		PaymentStatus:   entities.PaymentDataCompleted,
		RelatedEntityID: &transfer.ID,
	}
	if err := u.notificationRepo.Create(ctx, recipientNotif); err != nil {
		return nil, err
	}
	return []*entities.Notification{senderNotif, recipientNotif}, nil
}
