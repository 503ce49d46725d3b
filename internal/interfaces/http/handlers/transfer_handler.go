package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "sats-chat.backend/internal/domain/errors"
	"sats-chat.backend/internal/interfaces/http/middleware"
	"sats-chat.backend/internal/interfaces/http/response"
	"sats-chat.backend/internal/usecases"
)

type TransferHandler struct {
	transferUC *usecases.TransferUsecase
	walletUC   *usecases.WalletUsecase
}

func NewTransferHandler(transferUC *usecases.TransferUsecase, walletUC *usecases.WalletUsecase) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, walletUC: walletUC}
}

type CreateTransferRequest struct {
	SourceWalletID    string `json:"sourceWalletId"`
	DestinationUserID string `json:"destinationUserId" binding:"required"`
	Amount            int64  `json:"amount" binding:"required"`
	Description       string `json:"description"`
	ConversationID    string `json:"conversationId"`
}

// CreateTransfer executes an internal sats transfer
// POST /api/v1/transfers
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	userID, ok := middleware.ActingUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	destUserID, err := uuid.Parse(req.DestinationUserID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid destination user ID"))
		return
	}

	// Default to the caller's spending wallet when none is named
	var sourceWalletID uuid.UUID
	if req.SourceWalletID != "" {
		sourceWalletID, err = uuid.Parse(req.SourceWalletID)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("invalid source wallet ID"))
			return
		}
	} else {
		wallet, err := h.walletUC.GetOrCreateSpendingWallet(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		sourceWalletID = wallet.ID
	}

	input := usecases.TransferSatsInput{
		SourceWalletID:    sourceWalletID,
		DestinationUserID: destUserID,
		Amount:            req.Amount,
		Description:       req.Description,
	}
	if req.ConversationID != "" {
		conversationID, err := uuid.Parse(req.ConversationID)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("invalid conversation ID"))
			return
		}
		input.ConversationID = &conversationID
	}

	result, err := h.transferUC.TransferSats(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// GetTransfer returns a transfer with its double-entry ledger legs
// GET /api/v1/transfers/:id
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid transfer ID"))
		return
	}

	transfer, legs, err := h.transferUC.GetTransfer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"transfer":     transfer,
		"transactions": legs,
	})
}
