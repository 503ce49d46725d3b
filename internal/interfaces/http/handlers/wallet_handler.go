package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "sats-chat.backend/internal/domain/errors"
	"sats-chat.backend/internal/interfaces/http/middleware"
	"sats-chat.backend/internal/interfaces/http/response"
	"sats-chat.backend/internal/usecases"
)

type WalletHandler struct {
	walletUC   *usecases.WalletUsecase
	transferUC *usecases.TransferUsecase
}

func NewWalletHandler(walletUC *usecases.WalletUsecase, transferUC *usecases.TransferUsecase) *WalletHandler {
	return &WalletHandler{walletUC: walletUC, transferUC: transferUC}
}

// GetMyWallet resolves (lazily creating) the caller's spending wallet
// GET /api/v1/wallets/me
func (h *WalletHandler) GetMyWallet(c *gin.Context) {
	userID, ok := middleware.ActingUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	wallet, err := h.walletUC.GetOrCreateSpendingWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, wallet)
}

// GetWalletTransactions lists a wallet's ledger legs
// GET /api/v1/wallets/:id/transactions
func (h *WalletHandler) GetWalletTransactions(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid wallet ID"))
		return
	}

	limit, offset := pagination(c)
	txs, total, err := h.transferUC.GetWalletTransactions(c.Request.Context(), walletID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"transactions": txs,
		"total":        total,
	})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
