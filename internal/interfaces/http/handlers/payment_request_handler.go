package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"sats-chat.backend/internal/domain/entities"
	domainerrors "sats-chat.backend/internal/domain/errors"
	"sats-chat.backend/internal/interfaces/http/middleware"
	"sats-chat.backend/internal/interfaces/http/response"
	"sats-chat.backend/internal/usecases"
)

type PaymentRequestHandler struct {
	requestUC *usecases.PaymentRequestUsecase
}

func NewPaymentRequestHandler(requestUC *usecases.PaymentRequestUsecase) *PaymentRequestHandler {
	return &PaymentRequestHandler{requestUC: requestUC}
}

type CreatePaymentRequestRequest struct {
	RecipientID    string `json:"recipientId" binding:"required"`
	Amount         int64  `json:"amount" binding:"required"`
	Currency       string `json:"currency"`
	Type           string `json:"type"`
	Description    string `json:"description"`
	ConversationID string `json:"conversationId"`
}

// CreatePaymentRequest creates a new payment request
// POST /api/v1/payment-requests
func (h *PaymentRequestHandler) CreatePaymentRequest(c *gin.Context) {
	userID, ok := middleware.ActingUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	var req CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid recipient ID"))
		return
	}

	input := usecases.CreatePaymentRequestInput{
		RequesterID: userID,
		RecipientID: recipientID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Type:        entities.PaymentRequestType(req.Type),
		Description: req.Description,
	}
	if req.ConversationID != "" {
		conversationID, err := uuid.Parse(req.ConversationID)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("invalid conversation ID"))
			return
		}
		input.ConversationID = &conversationID
	}

	request, err := h.requestUC.CreatePaymentRequest(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, request)
}

// GetPaymentRequest gets a payment request by ID
// GET /api/v1/payment-requests/:id
func (h *PaymentRequestHandler) GetPaymentRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid request ID"))
		return
	}

	request, err := h.requestUC.GetPaymentRequest(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, request)
}

// ListPaymentRequests lists the caller's payment requests
// GET /api/v1/payment-requests
func (h *PaymentRequestHandler) ListPaymentRequests(c *gin.Context) {
	userID, ok := middleware.ActingUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}

	limit, offset := pagination(c)
	requests, total, err := h.requestUC.ListPaymentRequests(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
	})
}

// ApprovePaymentRequest approves a pending request and drives the
// resulting transfer
// POST /api/v1/payment-requests/:id/approve
func (h *PaymentRequestHandler) ApprovePaymentRequest(c *gin.Context) {
	userID, ok := middleware.ActingUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid request ID"))
		return
	}

	out, err := h.requestUC.ApprovePaymentRequest(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

// DeclinePaymentRequest declines a pending request
// POST /api/v1/payment-requests/:id/decline
func (h *PaymentRequestHandler) DeclinePaymentRequest(c *gin.Context) {
	h.actWithReason(c, h.requestUC.DeclinePaymentRequest)
}

// CancelPaymentRequest cancels a pending request
// POST /api/v1/payment-requests/:id/cancel
func (h *PaymentRequestHandler) CancelPaymentRequest(c *gin.Context) {
	h.actWithReason(c, h.requestUC.CancelPaymentRequest)
}

// RemindPaymentRequest nudges the counterparty of a pending request
// POST /api/v1/payment-requests/:id/remind
func (h *PaymentRequestHandler) RemindPaymentRequest(c *gin.Context) {
	userID, ok := middleware.ActingUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid request ID"))
		return
	}

	if err := h.requestUC.RemindPaymentRequest(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "reminded"})
}

type EditPaymentRequestRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// EditPaymentRequest changes the amount of a pending request
// PATCH /api/v1/payment-requests/:id
func (h *PaymentRequestHandler) EditPaymentRequest(c *gin.Context) {
	userID, ok := middleware.ActingUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid request ID"))
		return
	}

	var req EditPaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	request, err := h.requestUC.EditPaymentRequest(c.Request.Context(), id, userID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, request)
}

// ExpirePaymentRequest forces the expiry of a single overdue request
// POST /api/v1/payment-requests/:id/expire
func (h *PaymentRequestHandler) ExpirePaymentRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid request ID"))
		return
	}

	if err := h.requestUC.ExpirePaymentRequest(c.Request.Context(), id, time.Now()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "expired"})
}

// ExpireDuePaymentRequests runs the expiry sweep on demand
// POST /api/v1/payment-requests/expire-due
func (h *PaymentRequestHandler) ExpireDuePaymentRequests(c *gin.Context) {
	count, err := h.requestUC.SweepExpired(c.Request.Context(), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"expired": count})
}

func (h *PaymentRequestHandler) actWithReason(c *gin.Context, action func(ctx context.Context, requestID, actorID uuid.UUID, reason string) error) {
	userID, ok := middleware.ActingUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid request ID"))
		return
	}

	var req ReasonRequest
	_ = c.ShouldBindJSON(&req) // reason is optional

	if err := action(c.Request.Context(), id, userID, req.Reason); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}
