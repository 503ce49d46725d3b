package main

import (
	"github.com/gin-gonic/gin"
	"sats-chat.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	walletHandler         *handlers.WalletHandler
	transferHandler       *handlers.TransferHandler
	paymentRequestHandler *handlers.PaymentRequestHandler
	authMiddleware        gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Wallet routes (protected)
		wallets := v1.Group("/wallets")
		wallets.Use(d.authMiddleware)
		{
			wallets.GET("/me", d.walletHandler.GetMyWallet)
			wallets.GET("/:id/transactions", d.walletHandler.GetWalletTransactions)
		}

		// Transfer routes (protected)
		transfers := v1.Group("/transfers")
		transfers.Use(d.authMiddleware)
		{
			transfers.POST("", d.transferHandler.CreateTransfer)
			transfers.GET("/:id", d.transferHandler.GetTransfer)
		}

		// Payment request routes (protected)
		paymentRequests := v1.Group("/payment-requests")
		paymentRequests.Use(d.authMiddleware)
		{
			paymentRequests.POST("", d.paymentRequestHandler.CreatePaymentRequest)
			paymentRequests.GET("", d.paymentRequestHandler.ListPaymentRequests)
			paymentRequests.GET("/:id", d.paymentRequestHandler.GetPaymentRequest)
			paymentRequests.PATCH("/:id", d.paymentRequestHandler.EditPaymentRequest)
			paymentRequests.POST("/:id/approve", d.paymentRequestHandler.ApprovePaymentRequest)
			paymentRequests.POST("/:id/decline", d.paymentRequestHandler.DeclinePaymentRequest)
			paymentRequests.POST("/:id/cancel", d.paymentRequestHandler.CancelPaymentRequest)
			paymentRequests.POST("/:id/remind", d.paymentRequestHandler.RemindPaymentRequest)

			// Operator maintenance endpoints
			paymentRequests.POST("/:id/expire", d.paymentRequestHandler.ExpirePaymentRequest)
			paymentRequests.POST("/expire-due", d.paymentRequestHandler.ExpireDuePaymentRequests)
		}
	}
}
