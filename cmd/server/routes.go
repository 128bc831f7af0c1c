package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"mari-gunting.backend/internal/interfaces/http/handlers"
	"mari-gunting.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	bookingHandler *handlers.BookingHandler
	paymentHandler *handlers.PaymentHandler
	webhookHandler *handlers.WebhookHandler
	queueHandler   *handlers.QueueHandler
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, Idempotency-Key")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "mari-gunting-payments",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Booking routes
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", d.bookingHandler.CreateBooking)
			bookings.GET("/:id", d.bookingHandler.GetBooking)
			bookings.POST("/:id/dispute", d.bookingHandler.FlagDispute)
			bookings.POST("/:id/confirm-completion", d.bookingHandler.ConfirmCompletion)
		}

		// Payment routes
		payments := v1.Group("/payments")
		{
			payments.POST("/orders", middleware.IdempotencyMiddleware(), d.paymentHandler.CreateOrder)
			payments.POST("/verify", d.paymentHandler.VerifyCheckout)
			payments.POST("/:id/refund", middleware.IdempotencyMiddleware(), d.paymentHandler.InitiateRefund)
			payments.GET("", d.paymentHandler.ListPayments)
			payments.GET("/:id", d.paymentHandler.GetPayment)
			payments.GET("/:id/events", d.paymentHandler.GetPaymentEvents)

			// Gateway webhook (signature-authenticated, not idempotency-guarded:
			// the dispatcher itself deduplicates deliveries)
			payments.POST("/webhook", d.webhookHandler.HandleGatewayWebhook)
		}

		// Internal operational routes
		internal := v1.Group("/internal")
		{
			internal.POST("/capture-queue/run", d.queueHandler.RunCaptureQueue)
		}
	}
}
