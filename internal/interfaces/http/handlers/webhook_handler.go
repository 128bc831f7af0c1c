package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"mari-gunting.backend/internal/domain/entities"
	"mari-gunting.backend/internal/interfaces/http/response"
	"mari-gunting.backend/pkg/logger"
)

const signatureHeader = "X-Razorpay-Signature"

type WebhookService interface {
	HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (entities.WebhookOutcome, error)
}

// WebhookHandler handles gateway webhook deliveries
type WebhookHandler struct {
	webhookUsecase WebhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookUsecase WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookUsecase: webhookUsecase}
}

// HandleGatewayWebhook handles incoming webhooks from the payment gateway.
// The gateway retries non-2xx responses, so every delivery the dispatcher can
// classify gets a 200 regardless of outcome. Only a failed signature check is
// rejected outright.
// POST /api/v1/payments/webhook
func (h *WebhookHandler) HandleGatewayWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "ERR_BAD_REQUEST", "unreadable request body")
		return
	}

	outcome, err := h.webhookUsecase.HandleWebhook(c.Request.Context(), rawBody, c.GetHeader(signatureHeader))
	if err != nil {
		logger.Error(c.Request.Context(), "webhook processing failed", zap.Error(err))
		response.ErrorWithStatus(c, http.StatusInternalServerError, "ERR_INTERNAL", "failed to process webhook")
		return
	}

	if outcome == entities.WebhookOutcomeSignatureRejected {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "ERR_SIGNATURE", "invalid webhook signature")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"outcome": outcome})
}
