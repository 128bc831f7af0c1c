package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"mari-gunting.backend/internal/domain/entities"
	domainerrors "mari-gunting.backend/internal/domain/errors"
	"mari-gunting.backend/internal/interfaces/http/response"
	"mari-gunting.backend/pkg/utils"
)

type PaymentService interface {
	CreateOrder(ctx context.Context, input *entities.CreateOrderInput) (*entities.CreateOrderResponse, error)
	VerifyCheckout(ctx context.Context, input *entities.VerifyCheckoutInput) (*entities.PaymentRecord, error)
	InitiateRefund(ctx context.Context, recordID uuid.UUID, input *entities.RefundInput) (*entities.PaymentRecord, error)
	GetPayment(ctx context.Context, recordID uuid.UUID) (*entities.PaymentRecord, error)
	ListPayments(ctx context.Context, limit, offset int) ([]*entities.PaymentRecord, int64, error)
	GetPaymentEvents(ctx context.Context, recordID uuid.UUID) ([]*entities.WebhookEvent, error)
}

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentUsecase PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentUsecase PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentUsecase: paymentUsecase}
}

// CreateOrder creates (or reuses) a gateway order for a booking
// POST /api/v1/payments/orders
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var input entities.CreateOrderInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	orderResponse, err := h.paymentUsecase.CreateOrder(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Booking not found"))
			return
		}
		response.Error(c, err)
		return
	}

	status := http.StatusCreated
	if orderResponse.Reused {
		status = http.StatusOK
	}
	response.Success(c, status, orderResponse)
}

// VerifyCheckout verifies the checkout callback signature and marks the
// payment authorized
// POST /api/v1/payments/verify
func (h *PaymentHandler) VerifyCheckout(c *gin.Context) {
	var input entities.VerifyCheckoutInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	record, err := h.paymentUsecase.VerifyCheckout(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Payment not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": record})
}

// InitiateRefund starts a refund for a payment record
// POST /api/v1/payments/:id/refund
func (h *PaymentHandler) InitiateRefund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid payment ID"))
		return
	}

	var input entities.RefundInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	record, err := h.paymentUsecase.InitiateRefund(c.Request.Context(), id, &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Payment not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": record})
}

// GetPayment gets a payment record by ID
// GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid payment ID"))
		return
	}

	record, err := h.paymentUsecase.GetPayment(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Payment not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": record})
}

// ListPayments lists payment records
// GET /api/v1/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if limit < 1 || limit > 100 {
		limit = 10
	}

	params := utils.GetPaginationParams(page, limit)

	records, total, err := h.paymentUsecase.ListPayments(c.Request.Context(), params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"payments":   records,
		"pagination": utils.CalculateMeta(total, params.Page, params.Limit),
	})
}

// GetPaymentEvents lists the webhook deliveries recorded against a payment
// GET /api/v1/payments/:id/events
func (h *PaymentHandler) GetPaymentEvents(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid payment ID"))
		return
	}

	events, err := h.paymentUsecase.GetPaymentEvents(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"events": events})
}
