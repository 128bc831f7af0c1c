package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"mari-gunting.backend/internal/domain/entities"
	domainerrors "mari-gunting.backend/internal/domain/errors"
	"mari-gunting.backend/internal/interfaces/http/response"
	"mari-gunting.backend/internal/usecases"
)

type BookingService interface {
	CreateBooking(ctx context.Context, input *usecases.CreateBookingInput) (*entities.Booking, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*entities.Booking, error)
	FlagDispute(ctx context.Context, bookingID uuid.UUID) (*entities.Booking, error)
	ConfirmCompletion(ctx context.Context, bookingID uuid.UUID) (*entities.CaptureQueueItem, error)
}

// BookingHandler handles booking endpoints
type BookingHandler struct {
	bookingUsecase BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingUsecase BookingService) *BookingHandler {
	return &BookingHandler{bookingUsecase: bookingUsecase}
}

// CreateBooking creates a new booking
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input usecases.CreateBookingInput

	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": booking})
}

// GetBooking gets a booking by ID
// GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid booking ID"))
		return
	}

	booking, err := h.bookingUsecase.GetBooking(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Booking not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// FlagDispute marks a booking disputed so its capture is blocked
// POST /api/v1/bookings/:id/dispute
func (h *BookingHandler) FlagDispute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid booking ID"))
		return
	}

	booking, err := h.bookingUsecase.FlagDispute(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Booking not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// ConfirmCompletion confirms service completion and schedules the capture
// POST /api/v1/bookings/:id/confirm-completion
func (h *BookingHandler) ConfirmCompletion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid booking ID"))
		return
	}

	item, err := h.bookingUsecase.ConfirmCompletion(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Booking not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"captureQueueItem": item})
}
