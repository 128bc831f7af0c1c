package usecases

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"mari-gunting.backend/internal/domain/entities"
	domainerrors "mari-gunting.backend/internal/domain/errors"
	"mari-gunting.backend/internal/domain/repositories"
	"mari-gunting.backend/pkg/logger"
)

// BookingUsecase covers the payment-relevant booking operations: creation,
// dispute flagging and the completion confirmation that schedules a capture.
type BookingUsecase struct {
	bookingRepo repositories.BookingRepository
	recordRepo  repositories.PaymentRecordRepository
	queueRepo   repositories.CaptureQueueRepository
	uow         repositories.UnitOfWork
}

// NewBookingUsecase creates a new booking usecase
func NewBookingUsecase(
	bookingRepo repositories.BookingRepository,
	recordRepo repositories.PaymentRecordRepository,
	queueRepo repositories.CaptureQueueRepository,
	uow repositories.UnitOfWork,
) *BookingUsecase {
	return &BookingUsecase{
		bookingRepo: bookingRepo,
		recordRepo:  recordRepo,
		queueRepo:   queueRepo,
		uow:         uow,
	}
}

// CreateBookingInput is the payment-relevant slice of a new booking
type CreateBookingInput struct {
	CustomerID            string `json:"customerId" binding:"required"`
	ServiceName           string `json:"serviceName" binding:"required"`
	TotalAmountMinorUnits int64  `json:"totalAmountMinorUnits" binding:"required,gt=0"`
	Currency              string `json:"currency"`
}

// CreateBooking creates a booking row awaiting payment
func (u *BookingUsecase) CreateBooking(ctx context.Context, input *CreateBookingInput) (*entities.Booking, error) {
	customerID, err := uuid.Parse(input.CustomerID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid customer id")
	}

	currency := input.Currency
	if currency == "" {
		currency = "MYR"
	}

	booking := &entities.Booking{
		CustomerID:            customerID,
		ServiceName:           input.ServiceName,
		TotalAmountMinorUnits: input.TotalAmountMinorUnits,
		Currency:              currency,
		Status:                entities.BookingStatusPending,
		PaymentStatus:         entities.PaymentStatusCreated,
	}
	if err := u.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// GetBooking returns one booking
func (u *BookingUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*entities.Booking, error) {
	booking, err := u.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("booking not found")
		}
		return nil, err
	}
	return booking, nil
}

// FlagDispute marks the booking disputed, halting automatic capture. Flagging
// an already-disputed booking is a no-op.
func (u *BookingUsecase) FlagDispute(ctx context.Context, bookingID uuid.UUID) (*entities.Booking, error) {
	booking, err := u.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Disputed() {
		return booking, nil
	}

	now := time.Now()
	if err := u.bookingRepo.SetDisputed(ctx, bookingID, now); err != nil {
		return nil, err
	}
	booking.DisputedAt = &now

	logger.Warn(ctx, "booking flagged disputed", zap.String("booking_id", bookingID.String()))
	return booking, nil
}

// ConfirmCompletion records the completion confirmation and schedules the
// capture of the authorized payment. Confirming twice reuses the open queue
// item instead of enqueueing a second capture.
func (u *BookingUsecase) ConfirmCompletion(ctx context.Context, bookingID uuid.UUID) (*entities.CaptureQueueItem, error) {
	booking, err := u.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Disputed() {
		return nil, domainerrors.NewAppError(http.StatusConflict, "ERR_DISPUTED", "booking is disputed", domainerrors.ErrBookingDisputed)
	}

	record, err := u.recordRepo.GetOpenByBookingID(ctx, bookingID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NewAppError(http.StatusConflict, "ERR_STATE", "booking has no open payment", domainerrors.ErrStateConflict)
		}
		return nil, err
	}
	if record.Status != entities.PaymentStatusAuthorized || !record.GatewayPaymentID.Valid {
		return nil, domainerrors.NewAppError(http.StatusConflict, "ERR_STATE", "payment is not authorized yet", domainerrors.ErrStateConflict)
	}

	if existing, err := u.queueRepo.GetOpenByBookingID(ctx, bookingID); err == nil {
		return existing, nil
	} else if err != domainerrors.ErrNotFound {
		return nil, err
	}

	now := time.Now()
	item := &entities.CaptureQueueItem{
		BookingID:        bookingID,
		GatewayPaymentID: record.GatewayPaymentID.String,
		AmountMinorUnits: record.AmountMinorUnits,
		ScheduledAt:      now,
		Status:           entities.CaptureStatusPending,
	}
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.bookingRepo.SetCompletionConfirmed(txCtx, bookingID, now); err != nil {
			return err
		}
		return u.queueRepo.Create(txCtx, item)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "capture scheduled",
		zap.String("booking_id", bookingID.String()),
		zap.String("gateway_payment_id", item.GatewayPaymentID),
		zap.Int64("amount", item.AmountMinorUnits),
	)
	return item, nil
}
