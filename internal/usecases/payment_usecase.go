package usecases

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"mari-gunting.backend/internal/config"
	"mari-gunting.backend/internal/domain/entities"
	domainerrors "mari-gunting.backend/internal/domain/errors"
	"mari-gunting.backend/internal/domain/repositories"
	"mari-gunting.backend/internal/infrastructure/gateway"
	"mari-gunting.backend/pkg/logger"
	"mari-gunting.backend/pkg/signature"
)

// GatewayClient is the subset of the Curlec client the usecases call.
type GatewayClient interface {
	CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error)
	Capture(ctx context.Context, paymentID string, amountMinorUnits int64, currency string) (*gateway.Payment, error)
	Refund(ctx context.Context, paymentID string, amountMinorUnits int64, notes map[string]string) (*gateway.Refund, error)
}

// PaymentUsecase handles ledger-facing payment operations: order creation,
// checkout verification, refunds and lookups.
type PaymentUsecase struct {
	recordRepo  repositories.PaymentRecordRepository
	bookingRepo repositories.BookingRepository
	eventRepo   repositories.WebhookEventRepository
	gateway     GatewayClient
	uow         repositories.UnitOfWork
	cfg         config.CurlecConfig
}

// NewPaymentUsecase creates a new payment usecase
func NewPaymentUsecase(
	recordRepo repositories.PaymentRecordRepository,
	bookingRepo repositories.BookingRepository,
	eventRepo repositories.WebhookEventRepository,
	gw GatewayClient,
	uow repositories.UnitOfWork,
	cfg config.CurlecConfig,
) *PaymentUsecase {
	return &PaymentUsecase{
		recordRepo:  recordRepo,
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		gateway:     gw,
		uow:         uow,
		cfg:         cfg,
	}
}

// CreateOrder creates (or reuses) a gateway order for a booking. A booking
// with an open payment record never gets a second gateway order: the existing
// order is returned so a double-submitted checkout converges on one charge.
func (u *PaymentUsecase) CreateOrder(ctx context.Context, input *entities.CreateOrderInput) (*entities.CreateOrderResponse, error) {
	bookingID, err := uuid.Parse(input.BookingID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid booking id")
	}

	booking, err := u.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("booking not found")
		}
		return nil, err
	}

	existing, err := u.recordRepo.GetOpenByBookingID(ctx, bookingID)
	if err != nil && err != domainerrors.ErrNotFound {
		return nil, err
	}
	if existing != nil && existing.GatewayOrderID.Valid {
		logger.Info(ctx, "reusing open payment record",
			zap.String("booking_id", bookingID.String()),
			zap.String("gateway_order_id", existing.GatewayOrderID.String),
		)
		return &entities.CreateOrderResponse{
			PaymentRecordID:  existing.ID,
			GatewayOrderID:   existing.GatewayOrderID.String,
			AmountMinorUnits: existing.AmountMinorUnits,
			Currency:         existing.Currency,
			Status:           existing.Status,
			Reused:           true,
		}, nil
	}

	notes := map[string]string{"bookingId": bookingID.String()}
	for k, v := range input.Notes {
		notes[k] = v
	}
	order, err := u.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		AmountMinorUnits: booking.TotalAmountMinorUnits,
		Currency:         booking.Currency,
		Receipt:          bookingID.String(),
		Notes:            notes,
	})
	if err != nil {
		return nil, err
	}

	var record *entities.PaymentRecord
	if existing != nil {
		// Open record without a gateway order: a previous create attempt
		// failed before the gateway responded. Bind the new order to it.
		existing.GatewayOrderID.SetValid(order.ID)
		if err := u.recordRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		record = existing
	} else {
		record = &entities.PaymentRecord{
			BookingID:        bookingID,
			AmountMinorUnits: booking.TotalAmountMinorUnits,
			Currency:         booking.Currency,
			Status:           entities.PaymentStatusCreated,
		}
		record.GatewayOrderID.SetValid(order.ID)
		if err := u.recordRepo.Create(ctx, record); err != nil {
			return nil, err
		}
	}

	logger.Info(ctx, "gateway order created",
		zap.String("booking_id", bookingID.String()),
		zap.String("gateway_order_id", order.ID),
		zap.Int64("amount", record.AmountMinorUnits),
	)

	return &entities.CreateOrderResponse{
		PaymentRecordID:  record.ID,
		GatewayOrderID:   order.ID,
		AmountMinorUnits: record.AmountMinorUnits,
		Currency:         record.Currency,
		Status:           record.Status,
	}, nil
}

// VerifyCheckout verifies the signature the hosted checkout returned and, on
// success, binds the gateway payment id and authorizes the record.
func (u *PaymentUsecase) VerifyCheckout(ctx context.Context, input *entities.VerifyCheckoutInput) (*entities.PaymentRecord, error) {
	if !signature.VerifyCheckout(input.GatewayOrderID, input.GatewayPaymentID, input.Signature, u.cfg.KeySecret) {
		logger.Warn(ctx, "checkout signature verification failed",
			zap.String("gateway_order_id", input.GatewayOrderID),
		)
		return nil, domainerrors.NewAppError(http.StatusBadRequest, "ERR_SIGNATURE", "signature verification failed", domainerrors.ErrSignatureInvalid)
	}

	record, err := u.recordRepo.GetByGatewayOrderID(ctx, input.GatewayOrderID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("payment record not found")
		}
		return nil, err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		current, err := u.recordRepo.GetByID(lockCtx, record.ID)
		if err != nil {
			return err
		}

		// Replayed verification after a webhook already advanced the record
		// is a benign no-op.
		if current.Status == entities.PaymentStatusAuthorized || current.Status == entities.PaymentStatusCompleted {
			record = current
			return nil
		}
		if !current.Status.CanTransitionTo(entities.PaymentStatusAuthorized) {
			return domainerrors.ErrStateConflict
		}

		current.GatewayPaymentID.SetValid(input.GatewayPaymentID)
		current.Status = entities.PaymentStatusAuthorized
		if err := u.recordRepo.Update(lockCtx, current); err != nil {
			return err
		}
		if err := u.bookingRepo.SetPaymentStatus(lockCtx, current.BookingID, entities.PaymentStatusAuthorized, nil); err != nil {
			return err
		}
		record = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "checkout verified",
		zap.String("gateway_order_id", input.GatewayOrderID),
		zap.String("gateway_payment_id", input.GatewayPaymentID),
	)
	return record, nil
}

// InitiateRefund starts a gateway refund for an authorized or completed
// payment. Zero amount refunds the full recorded amount.
func (u *PaymentUsecase) InitiateRefund(ctx context.Context, recordID uuid.UUID, input *entities.RefundInput) (*entities.PaymentRecord, error) {
	record, err := u.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("payment record not found")
		}
		return nil, err
	}

	if !record.GatewayPaymentID.Valid {
		return nil, domainerrors.NewAppError(http.StatusConflict, "ERR_NOT_BOUND", "payment has no gateway payment id", domainerrors.ErrPaymentNotBound)
	}
	if !record.Status.CanTransitionTo(entities.PaymentStatusRefundInitiated) {
		return nil, domainerrors.NewAppError(http.StatusConflict, "ERR_STATE", "payment is not refundable in its current state", domainerrors.ErrStateConflict)
	}

	amount := input.AmountMinorUnits
	if amount <= 0 {
		amount = record.AmountMinorUnits
	}
	if amount > record.AmountMinorUnits {
		return nil, domainerrors.BadRequest("refund amount exceeds paid amount")
	}

	refund, err := u.gateway.Refund(ctx, record.GatewayPaymentID.String, amount, input.Notes)
	if err != nil {
		return nil, err
	}

	prior := record.Status
	record.GatewayRefundID.SetValid(refund.ID)
	record.Status = entities.PaymentStatusRefundInitiated
	if err := u.recordRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	if err := u.bookingRepo.SetPaymentStatus(ctx, record.BookingID, entities.PaymentStatusRefundInitiated, nil); err != nil {
		logger.Error(ctx, "failed to sync booking payment status", zap.Error(err))
	}

	logger.Info(ctx, "refund initiated",
		zap.String("record_id", record.ID.String()),
		zap.String("gateway_refund_id", refund.ID),
		zap.Int64("amount", amount),
		zap.String("prior_status", string(prior)),
	)
	return record, nil
}

// GetPayment returns one ledger record
func (u *PaymentUsecase) GetPayment(ctx context.Context, recordID uuid.UUID) (*entities.PaymentRecord, error) {
	record, err := u.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("payment record not found")
		}
		return nil, err
	}
	return record, nil
}

// ListPayments returns ledger records newest first with a total count
func (u *PaymentUsecase) ListPayments(ctx context.Context, limit, offset int) ([]*entities.PaymentRecord, int64, error) {
	return u.recordRepo.List(ctx, limit, offset)
}

// GetPaymentEvents returns the webhook audit trail of one ledger record
func (u *PaymentUsecase) GetPaymentEvents(ctx context.Context, recordID uuid.UUID) ([]*entities.WebhookEvent, error) {
	if _, err := u.recordRepo.GetByID(ctx, recordID); err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("payment record not found")
		}
		return nil, err
	}
	return u.eventRepo.ListByPaymentRecordID(ctx, recordID)
}
