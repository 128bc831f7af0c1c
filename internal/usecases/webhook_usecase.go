package usecases

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"mari-gunting.backend/internal/domain/entities"
	domainerrors "mari-gunting.backend/internal/domain/errors"
	"mari-gunting.backend/internal/domain/repositories"
	"mari-gunting.backend/internal/metrics"
	"mari-gunting.backend/pkg/logger"
	"mari-gunting.backend/pkg/signature"
)

// WebhookUsecase is the single trusted entry point for asynchronous gateway
// notifications. Every delivery, accepted or rejected, leaves one audit row;
// only a signature failure is answered with anything other than 200.
type WebhookUsecase struct {
	recordRepo    repositories.PaymentRecordRepository
	bookingRepo   repositories.BookingRepository
	eventRepo     repositories.WebhookEventRepository
	uow           repositories.UnitOfWork
	webhookSecret string
}

// NewWebhookUsecase creates a new webhook usecase
func NewWebhookUsecase(
	recordRepo repositories.PaymentRecordRepository,
	bookingRepo repositories.BookingRepository,
	eventRepo repositories.WebhookEventRepository,
	uow repositories.UnitOfWork,
	webhookSecret string,
) *WebhookUsecase {
	return &WebhookUsecase{
		recordRepo:    recordRepo,
		bookingRepo:   bookingRepo,
		eventRepo:     eventRepo,
		uow:           uow,
		webhookSecret: webhookSecret,
	}
}

// webhookEnvelope is the tagged union the gateway delivers: the event string
// discriminates which entity inside payload is populated.
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
		Refund struct {
			Entity refundEntity `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
}

type paymentEntity struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
	Status  string `json:"status"`
}

type refundEntity struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
}

// paymentEventTargets maps payment.* events to the ledger status they assert.
var paymentEventTargets = map[string]entities.PaymentStatus{
	string(entities.WebhookEventPaymentAuthorized): entities.PaymentStatusAuthorized,
	string(entities.WebhookEventPaymentCaptured):   entities.PaymentStatusCompleted,
	string(entities.WebhookEventPaymentFailed):     entities.PaymentStatusFailed,
}

// refundEventTargets maps refund.* events to the ledger status they assert.
var refundEventTargets = map[string]entities.PaymentStatus{
	string(entities.WebhookEventRefundCreated):   entities.PaymentStatusRefundInitiated,
	string(entities.WebhookEventRefundProcessed): entities.PaymentStatusRefunded,
	string(entities.WebhookEventRefundFailed):    entities.PaymentStatusRefundFailed,
}

// HandleWebhook verifies and dispatches one delivery. The returned outcome
// decides the HTTP answer: WebhookOutcomeSignatureRejected maps to 401,
// everything else to 200.
func (u *WebhookUsecase) HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (entities.WebhookOutcome, error) {
	if !signature.VerifyWebhook(rawBody, signatureHeader, u.webhookSecret) {
		u.audit(ctx, &entities.WebhookEvent{
			EventType:  eventTypeOrUnknown(rawBody),
			VerifiedOk: false,
			Outcome:    entities.WebhookOutcomeSignatureRejected,
			RawPayload: string(rawBody),
		})
		logger.Warn(ctx, "webhook signature rejected")
		return entities.WebhookOutcomeSignatureRejected, nil
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil || envelope.Event == "" {
		u.audit(ctx, &entities.WebhookEvent{
			EventType:  "malformed",
			VerifiedOk: true,
			Outcome:    entities.WebhookOutcomeIgnored,
			RawPayload: string(rawBody),
		})
		return entities.WebhookOutcomeIgnored, nil
	}

	if target, ok := paymentEventTargets[envelope.Event]; ok {
		return u.handlePaymentEvent(ctx, envelope.Event, envelope.Payload.Payment.Entity, target, rawBody)
	}
	if target, ok := refundEventTargets[envelope.Event]; ok {
		return u.handleRefundEvent(ctx, envelope.Event, envelope.Payload.Refund.Entity, target, rawBody)
	}

	// Unknown event types are a recognized variant that safely no-ops.
	u.audit(ctx, &entities.WebhookEvent{
		EventType:  envelope.Event,
		VerifiedOk: true,
		Outcome:    entities.WebhookOutcomeIgnored,
		RawPayload: string(rawBody),
	})
	logger.Debug(ctx, "ignoring unhandled webhook event", zap.String("event", envelope.Event))
	return entities.WebhookOutcomeIgnored, nil
}

func (u *WebhookUsecase) handlePaymentEvent(ctx context.Context, eventType string, entity paymentEntity, target entities.PaymentStatus, rawBody []byte) (entities.WebhookOutcome, error) {
	record, err := u.recordRepo.GetByGatewayPaymentID(ctx, entity.ID)
	if err == domainerrors.ErrNotFound && entity.OrderID != "" {
		// Checkout verification may not have run yet: fall back to the order
		// id and backfill the payment id during the transaction below.
		record, err = u.recordRepo.GetByGatewayOrderID(ctx, entity.OrderID)
	}
	if err != nil {
		if err == domainerrors.ErrNotFound {
			u.audit(ctx, &entities.WebhookEvent{
				GatewayEventID: nullString(entity.ID),
				EventType:      eventType,
				AmountReceived: entity.Amount,
				VerifiedOk:     true,
				Outcome:        entities.WebhookOutcomeUnmatched,
				RawPayload:     string(rawBody),
			})
			logger.Warn(ctx, "webhook does not match any payment record",
				zap.String("event", eventType),
				zap.String("gateway_payment_id", entity.ID),
			)
			return entities.WebhookOutcomeUnmatched, nil
		}
		return "", err
	}

	// Amount integrity: an authorize/capture for the wrong amount never
	// mutates the ledger. The row stays frozen for manual review.
	if target != entities.PaymentStatusFailed && entity.Amount != record.AmountMinorUnits {
		u.audit(ctx, &entities.WebhookEvent{
			BookingID:       &record.BookingID,
			PaymentRecordID: &record.ID,
			GatewayEventID:  nullString(entity.ID),
			EventType:       eventType,
			AmountReceived:  entity.Amount,
			AmountExpected:  record.AmountMinorUnits,
			VerifiedOk:      true,
			Outcome:         entities.WebhookOutcomeIntegrityViolation,
			RawPayload:      string(rawBody),
		})
		logger.Error(ctx, "webhook amount integrity violation",
			zap.String("record_id", record.ID.String()),
			zap.Int64("expected", record.AmountMinorUnits),
			zap.Int64("received", entity.Amount),
		)
		return entities.WebhookOutcomeIntegrityViolation, nil
	}

	return u.applyTransition(ctx, record.ID, eventType, entity.ID, entity.Amount, target, rawBody, func(current *entities.PaymentRecord) {
		if !current.GatewayPaymentID.Valid {
			current.GatewayPaymentID.SetValid(entity.ID)
		}
	})
}

func (u *WebhookUsecase) handleRefundEvent(ctx context.Context, eventType string, entity refundEntity, target entities.PaymentStatus, rawBody []byte) (entities.WebhookOutcome, error) {
	record, err := u.recordRepo.GetByGatewayRefundID(ctx, entity.ID)
	if err == domainerrors.ErrNotFound && entity.PaymentID != "" {
		// Refund initiated out-of-band (gateway dashboard): match by payment
		// id and backfill the refund id.
		record, err = u.recordRepo.GetByGatewayPaymentID(ctx, entity.PaymentID)
	}
	if err != nil {
		if err == domainerrors.ErrNotFound {
			u.audit(ctx, &entities.WebhookEvent{
				GatewayEventID: nullString(entity.ID),
				EventType:      eventType,
				AmountReceived: entity.Amount,
				VerifiedOk:     true,
				Outcome:        entities.WebhookOutcomeUnmatched,
				RawPayload:     string(rawBody),
			})
			logger.Warn(ctx, "refund webhook does not match any payment record",
				zap.String("event", eventType),
				zap.String("gateway_refund_id", entity.ID),
			)
			return entities.WebhookOutcomeUnmatched, nil
		}
		return "", err
	}

	return u.applyTransition(ctx, record.ID, eventType, entity.ID, entity.Amount, target, rawBody, func(current *entities.PaymentRecord) {
		if !current.GatewayRefundID.Valid {
			current.GatewayRefundID.SetValid(entity.ID)
		}
	})
}

// applyTransition runs steps 4-6 of the dispatch inside one transaction with
// the record row locked: idempotency check, guarded state transition, audit
// row, booking sync.
func (u *WebhookUsecase) applyTransition(
	ctx context.Context,
	recordID uuid.UUID,
	eventType, gatewayEventID string,
	amount int64,
	target entities.PaymentStatus,
	rawBody []byte,
	backfill func(*entities.PaymentRecord),
) (entities.WebhookOutcome, error) {
	outcome := entities.WebhookOutcomeApplied

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		current, err := u.recordRepo.GetByID(lockCtx, recordID)
		if err != nil {
			return err
		}

		event := &entities.WebhookEvent{
			BookingID:       &current.BookingID,
			PaymentRecordID: &current.ID,
			GatewayEventID:  nullString(gatewayEventID),
			EventType:       eventType,
			AmountReceived:  amount,
			AmountExpected:  current.AmountMinorUnits,
			VerifiedOk:      true,
			RawPayload:      string(rawBody),
		}

		switch {
		case current.Status == target:
			// Duplicate delivery: nothing to mutate.
			outcome = entities.WebhookOutcomeDuplicate
			event.Outcome = outcome
			return u.eventRepo.Create(lockCtx, event)
		case !current.Status.CanTransitionTo(target):
			// Out-of-order arrival that lost to a later transition. Logged
			// as an anomaly, never silently overwritten.
			outcome = entities.WebhookOutcomeStateConflict
			event.Outcome = outcome
			logger.Warn(ctx, "webhook transition rejected by state machine",
				zap.String("record_id", current.ID.String()),
				zap.String("from", string(current.Status)),
				zap.String("to", string(target)),
			)
			return u.eventRepo.Create(lockCtx, event)
		}

		backfill(current)
		current.Status = target
		if target == entities.PaymentStatusCompleted {
			now := time.Now()
			current.PaidAt = &now
		}
		if err := u.recordRepo.Update(lockCtx, current); err != nil {
			return err
		}
		if err := u.bookingRepo.SetPaymentStatus(lockCtx, current.BookingID, target, current.PaidAt); err != nil {
			return err
		}

		event.Outcome = outcome
		return u.eventRepo.Create(lockCtx, event)
	})
	if err != nil {
		return "", err
	}

	metrics.WebhookDeliveries.WithLabelValues(eventType, string(outcome)).Inc()
	if outcome == entities.WebhookOutcomeApplied {
		logger.Info(ctx, "webhook applied",
			zap.String("event", eventType),
			zap.String("record_id", recordID.String()),
			zap.String("status", string(target)),
		)
	}
	return outcome, nil
}

// audit writes an audit row outside any transaction; failures are logged,
// never propagated, so auditing cannot change the HTTP answer.
func (u *WebhookUsecase) audit(ctx context.Context, event *entities.WebhookEvent) {
	if err := u.eventRepo.Create(ctx, event); err != nil {
		logger.Error(ctx, "failed to record webhook audit row", zap.Error(err))
	}
	metrics.WebhookDeliveries.WithLabelValues(event.EventType, string(event.Outcome)).Inc()
}

// eventTypeOrUnknown extracts the event discriminant for audit rows of
// deliveries that never pass verification.
func eventTypeOrUnknown(rawBody []byte) string {
	var probe struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(rawBody, &probe); err == nil && probe.Event != "" {
		return probe.Event
	}
	return "unknown"
}
