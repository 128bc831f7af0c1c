package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"mari-gunting.backend/internal/config"
	"mari-gunting.backend/internal/domain/entities"
	domainerrors "mari-gunting.backend/internal/domain/errors"
	"mari-gunting.backend/internal/infrastructure/gateway"
	"mari-gunting.backend/internal/metrics"
	"mari-gunting.backend/pkg/logger"
)

type captureQueueStore interface {
	GetDue(ctx context.Context, now time.Time, limit, maxRetry int) ([]*entities.CaptureQueueItem, error)
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	Complete(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID, reason string) error
	Fail(ctx context.Context, id uuid.UUID, retryCount int, lastError string) error
	Requeue(ctx context.Context, id uuid.UUID, retryCount int, lastError string) error
	ReclaimStuck(ctx context.Context, cutoff time.Time) (int64, error)
}

type paymentLedger interface {
	GetByGatewayPaymentID(ctx context.Context, paymentID string) (*entities.PaymentRecord, error)
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to entities.PaymentStatus, paidAt *time.Time) error
}

type bookingStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Booking, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus, paidAt *time.Time) error
}

type captureGateway interface {
	Capture(ctx context.Context, paymentID string, amountMinorUnits int64, currency string) (*gateway.Payment, error)
}

// CaptureQueueJob processes due capture queue items on a fixed cadence.
// Overlapping runs are safe: each item is claimed with a conditional update
// before any gateway call.
type CaptureQueueJob struct {
	queue    captureQueueStore
	ledger   paymentLedger
	bookings bookingStore
	gateway  captureGateway
	cfg      config.QueueConfig
	stop     chan struct{}
}

func NewCaptureQueueJob(
	queue captureQueueStore,
	ledger paymentLedger,
	bookings bookingStore,
	gw captureGateway,
	cfg config.QueueConfig,
) *CaptureQueueJob {
	return &CaptureQueueJob{
		queue:    queue,
		ledger:   ledger,
		bookings: bookings,
		gateway:  gw,
		cfg:      cfg,
		stop:     make(chan struct{}),
	}
}

func (j *CaptureQueueJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting capture queue job", zap.Duration("interval", j.cfg.Interval))

	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "capture queue job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "capture queue job stopped")
			return
		case <-ticker.C:
			if _, err := j.RunOnce(ctx); err != nil {
				logger.Error(ctx, "capture queue run failed", zap.Error(err))
			}
		}
	}
}

func (j *CaptureQueueJob) Stop() {
	close(j.stop)
}

// RunOnce executes one processing pass: a supervisory reclaim sweep, then a
// batch of due items. A cancelled item (dispute) and an item found already
// captured by a webhook both count as successful.
func (j *CaptureQueueJob) RunOnce(ctx context.Context) (entities.CaptureRunSummary, error) {
	var summary entities.CaptureRunSummary
	now := time.Now()

	reclaimed, err := j.queue.ReclaimStuck(ctx, now.Add(-j.cfg.ReclaimAfter))
	if err != nil {
		return summary, err
	}
	if reclaimed > 0 {
		metrics.QueueReclaimed.Add(float64(reclaimed))
		logger.Warn(ctx, "reclaimed stuck capture items", zap.Int64("count", reclaimed))
	}
	summary.Reclaimed = int(reclaimed)

	due, err := j.queue.GetDue(ctx, now, j.cfg.BatchSize, j.cfg.MaxRetryCount)
	if err != nil {
		return summary, err
	}

	for _, item := range due {
		claimed, err := j.queue.Claim(ctx, item.ID)
		if err != nil {
			logger.Error(ctx, "failed to claim capture item", zap.String("item_id", item.ID.String()), zap.Error(err))
			continue
		}
		if !claimed {
			// Lost the race to an overlapping run.
			continue
		}

		summary.Processed++
		if j.processItem(ctx, item) {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}

	if summary.Processed > 0 {
		logger.Info(ctx, "capture queue run finished",
			zap.Int("processed", summary.Processed),
			zap.Int("successful", summary.Successful),
			zap.Int("failed", summary.Failed),
		)
	}
	return summary, nil
}

// processItem handles one claimed item and reports whether it ended well.
func (j *CaptureQueueJob) processItem(ctx context.Context, item *entities.CaptureQueueItem) bool {
	booking, err := j.bookings.GetByID(ctx, item.BookingID)
	if err != nil {
		return j.recordFailure(ctx, item, "booking lookup failed: "+err.Error())
	}

	// Dispute check comes first: a disputed booking is never captured.
	if booking.Disputed() {
		if err := j.queue.Cancel(ctx, item.ID, "booking disputed"); err != nil {
			logger.Error(ctx, "failed to cancel disputed capture item", zap.String("item_id", item.ID.String()), zap.Error(err))
			return false
		}
		metrics.CaptureAttempts.WithLabelValues(metrics.ResultCancelled).Inc()
		logger.Info(ctx, "capture cancelled for disputed booking",
			zap.String("booking_id", item.BookingID.String()),
			zap.String("item_id", item.ID.String()),
		)
		return true
	}

	record, err := j.ledger.GetByGatewayPaymentID(ctx, item.GatewayPaymentID)
	if err != nil {
		return j.recordFailure(ctx, item, "payment record lookup failed: "+err.Error())
	}

	// A webhook may have completed the capture already.
	if record.Status == entities.PaymentStatusCompleted {
		if err := j.queue.Complete(ctx, item.ID); err != nil {
			logger.Error(ctx, "failed to complete capture item", zap.String("item_id", item.ID.String()), zap.Error(err))
			return false
		}
		metrics.CaptureAttempts.WithLabelValues(metrics.ResultSkipped).Inc()
		return true
	}

	if _, err := j.gateway.Capture(ctx, item.GatewayPaymentID, item.AmountMinorUnits, record.Currency); err != nil {
		return j.recordFailure(ctx, item, err.Error())
	}

	paidAt := time.Now()
	err = j.ledger.UpdateStatusFrom(ctx, record.ID, record.Status, entities.PaymentStatusCompleted, &paidAt)
	if err != nil && !errors.Is(err, domainerrors.ErrStateConflict) {
		// Captured at the gateway but the ledger write failed. Leave the item
		// processing for the reclaim sweep; the next attempt hits the
		// already-completed branch once the webhook lands.
		logger.Error(ctx, "ledger update failed after capture",
			zap.String("record_id", record.ID.String()), zap.Error(err))
		return false
	}
	if err == nil {
		if err := j.bookings.SetPaymentStatus(ctx, item.BookingID, entities.PaymentStatusCompleted, &paidAt); err != nil {
			logger.Error(ctx, "failed to sync booking payment status",
				zap.String("booking_id", item.BookingID.String()), zap.Error(err))
		}
	}

	if err := j.queue.Complete(ctx, item.ID); err != nil {
		logger.Error(ctx, "failed to complete capture item", zap.String("item_id", item.ID.String()), zap.Error(err))
		return false
	}
	metrics.CaptureAttempts.WithLabelValues(metrics.ResultCaptured).Inc()
	logger.Info(ctx, "payment captured",
		zap.String("booking_id", item.BookingID.String()),
		zap.String("gateway_payment_id", item.GatewayPaymentID),
		zap.Int64("amount", item.AmountMinorUnits),
	)
	return true
}

// recordFailure bumps the retry counter and either requeues the item or, at
// the retry ceiling, fails it terminally for operator attention.
func (j *CaptureQueueJob) recordFailure(ctx context.Context, item *entities.CaptureQueueItem, reason string) bool {
	retryCount := item.RetryCount + 1
	if retryCount >= j.cfg.MaxRetryCount {
		if err := j.queue.Fail(ctx, item.ID, retryCount, reason); err != nil {
			logger.Error(ctx, "failed to mark capture item failed", zap.String("item_id", item.ID.String()), zap.Error(err))
		}
		metrics.CaptureAttempts.WithLabelValues(metrics.ResultFailed).Inc()
		logger.Error(ctx, "capture retries exhausted",
			zap.String("item_id", item.ID.String()),
			zap.String("booking_id", item.BookingID.String()),
			zap.Int("retry_count", retryCount),
			zap.String("last_error", reason),
		)
	} else {
		if err := j.queue.Requeue(ctx, item.ID, retryCount, reason); err != nil {
			logger.Error(ctx, "failed to requeue capture item", zap.String("item_id", item.ID.String()), zap.Error(err))
		}
		metrics.CaptureAttempts.WithLabelValues(metrics.ResultRequeued).Inc()
		logger.Warn(ctx, "capture attempt failed, requeued",
			zap.String("item_id", item.ID.String()),
			zap.Int("retry_count", retryCount),
			zap.String("last_error", reason),
		)
	}
	return false
}
