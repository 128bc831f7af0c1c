package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"mari-gunting.backend/internal/domain/entities"
)

// CaptureQueueRepository defines capture queue data operations
type CaptureQueueRepository interface {
	Create(ctx context.Context, item *entities.CaptureQueueItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.CaptureQueueItem, error)
	// GetOpenByBookingID returns a pending or processing item for the
	// booking, or ErrNotFound.
	GetOpenByBookingID(ctx context.Context, bookingID uuid.UUID) (*entities.CaptureQueueItem, error)
	// GetDue selects up to limit pending items with scheduledAt <= now and
	// retryCount < maxRetry, oldest first.
	GetDue(ctx context.Context, now time.Time, limit, maxRetry int) ([]*entities.CaptureQueueItem, error)
	// Claim atomically moves an item pending -> processing. Returns false
	// when another processor run claimed it first.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	Complete(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID, reason string) error
	// Fail marks the item terminally failed after retries are exhausted.
	Fail(ctx context.Context, id uuid.UUID, retryCount int, lastError string) error
	// Requeue returns a processing item to pending for a future run.
	Requeue(ctx context.Context, id uuid.UUID, retryCount int, lastError string) error
	// ReclaimStuck returns items stuck in processing since before cutoff to
	// pending with retryCount incremented; reports how many were reclaimed.
	ReclaimStuck(ctx context.Context, cutoff time.Time) (int64, error)
}
