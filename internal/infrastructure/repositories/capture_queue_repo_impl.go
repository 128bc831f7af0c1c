package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"mari-gunting.backend/internal/domain/entities"
	domainerrors "mari-gunting.backend/internal/domain/errors"
	"mari-gunting.backend/internal/infrastructure/models"
)

// CaptureQueueRepository implements capture queue data operations
type CaptureQueueRepository struct {
	db *gorm.DB
}

// NewCaptureQueueRepository creates a new capture queue repository
func NewCaptureQueueRepository(db *gorm.DB) *CaptureQueueRepository {
	return &CaptureQueueRepository{db: db}
}

// Create inserts a new queue item
func (r *CaptureQueueRepository) Create(ctx context.Context, item *entities.CaptureQueueItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Status == "" {
		item.Status = entities.CaptureStatusPending
	}
	m := &models.CaptureQueueItem{
		ID:               item.ID,
		BookingID:        item.BookingID,
		GatewayPaymentID: item.GatewayPaymentID,
		AmountMinorUnits: item.AmountMinorUnits,
		ScheduledAt:      item.ScheduledAt,
		Status:           string(item.Status),
		RetryCount:       item.RetryCount,
		LastError:        item.LastError.Ptr(),
		ProcessedAt:      item.ProcessedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	item.CreatedAt = m.CreatedAt
	item.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a queue item by ID
func (r *CaptureQueueRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.CaptureQueueItem, error) {
	var m models.CaptureQueueItem
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetOpenByBookingID returns a pending or processing item for the booking
func (r *CaptureQueueRepository) GetOpenByBookingID(ctx context.Context, bookingID uuid.UUID) (*entities.CaptureQueueItem, error) {
	var m models.CaptureQueueItem
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("booking_id = ? AND status IN ?", bookingID,
			[]string{string(entities.CaptureStatusPending), string(entities.CaptureStatusProcessing)}).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetDue selects due pending items, oldest first for fairness
func (r *CaptureQueueRepository) GetDue(ctx context.Context, now time.Time, limit, maxRetry int) ([]*entities.CaptureQueueItem, error) {
	var ms []models.CaptureQueueItem
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ? AND retry_count < ?",
			string(entities.CaptureStatusPending), now, maxRetry).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	items := make([]*entities.CaptureQueueItem, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

// Claim atomically moves an item pending -> processing. The conditional
// UPDATE is what prevents overlapping processor runs from double-claiming.
func (r *CaptureQueueRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.CaptureQueueItem{}).
		Where("id = ? AND status = ?", id, string(entities.CaptureStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entities.CaptureStatusProcessing),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Complete marks the item successfully processed
func (r *CaptureQueueRepository) Complete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.terminate(ctx, id, entities.CaptureStatusCompleted, map[string]interface{}{
		"processed_at": now,
		"last_error":   nil,
		"updated_at":   now,
	})
}

// Cancel marks the item cancelled (dispute), recording the reason
func (r *CaptureQueueRepository) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	now := time.Now()
	return r.terminate(ctx, id, entities.CaptureStatusCancelled, map[string]interface{}{
		"processed_at": now,
		"last_error":   reason,
		"updated_at":   now,
	})
}

// Fail marks the item terminally failed after retries are exhausted
func (r *CaptureQueueRepository) Fail(ctx context.Context, id uuid.UUID, retryCount int, lastError string) error {
	now := time.Now()
	return r.terminate(ctx, id, entities.CaptureStatusFailed, map[string]interface{}{
		"retry_count":  retryCount,
		"processed_at": now,
		"last_error":   lastError,
		"updated_at":   now,
	})
}

// Requeue returns a processing item to pending for a future run
func (r *CaptureQueueRepository) Requeue(ctx context.Context, id uuid.UUID, retryCount int, lastError string) error {
	return r.terminate(ctx, id, entities.CaptureStatusPending, map[string]interface{}{
		"retry_count": retryCount,
		"last_error":  lastError,
		"updated_at":  time.Now(),
	})
}

// ReclaimStuck returns items stuck in processing since before cutoff to
// pending. Covers processor crashes between claim and completion.
func (r *CaptureQueueRepository) ReclaimStuck(ctx context.Context, cutoff time.Time) (int64, error) {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.CaptureQueueItem{}).
		Where("status = ? AND updated_at < ?", string(entities.CaptureStatusProcessing), cutoff).
		Updates(map[string]interface{}{
			"status":      string(entities.CaptureStatusPending),
			"retry_count": gorm.Expr("retry_count + 1"),
			"last_error":  "reclaimed from stuck processing state",
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *CaptureQueueRepository) terminate(ctx context.Context, id uuid.UUID, status entities.CaptureStatus, updates map[string]interface{}) error {
	updates["status"] = string(status)
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.CaptureQueueItem{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *CaptureQueueRepository) toEntity(m *models.CaptureQueueItem) *entities.CaptureQueueItem {
	return &entities.CaptureQueueItem{
		ID:               m.ID,
		BookingID:        m.BookingID,
		GatewayPaymentID: m.GatewayPaymentID,
		AmountMinorUnits: m.AmountMinorUnits,
		ScheduledAt:      m.ScheduledAt,
		Status:           entities.CaptureStatus(m.Status),
		RetryCount:       m.RetryCount,
		LastError:        null.StringFromPtr(m.LastError),
		ProcessedAt:      m.ProcessedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
