package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"mari-gunting.backend/internal/domain/entities"
	domainerrors "mari-gunting.backend/internal/domain/errors"
	"mari-gunting.backend/internal/infrastructure/models"
)

// BookingRepository implements booking data operations
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking
func (r *BookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.Status == "" {
		booking.Status = entities.BookingStatusPending
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = entities.PaymentStatusCreated
	}
	m := &models.Booking{
		ID:                    booking.ID,
		CustomerID:            booking.CustomerID,
		ServiceName:           booking.ServiceName,
		TotalAmountMinorUnits: booking.TotalAmountMinorUnits,
		Currency:              booking.Currency,
		Status:                string(booking.Status),
		PaymentStatus:         string(booking.PaymentStatus),
		PaidAt:                booking.PaidAt,
		DisputedAt:            booking.DisputedAt,
		CompletionConfirmedAt: booking.CompletionConfirmedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	booking.CreatedAt = m.CreatedAt
	booking.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Booking, error) {
	var m models.Booking
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// SetPaymentStatus mirrors the ledger status onto the booking
func (r *BookingRepository) SetPaymentStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus, paidAt *time.Time) error {
	updates := map[string]interface{}{
		"payment_status": string(status),
		"updated_at":     time.Now(),
	}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}
	return r.update(ctx, id, updates)
}

// SetBookingStatus updates the booking progression status
func (r *BookingRepository) SetBookingStatus(ctx context.Context, id uuid.UUID, status entities.BookingStatus) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	})
}

// SetDisputed flags the booking as disputed
func (r *BookingRepository) SetDisputed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"disputed_at": at,
		"updated_at":  time.Now(),
	})
}

// SetCompletionConfirmed records the completion confirmation timestamp
func (r *BookingRepository) SetCompletionConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"completion_confirmed_at": at,
		"status":                  string(entities.BookingStatusCompleted),
		"updated_at":              time.Now(),
	})
}

func (r *BookingRepository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Booking{}).
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

func (r *BookingRepository) toEntity(m *models.Booking) *entities.Booking {
	return &entities.Booking{
		ID:                    m.ID,
		CustomerID:            m.CustomerID,
		ServiceName:           m.ServiceName,
		TotalAmountMinorUnits: m.TotalAmountMinorUnits,
		Currency:              m.Currency,
		Status:                entities.BookingStatus(m.Status),
		PaymentStatus:         entities.PaymentStatus(m.PaymentStatus),
		PaidAt:                m.PaidAt,
		DisputedAt:            m.DisputedAt,
		CompletionConfirmedAt: m.CompletionConfirmedAt,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}
