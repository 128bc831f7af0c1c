package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"mari-gunting.backend/internal/domain/entities"
)

// BookingRepository is the payment pipeline's view of the booking store.
// The booking domain itself is owned elsewhere; only payment-relevant
// mutations are exposed here.
type BookingRepository interface {
	Create(ctx context.Context, booking *entities.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Booking, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus, paidAt *time.Time) error
	SetBookingStatus(ctx context.Context, id uuid.UUID, status entities.BookingStatus) error
	SetDisputed(ctx context.Context, id uuid.UUID, at time.Time) error
	SetCompletionConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error
}
