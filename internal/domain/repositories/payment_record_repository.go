package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"mari-gunting.backend/internal/domain/entities"
)

// PaymentRecordRepository defines ledger data operations
type PaymentRecordRepository interface {
	Create(ctx context.Context, record *entities.PaymentRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentRecord, error)
	// GetOpenByBookingID returns the booking's single non-terminal record,
	// or ErrNotFound when every record for the booking is terminal.
	GetOpenByBookingID(ctx context.Context, bookingID uuid.UUID) (*entities.PaymentRecord, error)
	GetByGatewayOrderID(ctx context.Context, orderID string) (*entities.PaymentRecord, error)
	GetByGatewayPaymentID(ctx context.Context, paymentID string) (*entities.PaymentRecord, error)
	GetByGatewayRefundID(ctx context.Context, refundID string) (*entities.PaymentRecord, error)
	Update(ctx context.Context, record *entities.PaymentRecord) error
	// UpdateStatusFrom conditionally moves a record from one status to
	// another in a single statement. Returns ErrStateConflict when the
	// stored status no longer matches from (a concurrent writer won).
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to entities.PaymentStatus, paidAt *time.Time) error
	List(ctx context.Context, limit, offset int) ([]*entities.PaymentRecord, int64, error)
}
