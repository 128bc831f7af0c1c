package repositories

import (
	"context"

	"github.com/google/uuid"
	"mari-gunting.backend/internal/domain/entities"
)

// WebhookEventRepository defines the append-only webhook audit log
type WebhookEventRepository interface {
	Create(ctx context.Context, event *entities.WebhookEvent) error
	ListByPaymentRecordID(ctx context.Context, paymentRecordID uuid.UUID) ([]*entities.WebhookEvent, error)
	ListByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entities.WebhookEvent, error)
}
