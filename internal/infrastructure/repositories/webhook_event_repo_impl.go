package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"mari-gunting.backend/internal/domain/entities"
	"mari-gunting.backend/internal/infrastructure/models"
)

// WebhookEventRepository implements the append-only webhook audit log
type WebhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates a new webhook event repository
func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

// Create appends one audit row. Rows are never updated or deleted.
func (r *WebhookEventRepository) Create(ctx context.Context, event *entities.WebhookEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now()
	}
	m := &models.WebhookEvent{
		ID:              event.ID,
		BookingID:       event.BookingID,
		PaymentRecordID: event.PaymentRecordID,
		GatewayEventID:  event.GatewayEventID.Ptr(),
		EventType:       event.EventType,
		AmountReceived:  event.AmountReceived,
		AmountExpected:  event.AmountExpected,
		VerifiedOk:      event.VerifiedOk,
		Outcome:         string(event.Outcome),
		RawPayload:      event.RawPayload,
		ReceivedAt:      event.ReceivedAt,
	}
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Create(m).Error
}

// ListByPaymentRecordID lists audit rows for one payment record, oldest first
func (r *WebhookEventRepository) ListByPaymentRecordID(ctx context.Context, paymentRecordID uuid.UUID) ([]*entities.WebhookEvent, error) {
	return r.list(ctx, "payment_record_id = ?", paymentRecordID)
}

// ListByBookingID lists audit rows for one booking, oldest first
func (r *WebhookEventRepository) ListByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entities.WebhookEvent, error) {
	return r.list(ctx, "booking_id = ?", bookingID)
}

func (r *WebhookEventRepository) list(ctx context.Context, query string, arg interface{}) ([]*entities.WebhookEvent, error) {
	var ms []models.WebhookEvent
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where(query, arg).Order("received_at ASC").Find(&ms).Error; err != nil {
		return nil, err
	}

	events := make([]*entities.WebhookEvent, 0, len(ms))
	for i := range ms {
		m := &ms[i]
		events = append(events, &entities.WebhookEvent{
			ID:              m.ID,
			BookingID:       m.BookingID,
			PaymentRecordID: m.PaymentRecordID,
			GatewayEventID:  null.StringFromPtr(m.GatewayEventID),
			EventType:       m.EventType,
			AmountReceived:  m.AmountReceived,
			AmountExpected:  m.AmountExpected,
			VerifiedOk:      m.VerifiedOk,
			Outcome:         entities.WebhookOutcome(m.Outcome),
			RawPayload:      m.RawPayload,
			ReceivedAt:      m.ReceivedAt,
		})
	}
	return events, nil
}
