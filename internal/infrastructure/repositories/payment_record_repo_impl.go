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

// openStatuses are the non-terminal payment statuses. At most one record per
// booking may hold one of these at a time.
var openStatuses = []string{
	string(entities.PaymentStatusCreated),
	string(entities.PaymentStatusPending),
	string(entities.PaymentStatusAuthorized),
	string(entities.PaymentStatusRefundInitiated),
}

// PaymentRecordRepository implements ledger data operations
type PaymentRecordRepository struct {
	db *gorm.DB
}

// NewPaymentRecordRepository creates a new payment record repository
func NewPaymentRecordRepository(db *gorm.DB) *PaymentRecordRepository {
	return &PaymentRecordRepository{db: db}
}

// Create inserts a new ledger row
func (r *PaymentRecordRepository) Create(ctx context.Context, record *entities.PaymentRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	m := toModel(record)
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	record.ID = m.ID
	record.CreatedAt = m.CreatedAt
	record.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a payment record by ID
func (r *PaymentRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentRecord, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetOpenByBookingID returns the booking's single non-terminal record
func (r *PaymentRecordRepository) GetOpenByBookingID(ctx context.Context, bookingID uuid.UUID) (*entities.PaymentRecord, error) {
	return r.getOne(ctx, "booking_id = ? AND status IN ?", bookingID, openStatuses)
}

// GetByGatewayOrderID gets a record by the gateway order identifier
func (r *PaymentRecordRepository) GetByGatewayOrderID(ctx context.Context, orderID string) (*entities.PaymentRecord, error) {
	return r.getOne(ctx, "gateway_order_id = ?", orderID)
}

// GetByGatewayPaymentID gets a record by the gateway payment identifier
func (r *PaymentRecordRepository) GetByGatewayPaymentID(ctx context.Context, paymentID string) (*entities.PaymentRecord, error) {
	return r.getOne(ctx, "gateway_payment_id = ?", paymentID)
}

// GetByGatewayRefundID gets a record by the gateway refund identifier
func (r *PaymentRecordRepository) GetByGatewayRefundID(ctx context.Context, refundID string) (*entities.PaymentRecord, error) {
	return r.getOne(ctx, "gateway_refund_id = ?", refundID)
}

// Update persists all mutable fields of the record
func (r *PaymentRecordRepository) Update(ctx context.Context, record *entities.PaymentRecord) error {
	db := GetDB(ctx, r.db)
	record.UpdatedAt = time.Now()
	result := db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"gateway_order_id":   record.GatewayOrderID.Ptr(),
			"gateway_payment_id": record.GatewayPaymentID.Ptr(),
			"gateway_refund_id":  record.GatewayRefundID.Ptr(),
			"status":             string(record.Status),
			"paid_at":            record.PaidAt,
			"updated_at":         record.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateStatusFrom conditionally moves a record between statuses in one
// statement. The WHERE on the prior status is the optimistic-concurrency
// guard: losing the race surfaces as ErrStateConflict, not a lost update.
func (r *PaymentRecordRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to entities.PaymentStatus, paidAt *time.Time) error {
	db := GetDB(ctx, r.db)
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": time.Now(),
	}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}

	result := db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrStateConflict
	}
	return nil
}

// List returns records newest first with a total count
func (r *PaymentRecordRepository) List(ctx context.Context, limit, offset int) ([]*entities.PaymentRecord, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.WithContext(ctx).Model(&models.PaymentRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var ms []models.PaymentRecord
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	records := make([]*entities.PaymentRecord, 0, len(ms))
	for i := range ms {
		records = append(records, toEntity(&ms[i]))
	}
	return records, total, nil
}

func (r *PaymentRecordRepository) getOne(ctx context.Context, query string, args ...interface{}) (*entities.PaymentRecord, error) {
	var m models.PaymentRecord
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where(query, args...).Order("created_at DESC").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toEntity(&m), nil
}

func toModel(e *entities.PaymentRecord) *models.PaymentRecord {
	return &models.PaymentRecord{
		ID:               e.ID,
		BookingID:        e.BookingID,
		GatewayOrderID:   e.GatewayOrderID.Ptr(),
		GatewayPaymentID: e.GatewayPaymentID.Ptr(),
		GatewayRefundID:  e.GatewayRefundID.Ptr(),
		AmountMinorUnits: e.AmountMinorUnits,
		Currency:         e.Currency,
		Status:           string(e.Status),
		PaidAt:           e.PaidAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func toEntity(m *models.PaymentRecord) *entities.PaymentRecord {
	return &entities.PaymentRecord{
		ID:               m.ID,
		BookingID:        m.BookingID,
		GatewayOrderID:   null.StringFromPtr(m.GatewayOrderID),
		GatewayPaymentID: null.StringFromPtr(m.GatewayPaymentID),
		GatewayRefundID:  null.StringFromPtr(m.GatewayRefundID),
		AmountMinorUnits: m.AmountMinorUnits,
		Currency:         m.Currency,
		Status:           entities.PaymentStatus(m.Status),
		PaidAt:           m.PaidAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
