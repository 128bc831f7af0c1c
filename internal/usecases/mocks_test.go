package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"mari-gunting.backend/internal/domain/entities"
	"mari-gunting.backend/internal/infrastructure/gateway"
	"mari-gunting.backend/pkg/logger"
)

func init() {
	logger.Init("development")
}

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	m.Called(ctx)
	return ctx
}

// Mock PaymentRecordRepository
type MockPaymentRecordRepository struct {
	mock.Mock
}

func (m *MockPaymentRecordRepository) Create(ctx context.Context, record *entities.PaymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPaymentRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.PaymentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRecordRepository) GetOpenByBookingID(ctx context.Context, bookingID uuid.UUID) (*entities.PaymentRecord, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRecordRepository) GetByGatewayOrderID(ctx context.Context, orderID string) (*entities.PaymentRecord, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRecordRepository) GetByGatewayPaymentID(ctx context.Context, paymentID string) (*entities.PaymentRecord, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRecordRepository) GetByGatewayRefundID(ctx context.Context, refundID string) (*entities.PaymentRecord, error) {
	args := m.Called(ctx, refundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRecordRepository) Update(ctx context.Context, record *entities.PaymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPaymentRecordRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, to entities.PaymentStatus, paidAt *time.Time) error {
	args := m.Called(ctx, id, from, to, paidAt)
	return args.Error(0)
}

func (m *MockPaymentRecordRepository) List(ctx context.Context, limit, offset int) ([]*entities.PaymentRecord, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.PaymentRecord), args.Get(1).(int64), args.Error(2)
}

// Mock BookingRepository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) SetPaymentStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus, paidAt *time.Time) error {
	args := m.Called(ctx, id, status, paidAt)
	return args.Error(0)
}

func (m *MockBookingRepository) SetBookingStatus(ctx context.Context, id uuid.UUID, status entities.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) SetDisputed(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockBookingRepository) SetCompletionConfirmed(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// Mock WebhookEventRepository
type MockWebhookEventRepository struct {
	mock.Mock
}

func (m *MockWebhookEventRepository) Create(ctx context.Context, event *entities.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockWebhookEventRepository) ListByPaymentRecordID(ctx context.Context, paymentRecordID uuid.UUID) ([]*entities.WebhookEvent, error) {
	args := m.Called(ctx, paymentRecordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WebhookEvent), args.Error(1)
}

func (m *MockWebhookEventRepository) ListByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entities.WebhookEvent, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WebhookEvent), args.Error(1)
}

// Mock CaptureQueueRepository
type MockCaptureQueueRepository struct {
	mock.Mock
}

func (m *MockCaptureQueueRepository) Create(ctx context.Context, item *entities.CaptureQueueItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCaptureQueueRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.CaptureQueueItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CaptureQueueItem), args.Error(1)
}

func (m *MockCaptureQueueRepository) GetOpenByBookingID(ctx context.Context, bookingID uuid.UUID) (*entities.CaptureQueueItem, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CaptureQueueItem), args.Error(1)
}

func (m *MockCaptureQueueRepository) GetDue(ctx context.Context, now time.Time, limit, maxRetry int) ([]*entities.CaptureQueueItem, error) {
	args := m.Called(ctx, now, limit, maxRetry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CaptureQueueItem), args.Error(1)
}

func (m *MockCaptureQueueRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCaptureQueueRepository) Complete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCaptureQueueRepository) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockCaptureQueueRepository) Fail(ctx context.Context, id uuid.UUID, retryCount int, lastError string) error {
	args := m.Called(ctx, id, retryCount, lastError)
	return args.Error(0)
}

func (m *MockCaptureQueueRepository) Requeue(ctx context.Context, id uuid.UUID, retryCount int, lastError string) error {
	args := m.Called(ctx, id, retryCount, lastError)
	return args.Error(0)
}

func (m *MockCaptureQueueRepository) ReclaimStuck(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// Mock GatewayClient
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Order), args.Error(1)
}

func (m *MockGatewayClient) Capture(ctx context.Context, paymentID string, amountMinorUnits int64, currency string) (*gateway.Payment, error) {
	args := m.Called(ctx, paymentID, amountMinorUnits, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Payment), args.Error(1)
}

func (m *MockGatewayClient) Refund(ctx context.Context, paymentID string, amountMinorUnits int64, notes map[string]string) (*gateway.Refund, error) {
	args := m.Called(ctx, paymentID, amountMinorUnits, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Refund), args.Error(1)
}
