package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"mari-gunting.backend/internal/domain/entities"
	domainerrors "mari-gunting.backend/internal/domain/errors"
	"mari-gunting.backend/internal/usecases"
)

type bookingFixture struct {
	bookings *MockBookingRepository
	records  *MockPaymentRecordRepository
	queue    *MockCaptureQueueRepository
	uow      *MockUnitOfWork
	usecase  *usecases.BookingUsecase
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookings: new(MockBookingRepository),
		records:  new(MockPaymentRecordRepository),
		queue:    new(MockCaptureQueueRepository),
		uow:      new(MockUnitOfWork),
	}
	f.usecase = usecases.NewBookingUsecase(f.bookings, f.records, f.queue, f.uow)
	return f
}

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture()
	customerID := uuid.New()

	f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *entities.Booking) bool {
		return b.CustomerID == customerID && b.Currency == "MYR" &&
			b.PaymentStatus == entities.PaymentStatusCreated
	})).Return(nil)

	booking, err := f.usecase.CreateBooking(context.Background(), &usecases.CreateBookingInput{
		CustomerID:            customerID.String(),
		ServiceName:           "Haircut - Home Service",
		TotalAmountMinorUnits: 5500,
	})
	require.NoError(t, err)
	require.Equal(t, entities.BookingStatusPending, booking.Status)

	_, err = f.usecase.CreateBooking(context.Background(), &usecases.CreateBookingInput{
		CustomerID:            "not-a-uuid",
		ServiceName:           "Haircut",
		TotalAmountMinorUnits: 5500,
	})
	require.Error(t, err)
}

func TestFlagDispute(t *testing.T) {
	f := newBookingFixture()
	booking := testBooking()

	f.bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.bookings.On("SetDisputed", mock.Anything, booking.ID, mock.Anything).Return(nil).Once()

	got, err := f.usecase.FlagDispute(context.Background(), booking.ID)
	require.NoError(t, err)
	require.True(t, got.Disputed())

	// Second flag is a no-op.
	_, err = f.usecase.FlagDispute(context.Background(), booking.ID)
	require.NoError(t, err)
	f.bookings.AssertNumberOfCalls(t, "SetDisputed", 1)
}

func TestConfirmCompletion_SchedulesCapture(t *testing.T) {
	f := newBookingFixture()
	booking := testBooking()
	record := &entities.PaymentRecord{
		ID:               uuid.New(),
		BookingID:        booking.ID,
		GatewayPaymentID: null.StringFrom("pay_Xyz789"),
		AmountMinorUnits: 5500,
		Currency:         "MYR",
		Status:           entities.PaymentStatusAuthorized,
	}

	f.bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.records.On("GetOpenByBookingID", mock.Anything, booking.ID).Return(record, nil)
	f.queue.On("GetOpenByBookingID", mock.Anything, booking.ID).Return(nil, domainerrors.ErrNotFound)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.bookings.On("SetCompletionConfirmed", mock.Anything, booking.ID, mock.Anything).Return(nil)
	f.queue.On("Create", mock.Anything, mock.MatchedBy(func(i *entities.CaptureQueueItem) bool {
		return i.BookingID == booking.ID && i.GatewayPaymentID == "pay_Xyz789" &&
			i.AmountMinorUnits == 5500 && i.Status == entities.CaptureStatusPending
	})).Return(nil)

	item, err := f.usecase.ConfirmCompletion(context.Background(), booking.ID)
	require.NoError(t, err)
	require.Equal(t, "pay_Xyz789", item.GatewayPaymentID)
	f.queue.AssertExpectations(t)
}

func TestConfirmCompletion_ReusesOpenQueueItem(t *testing.T) {
	f := newBookingFixture()
	booking := testBooking()
	record := &entities.PaymentRecord{
		ID:               uuid.New(),
		BookingID:        booking.ID,
		GatewayPaymentID: null.StringFrom("pay_Xyz789"),
		AmountMinorUnits: 5500,
		Status:           entities.PaymentStatusAuthorized,
	}
	existing := &entities.CaptureQueueItem{
		ID:               uuid.New(),
		BookingID:        booking.ID,
		GatewayPaymentID: "pay_Xyz789",
		Status:           entities.CaptureStatusPending,
	}

	f.bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	f.records.On("GetOpenByBookingID", mock.Anything, booking.ID).Return(record, nil)
	f.queue.On("GetOpenByBookingID", mock.Anything, booking.ID).Return(existing, nil)

	item, err := f.usecase.ConfirmCompletion(context.Background(), booking.ID)
	require.NoError(t, err)
	require.Equal(t, existing.ID, item.ID)
	f.queue.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConfirmCompletion_Guards(t *testing.T) {
	f := newBookingFixture()

	disputed := testBooking()
	now := time.Now()
	disputed.DisputedAt = &now
	f.bookings.On("GetByID", mock.Anything, disputed.ID).Return(disputed, nil)
	_, err := f.usecase.ConfirmCompletion(context.Background(), disputed.ID)
	require.ErrorIs(t, err, domainerrors.ErrBookingDisputed)

	unpaid := testBooking()
	f.bookings.On("GetByID", mock.Anything, unpaid.ID).Return(unpaid, nil)
	f.records.On("GetOpenByBookingID", mock.Anything, unpaid.ID).Return(nil, domainerrors.ErrNotFound)
	_, err = f.usecase.ConfirmCompletion(context.Background(), unpaid.ID)
	require.ErrorIs(t, err, domainerrors.ErrStateConflict)

	unauthorized := testBooking()
	pending := &entities.PaymentRecord{
		ID:        uuid.New(),
		BookingID: unauthorized.ID,
		Status:    entities.PaymentStatusPending,
	}
	f.bookings.On("GetByID", mock.Anything, unauthorized.ID).Return(unauthorized, nil)
	f.records.On("GetOpenByBookingID", mock.Anything, unauthorized.ID).Return(pending, nil)
	_, err = f.usecase.ConfirmCompletion(context.Background(), unauthorized.ID)
	require.ErrorIs(t, err, domainerrors.ErrStateConflict)

	f.queue.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetBooking_NotFound(t *testing.T) {
	f := newBookingFixture()
	missing := uuid.New()
	f.bookings.On("GetByID", mock.Anything, missing).Return(nil, domainerrors.ErrNotFound)

	_, err := f.usecase.GetBooking(context.Background(), missing)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
