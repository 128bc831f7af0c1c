package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"mari-gunting.backend/internal/domain/entities"
	domainerrors "mari-gunting.backend/internal/domain/errors"
	"mari-gunting.backend/internal/usecases"
)

type bookingServiceStub struct {
	createFn  func(ctx context.Context, input *usecases.CreateBookingInput) (*entities.Booking, error)
	getFn     func(ctx context.Context, bookingID uuid.UUID) (*entities.Booking, error)
	disputeFn func(ctx context.Context, bookingID uuid.UUID) (*entities.Booking, error)
	confirmFn func(ctx context.Context, bookingID uuid.UUID) (*entities.CaptureQueueItem, error)
}

func (s bookingServiceStub) CreateBooking(ctx context.Context, input *usecases.CreateBookingInput) (*entities.Booking, error) {
	return s.createFn(ctx, input)
}

func (s bookingServiceStub) GetBooking(ctx context.Context, bookingID uuid.UUID) (*entities.Booking, error) {
	return s.getFn(ctx, bookingID)
}

func (s bookingServiceStub) FlagDispute(ctx context.Context, bookingID uuid.UUID) (*entities.Booking, error) {
	return s.disputeFn(ctx, bookingID)
}

func (s bookingServiceStub) ConfirmCompletion(ctx context.Context, bookingID uuid.UUID) (*entities.CaptureQueueItem, error) {
	return s.confirmFn(ctx, bookingID)
}

func bookingRouter(stub bookingServiceStub) *gin.Engine {
	h := NewBookingHandler(stub)
	r := gin.New()
	r.POST("/bookings", h.CreateBooking)
	r.GET("/bookings/:id", h.GetBooking)
	r.POST("/bookings/:id/dispute", h.FlagDispute)
	r.POST("/bookings/:id/confirm-completion", h.ConfirmCompletion)
	return r
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := bookingRouter(bookingServiceStub{
			createFn: func(_ context.Context, input *usecases.CreateBookingInput) (*entities.Booking, error) {
				if input.ServiceName != "Haircut" {
					t.Fatalf("unexpected service name: %s", input.ServiceName)
				}
				return &entities.Booking{ID: uuid.New(), ServiceName: input.ServiceName, Status: entities.BookingStatusPending}, nil
			},
		})

		body := `{"customerId":"` + uuid.NewString() + `","serviceName":"Haircut","totalAmountMinorUnits":5500}`
		w := postJSON(r, "/bookings", body)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		r := bookingRouter(bookingServiceStub{
			createFn: func(context.Context, *usecases.CreateBookingInput) (*entities.Booking, error) {
				t.Fatal("should not be called")
				return nil, nil
			},
		})

		w := postJSON(r, "/bookings", `{`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
		}
	})
}

func TestBookingHandler_GetBooking(t *testing.T) {
	bookingID := uuid.New()

	t.Run("success", func(t *testing.T) {
		r := bookingRouter(bookingServiceStub{
			getFn: func(_ context.Context, id uuid.UUID) (*entities.Booking, error) {
				if id != bookingID {
					t.Fatalf("unexpected id: %s", id)
				}
				return &entities.Booking{ID: id, Status: entities.BookingStatusConfirmed}, nil
			},
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/"+bookingID.String(), nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		r := bookingRouter(bookingServiceStub{
			getFn: func(context.Context, uuid.UUID) (*entities.Booking, error) {
				return nil, domainerrors.ErrNotFound
			},
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/"+bookingID.String(), nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		r := bookingRouter(bookingServiceStub{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/nope", nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
		}
	})
}

func TestBookingHandler_FlagDispute(t *testing.T) {
	bookingID := uuid.New()

	now := time.Now()
	r := bookingRouter(bookingServiceStub{
		disputeFn: func(_ context.Context, id uuid.UUID) (*entities.Booking, error) {
			return &entities.Booking{ID: id, DisputedAt: &now}, nil
		},
	})

	w := postJSON(r, "/bookings/"+bookingID.String()+"/dispute", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"disputedAt"`)) {
		t.Fatalf("expected disputed timestamp, body=%s", w.Body.String())
	}
}

func TestBookingHandler_ConfirmCompletion(t *testing.T) {
	bookingID := uuid.New()

	t.Run("schedules capture", func(t *testing.T) {
		r := bookingRouter(bookingServiceStub{
			confirmFn: func(_ context.Context, id uuid.UUID) (*entities.CaptureQueueItem, error) {
				return &entities.CaptureQueueItem{ID: uuid.New(), BookingID: id, Status: entities.CaptureStatusPending}, nil
			},
		})

		w := postJSON(r, "/bookings/"+bookingID.String()+"/confirm-completion", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
		}
		if !bytes.Contains(w.Body.Bytes(), []byte("captureQueueItem")) {
			t.Fatalf("expected queue item, body=%s", w.Body.String())
		}
	})

	t.Run("disputed booking returns 409", func(t *testing.T) {
		r := bookingRouter(bookingServiceStub{
			confirmFn: func(context.Context, uuid.UUID) (*entities.CaptureQueueItem, error) {
				return nil, domainerrors.Conflict("booking is disputed")
			},
		})

		w := postJSON(r, "/bookings/"+bookingID.String()+"/confirm-completion", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d body=%s", w.Code, w.Body.String())
		}
	})
}
