package entities

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents booking progression status
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking carries the payment-relevant fields of a booking. The rest of the
// booking domain (scheduling, location, provider assignment) lives with the
// apps and is out of scope here.
type Booking struct {
	ID                    uuid.UUID     `json:"id"`
	CustomerID            uuid.UUID     `json:"customerId"`
	ServiceName           string        `json:"serviceName"`
	TotalAmountMinorUnits int64         `json:"totalAmountMinorUnits"`
	Currency              string        `json:"currency"`
	Status                BookingStatus `json:"status"`
	PaymentStatus         PaymentStatus `json:"paymentStatus"`
	PaidAt                *time.Time    `json:"paidAt,omitempty"`
	DisputedAt            *time.Time    `json:"disputedAt,omitempty"`
	CompletionConfirmedAt *time.Time    `json:"completionConfirmedAt,omitempty"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

// Disputed reports whether the customer or an operator has flagged the
// booking. A disputed booking halts automatic payment progression.
func (b *Booking) Disputed() bool {
	return b.DisputedAt != nil
}
