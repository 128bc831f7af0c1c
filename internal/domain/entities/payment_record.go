package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PaymentStatus represents the payment lifecycle status of a booking payment
type PaymentStatus string

const (
	PaymentStatusCreated         PaymentStatus = "created"
	PaymentStatusPending         PaymentStatus = "pending"
	PaymentStatusAuthorized      PaymentStatus = "authorized"
	PaymentStatusCompleted       PaymentStatus = "completed"
	PaymentStatusRefundInitiated PaymentStatus = "refund_initiated"
	PaymentStatusRefunded        PaymentStatus = "refunded"
	PaymentStatusRefundFailed    PaymentStatus = "refund_failed"
	PaymentStatusFailed          PaymentStatus = "failed"
	PaymentStatusCancelled       PaymentStatus = "cancelled"
)

// validTransitions maps each status to the set of statuses it may move to.
// Both the webhook dispatcher and the capture queue processor consult this
// graph, which is what makes them safe to run concurrently and out of order:
// the last valid transition to arrive wins, everything else is a no-op.
var validTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusCreated:         {PaymentStatusPending, PaymentStatusAuthorized, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusPending:         {PaymentStatusAuthorized, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusAuthorized:      {PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefundInitiated, PaymentStatusCancelled},
	PaymentStatusCompleted:       {PaymentStatusRefundInitiated, PaymentStatusRefunded},
	PaymentStatusRefundInitiated: {PaymentStatusRefunded, PaymentStatusRefundFailed},
}

// CanTransitionTo reports whether moving from s to next is a legal
// state-machine transition.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s is a terminal status. A booking may have at
// most one payment record in a non-terminal status at a time.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusRefunded, PaymentStatusRefundFailed,
		PaymentStatusFailed, PaymentStatusCancelled:
		return true
	}
	return false
}

// PaymentRecord is the ledger row for one booking-payment attempt. It is the
// single source of truth for what has actually happened at the gateway.
type PaymentRecord struct {
	ID               uuid.UUID     `json:"id"`
	BookingID        uuid.UUID     `json:"bookingId"`
	GatewayOrderID   null.String   `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID null.String   `json:"gatewayPaymentId,omitempty"`
	GatewayRefundID  null.String   `json:"gatewayRefundId,omitempty"`
	AmountMinorUnits int64         `json:"amountMinorUnits"`
	Currency         string        `json:"currency"`
	Status           PaymentStatus `json:"status"`
	PaidAt           *time.Time    `json:"paidAt,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// CreateOrderInput represents input for creating a gateway order
type CreateOrderInput struct {
	BookingID string            `json:"bookingId" binding:"required"`
	Notes     map[string]string `json:"notes,omitempty"`
}

// CreateOrderResponse represents the checkout data returned to the client app
type CreateOrderResponse struct {
	PaymentRecordID  uuid.UUID     `json:"paymentRecordId"`
	GatewayOrderID   string        `json:"gatewayOrderId"`
	AmountMinorUnits int64         `json:"amountMinorUnits"`
	Currency         string        `json:"currency"`
	Status           PaymentStatus `json:"status"`
	Reused           bool          `json:"reused"`
}

// VerifyCheckoutInput is the checkout callback posted by the client app after
// the gateway checkout flow completes.
type VerifyCheckoutInput struct {
	GatewayOrderID   string `json:"gatewayOrderId" binding:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

// RefundInput represents input for initiating a refund
type RefundInput struct {
	AmountMinorUnits int64             `json:"amountMinorUnits,omitempty"`
	Notes            map[string]string `json:"notes,omitempty"`
}
