package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// WebhookEventType is the gateway notification type carried in the event
// envelope. Unknown types are a recognized variant that safely no-op.
type WebhookEventType string

const (
	WebhookEventPaymentAuthorized WebhookEventType = "payment.authorized"
	WebhookEventPaymentCaptured   WebhookEventType = "payment.captured"
	WebhookEventPaymentFailed     WebhookEventType = "payment.failed"
	WebhookEventRefundCreated     WebhookEventType = "refund.created"
	WebhookEventRefundProcessed   WebhookEventType = "refund.processed"
	WebhookEventRefundFailed      WebhookEventType = "refund.failed"
)

// WebhookOutcome classifies what the dispatcher did with a delivery. Every
// delivery, accepted or not, leaves exactly one audit row.
type WebhookOutcome string

const (
	WebhookOutcomeApplied            WebhookOutcome = "applied"
	WebhookOutcomeDuplicate          WebhookOutcome = "duplicate"
	WebhookOutcomeUnmatched          WebhookOutcome = "unmatched"
	WebhookOutcomeIgnored            WebhookOutcome = "ignored"
	WebhookOutcomeSignatureRejected  WebhookOutcome = "signature_rejected"
	WebhookOutcomeIntegrityViolation WebhookOutcome = "integrity_violation"
	WebhookOutcomeStateConflict      WebhookOutcome = "state_conflict"
)

// WebhookEvent is one append-only audit row per inbound gateway callback,
// verified or rejected.
type WebhookEvent struct {
	ID              uuid.UUID      `json:"id"`
	BookingID       *uuid.UUID     `json:"bookingId,omitempty"`
	PaymentRecordID *uuid.UUID     `json:"paymentRecordId,omitempty"`
	GatewayEventID  null.String    `json:"gatewayEventId,omitempty"`
	EventType       string         `json:"eventType"`
	AmountReceived  int64          `json:"amountReceived"`
	AmountExpected  int64          `json:"amountExpected"`
	VerifiedOk      bool           `json:"verifiedOk"`
	Outcome         WebhookOutcome `json:"outcome"`
	RawPayload      string         `json:"rawPayload"`
	ReceivedAt      time.Time      `json:"receivedAt"`
}
