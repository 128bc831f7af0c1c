package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// CaptureStatus represents the status of a scheduled capture attempt
type CaptureStatus string

const (
	CaptureStatusPending    CaptureStatus = "pending"
	CaptureStatusProcessing CaptureStatus = "processing"
	CaptureStatusCompleted  CaptureStatus = "completed"
	CaptureStatusFailed     CaptureStatus = "failed"
	CaptureStatusCancelled  CaptureStatus = "cancelled"
)

// CaptureQueueItem is one scheduled capture attempt. Items are owned
// exclusively by the queue processor from the moment they are claimed
// (pending -> processing) until they reach a terminal status.
type CaptureQueueItem struct {
	ID               uuid.UUID     `json:"id"`
	BookingID        uuid.UUID     `json:"bookingId"`
	GatewayPaymentID string        `json:"gatewayPaymentId"`
	AmountMinorUnits int64         `json:"amountMinorUnits"`
	ScheduledAt      time.Time     `json:"scheduledAt"`
	Status           CaptureStatus `json:"status"`
	RetryCount       int           `json:"retryCount"`
	LastError        null.String   `json:"lastError,omitempty"`
	ProcessedAt      *time.Time    `json:"processedAt,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// CaptureRunSummary is returned by one queue processor run
type CaptureRunSummary struct {
	Processed  int `json:"processed"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Reclaimed  int `json:"reclaimed"`
}
