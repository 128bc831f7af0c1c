package models

import (
	"time"

	"github.com/google/uuid"
)

type CaptureQueueItem struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	BookingID        uuid.UUID `gorm:"type:uuid;not null;index"`
	GatewayPaymentID string    `gorm:"type:varchar(64);not null"`
	AmountMinorUnits int64     `gorm:"not null"`
	ScheduledAt      time.Time `gorm:"not null;index"`
	Status           string    `gorm:"type:varchar(32);not null;index"`
	RetryCount       int       `gorm:"not null;default:0"`
	LastError        *string   `gorm:"type:text"`
	ProcessedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (CaptureQueueItem) TableName() string {
	return "capture_queue"
}
