package models

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	CustomerID            uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceName           string    `gorm:"type:varchar(255)"`
	TotalAmountMinorUnits int64     `gorm:"not null"`
	Currency              string    `gorm:"type:varchar(8);not null"`
	Status                string    `gorm:"type:varchar(32);not null;index"`
	PaymentStatus         string    `gorm:"type:varchar(32);not null;index"`
	PaidAt                *time.Time
	DisputedAt            *time.Time
	CompletionConfirmedAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (Booking) TableName() string {
	return "bookings"
}
