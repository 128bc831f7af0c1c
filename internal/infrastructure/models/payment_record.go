package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	BookingID        uuid.UUID `gorm:"type:uuid;not null;index"`
	GatewayOrderID   *string   `gorm:"type:varchar(64);index"`
	GatewayPaymentID *string   `gorm:"type:varchar(64);index"`
	GatewayRefundID  *string   `gorm:"type:varchar(64);index"`
	AmountMinorUnits int64     `gorm:"not null"`
	Currency         string    `gorm:"type:varchar(8);not null"`
	Status           string    `gorm:"type:varchar(32);not null;index"`
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}
