package models

import (
	"time"

	"github.com/google/uuid"
)

type WebhookEvent struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	BookingID       *uuid.UUID `gorm:"type:uuid;index"`
	PaymentRecordID *uuid.UUID `gorm:"type:uuid;index"`
	GatewayEventID  *string    `gorm:"type:varchar(64);index"`
	EventType       string     `gorm:"type:varchar(64);not null;index"`
	AmountReceived  int64      `gorm:"not null;default:0"`
	AmountExpected  int64      `gorm:"not null;default:0"`
	VerifiedOk      bool       `gorm:"not null"`
	Outcome         string     `gorm:"type:varchar(32);not null"`
	RawPayload      string     `gorm:"type:text"`
	ReceivedAt      time.Time  `gorm:"not null"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
