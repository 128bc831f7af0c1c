package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createBookingTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE bookings (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		service_name TEXT,
		total_amount_minor_units INTEGER NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		paid_at DATETIME,
		disputed_at DATETIME,
		completion_confirmed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPaymentRecordTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payment_records (
		id TEXT PRIMARY KEY,
		booking_id TEXT NOT NULL,
		gateway_order_id TEXT,
		gateway_payment_id TEXT,
		gateway_refund_id TEXT,
		amount_minor_units INTEGER NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL,
		paid_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createCaptureQueueTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE capture_queue (
		id TEXT PRIMARY KEY,
		booking_id TEXT NOT NULL,
		gateway_payment_id TEXT NOT NULL,
		amount_minor_units INTEGER NOT NULL,
		scheduled_at DATETIME NOT NULL,
		status TEXT NOT NULL,
		retry_count INTEGER DEFAULT 0,
		last_error TEXT,
		processed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createWebhookEventTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE webhook_events (
		id TEXT PRIMARY KEY,
		booking_id TEXT,
		payment_record_id TEXT,
		gateway_event_id TEXT,
		event_type TEXT NOT NULL,
		amount_received INTEGER NOT NULL DEFAULT 0,
		amount_expected INTEGER NOT NULL DEFAULT 0,
		verified_ok BOOLEAN NOT NULL,
		outcome TEXT NOT NULL,
		raw_payload TEXT,
		received_at DATETIME NOT NULL
	);`)
}
