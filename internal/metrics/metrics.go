// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookDeliveries counts inbound gateway callbacks by event type and
	// dispatch outcome.
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marigunting",
		Subsystem: "payments",
		Name:      "webhook_deliveries_total",
		Help:      "Inbound gateway webhook deliveries by event type and outcome.",
	}, []string{"event_type", "outcome"})

	// CaptureAttempts counts capture queue processing attempts by result.
	CaptureAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marigunting",
		Subsystem: "payments",
		Name:      "capture_attempts_total",
		Help:      "Capture queue processing attempts by result.",
	}, []string{"result"})

	// QueueReclaimed counts items returned from stuck processing to pending.
	QueueReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "marigunting",
		Subsystem: "payments",
		Name:      "capture_queue_reclaimed_total",
		Help:      "Capture queue items reclaimed from a stale processing state.",
	})
)

// Capture attempt results.
const (
	ResultCaptured  = "captured"
	ResultCancelled = "cancelled"
	ResultRequeued  = "requeued"
	ResultFailed    = "failed"
	ResultSkipped   = "skipped"
)
