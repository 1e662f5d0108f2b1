package jetstream

import (
	"time"

	"github.com/nats-io/nats.go"
)

const (
	AlertStreamName = "PORTAL-alerts"
	AlertSubjects   = "PORTAL.alerts.*"
)

// AlertStream keeps a day of alerts and drops duplicates published for the same dataset
// version within the duplicate window.
func AlertStream() *nats.StreamConfig {
	return &nats.StreamConfig{
		Name:       AlertStreamName,
		Subjects:   []string{AlertSubjects},
		Retention:  nats.LimitsPolicy,
		Discard:    nats.DiscardOld,
		Storage:    nats.FileStorage,
		Replicas:   1,
		MaxAge:     24 * time.Hour,
		Duplicates: 10 * time.Minute,
	}
}

// MessageID identifies one alert so a recompute of the same dataset version is deduplicated.
func MessageID(datasetVersion, ticketID string) string {
	return "alert:" + datasetVersion + ":" + ticketID
}
