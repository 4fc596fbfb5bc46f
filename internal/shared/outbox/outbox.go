package outbox

import "time"

// Row statuses shared by every context's outbox table.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

// RelayPolicy drives the worker loop that drains pending outbox rows.
type RelayPolicy struct {
	Interval  time.Duration
	BatchSize int
}

// DefaultRelayPolicy keeps relay latency low without hammering the store when
// the outbox is empty.
func DefaultRelayPolicy() RelayPolicy {
	return RelayPolicy{
		Interval:  2 * time.Second,
		BatchSize: 100,
	}
}
