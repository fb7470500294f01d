package recovery

import "time"

// PendingRetry is one reference parked after an unreachable verification,
// waiting for an operator to replay it. Count tracks how many callbacks
// landed while the provider was down.
type PendingRetry struct {
	Reference string
	Reason    string
	Count     int
	QueuedAt  time.Time
	LastAt    time.Time
}
