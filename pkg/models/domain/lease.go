package domain

import "time"

// Lease is one bare-metal node reservation that passed ingestion.
type Lease struct {
	ID            string
	Resource      string
	ResourceClass string
	Project       string
	StartTime     time.Time
	ExpireTime    *time.Time // nil while the lease is still active
}

// Window is the half-open billing period [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Interval is a closed range of non-billable time.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// IntervalSet holds pairwise non-overlapping intervals ordered by start.
type IntervalSet []Interval
