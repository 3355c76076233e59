package usage

import (
	"time"

	"github.com/de-tools/bm-billing/pkg/models/domain"
)

// Clamp bounds t to [lower, upper].
func Clamp(t, lower, upper time.Time) time.Time {
	if t.Before(lower) {
		return lower
	}
	if t.After(upper) {
		return upper
	}
	return t
}

// EffectiveInterval clamps a lease to the billing window. A lease without an
// expire time runs through the end of the window.
func EffectiveInterval(lease domain.Lease, window domain.Window) (time.Time, time.Time) {
	start := Clamp(lease.StartTime, window.Start, window.End)
	if lease.ExpireTime == nil {
		return start, window.End
	}
	// lower bound is the clamped start so an early expiry yields zero length
	return start, Clamp(*lease.ExpireTime, start, window.End)
}

// SubtractExclusions returns the part of [start, end) not covered by any of
// the exclusions. Exclusions must be pairwise disjoint.
func SubtractExclusions(start, end time.Time, exclusions domain.IntervalSet) time.Duration {
	total := end.Sub(start)
	if total <= 0 {
		return 0
	}

	for _, ex := range exclusions {
		from := ex.Start
		if start.After(from) {
			from = start
		}
		to := ex.End
		if end.Before(to) {
			to = end
		}
		if from.Before(to) {
			total -= to.Sub(from)
		}
	}

	if total < 0 {
		return 0
	}
	return total
}

// BillableHours is the lease's billable time inside the window, rounded up to
// whole hours.
func BillableHours(lease domain.Lease, window domain.Window, exclusions domain.IntervalSet) int64 {
	start, end := EffectiveInterval(lease, window)
	return ceilHours(SubtractExclusions(start, end, exclusions))
}

func ceilHours(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + time.Hour - 1) / time.Hour)
}
