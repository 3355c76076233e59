package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/bm-billing/pkg/adapters"
)

const monthLayout = "2006-01"

// DefaultPeriod is the start of the month containing yesterday up to today at
// midnight, i.e. last month when run on the 1st and this month otherwise.
func DefaultPeriod(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	start := time.Date(yesterday.Year(), yesterday.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, today
}

func parsePeriodBound(name, value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := adapters.ParseTime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return t, nil
}

func validateMonth(month string) error {
	if _, err := time.Parse(monthLayout, month); err != nil {
		return fmt.Errorf("invalid --invoice-month %q, expected YYYY-MM", month)
	}
	return nil
}
