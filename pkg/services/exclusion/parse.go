package exclusion

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/de-tools/bm-billing/pkg/adapters"
	"github.com/de-tools/bm-billing/pkg/models/domain"
)

var ErrInvalidExclusion = errors.New("invalid excluded interval")

// Parse reads "<ISO timestamp>,<ISO timestamp>" ranges and returns them sorted
// by start. A range must end after it starts and ranges must not overlap;
// ranges that only touch are accepted.
func Parse(values []string) (domain.IntervalSet, error) {
	set := make(domain.IntervalSet, 0, len(values))
	for _, value := range values {
		interval, err := parseRange(value)
		if err != nil {
			return nil, err
		}
		set = append(set, interval)
	}

	sort.SliceStable(set, func(i, j int) bool {
		return set[i].Start.Before(set[j].Start)
	})

	for i := 1; i < len(set); i++ {
		prev, cur := set[i-1], set[i]
		if cur.Start.Before(prev.End) {
			return nil, fmt.Errorf("%w: %s - %s overlaps %s - %s", ErrInvalidExclusion,
				prev.Start.Format(timeLayout), prev.End.Format(timeLayout),
				cur.Start.Format(timeLayout), cur.End.Format(timeLayout))
		}
	}

	return set, nil
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func parseRange(value string) (domain.Interval, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return domain.Interval{}, fmt.Errorf("%w: %q must be \"<start>,<end>\"", ErrInvalidExclusion, value)
	}

	start, err := adapters.ParseTime(parts[0])
	if err != nil {
		return domain.Interval{}, fmt.Errorf("%w: %w", ErrInvalidExclusion, err)
	}
	end, err := adapters.ParseTime(parts[1])
	if err != nil {
		return domain.Interval{}, fmt.Errorf("%w: %w", ErrInvalidExclusion, err)
	}
	if !end.After(start) {
		return domain.Interval{}, fmt.Errorf("%w: end %s is not after start %s", ErrInvalidExclusion,
			end.Format(timeLayout), start.Format(timeLayout))
	}

	return domain.Interval{Start: start, End: end}, nil
}
