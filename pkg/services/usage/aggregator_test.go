package usage

import (
	"bytes"
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/de-tools/bm-billing/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogCtx() (context.Context, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)
	return logger.WithContext(context.Background()), buf
}

func makeLeases(projects, classes []string, starts []time.Time, expires []*time.Time) []domain.Lease {
	leases := make([]domain.Lease, len(projects))
	for i := range projects {
		leases[i] = domain.Lease{
			ID:            "uuid",
			Resource:      "r",
			ResourceClass: classes[i],
			Project:       projects[i],
			StartTime:     starts[i],
			ExpireTime:    expires[i],
		}
	}
	return leases
}

func repeat(t time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = t
	}
	return out
}

func TestAggregator_Aggregate(t *testing.T) {
	aggregator := NewAggregator(NewClassifier(DefaultCatalog()))

	tests := []struct {
		name   string
		leases []domain.Lease
		want   map[string]map[string]int64
	}{
		{
			name: "one project, two leases of the same SU",
			leases: makeLeases(
				[]string{"P1", "P1"},
				[]string{"fc430", "fc430"},
				repeat(date(1997, 1, 1, 0, 0, 0), 2),
				[]*time.Time{ptr(date(2000, 1, 1, 23, 59, 59)), ptr(date(2000, 1, 2, 23, 0, 2))},
			),
			want: map[string]map[string]int64{"P1": {"BM FC430": hoursInDay * 3}},
		},
		{
			name: "leases not expired run for the whole period",
			leases: makeLeases(
				[]string{"P1", "P1"},
				[]string{"fc430", "fc430"},
				repeat(date(1997, 1, 1, 0, 0, 0), 2),
				[]*time.Time{ptr(date(2000, 1, 2, 0, 0, 0)), nil},
			),
			want: map[string]map[string]int64{"P1": {"BM FC430": hoursInDay + hoursInDay*31}},
		},
		{
			name: "two projects with mixed SU types",
			leases: makeLeases(
				[]string{"P1", "P1", "P2", "P2", "P2"},
				[]string{"fc430", "fc830", "sd650nv2", "sd650nv2", "fc430"},
				repeat(date(2000, 1, 1, 0, 0, 0), 5),
				[]*time.Time{
					ptr(date(2000, 1, 2, 0, 0, 0)),
					ptr(date(2000, 1, 3, 0, 0, 0)),
					ptr(date(2000, 1, 4, 0, 0, 0)),
					ptr(date(2000, 1, 5, 0, 0, 0)),
					ptr(date(2000, 1, 6, 0, 0, 0)),
				},
			),
			want: map[string]map[string]int64{
				"P1": {"BM FC430": hoursInDay * 1, "BM FC830": hoursInDay * 2},
				"P2": {"BM GPUA100SXM4": hoursInDay * 7, "BM FC430": hoursInDay * 5},
			},
		},
		{
			name: "sd650nv2 leases expiring day 2 and day 7 in one project",
			leases: makeLeases(
				[]string{"P1", "P1"},
				[]string{"sd650nv2", "sd650nv2"},
				repeat(date(2000, 1, 1, 0, 0, 0), 2),
				[]*time.Time{ptr(date(2000, 1, 2, 0, 0, 0)), ptr(date(2000, 1, 7, 0, 0, 0))},
			),
			want: map[string]map[string]int64{"P1": {"BM GPUA100SXM4": 7 * hoursInDay}},
		},
		{
			name: "sd650nv2 leases split across projects",
			leases: makeLeases(
				[]string{"P1", "P2"},
				[]string{"sd650nv2", "sd650nv2"},
				repeat(date(2000, 1, 1, 0, 0, 0), 2),
				[]*time.Time{ptr(date(2000, 1, 2, 0, 0, 0)), ptr(date(2000, 1, 7, 0, 0, 0))},
			),
			want: map[string]map[string]int64{
				"P1": {"BM GPUA100SXM4": hoursInDay},
				"P2": {"BM GPUA100SXM4": 6 * hoursInDay},
			},
		},
		{
			name:   "no leases",
			leases: nil,
			want:   map[string]map[string]int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, err := aggregator.Aggregate(context.Background(), tt.leases, january2000, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, agg.Totals())
			assert.True(t, agg.Sealed())
		})
	}
}

func TestAggregator_PreservesFirstSeenOrder(t *testing.T) {
	aggregator := NewAggregator(NewClassifier(DefaultCatalog()))
	leases := makeLeases(
		[]string{"P2", "P1", "P2"},
		[]string{"sd650nv2", "fc430", "fc430"},
		repeat(date(2000, 1, 1, 0, 0, 0), 3),
		[]*time.Time{ptr(date(2000, 1, 2, 0, 0, 0)), ptr(date(2000, 1, 2, 0, 0, 0)), ptr(date(2000, 1, 2, 0, 0, 0))},
	)

	agg, err := aggregator.Aggregate(context.Background(), leases, january2000, nil)
	require.NoError(t, err)

	projects := agg.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, "P2", projects[0].Project)
	assert.Equal(t, []string{"BM GPUA100SXM4", "BM FC430"}, projects[0].SUTypes())
	assert.Equal(t, "P1", projects[1].Project)
}

func TestAggregator_UnknownSU(t *testing.T) {
	// Given
	ctx, logs := newLogCtx()
	aggregator := NewAggregator(NewClassifier(DefaultCatalog()))
	leases := makeLeases(
		[]string{"P1", "P1"},
		[]string{"ChickFilA", "Popeyes"},
		repeat(date(2000, 1, 1, 0, 0, 0), 2),
		[]*time.Time{ptr(date(2000, 1, 2, 0, 0, 0)), ptr(date(2000, 1, 4, 0, 0, 0))},
	)

	// When
	agg, err := aggregator.Aggregate(ctx, leases, january2000, nil)

	// Then
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]int64{
		"P1": {"ChickFilA": hoursInDay * 1, "Popeyes": hoursInDay * 3},
	}, agg.Totals())
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "Unknown resource class ChickFilA (resource r) in lease uuid.")
}

func TestAggregator_EmptyProjectIsStillBilled(t *testing.T) {
	// Given
	ctx, logs := newLogCtx()
	aggregator := NewAggregator(NewClassifier(DefaultCatalog()))
	leases := makeLeases(
		[]string{""},
		[]string{"fc830"},
		[]time.Time{date(2000, 1, 1, 0, 0, 0)},
		[]*time.Time{ptr(date(2000, 1, 2, 0, 0, 0))},
	)

	// When
	agg, err := aggregator.Aggregate(ctx, leases, january2000, nil)

	// Then
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]int64{"": {"BM FC830": hoursInDay}}, agg.Totals())
	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), "Lease uuid has empty project name.")
}

func TestAggregator_WithExclusions(t *testing.T) {
	aggregator := NewAggregator(NewClassifier(DefaultCatalog()))
	leases := makeLeases(
		[]string{"P1", "P2"},
		[]string{"fc430", "fc430"},
		[]time.Time{date(2000, 1, 10, 0, 0, 0), date(2000, 1, 1, 0, 0, 0)},
		[]*time.Time{ptr(date(2000, 1, 11, 0, 0, 0)), ptr(date(2000, 1, 3, 0, 0, 0))},
	)
	exclusions := domain.IntervalSet{{Start: date(2000, 1, 9, 0, 0, 0), End: date(2000, 1, 12, 0, 0, 0)}}

	agg, err := aggregator.Aggregate(context.Background(), leases, january2000, exclusions)
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]int64{
		"P1": {"BM FC430": 0},
		"P2": {"BM FC430": 2 * hoursInDay},
	}, agg.Totals())
}

func TestAggregator_OrderIndependent(t *testing.T) {
	// Given
	aggregator := NewAggregator(NewClassifier(DefaultCatalog()))
	leases := makeLeases(
		[]string{"P1", "P1", "P2", "P2", "P3", ""},
		[]string{"fc430", "fc830", "sd650nv2", "lenovo-sd665nv3-h100", "ChickFilA", "fc430"},
		[]time.Time{
			date(1997, 1, 1, 0, 0, 0),
			date(2000, 1, 3, 5, 17, 0),
			date(2000, 1, 1, 0, 0, 0),
			date(2000, 1, 20, 0, 0, 1),
			date(2000, 1, 31, 23, 0, 0),
			date(1999, 1, 1, 0, 0, 0),
		},
		[]*time.Time{nil, ptr(date(2000, 1, 9, 0, 0, 0)), ptr(date(2000, 2, 3, 0, 0, 0)), nil, nil, ptr(date(2000, 1, 1, 0, 30, 0))},
	)
	exclusions := domain.IntervalSet{{Start: date(2000, 1, 5, 0, 0, 0), End: date(2000, 1, 6, 6, 0, 0)}}

	expected, err := aggregator.Aggregate(context.Background(), leases, january2000, exclusions)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		// When
		shuffled := append([]domain.Lease(nil), leases...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := aggregator.Aggregate(context.Background(), shuffled, january2000, exclusions)

		// Then
		require.NoError(t, err)
		assert.Equal(t, expected.Totals(), got.Totals())
	}
}
