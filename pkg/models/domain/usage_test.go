package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageAggregate_Add(t *testing.T) {
	t.Run("success - keeps first-seen order", func(t *testing.T) {
		agg := NewUsageAggregate()
		require.NoError(t, agg.Add("P2", "BM FC430", 5))
		require.NoError(t, agg.Add("P1", "BM FC830", 1))
		require.NoError(t, agg.Add("P2", "BM GPUH100", 2))
		require.NoError(t, agg.Add("P2", "BM FC430", 3))

		projects := agg.Projects()
		require.Len(t, projects, 2)
		assert.Equal(t, "P2", projects[0].Project)
		assert.Equal(t, []string{"BM FC430", "BM GPUH100"}, projects[0].SUTypes())
		assert.Equal(t, int64(8), projects[0].Hours("BM FC430"))
		assert.Equal(t, "P1", projects[1].Project)
	})

	t.Run("success - zero hours still creates the entry", func(t *testing.T) {
		agg := NewUsageAggregate()
		require.NoError(t, agg.Add("", "BM FC430", 0))

		pu, ok := agg.Project("")
		require.True(t, ok)
		assert.Equal(t, []string{"BM FC430"}, pu.SUTypes())
		assert.Equal(t, int64(0), pu.Hours("BM FC430"))
	})

	t.Run("error - negative hours", func(t *testing.T) {
		agg := NewUsageAggregate()
		err := agg.Add("P1", "BM FC430", -1)
		assert.ErrorIs(t, err, ErrNegativeHours)
		assert.Empty(t, agg.Projects())
	})

	t.Run("error - sealed", func(t *testing.T) {
		agg := NewUsageAggregate()
		agg.Seal()
		assert.ErrorIs(t, agg.Add("P1", "BM FC430", 1), ErrSealed)
	})
}

func TestUsageAggregate_Merge(t *testing.T) {
	// Given
	a := NewUsageAggregate()
	require.NoError(t, a.Add("P1", "BM FC430", 24))
	b := NewUsageAggregate()
	require.NoError(t, b.Add("P2", "BM FC830", 48))
	require.NoError(t, b.Add("P1", "BM FC430", 1))
	b.Seal()

	// When
	require.NoError(t, a.Merge(b))

	// Then
	assert.Equal(t, map[string]map[string]int64{
		"P1": {"BM FC430": 25},
		"P2": {"BM FC830": 48},
	}, a.Totals())
}

func TestRates(t *testing.T) {
	rates, err := NewRates(map[string]decimal.Decimal{"SU 1": decimal.RequireFromString("1.5")})
	require.NoError(t, err)
	assert.True(t, rates.Get("SU 1").Equal(decimal.RequireFromString("1.5")))
	assert.True(t, rates.Get("missing").IsZero())

	_, err = NewRates(map[string]decimal.Decimal{"SU 1": decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrNegativeRate)
}
