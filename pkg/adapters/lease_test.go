package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/bm-billing/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2000-01-01", want: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2025-01-01T16:43:56.312801", want: time.Date(2025, 1, 1, 16, 43, 56, 312801000, time.UTC)},
		{in: "2024-01-01T01:01:01", want: time.Date(2024, 1, 1, 1, 1, 1, 0, time.UTC)},
		{in: "2024-01-01 01:01:01", want: time.Date(2024, 1, 1, 1, 1, 1, 0, time.UTC)},
		{in: "2024-01-01T01:01", want: time.Date(2024, 1, 1, 1, 1, 0, 0, time.UTC)},
		{in: "2024-01-01T01:01:01Z", want: time.Date(2024, 1, 1, 1, 1, 1, 0, time.UTC)},
		{in: "2024-01-01T03:01:01+02:00", want: time.Date(2024, 1, 1, 1, 1, 1, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}

	_, err := ParseTime("yesterday")
	assert.Error(t, err)
}

func TestMapStoreLeaseRecordToDomain(t *testing.T) {
	t.Run("success - with expire time", func(t *testing.T) {
		lease, err := MapStoreLeaseRecordToDomain(store.LeaseRecord{
			UUID:          "uuid1",
			Resource:      "r1",
			ResourceClass: "rc1",
			Project:       strPtr("P1"),
			StartTime:     "2025-01-01T16:43:56.312801",
			ExpireTime:    strPtr("2025-02-01T18:57:51.573792"),
		})
		require.NoError(t, err)
		assert.Equal(t, "uuid1", lease.ID)
		assert.Equal(t, "rc1", lease.ResourceClass)
		assert.Equal(t, "P1", lease.Project)
		require.NotNil(t, lease.ExpireTime)
		assert.Equal(t, time.Date(2025, 2, 1, 18, 57, 51, 573792000, time.UTC), *lease.ExpireTime)
	})

	t.Run("success - missing expire time", func(t *testing.T) {
		lease, err := MapStoreLeaseRecordToDomain(store.LeaseRecord{
			UUID:          "uuid2",
			Resource:      "r2",
			ResourceClass: "rc2",
			Project:       strPtr(""),
			StartTime:     "2024-05-31T07:17:50.306338",
		})
		require.NoError(t, err)
		assert.Nil(t, lease.ExpireTime)
		assert.Equal(t, "", lease.Project)
	})

	t.Run("error - expire before start", func(t *testing.T) {
		_, err := MapStoreLeaseRecordToDomain(store.LeaseRecord{
			UUID:       "uuid2",
			StartTime:  "2024-01-01T01:01:01.306338",
			ExpireTime: strPtr("2023-01-01T01:01:01.306338"),
		})
		assert.ErrorContains(t, err, "before start time")
	})

	t.Run("error - bad start time", func(t *testing.T) {
		_, err := MapStoreLeaseRecordToDomain(store.LeaseRecord{UUID: "u", StartTime: "soon"})
		assert.ErrorContains(t, err, "start time")
	})
}
