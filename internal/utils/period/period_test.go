package period_test

import (
	"testing"
	"time"

	"github.com/good4it/good4it_backend/internal/core/domain"
	"github.com/good4it/good4it_backend/internal/utils/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		freq domain.EMIFrequency
		at   time.Time
		want string
	}{
		{
			name: "monthly is zero padded",
			freq: domain.FrequencyMonthly,
			at:   time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
			want: "2024-03",
		},
		{
			name: "weekly keys on the Monday",
			freq: domain.FrequencyWeekly,
			at:   time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC), // a Wednesday
			want: "2024-01-08",
		},
		{
			name: "weekly on a Monday keys on itself",
			freq: domain.FrequencyWeekly,
			at:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			want: "2024-01-08",
		},
		{
			name: "weekly on a Sunday keys on the prior Monday",
			freq: domain.FrequencyWeekly,
			at:   time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC),
			want: "2024-01-08",
		},
		{
			name: "quarterly first quarter",
			freq: domain.FrequencyQuarterly,
			at:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			want: "Q1 2024",
		},
		{
			name: "quarterly fourth quarter",
			freq: domain.FrequencyQuarterly,
			at:   time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC),
			want: "Q4 2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := period.Key(tt.freq, tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKey_UnknownFrequency(t *testing.T) {
	_, err := period.Key(domain.EMIFrequency("FORTNIGHTLY"), time.Now())
	assert.Error(t, err)
}

func TestBounds_NoGapNoOverlap(t *testing.T) {
	for _, freq := range []domain.EMIFrequency{
		domain.FrequencyWeekly,
		domain.FrequencyMonthly,
		domain.FrequencyQuarterly,
	} {
		t.Run(string(freq), func(t *testing.T) {
			at := time.Date(2024, 1, 17, 9, 30, 0, 0, time.UTC)
			for i := 0; i < 12; i++ {
				start, end, err := period.Bounds(freq, at)
				require.NoError(t, err)
				assert.True(t, !at.Before(start) && at.Before(end),
					"instant must fall inside its own period")

				nextStart, nextEnd, err := period.Bounds(freq, end)
				require.NoError(t, err)
				assert.True(t, nextStart.Equal(end), "consecutive periods must touch exactly")
				assert.True(t, nextEnd.After(nextStart))

				at = end
			}
		})
	}
}

func TestBounds_WeeklyMondayAnchored(t *testing.T) {
	start, end, err := period.Bounds(domain.FrequencyWeekly, time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), end)
}

func TestNextStart(t *testing.T) {
	next, err := period.NextStart(domain.FrequencyMonthly, time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), next)

	next, err = period.NextStart(domain.FrequencyQuarterly, time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), next)
}

func TestSamePeriod(t *testing.T) {
	same, err := period.SamePeriod(domain.FrequencyMonthly,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, same)

	same, err = period.SamePeriod(domain.FrequencyWeekly,
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), // Sunday
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) // next Monday
	require.NoError(t, err)
	assert.False(t, same)
}

func TestMonthKeyArithmetic(t *testing.T) {
	key, err := period.AddMonths("2024-01", 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", key)

	key, err = period.AddMonths("2024-11", 3)
	require.NoError(t, err)
	assert.Equal(t, "2025-02", key)

	_, err = period.AddMonths("2024-13", 1)
	assert.Error(t, err)

	end, err := period.MonthEnd("2024-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)
}
