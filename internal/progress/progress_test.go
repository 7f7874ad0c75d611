package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStreaks(t *testing.T) {
	t.Parallel()

	today := day(2025, time.June, 3)

	tests := []struct {
		name        string
		dates       []time.Time
		today       time.Time
		wantCurrent int
		wantLongest int
	}{
		{
			name: "empty",
		},
		{
			name:        "three consecutive days ending today",
			dates:       []time.Time{day(2025, time.June, 1), day(2025, time.June, 2), today},
			today:       today,
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "gap breaks the run",
			dates:       []time.Time{day(2025, time.June, 1), day(2025, time.June, 3)},
			today:       day(2025, time.June, 5),
			wantCurrent: 0,
			wantLongest: 1,
		},
		{
			name:        "gap but most recent day is today",
			dates:       []time.Time{day(2025, time.June, 1), day(2025, time.June, 3)},
			today:       day(2025, time.June, 3),
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "single date logged today",
			dates:       []time.Time{today},
			today:       today,
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "single stale date",
			dates:       []time.Time{day(2025, time.May, 20)},
			today:       today,
			wantCurrent: 0,
			wantLongest: 1,
		},
		{
			name: "long run broken then shorter current run",
			dates: []time.Time{
				day(2025, time.May, 1), day(2025, time.May, 2), day(2025, time.May, 3),
				day(2025, time.May, 4), day(2025, time.June, 2), today,
			},
			today:       today,
			wantCurrent: 2,
			wantLongest: 4,
		},
		{
			name: "time of day does not affect day arithmetic",
			dates: []time.Time{
				time.Date(2025, time.June, 1, 23, 59, 0, 0, time.UTC),
				time.Date(2025, time.June, 2, 0, 1, 0, 0, time.UTC),
			},
			today:       time.Date(2025, time.June, 2, 8, 30, 0, 0, time.UTC),
			wantCurrent: 2,
			wantLongest: 2,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			current, longest := Streaks(tt.dates, tt.today)
			assert.Equal(t, tt.wantCurrent, current, "current")
			assert.Equal(t, tt.wantLongest, longest, "longest")
		})
	}
}

func TestLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		points    int
		wantLevel int
		wantInto  int
	}{
		{points: 0, wantLevel: 1, wantInto: 0},
		{points: 99, wantLevel: 1, wantInto: 99},
		{points: 100, wantLevel: 2, wantInto: 0},
		{points: 250, wantLevel: 3, wantInto: 50},
		{points: -5, wantLevel: 1, wantInto: 0},
	}
	for _, tt := range tests {
		level, into := Level(tt.points)
		assert.Equal(t, tt.wantLevel, level, "points=%d", tt.points)
		assert.Equal(t, tt.wantInto, into, "points=%d", tt.points)
	}
}

func TestAccuracy(t *testing.T) {
	t.Parallel()

	pct, ok := Accuracy(0, 0)
	assert.False(t, ok, "no answered questions must report no data")
	assert.Zero(t, pct)

	pct, ok = Accuracy(4, 3)
	assert.True(t, ok)
	assert.InDelta(t, 75.0, pct, 1e-9)

	pct, ok = Accuracy(3, 0)
	assert.True(t, ok)
	assert.Zero(t, pct)
}
