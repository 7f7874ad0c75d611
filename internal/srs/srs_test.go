package srs

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerNext(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name         string
		interval     int
		outcome      Outcome
		wantInterval int
		wantDue      time.Time
	}{
		{
			name:         "easy doubles from initial",
			interval:     1,
			outcome:      Easy,
			wantInterval: 2,
			wantDue:      now.Add(2 * day),
		},
		{
			name:         "easy doubles again",
			interval:     2,
			outcome:      Easy,
			wantInterval: 4,
			wantDue:      now.Add(4 * day),
		},
		{
			name:         "again resets long interval",
			interval:     64,
			outcome:      Again,
			wantInterval: 1,
			wantDue:      now.Add(day),
		},
		{
			name:         "hard halves",
			interval:     8,
			outcome:      Hard,
			wantInterval: 4,
			wantDue:      now.Add(4 * day),
		},
		{
			name:         "hard floors odd interval",
			interval:     5,
			outcome:      Hard,
			wantInterval: 2,
			wantDue:      now.Add(2 * day),
		},
		{
			name:         "hard on interval one stays at one",
			interval:     1,
			outcome:      Hard,
			wantInterval: 1,
			wantDue:      now.Add(day),
		},
		{
			name:         "malformed zero interval treated as one",
			interval:     0,
			outcome:      Easy,
			wantInterval: 2,
			wantDue:      now.Add(2 * day),
		},
	}

	s := New(DefaultUnit)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotInterval, gotDue := s.Next(tt.interval, now, tt.outcome)
			assert.Equal(t, tt.wantInterval, gotInterval)
			assert.Equal(t, tt.wantDue, gotDue)
		})
	}
}

func TestSchedulerNextDemoUnit(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	s := New(60 * time.Second)

	interval, due := s.Next(1, now, Easy)
	assert.Equal(t, 2, interval)
	assert.Equal(t, now.Add(2*time.Minute), due)
}

func TestSchedulerNextDoesNotOverflow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	s := New(DefaultUnit)

	// Doubling forever must saturate, never wrap into a past due date.
	interval := 1
	due := now
	for i := 0; i < 80; i++ {
		interval, due = s.Next(interval, now, Easy)
		require.Positive(t, interval)
		require.False(t, due.Before(now), "iteration %d scheduled into the past", i)
	}
	assert.Equal(t, math.MaxInt, interval)
}

func TestDueBoundaryInclusive(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, Due(now, now), "card due exactly now is due")
	assert.True(t, Due(now.Add(-time.Second), now))
	assert.False(t, Due(now.Add(time.Second), now))
}

func TestParseOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Outcome
		wantErr bool
	}{
		{in: "easy", want: Easy},
		{in: "knew", want: Easy},
		{in: "again", want: Again},
		{in: "forgot", want: Again},
		{in: "hard", want: Hard},
		{in: "EASY", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseOutcome(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFallsBackToDefaultUnit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultUnit, New(0).Unit())
	assert.Equal(t, DefaultUnit, New(-time.Hour).Unit())
	assert.Equal(t, time.Minute, New(time.Minute).Unit())
}
