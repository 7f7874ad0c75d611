package store

import (
	"context"
	"fmt"
	"time"

	"hangul-ai/internal/models"
	"hangul-ai/internal/progress"
)

// dateLayout is the calendar-day key for the streaks table.
const dateLayout = "2006-01-02"

// LogActivity marks the given instant's calendar day as active. Logging the
// same day twice is a no-op; at most one marker exists per date.
func (s *Store) LogActivity(ctx context.Context, now time.Time) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO streaks (date) VALUES (?)`,
		now.Format(dateLayout)); err != nil {
		return fmt.Errorf("insert activity marker: %w", err)
	}
	return nil
}

// ActivityDates returns every logged day in ascending order.
func (s *Store) ActivityDates(ctx context.Context) ([]time.Time, error) {
	var raw []string
	if err := s.db.SelectContext(ctx, &raw, `SELECT date FROM streaks ORDER BY date ASC`); err != nil {
		return nil, fmt.Errorf("select activity dates: %w", err)
	}

	dates := make([]time.Time, 0, len(raw))
	for _, r := range raw {
		d, err := time.Parse(dateLayout, r)
		if err != nil {
			return nil, fmt.Errorf("parse activity date %q: %w", r, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// Streaks derives the current and longest consecutive-day runs as of now.
func (s *Store) Streaks(ctx context.Context, now time.Time) (models.StreakSummary, error) {
	dates, err := s.ActivityDates(ctx)
	if err != nil {
		return models.StreakSummary{}, err
	}
	current, longest := progress.Streaks(dates, now)
	return models.StreakSummary{Current: current, Longest: longest}, nil
}

// AddXP increments the single XP counter. The counter only ever grows;
// negative amounts are rejected.
func (s *Store) AddXP(ctx context.Context, amount int) error {
	if amount < 0 {
		return ErrNegativeXP
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE xp SET points = points + ? WHERE id = 1`, amount); err != nil {
		return fmt.Errorf("add xp: %w", err)
	}
	return nil
}

// XP returns the point total and its derived level view.
func (s *Store) XP(ctx context.Context) (models.XPSummary, error) {
	var points int
	if err := s.db.GetContext(ctx, &points, `SELECT points FROM xp WHERE id = 1`); err != nil {
		return models.XPSummary{}, fmt.Errorf("select xp: %w", err)
	}
	level, into := progress.Level(points)
	return models.XPSummary{Points: points, Level: level, IntoLevel: into}, nil
}
