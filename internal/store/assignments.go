package store

import (
	"context"
	"fmt"
	"time"

	"hangul-ai/internal/models"
)

// AddAssignment records one writing submission together with its feedback.
func (s *Store) AddAssignment(ctx context.Context, topic, task, userResponse, feedback string, now time.Time) error {
	const query = `
		INSERT INTO assignments (topic, task, user_response, feedback, timestamp)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, topic, task, userResponse, feedback, now); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// AssignmentHistory lists submissions, most recent first.
func (s *Store) AssignmentHistory(ctx context.Context) ([]models.AssignmentRecord, error) {
	var records []models.AssignmentRecord
	const query = `
		SELECT id, topic, task, user_response, feedback, timestamp
		FROM assignments
		ORDER BY timestamp DESC, id DESC`
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("select assignment history: %w", err)
	}
	return records, nil
}
