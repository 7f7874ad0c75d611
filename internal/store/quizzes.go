package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hangul-ai/internal/models"
)

// SaveQuizResult records one answered multiple-choice question. Options are
// stored as a JSON array in a single column.
func (s *Store) SaveQuizResult(ctx context.Context, topic, question string, options []string, answer, userAnswer string, correct bool, now time.Time) error {
	encoded, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}

	const query = `
		INSERT INTO quizzes (topic, question, options, answer, user_answer, correct, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, topic, question, string(encoded), answer, userAnswer, correct, now); err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}
	return nil
}

// QuizAccuracy aggregates all answered questions. Total zero means no data;
// the percentage is the caller's problem so no division happens here.
func (s *Store) QuizAccuracy(ctx context.Context) (models.QuizAccuracy, error) {
	var acc models.QuizAccuracy
	const query = `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(correct), 0) AS correct
		FROM quizzes`
	if err := s.db.GetContext(ctx, &acc, query); err != nil {
		return models.QuizAccuracy{}, fmt.Errorf("aggregate quiz accuracy: %w", err)
	}
	return acc, nil
}

// QuizHistory lists answered questions, most recent first.
func (s *Store) QuizHistory(ctx context.Context) ([]models.QuizRecord, error) {
	var records []models.QuizRecord
	const query = `
		SELECT id, topic, question, options, answer, user_answer, correct, timestamp
		FROM quizzes
		ORDER BY timestamp DESC, id DESC`
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("select quiz history: %w", err)
	}
	return records, nil
}
