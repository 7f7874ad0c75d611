package store

import (
	"context"
	"fmt"
	"time"

	"hangul-ai/internal/models"
	"hangul-ai/internal/srs"
)

// AddFlashcards inserts one card per content entry, all under the given
// topic, scheduled for immediate review. Generated content is persisted as-is;
// empty strings are allowed.
func (s *Store) AddFlashcards(ctx context.Context, topic string, cards []models.CardContent, now time.Time) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO flashcards (topic, front, back, example, interval, next_review)
		VALUES (?, ?, ?, ?, ?, ?)`
	for _, card := range cards {
		if _, err := tx.ExecContext(ctx, query, topic, card.Front, card.Back, card.Example, srs.InitialInterval, now); err != nil {
			return fmt.Errorf("insert flashcard: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit flashcards: %w", err)
	}
	return nil
}

// DueCards returns every card whose next review is at or before now, soonest
// first. Ties break on id so the order is stable.
func (s *Store) DueCards(ctx context.Context, now time.Time) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	const query = `
		SELECT id, topic, front, back, example, interval, next_review
		FROM flashcards
		WHERE next_review <= ?
		ORDER BY next_review ASC, id ASC`
	if err := s.db.SelectContext(ctx, &cards, query, now); err != nil {
		return nil, fmt.Errorf("select due cards: %w", err)
	}
	return cards, nil
}

// Flashcard fetches a single card by id.
func (s *Store) Flashcard(ctx context.Context, id int64) (models.Flashcard, error) {
	var card models.Flashcard
	const query = `
		SELECT id, topic, front, back, example, interval, next_review
		FROM flashcards
		WHERE id = ?`
	if err := s.db.GetContext(ctx, &card, query, id); err != nil {
		if isNoRows(err) {
			return models.Flashcard{}, ErrCardNotFound
		}
		return models.Flashcard{}, fmt.Errorf("select flashcard %d: %w", id, err)
	}
	return card, nil
}

// AllFlashcards lists every card, newest first. Used by deck export.
func (s *Store) AllFlashcards(ctx context.Context) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	const query = `
		SELECT id, topic, front, back, example, interval, next_review
		FROM flashcards
		ORDER BY id DESC`
	if err := s.db.SelectContext(ctx, &cards, query); err != nil {
		return nil, fmt.Errorf("select flashcards: %w", err)
	}
	return cards, nil
}

// UpdateCard overwrites the scheduling state of the identified card. Unlike
// the usual UPDATE, a missing id is reported as ErrCardNotFound rather than
// silently ignored.
func (s *Store) UpdateCard(ctx context.Context, id int64, interval int, nextReview time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE flashcards SET interval = ?, next_review = ? WHERE id = ?`,
		interval, nextReview, id)
	if err != nil {
		return fmt.Errorf("update flashcard %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrCardNotFound
	}
	return nil
}

// FlashcardStats reports the collection totals and the per-interval histogram
// in one consistent read.
func (s *Store) FlashcardStats(ctx context.Context, now time.Time) (models.FlashcardStats, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.FlashcardStats{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var stats models.FlashcardStats
	if err := tx.GetContext(ctx, &stats.Total, `SELECT COUNT(*) FROM flashcards`); err != nil {
		return models.FlashcardStats{}, fmt.Errorf("count flashcards: %w", err)
	}
	if err := tx.GetContext(ctx, &stats.Due,
		`SELECT COUNT(*) FROM flashcards WHERE next_review <= ?`, now); err != nil {
		return models.FlashcardStats{}, fmt.Errorf("count due flashcards: %w", err)
	}
	if err := tx.SelectContext(ctx, &stats.Intervals,
		`SELECT interval, COUNT(*) AS count FROM flashcards GROUP BY interval ORDER BY interval ASC`); err != nil {
		return models.FlashcardStats{}, fmt.Errorf("interval histogram: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.FlashcardStats{}, fmt.Errorf("commit stats read: %w", err)
	}
	return stats, nil
}
