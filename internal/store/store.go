// Package store is the durable record of flashcards, quiz attempts,
// assignment submissions, daily activity, and the XP counter. Every operation
// is a single SQLite transaction; nothing here retries.
package store

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrCardNotFound is returned when a review targets an unknown card id.
	ErrCardNotFound = errors.New("flashcard not found")
	// ErrNegativeXP is returned when a caller tries to decrement the counter.
	ErrNegativeXP = errors.New("xp amount must not be negative")
)

// Store wraps the SQLite connection. Construct with New after db.Open.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
