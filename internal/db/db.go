package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Open connects to the SQLite database and runs schema migrations.
func Open(path string) (*sqlx.DB, error) {
	conn, err := sqlx.Connect("sqlite", fmt.Sprintf("file:%s?_foreign_keys=1", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows a single writer; funnel everything through one connection.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	if err := migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return conn, nil
}

func migrate(db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS flashcards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL,
			front TEXT NOT NULL,
			back TEXT NOT NULL,
			example TEXT NOT NULL DEFAULT '',
			interval INTEGER NOT NULL DEFAULT 1,
			next_review DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quizzes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL,
			question TEXT NOT NULL,
			options TEXT NOT NULL,
			answer TEXT NOT NULL,
			user_answer TEXT NOT NULL,
			correct INTEGER NOT NULL CHECK (correct IN (0, 1)),
			timestamp DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS assignments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL,
			task TEXT NOT NULL,
			user_response TEXT NOT NULL,
			feedback TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS streaks (
			date TEXT PRIMARY KEY
		);`,
		`CREATE TABLE IF NOT EXISTS xp (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_flashcards_next_review ON flashcards(next_review);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_timestamp ON quizzes(timestamp);`,
		// Single XP counter row; repeated migrations leave it untouched.
		`INSERT OR IGNORE INTO xp (id, points) VALUES (1, 0);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("execute %q: %w", stmt, err)
		}
	}
	return nil
}
