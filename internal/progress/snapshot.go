package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot is the flat progress record mirrored to disk so a dashboard can be
// rendered without the database. It is a convenience copy; the store remains
// the source of truth.
type Snapshot struct {
	XP              int `json:"xp"`
	QuizzesTaken    int `json:"quizzes_taken"`
	CorrectAnswers  int `json:"correct_answers"`
	AssignmentsDone int `json:"assignments_done"`
}

// LoadSnapshot reads the snapshot at path. A missing or unreadable file yields
// a zeroed snapshot so the learning flow is never interrupted; the error is
// still returned so callers can log what happened.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// SaveSnapshot writes the snapshot atomically via a temp file and rename, so
// a crash mid-write leaves the previous copy intact.
func SaveSnapshot(path string, s Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
