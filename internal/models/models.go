package models

import (
	"encoding/json"
	"time"
)

// Flashcard is a single spaced-repetition card. Interval is the number of
// scheduling units (days by default) before the card comes due again.
type Flashcard struct {
	ID         int64     `db:"id" json:"id"`
	Topic      string    `db:"topic" json:"topic"`
	Front      string    `db:"front" json:"front"`
	Back       string    `db:"back" json:"back"`
	Example    string    `db:"example" json:"example,omitempty"`
	Interval   int       `db:"interval" json:"interval"`
	NextReview time.Time `db:"next_review" json:"nextReview"`
}

// CardContent is the generator-supplied portion of a flashcard, before the
// store attaches topic and scheduling state.
type CardContent struct {
	Front   string `json:"front"`
	Back    string `json:"back"`
	Example string `json:"example"`
}

// QuizRecord is one answered multiple-choice question. Immutable once saved.
type QuizRecord struct {
	ID         int64     `db:"id" json:"id"`
	Topic      string    `db:"topic" json:"topic"`
	Question   string    `db:"question" json:"question"`
	Options    string    `db:"options" json:"-"`
	Answer     string    `db:"answer" json:"answer"`
	UserAnswer string    `db:"user_answer" json:"userAnswer"`
	Correct    bool      `db:"correct" json:"correct"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}

// OptionList decodes the serialized options column.
func (q *QuizRecord) OptionList() []string {
	var opts []string
	if err := json.Unmarshal([]byte(q.Options), &opts); err != nil {
		return nil
	}
	return opts
}

// QuizQuestion is a generated question before the learner answers it.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// AssignmentRecord is one writing assignment submission with its feedback.
// Immutable once saved.
type AssignmentRecord struct {
	ID           int64     `db:"id" json:"id"`
	Topic        string    `db:"topic" json:"topic"`
	Task         string    `db:"task" json:"task"`
	UserResponse string    `db:"user_response" json:"userResponse"`
	Feedback     string    `db:"feedback" json:"feedback"`
	Timestamp    time.Time `db:"timestamp" json:"timestamp"`
}

// IntervalBucket is one bar of the interval histogram.
type IntervalBucket struct {
	Interval int `db:"interval" json:"interval"`
	Count    int `db:"count" json:"count"`
}

// FlashcardStats summarizes the card collection for the dashboard.
type FlashcardStats struct {
	Total     int              `json:"total"`
	Due       int              `json:"due"`
	Intervals []IntervalBucket `json:"intervals"`
}

// QuizAccuracy aggregates answered questions. Total == 0 means no data;
// callers must check before deriving a percentage.
type QuizAccuracy struct {
	Total   int `db:"total" json:"total"`
	Correct int `db:"correct" json:"correct"`
}

// StreakSummary reports consecutive-day activity.
type StreakSummary struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// XPSummary is the gamified progress view of the single XP counter.
type XPSummary struct {
	Points    int `json:"points"`
	Level     int `json:"level"`
	IntoLevel int `json:"intoLevel"`
}
