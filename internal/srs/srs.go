// Package srs implements the interval-doubling review scheduler used by the
// flashcard subsystem. A card's state is fully described by its interval (a
// count of scheduling units) and its next-review instant; reviews move cards
// between intervals, and cards cycle indefinitely.
package srs

import (
	"fmt"
	"math"
	"time"
)

// Outcome is the learner's self-assessment after seeing a card's back.
type Outcome int

const (
	// Again resets the card: the learner forgot it.
	Again Outcome = iota
	// Hard halves the interval: recalled, but with effort.
	Hard
	// Easy doubles the interval: recalled without trouble.
	Easy
)

func (o Outcome) String() string {
	switch o {
	case Again:
		return "again"
	case Hard:
		return "hard"
	case Easy:
		return "easy"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// ParseOutcome maps the wire form of a review outcome to its Outcome value.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "again", "forgot":
		return Again, nil
	case "hard":
		return Hard, nil
	case "easy", "knew":
		return Easy, nil
	default:
		return 0, fmt.Errorf("unknown review outcome %q", s)
	}
}

// DefaultUnit is the production scheduling unit: one interval step per day.
// Demo deployments shrink it (e.g. to a minute) so reviews come due within a
// session; the choice is configuration, never hard-coded into callers.
const DefaultUnit = 24 * time.Hour

// InitialInterval is the interval assigned to freshly generated cards.
const InitialInterval = 1

// Scheduler computes post-review scheduling state. The zero value is not
// usable; construct with New.
type Scheduler struct {
	unit time.Duration
}

// New returns a Scheduler stepping in the given unit. Non-positive units fall
// back to DefaultUnit.
func New(unit time.Duration) Scheduler {
	if unit <= 0 {
		unit = DefaultUnit
	}
	return Scheduler{unit: unit}
}

// Unit reports the configured scheduling unit.
func (s Scheduler) Unit() time.Duration {
	return s.unit
}

// Next returns the interval and next-review instant for a card currently at
// interval after a review at now.
//
//	Easy:  interval doubles, due after the new interval.
//	Again: interval resets to 1, due after one unit.
//	Hard:  interval halves (floor), never below 1, due after the new interval.
//
// Intervals below 1 are treated as 1, so a malformed row cannot schedule a
// card into the past.
func (s Scheduler) Next(interval int, now time.Time, outcome Outcome) (int, time.Time) {
	if interval < 1 {
		interval = 1
	}

	var next int
	switch outcome {
	case Easy:
		next = interval * 2
		if next < interval { // doubled past MaxInt
			next = math.MaxInt
		}
	case Hard:
		next = interval / 2
		if next < 1 {
			next = 1
		}
	default:
		next = 1
	}

	return next, now.Add(s.horizon(next))
}

// Due reports whether a card with the given next-review instant is due at
// now. The boundary is inclusive: a card due exactly at now is due.
func Due(nextReview, now time.Time) bool {
	return !nextReview.After(now)
}

// horizon is interval×unit with saturation; unbounded interval growth must
// not overflow time.Duration into a negative offset.
func (s Scheduler) horizon(interval int) time.Duration {
	if interval > int(math.MaxInt64/int64(s.unit)) {
		return math.MaxInt64
	}
	return time.Duration(interval) * s.unit
}
