// Package progress derives streak, level, and accuracy figures from facts the
// store supplies. It holds no state of its own.
package progress

import "time"

// LevelSize is the number of points spanned by one level.
const LevelSize = 100

// LevelOffset shifts the derived level so a fresh learner starts at level 1,
// the dashboard convention. Set to 0 for the raw points/LevelSize tier.
const LevelOffset = 1

// Level converts an XP total into a level and the points earned inside that
// level. into is always in [0, LevelSize).
func Level(points int) (level, into int) {
	if points < 0 {
		points = 0
	}
	return points/LevelSize + LevelOffset, points % LevelSize
}

// Accuracy returns the percentage of correct answers. ok is false when no
// questions have been answered; pct is meaningless in that case.
func Accuracy(total, correct int) (pct float64, ok bool) {
	if total <= 0 {
		return 0, false
	}
	return float64(correct) / float64(total) * 100, true
}

// Streaks computes the current and longest run of consecutive activity days.
// dates must be distinct calendar days in ascending order, as returned by the
// store. The current streak only counts if the most recent activity is today;
// a missed day breaks it to zero while the longest run is kept.
func Streaks(dates []time.Time, today time.Time) (current, longest int) {
	if len(dates) == 0 {
		return 0, 0
	}

	run := 1
	longest = 1
	for i := 1; i < len(dates); i++ {
		if dayDiff(dates[i-1], dates[i]) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	if dayDiff(dates[len(dates)-1], today) == 0 {
		return run, longest
	}
	return 0, longest
}

// dayDiff is the whole calendar days from a to b, ignoring time of day.
func dayDiff(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}
