package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hangul-ai/internal/db"
	"hangul-ai/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return New(conn)
}

func sampleCards() []models.CardContent {
	return []models.CardContent{
		{Front: "학교", Back: "school", Example: "학교에 가요."},
		{Front: "친구", Back: "friend", Example: "친구를 만나요."},
		{Front: "물", Back: "water"},
	}
}

func TestAddFlashcardsAndDueCards(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddFlashcards(ctx, "School", sampleCards(), now))

	due, err := s.DueCards(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 3, "freshly added cards are due immediately")

	assert.Equal(t, "학교", due[0].Front)
	assert.Equal(t, "school", due[0].Back)
	assert.Equal(t, "School", due[0].Topic)
	assert.Equal(t, 1, due[0].Interval)
	assert.Empty(t, due[2].Example, "empty example is allowed")
}

func TestDueCardsBoundaryInclusive(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddFlashcards(ctx, "Food", sampleCards()[:1], now))
	cards, err := s.DueCards(ctx, now)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	// Push the card to exactly one day out.
	due := now.Add(24 * time.Hour)
	require.NoError(t, s.UpdateCard(ctx, cards[0].ID, 2, due))

	got, err := s.DueCards(ctx, due.Add(-time.Second))
	require.NoError(t, err)
	assert.Empty(t, got, "not yet due")

	got, err = s.DueCards(ctx, due)
	require.NoError(t, err)
	assert.Len(t, got, 1, "card due exactly now is included")
}

func TestDueCardsOrderedByNextReview(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddFlashcards(ctx, "Travel", sampleCards(), now))
	cards, err := s.DueCards(ctx, now)
	require.NoError(t, err)
	require.Len(t, cards, 3)

	// Spread the cards out, then query far enough ahead to catch them all.
	require.NoError(t, s.UpdateCard(ctx, cards[0].ID, 4, now.Add(4*time.Hour)))
	require.NoError(t, s.UpdateCard(ctx, cards[1].ID, 2, now.Add(2*time.Hour)))
	require.NoError(t, s.UpdateCard(ctx, cards[2].ID, 8, now.Add(8*time.Hour)))

	got, err := s.DueCards(ctx, now.Add(9*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, cards[1].ID, got[0].ID)
	assert.Equal(t, cards[0].ID, got[1].ID)
	assert.Equal(t, cards[2].ID, got[2].ID)
}

func TestUpdateCardUnknownID(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.UpdateCard(context.Background(), 9999, 2, time.Now())
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestFlashcardStats(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

	stats, err := s.FlashcardStats(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Due)
	assert.Empty(t, stats.Intervals)

	require.NoError(t, s.AddFlashcards(ctx, "School", sampleCards(), now))

	stats, err = s.FlashcardStats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total, "stats reflect every added card")
	assert.Equal(t, 3, stats.Due)
	require.Len(t, stats.Intervals, 1)
	assert.Equal(t, models.IntervalBucket{Interval: 1, Count: 3}, stats.Intervals[0])

	// Reviewing one card moves it into its own histogram bucket.
	cards, err := s.DueCards(ctx, now)
	require.NoError(t, err)
	require.NoError(t, s.UpdateCard(ctx, cards[0].ID, 2, now.Add(48*time.Hour)))

	stats, err = s.FlashcardStats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Due)
	assert.Equal(t, []models.IntervalBucket{{Interval: 1, Count: 2}, {Interval: 2, Count: 1}}, stats.Intervals)
}

func TestQuizResultsAndAccuracy(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

	acc, err := s.QuizAccuracy(ctx)
	require.NoError(t, err)
	assert.Zero(t, acc.Total, "no data before any answers")
	assert.Zero(t, acc.Correct)

	opts := []string{"School", "Teacher", "Book", "Friend"}
	require.NoError(t, s.SaveQuizResult(ctx, "Vocab", "What does '학교' mean?", opts, "School", "School", true, now))
	require.NoError(t, s.SaveQuizResult(ctx, "Vocab", "What does '친구' mean?", opts, "Friend", "Book", false, now.Add(time.Minute)))

	acc, err = s.QuizAccuracy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, acc.Total)
	assert.Equal(t, 1, acc.Correct)

	history, err := s.QuizHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "What does '친구' mean?", history[0].Question, "most recent first")
	assert.Equal(t, opts, history[0].OptionList())
	assert.False(t, history[0].Correct)
}

func TestAssignments(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddAssignment(ctx, "Family", "Write 3 sentences about your family.",
		"우리 가족은 네 명이에요.", "Good structure; watch particle usage.", now))
	require.NoError(t, s.AddAssignment(ctx, "Travel", "Describe your last trip.",
		"부산에 갔어요.", "Add more detail.", now.Add(time.Hour)))

	history, err := s.AssignmentHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Travel", history[0].Topic, "most recent first")
	assert.Equal(t, "Family", history[1].Topic)
}

func TestLogActivityIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.LogActivity(ctx, now))
	require.NoError(t, s.LogActivity(ctx, now.Add(3*time.Hour)), "same calendar day")

	dates, err := s.ActivityDates(ctx)
	require.NoError(t, err)
	require.Len(t, dates, 1, "one marker per date")
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), dates[0])
}

func TestStreaksThroughStore(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	today := time.Date(2025, time.April, 3, 20, 0, 0, 0, time.UTC)

	summary, err := s.Streaks(ctx, today)
	require.NoError(t, err)
	assert.Zero(t, summary.Current)
	assert.Zero(t, summary.Longest)

	for _, d := range []time.Time{
		time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2025, time.April, 2, 11, 0, 0, 0, time.UTC),
		time.Date(2025, time.April, 3, 12, 0, 0, 0, time.UTC),
	} {
		require.NoError(t, s.LogActivity(ctx, d))
	}

	summary, err = s.Streaks(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Current)
	assert.Equal(t, 3, summary.Longest)
}

func TestXPCounter(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	xp, err := s.XP(ctx)
	require.NoError(t, err)
	assert.Zero(t, xp.Points)
	assert.Equal(t, 1, xp.Level, "fresh learner starts at level 1")
	assert.Zero(t, xp.IntoLevel)

	require.NoError(t, s.AddXP(ctx, 250))

	xp, err = s.XP(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, xp.Points)
	assert.Equal(t, 3, xp.Level)
	assert.Equal(t, 50, xp.IntoLevel)

	assert.ErrorIs(t, s.AddXP(ctx, -10), ErrNegativeXP)
}

func TestMigrateIdempotent(t *testing.T) {
	t.Parallel()

	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	s := New(conn)
	require.NoError(t, s.AddXP(context.Background(), 40))

	// Re-running the schema must not reset the counter.
	_, err = conn.Exec(`INSERT OR IGNORE INTO xp (id, points) VALUES (1, 0)`)
	require.NoError(t, err)

	xp, err := s.XP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, xp.Points)
}
