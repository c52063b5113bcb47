package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dias221467/HabitFlow/internal/models"
)

func TestNextStatus_CycleLengthIsThree(t *testing.T) {
	for _, p := range []Polarity{Positive, Negative} {
		status := unset
		seen := []models.HabitStatus{}
		for i := 0; i < 3; i++ {
			status = NextStatus(p, status)
			seen = append(seen, status)
		}
		assert.Equal(t, unset, status, "polarity %d must return to unset after 3 toggles", p)
		assert.Len(t, seen, 3)
		assert.NotEqual(t, seen[0], seen[1])
	}
}

func TestNextStatus_UnknownRestartsCycle(t *testing.T) {
	assert.Equal(t, models.HabitCompleted, NextStatus(Positive, "SKIPPED"))
	assert.Equal(t, models.HabitFailed, NextStatus(Negative, "SKIPPED"))
}

func TestMarkOf(t *testing.T) {
	assert.Equal(t, Good, MarkOf(Positive, models.HabitCompleted))
	assert.Equal(t, Bad, MarkOf(Positive, models.HabitFailed))
	assert.Equal(t, Good, MarkOf(Negative, models.HabitFailed))
	assert.Equal(t, Bad, MarkOf(Negative, models.HabitCompleted))
	assert.Equal(t, Unset, MarkOf(Negative, unset))
	assert.Equal(t, "good", Good.String())
}

// Positive habit "Exercise" toggled three times on one day.
func TestToggleHabit_PositiveThreeToggles(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	st := State{UserID: "u1", Habits: []models.Habit{newHabit("h1", "Exercise", false)}}

	out, err := ToggleHabit(st, env, "h1", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, models.HabitCompleted, out.State.Habits[0].History["2024-06-01"])
	require.NotNil(t, out.Entry)
	assert.Equal(t, `Completed "Exercise" for 2024-06-01`, out.Entry.Description)
	assert.True(t, out.Entry.Reversible)
	assert.Equal(t, "h1", out.Entry.RelatedID)
	assert.Equal(t, "2024-06-01", out.Entry.Date)
	assert.Equal(t, models.HabitCompleted, out.Entry.Status)
	require.Len(t, out.Effects, 2)
	upsert := out.Effects[0].(UpsertHabitEntry)
	require.NotNil(t, upsert.Status)
	assert.Equal(t, models.HabitCompleted, *upsert.Status)

	out, err = ToggleHabit(out.State, env, "h1", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, models.HabitFailed, out.State.Habits[0].History["2024-06-01"])
	assert.Nil(t, out.Entry)

	out, err = ToggleHabit(out.State, env, "h1", "2024-06-01")
	require.NoError(t, err)
	_, present := out.State.Habits[0].History["2024-06-01"]
	assert.False(t, present, "third toggle clears the entry")
	assert.Nil(t, out.Entry)
	require.Len(t, out.Effects, 1)
	assert.Nil(t, out.Effects[0].(UpsertHabitEntry).Status)

	assert.Len(t, out.State.Logs, 1, "only the first toggle logs")
}

// Negative habit "No smoking": first toggle is the good (avoided) status.
func TestToggleHabit_Negative(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	st := State{UserID: "u1", Habits: []models.Habit{newHabit("h1", "No smoking", true)}}

	out, err := ToggleHabit(st, env, "h1", "2024-05-31")
	require.NoError(t, err)
	assert.Equal(t, models.HabitFailed, out.State.Habits[0].History["2024-05-31"])
	assert.Equal(t, Good, MarkOf(Negative, models.HabitFailed))
	require.NotNil(t, out.Entry)
	assert.Equal(t, `Avoided "No smoking" for 2024-05-31`, out.Entry.Description)

	out, err = ToggleHabit(out.State, env, "h1", "2024-05-31")
	require.NoError(t, err)
	assert.Equal(t, models.HabitCompleted, out.State.Habits[0].History["2024-05-31"])
	assert.Nil(t, out.Entry, "cycling into bad must not log")
	assert.Len(t, out.State.Logs, 1)
}

func TestToggleHabit_Rejections(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	st := State{UserID: "u1", Habits: []models.Habit{newHabit("h1", "Exercise", false)}}

	tests := []struct {
		name    string
		habitID string
		date    string
		check   func(error) bool
	}{
		{"future date", "h1", "2024-06-02", IsValidation},
		{"malformed date", "h1", "06/01/2024", IsValidation},
		{"impossible date", "h1", "2024-02-30", IsValidation},
		{"unknown habit", "nope", "2024-06-01", IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToggleHabit(st, env, tt.habitID, tt.date)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
			assert.Empty(t, st.Habits[0].History)
		})
	}
}

func TestToggleHabit_TodayInConfiguredLocation(t *testing.T) {
	// 21:00 UTC is already the next day at UTC+5.
	env := Env{
		Now:      time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC),
		Location: time.FixedZone("UTC+5", 5*60*60),
		NewID:    func() string { return "x" },
	}
	st := State{UserID: "u1", Habits: []models.Habit{newHabit("h1", "Exercise", false)}}

	_, err := ToggleHabit(st, env, "h1", "2024-06-02")
	assert.NoError(t, err)
}

func habitWithRun(id string, end time.Time, days int, status models.HabitStatus, negative bool) models.Habit {
	h := newHabit(id, "Exercise", negative)
	for i := 0; i < days; i++ {
		h.History[end.AddDate(0, 0, -i).Format(models.DateLayout)] = status
	}
	return h
}

func TestStreak(t *testing.T) {
	today := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	length, start := Streak(habitWithRun("h1", today, 3, models.HabitCompleted, false), today)
	assert.Equal(t, 3, length)
	assert.Equal(t, "2024-06-08", start)

	length, start = Streak(newHabit("h2", "Idle", false), today)
	assert.Zero(t, length)
	assert.Empty(t, start)

	// a run that ended yesterday is not a current streak
	length, _ = Streak(habitWithRun("h3", today.AddDate(0, 0, -1), 5, models.HabitCompleted, false), today)
	assert.Zero(t, length)

	length, _ = Streak(habitWithRun("h4", today, 4, models.HabitFailed, true), today)
	assert.Equal(t, 4, length, "negative habits count avoided days")
}

func TestStreak_NegativeHabitCountsFailed(t *testing.T) {
	today := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	h := habitWithRun("h1", today, 3, models.HabitFailed, true)

	length, start := Streak(h, today)
	assert.Equal(t, 3, length)
	assert.Equal(t, "2024-06-08", start)

	h.History["2024-06-10"] = models.HabitCompleted
	length, _ = Streak(h, today)
	assert.Zero(t, length, "doing a negative habit breaks the streak")
}

func TestLongestStreak(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	h := habitWithRun("h1", today, 2, models.HabitCompleted, false)
	for i := 5; i < 10; i++ {
		h.History[today.AddDate(0, 0, -i).Format(models.DateLayout)] = models.HabitCompleted
	}
	h.History["2024-06-07"] = models.HabitFailed

	assert.Equal(t, 5, LongestStreak(h))
}

func TestStats(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	h := habitWithRun("h1", today, 3, models.HabitCompleted, false)
	h.History["2024-06-07"] = models.HabitFailed

	stats := Stats(h, today, 10)

	assert.Equal(t, "h1", stats.HabitID)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
	assert.Equal(t, 3, stats.GoodDays)
	assert.Equal(t, 1, stats.BadDays)
	assert.InDelta(t, 0.3, stats.CompletionRate, 1e-9)
}
