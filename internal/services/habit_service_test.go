package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dias221467/HabitFlow/internal/engine"
	"github.com/Dias221467/HabitFlow/internal/models"
)

func storedHabit(t *testing.T, f *fixture, id string) *models.Habit {
	t.Helper()
	h, err := f.stores.Habits.GetHabit(context.Background(), id)
	require.NoError(t, err)
	return h
}

func TestHabitService_ToggleCycle(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	habit := f.createHabit(t, "u1", "Meditate", false)

	res := mustWait(t)(f.habits.ToggleHabit(ctx, "u1", habit.ID, today))
	require.NotNil(t, res.Entry)
	assert.Equal(t, `Completed "Meditate" for 2024-06-10`, res.Entry.Description)
	assert.Equal(t, models.HabitCompleted, storedHabit(t, f, habit.ID).History[today])

	res = mustWait(t)(f.habits.ToggleHabit(ctx, "u1", habit.ID, today))
	assert.Nil(t, res.Entry)
	assert.Equal(t, models.HabitFailed, storedHabit(t, f, habit.ID).History[today])

	mustWait(t)(f.habits.ToggleHabit(ctx, "u1", habit.ID, today))
	_, logged := storedHabit(t, f, habit.ID).History[today]
	assert.False(t, logged)
}

func TestHabitService_NegativeHabitLogsAvoided(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	habit := f.createHabit(t, "u1", "No sugar", true)

	res := mustWait(t)(f.habits.ToggleHabit(context.Background(), "u1", habit.ID, today))
	require.NotNil(t, res.Entry)
	assert.Equal(t, `Avoided "No sugar" for 2024-06-10`, res.Entry.Description)
	assert.Equal(t, models.HabitFailed, storedHabit(t, f, habit.ID).History[today])
}

func TestHabitService_ToggleRejectsFutureAndUnknown(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	habit := f.createHabit(t, "u1", "Meditate", false)

	_, err := f.habits.ToggleHabit(ctx, "u1", habit.ID, "2024-06-11")
	assert.True(t, engine.IsValidation(err))

	_, err = f.habits.ToggleHabit(ctx, "u1", "nope", today)
	assert.True(t, engine.IsNotFound(err))

	assert.Empty(t, storedHabit(t, f, habit.ID).History)
}

func TestHabitService_CRUD(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()

	_, err := f.habits.CreateHabit(ctx, "u1", &models.Habit{Title: "  "})
	assert.True(t, engine.IsValidation(err))
	_, err = f.habits.CreateHabit(ctx, "u1", &models.Habit{Title: "Run", Category: "Sleeping"})
	assert.True(t, engine.IsValidation(err))

	habit := f.createHabit(t, "u1", "Read", false)
	title := "Read 20 pages"
	updated, err := f.habits.UpdateHabit(ctx, "u1", habit.ID, HabitUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, title, storedHabit(t, f, habit.ID).Title)

	_, err = f.habits.UpdateHabit(ctx, "u2", habit.ID, HabitUpdate{Title: &title})
	assert.True(t, engine.IsNotFound(err))

	require.NoError(t, f.habits.DeleteHabit(ctx, "u1", habit.ID))
	list, err := f.habits.ListHabits(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	logs, err := f.activity.Timeline(ctx, "u1", TimelineQuery{})
	require.NoError(t, err)
	descriptions := []string{}
	for _, l := range logs {
		descriptions = append(descriptions, l.Description)
	}
	assert.Equal(t, []string{
		`Deleted habit "Read 20 pages"`,
		`Updated habit "Read 20 pages"`,
		`Created habit "Read"`,
	}, descriptions)
}

func TestHabitService_Insights(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	habit := f.createHabit(t, "u1", "Meditate", false)
	mustWait(t)(f.habits.ToggleHabit(context.Background(), "u1", habit.ID, "2024-06-01"))

	stats, err := f.habits.Insights(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, habit.ID, stats[0].HabitID)
	assert.Equal(t, 1, stats[0].LongestStreak)
}
