package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dias221467/HabitFlow/internal/engine"
	"github.com/Dias221467/HabitFlow/internal/models"
)

func TestActivityService_EditAndReverseProgress(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	goal := f.createGoal(t, "u1", "Run", 100)

	first := mustWait(t)(f.goals.AddProgress(ctx, "u1", goal.ID, dec("10")))
	mustWait(t)(f.goals.AddProgress(ctx, "u1", goal.ID, dec("5")))

	mustWait(t)(f.activity.EditEntry(ctx, "u1", first.Entry.ID, dec("4")))
	stored, err := f.stores.Goals.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assertDecimal(t, "9", stored.Current)

	mustWait(t)(f.activity.ReverseEntry(ctx, "u1", first.Entry.ID))
	stored, err = f.stores.Goals.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assertDecimal(t, "5", stored.Current)
	require.Len(t, stored.History, 2)
	assert.True(t, stored.History[0].Reversed)
	assertDecimal(t, "4", stored.History[0].Amount)

	logs, err := f.stores.Activity.ListActivityLog(ctx, "u1", 10)
	require.NoError(t, err)
	var reversed models.ActivityLog
	for _, l := range logs {
		if l.ID == first.Entry.ID {
			reversed = l
		}
	}
	assert.True(t, reversed.Reversed)
	assert.Equal(t, "Added 4 km to Run", reversed.Description)

	_, err = f.activity.ReverseEntry(ctx, "u1", first.Entry.ID)
	assert.True(t, engine.IsIllegalState(err))
	_, err = f.activity.EditEntry(ctx, "u1", first.Entry.ID, dec("2"))
	assert.True(t, engine.IsIllegalState(err))
}

func TestActivityService_ReverseHabitEntry(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	habit := f.createHabit(t, "u1", "Meditate", false)

	res := mustWait(t)(f.habits.ToggleHabit(ctx, "u1", habit.ID, today))
	mustWait(t)(f.activity.ReverseEntry(ctx, "u1", res.Entry.ID))

	_, logged := storedHabit(t, f, habit.ID).History[today]
	assert.False(t, logged)
}

func TestActivityService_ReverseOrphanWarns(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	goal := f.createGoal(t, "u1", "Run", 100)
	res := mustWait(t)(f.goals.AddProgress(ctx, "u1", goal.ID, dec("10")))
	require.NoError(t, f.goals.DeleteGoal(ctx, "u1", goal.ID))

	reversed := mustWait(t)(f.activity.ReverseEntry(ctx, "u1", res.Entry.ID))
	require.Len(t, reversed.Warnings, 1)
	assert.Equal(t, engine.WarnOrphanedReference, reversed.Warnings[0].Code)

	entry, ok := reversed.State.Log(res.Entry.ID)
	require.True(t, ok)
	assert.True(t, entry.Reversed)
}

func TestActivityService_EditOrphanRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	goal := f.createGoal(t, "u1", "Run", 100)
	res := mustWait(t)(f.goals.AddProgress(ctx, "u1", goal.ID, dec("10")))
	require.NoError(t, f.goals.DeleteGoal(ctx, "u1", goal.ID))

	_, err := f.activity.EditEntry(ctx, "u1", res.Entry.ID, dec("3"))
	require.Error(t, err)
	assert.True(t, engine.IsIllegalState(err))

	logs, err := f.stores.Activity.ListActivityLog(ctx, "u1", 10)
	require.NoError(t, err)
	for _, l := range logs {
		if l.ID == res.Entry.ID {
			assert.Equal(t, "Added 10 km to Run", l.Description)
		}
	}
}

func TestActivityService_FractionalReverseIsExact(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	goal := f.createGoal(t, "u1", "Save", 1000)

	mustWait(t)(f.goals.AddProgress(ctx, "u1", goal.ID, dec("0.1")))
	big := mustWait(t)(f.goals.AddProgress(ctx, "u1", goal.ID, dec("50")))
	mustWait(t)(f.activity.ReverseEntry(ctx, "u1", big.Entry.ID))

	require.NoError(t, f.sessions.Get("u1").Reload(ctx))
	stored, err := f.stores.Goals.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.1", stored.Current.String())
	assertDecimal(t, "0.1", engine.LedgerTotal(*stored))
}

func TestActivityService_TimelineFilterAndGroup(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	goal := f.createGoal(t, "u1", "Run", 100)
	habit := f.createHabit(t, "u1", "Meditate", false)
	mustWait(t)(f.goals.AddProgress(ctx, "u1", goal.ID, dec("1")))
	mustWait(t)(f.habits.ToggleHabit(ctx, "u1", habit.ID, today))

	habits, err := f.activity.Timeline(ctx, "u1", TimelineQuery{Type: models.ActivityHabit})
	require.NoError(t, err)
	for _, l := range habits {
		assert.Equal(t, models.ActivityHabit, l.Type)
	}

	limited, err := f.activity.Timeline(ctx, "u1", TimelineQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	groups, err := f.activity.GroupedTimeline(ctx, "u1", TimelineQuery{})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, today, groups[0].Date)
	assert.Len(t, groups[0].Entries, 4)
}
