package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dias221467/HabitFlow/internal/engine"
	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
)

func TestSession_AddProgressPersists(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	goal := f.createGoal(t, "u1", "Run", 100)

	res := mustWait(t)(f.goals.AddProgress(ctx, "u1", goal.ID, dec("12.5")))
	require.NotNil(t, res.Entry)
	assert.Empty(t, res.Warnings)

	stored, err := f.stores.Goals.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assertDecimal(t, "12.5", stored.Current)
	require.Len(t, stored.History, 1)
	assert.Equal(t, res.Entry.ID, stored.History[0].LogID)
	assert.Equal(t, today, stored.History[0].Date)

	logs, err := f.stores.Activity.ListActivityLog(ctx, "u1", 10)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, "Added 12.5 km to Run", logs[0].Description)
	assert.True(t, logs[0].Reversible)
}

func TestSession_StoreFailureReloads(t *testing.T) {
	var goals *failingGoals
	f := newFixture(t, func(s repository.Stores) repository.Stores {
		goals = &failingGoals{GoalStore: s.Goals}
		s.Goals = goals
		return s
	})
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	goal := f.createGoal(t, "u1", "Run", 100)

	goals.fail.Store(true)
	res, err := f.goals.AddProgress(ctx, "u1", goal.ID, dec("5"))
	require.NoError(t, err)
	optimistic, _ := res.State.Goal(goal.ID)
	assertDecimal(t, "5", optimistic.Current)

	err = res.Wait(ctx)
	var rerr *ReconcileError
	require.True(t, errors.As(err, &rerr))
	assert.True(t, rerr.Reloaded)
	assert.Equal(t, "add goal progress", rerr.Op)

	list, err := f.goals.ListGoals(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assertDecimal(t, "0", list[0].Current)
	assert.Empty(t, list[0].History)

	logs, err := f.activity.Timeline(ctx, "u1", TimelineQuery{Type: models.ActivityGoal})
	require.NoError(t, err)
	for _, l := range logs {
		assert.NotEqual(t, "Added 5 km to Run", l.Description)
	}

	goals.fail.Store(false)
	mustWait(t)(f.goals.AddProgress(ctx, "u1", goal.ID, dec("5")))
	stored, err := f.stores.Goals.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assertDecimal(t, "5", stored.Current)
}

func TestSession_ConcurrentOperationsSerialize(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	goal := f.createGoal(t, "u1", "Push-ups", 1000)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.goals.AddProgress(ctx, "u1", goal.ID, dec("1"))
			if err == nil {
				err = res.Wait(ctx)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := f.stores.Goals.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(n).Equal(stored.Current), "current %s", stored.Current)
	assert.Len(t, stored.History, n)
}

func TestSession_RejectedOperationLeavesView(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	goal := f.createGoal(t, "u1", "Run", 100)

	_, err := f.goals.AddProgress(ctx, "u1", goal.ID, dec("-3"))
	assert.True(t, engine.IsValidation(err))

	_, err = f.goals.AddProgress(ctx, "u1", "missing", dec("3"))
	assert.True(t, engine.IsNotFound(err))

	list, err := f.goals.ListGoals(ctx, "u1")
	require.NoError(t, err)
	assertDecimal(t, "0", list[0].Current)
}

func TestSession_ReloadPicksUpStoreChanges(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	goal := f.createGoal(t, "u1", "Run", 100)

	require.NoError(t, f.stores.Goals.SetGoalCurrent(ctx, goal.ID, dec("40")))
	list, err := f.goals.ListGoals(ctx, "u1")
	require.NoError(t, err)
	assertDecimal(t, "0", list[0].Current)

	require.NoError(t, f.sessions.Get("u1").Reload(ctx))
	list, err = f.goals.ListGoals(ctx, "u1")
	require.NoError(t, err)
	assertDecimal(t, "40", list[0].Current)
}

func TestSessionManager_EvictIdle(t *testing.T) {
	f := newFixture(t, nil)
	f.sessions.Get("u1")
	f.sessions.Get("u2")
	require.Equal(t, 2, f.sessions.Len())

	assert.Equal(t, 0, f.sessions.EvictIdle(time.Hour))
	assert.Equal(t, 2, f.sessions.EvictIdle(0))
	assert.Equal(t, 0, f.sessions.Len())
}

func TestSessionManager_GetRefreshesIdleTime(t *testing.T) {
	f := newFixture(t, nil)
	stale := time.Now().Add(-2 * time.Hour)
	for _, id := range []string{"u1", "u2"} {
		s := f.sessions.Get(id)
		s.viewMu.Lock()
		s.lastUsed = stale
		s.viewMu.Unlock()
	}

	kept := f.sessions.Get("u1")
	assert.True(t, kept.idleSince().After(stale))

	assert.Equal(t, 1, f.sessions.EvictIdle(time.Hour), "only the untouched session is idle")
	assert.Same(t, kept, f.sessions.Get("u1"))
	assert.Equal(t, 1, f.sessions.Len())
}

func TestSessionManager_SameSessionPerUser(t *testing.T) {
	f := newFixture(t, nil)
	assert.Same(t, f.sessions.Get("u1"), f.sessions.Get("u1"))
	assert.NotSame(t, f.sessions.Get("u1"), f.sessions.Get("u2"))
}
