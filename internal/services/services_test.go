package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dias221467/HabitFlow/internal/engine"
	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/internal/repository/sqlstore"
)

var baseTime = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

const today = "2024-06-10"

type fixture struct {
	stores        repository.Stores
	sessions      *SessionManager
	habits        *HabitService
	goals         *GoalService
	activity      *ActivityService
	friends       *FriendService
	events        *EventService
	notifications *NotificationService
	users         *UserService
	onboarding    *OnboardingService
}

// newFixture wires every service over a fresh sqlite file. wrap, if set, may
// replace stores before the services see them.
func newFixture(t *testing.T, wrap func(repository.Stores) repository.Stores) *fixture {
	t.Helper()
	store, err := sqlstore.Open(sqlstore.DriverSQLite, filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	stores := store.Stores()
	if wrap != nil {
		stores = wrap(stores)
	}

	sessions := NewSessionManager(stores, time.UTC, 200)
	var tick atomic.Int64
	sessions.NewEnv = func() engine.Env {
		env := engine.DefaultEnv(time.UTC)
		env.Now = baseTime.Add(time.Duration(tick.Add(1)) * time.Second)
		return env
	}

	templates, err := repository.NewTemplateRepository()
	require.NoError(t, err)

	f := &fixture{stores: stores, sessions: sessions}
	f.habits = NewHabitService(stores.Habits, sessions)
	f.goals = NewGoalService(stores.Goals, sessions)
	f.activity = NewActivityService(sessions)
	f.friends = NewFriendService(stores, sessions)
	f.events = NewEventService(stores.Events, stores.Users, f.friends, sessions)
	f.notifications = NewNotificationService(stores.Dismissals, f.friends, f.events, sessions, 24*time.Hour)
	f.notifications.Now = func() time.Time { return baseTime.Add(time.Hour) }
	f.users = NewUserService(stores.Users, stores.Friends, sessions)
	f.onboarding = NewOnboardingService(templates, stores.Habits, stores.Goals, sessions)
	return f
}

func (f *fixture) seedUser(t *testing.T, id, name string) {
	t.Helper()
	u := models.User{ID: id, Name: name, Email: id + "@example.com", Role: "user"}
	require.NoError(t, f.stores.Users.CreateUser(context.Background(), &u))
}

func (f *fixture) createGoal(t *testing.T, userID, title string, target int64) *models.Goal {
	t.Helper()
	g, err := f.goals.CreateGoal(context.Background(), userID, &models.Goal{Title: title, Target: decimal.NewFromInt(target), Unit: "km"})
	require.NoError(t, err)
	return g
}

func (f *fixture) createHabit(t *testing.T, userID, title string, negative bool) *models.Habit {
	t.Helper()
	h, err := f.habits.CreateHabit(context.Background(), userID, &models.Habit{Title: title, Category: models.CategoryHealth, IsNegative: negative})
	require.NoError(t, err)
	return h
}

// befriend makes a and b accepted friends.
func (f *fixture) befriend(t *testing.T, a, b string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.friends.SendFriendRequest(ctx, a, b)
	require.NoError(t, err)
	_, err = f.friends.AcceptFriendRequest(ctx, b, a)
	require.NoError(t, err)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

// mustWait returns a function that requires an operation to be accepted and
// confirmed, e.g. mustWait(t)(f.goals.AddProgress(...)).
func mustWait(t *testing.T) func(*Result, error) *Result {
	return func(res *Result, err error) *Result {
		t.Helper()
		require.NoError(t, err)
		require.NoError(t, res.Wait(context.Background()))
		return res
	}
}

// failingGoals rejects ledger appends while fail is set.
type failingGoals struct {
	repository.GoalStore
	fail atomic.Bool
}

func (g *failingGoals) AppendGoalEntry(ctx context.Context, goalID string, entry models.GoalEntry) (*models.Goal, error) {
	if g.fail.Load() {
		return nil, errors.New("disk full")
	}
	return g.GoalStore.AppendGoalEntry(ctx, goalID, entry)
}
