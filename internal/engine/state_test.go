package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dias221467/HabitFlow/internal/models"
)

// testEnv returns an Env fixed at noon UTC on today with sequential ids.
func testEnv(t *testing.T, today string) Env {
	t.Helper()
	day, err := time.Parse(models.DateLayout, today)
	require.NoError(t, err)
	n := 0
	return Env{
		Now:      day.Add(12 * time.Hour),
		Location: time.UTC,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func newHabit(id, title string, negative bool) models.Habit {
	return models.Habit{
		ID:         id,
		UserID:     "u1",
		Title:      title,
		Category:   models.CategoryHealth,
		IsNegative: negative,
		History:    map[string]models.HabitStatus{},
	}
}

func newGoal(id, title string, target, current float64, unit string) models.Goal {
	return models.Goal{
		ID:      id,
		UserID:  "u1",
		Title:   title,
		Target:  decimal.NewFromFloat(target),
		Current: decimal.NewFromFloat(current),
		Unit:    unit,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// assertDecimal compares numerically, so 2.5 equals 2.50.
func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

// ledgerInvariant checks that g.Current equals its non-reversed entries
// exactly.
func ledgerInvariant(t *testing.T, g models.Goal) {
	t.Helper()
	total := LedgerTotal(g)
	assert.True(t, total.Equal(g.Current), "goal %s current %s must equal its ledger total %s", g.ID, g.Current, total)
	assert.False(t, g.Current.IsNegative())
}

func TestState_CloneIsDeep(t *testing.T) {
	amount := dec("3")
	h := newHabit("h1", "Run", false)
	h.History["2024-06-01"] = models.HabitCompleted
	g := newGoal("g1", "Read", 10, 3, "books")
	g.History = []models.GoalEntry{{ID: "e1", Date: "2024-06-01", Amount: dec("3"), LogID: "l1"}}
	st := State{
		UserID: "u1",
		Habits: []models.Habit{h},
		Goals:  []models.Goal{g},
		Logs:   []models.ActivityLog{{ID: "l1", Amount: &amount}},
	}

	clone := st.Clone()
	clone.Habits[0].History["2024-06-02"] = models.HabitFailed
	clone.Goals[0].History[0].Reversed = true
	*clone.Logs[0].Amount = dec("9")

	assert.Len(t, st.Habits[0].History, 1)
	assert.False(t, st.Goals[0].History[0].Reversed)
	assertDecimal(t, "3", *st.Logs[0].Amount)
}

func TestState_Lookups(t *testing.T) {
	st := State{
		Habits: []models.Habit{newHabit("h1", "Run", false)},
		Goals:  []models.Goal{newGoal("g1", "Read", 10, 0, "books")},
		Logs:   []models.ActivityLog{{ID: "l1"}},
	}

	_, ok := st.Habit("h1")
	assert.True(t, ok)
	_, ok = st.Habit("nope")
	assert.False(t, ok)
	_, ok = st.Goal("g1")
	assert.True(t, ok)
	_, ok = st.Log("l1")
	assert.True(t, ok)
	_, ok = st.Log("l2")
	assert.False(t, ok)
}

func TestEnv_TodayUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	env := Env{Now: time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC), Location: loc}

	assert.Equal(t, "2024-06-02", env.Today())
}

func TestRecordActivity_NotReversible(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	st := State{UserID: "u1"}

	out := RecordActivity(st, env, models.ActivityFriend, "Sent a friend request to Alice", "u2")

	require.Len(t, out.State.Logs, 1)
	entry := out.State.Logs[0]
	assert.Equal(t, "id-1", entry.ID)
	assert.False(t, entry.Reversible)
	assert.Equal(t, models.ActivityFriend, entry.Type)
	require.Len(t, out.Effects, 1)
	assert.IsType(t, AppendLog{}, out.Effects[0])
	require.NotNil(t, out.Entry)
	assert.Equal(t, entry.ID, out.Entry.ID)
	assert.Empty(t, st.Logs, "input state must not change")
}
