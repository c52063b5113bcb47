package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dias221467/HabitFlow/internal/models"
)

func goalState(goals ...models.Goal) State {
	return State{UserID: "u1", Goals: goals}
}

func TestAddGoalProgress(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	st := goalState(newGoal("g1", "Run", 100, 0, "km"))

	out, err := AddGoalProgress(st, env, "g1", dec("2.5"))
	require.NoError(t, err)

	goal := out.State.Goals[0]
	assertDecimal(t, "2.5", goal.Current)
	require.Len(t, goal.History, 1)
	assert.Equal(t, "2024-06-01", goal.History[0].Date)
	assertDecimal(t, "2.5", goal.History[0].Amount)

	require.NotNil(t, out.Entry)
	assert.Equal(t, "Added 2.5 km to Run", out.Entry.Description)
	assert.Equal(t, goal.History[0].LogID, out.Entry.ID)
	assert.Equal(t, models.ActivityGoal, out.Entry.Type)
	assert.True(t, out.Entry.Reversible)
	require.NotNil(t, out.Entry.Amount)
	assertDecimal(t, "2.5", *out.Entry.Amount)

	require.Len(t, out.Effects, 2)
	assert.IsType(t, AppendGoalEntry{}, out.Effects[0])
	assert.IsType(t, AppendLog{}, out.Effects[1])
	ledgerInvariant(t, goal)
	assert.True(t, st.Goals[0].Current.IsZero(), "input state must not change")
}

func TestAddGoalProgress_Rejections(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	st := goalState(newGoal("g1", "Run", 100, 10, "km"))

	for _, amount := range []string{"0", "-5", "-0.001"} {
		_, err := AddGoalProgress(st, env, "g1", dec(amount))
		require.Error(t, err)
		assert.True(t, IsValidation(err), "amount %s: %v", amount, err)
	}
	assertDecimal(t, "10", st.Goals[0].Current)

	_, err := AddGoalProgress(st, env, "missing", dec("1"))
	assert.True(t, IsNotFound(err))
}

func TestAddThenReverse_RoundTrip(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	st := goalState(newGoal("g1", "Save", 1000, 0, "USD"))

	out, err := AddGoalProgress(st, env, "g1", dec("17"))
	require.NoError(t, err)
	before := out.State.Goals[0].Current

	out, err = AddGoalProgress(out.State, env, "g1", dec("50"))
	require.NoError(t, err)
	out, err = ReverseProgressEntry(out.State, env, out.Entry.ID)
	require.NoError(t, err)

	assert.True(t, before.Equal(out.State.Goals[0].Current))
	ledgerInvariant(t, out.State.Goals[0])
}

func TestAddThenReverse_FractionalIsExact(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	st := goalState(newGoal("g1", "Save", 1000, 0, "USD"))

	out, err := AddGoalProgress(st, env, "g1", dec("0.1"))
	require.NoError(t, err)
	out, err = AddGoalProgress(out.State, env, "g1", dec("50"))
	require.NoError(t, err)
	out, err = ReverseProgressEntry(out.State, env, out.Entry.ID)
	require.NoError(t, err)

	assert.Equal(t, "0.1", out.State.Goals[0].Current.String())
	ledgerInvariant(t, out.State.Goals[0])
}

// Goal target 100: +30, +40, reverse first, edit second to 25.
func TestLedger_AddReverseEdit(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	st := goalState(newGoal("g1", "X", 100, 0, "pages"))

	out, err := AddGoalProgress(st, env, "g1", dec("30"))
	require.NoError(t, err)
	first := out.Entry.ID
	assertDecimal(t, "30", out.State.Goals[0].Current)
	assert.Equal(t, "Added 30 pages to X", out.Entry.Description)

	out, err = AddGoalProgress(out.State, env, "g1", dec("40"))
	require.NoError(t, err)
	second := out.Entry.ID
	assertDecimal(t, "70", out.State.Goals[0].Current)

	out, err = ReverseProgressEntry(out.State, env, first)
	require.NoError(t, err)
	assertDecimal(t, "40", out.State.Goals[0].Current)
	firstLog, _ := out.State.Log(first)
	secondLog, _ := out.State.Log(second)
	assert.True(t, firstLog.Reversed)
	assert.False(t, secondLog.Reversed)
	ledgerInvariant(t, out.State.Goals[0])

	out, err = EditProgressEntry(out.State, env, second, dec("25"))
	require.NoError(t, err)
	assertDecimal(t, "25", out.State.Goals[0].Current)
	secondLog, _ = out.State.Log(second)
	assert.Equal(t, "Added 25 pages to X", secondLog.Description)
	assertDecimal(t, "25", *secondLog.Amount)
	assert.Empty(t, out.Warnings)
	ledgerInvariant(t, out.State.Goals[0])

	var kinds []string
	for _, e := range out.Effects {
		switch e.(type) {
		case UpdateLogEntry:
			kinds = append(kinds, "log")
		case UpdateGoalEntry:
			kinds = append(kinds, "entry")
		case SetGoalCurrent:
			kinds = append(kinds, "current")
		}
	}
	assert.Equal(t, []string{"log", "entry", "current"}, kinds)
}

func TestEditProgressEntry_Rejections(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	out, err := AddGoalProgress(goalState(newGoal("g1", "X", 100, 0, "pages")), env, "g1", dec("10"))
	require.NoError(t, err)
	added := out.Entry.ID

	reversed, err := ReverseProgressEntry(out.State, env, added)
	require.NoError(t, err)

	withSystem := RecordActivity(out.State, env, models.ActivitySystem, "Created goal X", "g1")

	_, err = EditProgressEntry(out.State, env, added, dec("0"))
	assert.True(t, IsValidation(err))

	_, err = EditProgressEntry(out.State, env, "missing", dec("5"))
	assert.True(t, IsNotFound(err))

	_, err = EditProgressEntry(reversed.State, env, added, dec("5"))
	assert.True(t, IsIllegalState(err), "reversed entries are immutable")

	_, err = EditProgressEntry(withSystem.State, env, withSystem.Entry.ID, dec("5"))
	assert.True(t, IsIllegalState(err), "only progress entries can be edited")
}

func TestEditProgressEntry_RejectsGoalCRUDLog(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	st := goalState(newGoal("g1", "Added 5 pages", 100, 0, "pages"))
	created := RecordActivity(st, env, models.ActivityGoal, `Created goal "Added 5 pages": target 100 pages`, "g1")

	_, err := EditProgressEntry(created.State, env, created.Entry.ID, dec("80"))
	require.Error(t, err)
	assert.True(t, IsIllegalState(err))
	assert.True(t, created.State.Goals[0].Current.IsZero())
}

func TestEditProgressEntry_UsesLedgerAmount(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	goal := newGoal("g1", "X", 100, 10, "pages")
	goal.History = []models.GoalEntry{{ID: "e1", Date: "2024-05-01", Amount: dec("10"), LogID: "l1"}}
	st := State{
		UserID: "u1",
		Goals:  []models.Goal{goal},
		Logs: []models.ActivityLog{{
			ID: "l1", Type: models.ActivityGoal, Description: "Added 50 pages to X",
			Reversible: true, RelatedID: "g1", Amount: decPtr("50"),
		}},
	}

	out, err := EditProgressEntry(st, env, "l1", dec("4"))
	require.NoError(t, err)

	assertDecimal(t, "4", out.State.Goals[0].Current)
	assertDecimal(t, "4", out.State.Goals[0].History[0].Amount)
	assertDecimal(t, "4", *out.State.Logs[0].Amount)
	ledgerInvariant(t, out.State.Goals[0])
}

func TestEditProgressEntry_ClampsAtZero(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	goal := newGoal("g1", "X", 100, 3, "pages")
	goal.History = []models.GoalEntry{{ID: "e1", Date: "2024-05-01", Amount: dec("10"), LogID: "l1"}}
	st := State{
		UserID: "u1",
		Goals:  []models.Goal{goal},
		Logs: []models.ActivityLog{{
			ID: "l1", Type: models.ActivityGoal, Description: "Added 10 pages to X",
			Reversible: true, RelatedID: "g1", Amount: decPtr("10"),
		}},
	}

	out, err := EditProgressEntry(st, env, "l1", dec("1"))
	require.NoError(t, err)

	assert.True(t, out.State.Goals[0].Current.IsZero())
}

func TestEditProgressEntry_LegacyDescription(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	goal := newGoal("g1", "X", 100, 12, "pages")
	goal.History = []models.GoalEntry{{ID: "e1", Date: "2024-05-01", Amount: dec("12"), LogID: "l1"}}
	st := State{
		UserID: "u1",
		Goals:  []models.Goal{goal},
		Logs: []models.ActivityLog{{
			ID: "l1", Type: models.ActivityGoal, Description: "Added 12 pages to X",
			Reversible: true, RelatedID: "g1",
		}},
	}

	out, err := EditProgressEntry(st, env, "l1", dec("20"))
	require.NoError(t, err)

	assertDecimal(t, "20", out.State.Goals[0].Current)
	assert.Equal(t, "Added 20 pages to X", out.State.Logs[0].Description)
	require.NotNil(t, out.State.Logs[0].Amount, "edit backfills the structured amount")
	ledgerInvariant(t, out.State.Goals[0])
}

func TestEditProgressEntry_WithoutLedgerEntry(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	tests := []struct {
		name  string
		goals []models.Goal
		log   models.ActivityLog
	}{
		{
			name:  "legacy log with no linked entry",
			goals: []models.Goal{newGoal("g1", "X", 100, 12, "pages")},
			log: models.ActivityLog{
				ID: "l1", Type: models.ActivityGoal, Description: "Added 12 pages to X",
				Reversible: true, RelatedID: "g1",
			},
		},
		{
			name:  "unreadable amount",
			goals: []models.Goal{newGoal("g1", "X", 100, 12, "pages")},
			log: models.ActivityLog{
				ID: "l1", Type: models.ActivityGoal, Description: "Added ... pages to X",
				Reversible: true, RelatedID: "g1",
			},
		},
		{
			name: "orphaned goal",
			log: models.ActivityLog{
				ID: "l1", Type: models.ActivityGoal, Description: "Added 5 km to Gone",
				Reversible: true, RelatedID: "g-gone", Amount: decPtr("5"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := State{UserID: "u1", Goals: tt.goals, Logs: []models.ActivityLog{tt.log}}

			_, err := EditProgressEntry(st, env, "l1", dec("8"))
			require.Error(t, err)
			assert.True(t, IsIllegalState(err), "%v", err)
			assert.Equal(t, tt.log.Description, st.Logs[0].Description, "input state must not change")
		})
	}
}

func TestEditThenReverse_SubtractsLedgerAmount(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	out, err := AddGoalProgress(goalState(newGoal("g1", "X", 100, 0, "pages")), env, "g1", dec("10"))
	require.NoError(t, err)
	logID := out.Entry.ID
	out, err = AddGoalProgress(out.State, env, "g1", dec("3"))
	require.NoError(t, err)

	out, err = EditProgressEntry(out.State, env, logID, dec("6"))
	require.NoError(t, err)
	out, err = ReverseProgressEntry(out.State, env, logID)
	require.NoError(t, err)

	assertDecimal(t, "3", out.State.Goals[0].Current)
	ledgerInvariant(t, out.State.Goals[0])
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		entry models.ActivityLog
		want  string
		ok    bool
	}{
		{"structured wins", models.ActivityLog{Amount: decPtr("7"), Description: "Added 3 km to Run"}, "7", true},
		{"description fallback", models.ActivityLog{Description: "Added 3.5 km to Run"}, "3.5", true},
		{"malformed number", models.ActivityLog{Description: "Added 1.2.3 km to Run"}, "0", false},
		{"no amount", models.ActivityLog{Description: "Created goal Run"}, "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.entry)
			assert.Equal(t, tt.ok, ok)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestIsProgressEntry(t *testing.T) {
	assert.True(t, IsProgressEntry(models.ActivityLog{Type: models.ActivityGoal, Reversible: true, Amount: decPtr("1")}))
	assert.True(t, IsProgressEntry(models.ActivityLog{Type: models.ActivityGoal, Reversible: true, Description: "Added 2 km to Run"}))
	assert.False(t, IsProgressEntry(models.ActivityLog{Type: models.ActivityGoal, Description: `Updated goal "Added 2 km"`}))
	assert.False(t, IsProgressEntry(models.ActivityLog{Type: models.ActivityHabit, Reversible: true, Amount: decPtr("1")}))
}

func TestLedgerTotal_IgnoresReversed(t *testing.T) {
	g := newGoal("g1", "X", 100, 0, "")
	g.History = []models.GoalEntry{
		{ID: "a", Amount: dec("10")},
		{ID: "b", Amount: dec("5"), Reversed: true},
		{ID: "c", Amount: dec("2.5")},
	}

	assertDecimal(t, "12.5", LedgerTotal(g))
}

func TestLedgerInvariant_Sequence(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	st := goalState(newGoal("g1", "Run", 42, 0, "km"))
	var logs []string

	for _, amount := range []string{"5", "0.5", "12", "3.25", "7"} {
		out, err := AddGoalProgress(st, env, "g1", dec(amount))
		require.NoError(t, err)
		st = out.State
		logs = append(logs, out.Entry.ID)
		ledgerInvariant(t, st.Goals[0])
	}

	steps := []func(State) (Outcome, error){
		func(s State) (Outcome, error) { return EditProgressEntry(s, env, logs[1], dec("9")) },
		func(s State) (Outcome, error) { return ReverseProgressEntry(s, env, logs[0]) },
		func(s State) (Outcome, error) { return EditProgressEntry(s, env, logs[3], dec("0.75")) },
		func(s State) (Outcome, error) { return ReverseProgressEntry(s, env, logs[2]) },
		func(s State) (Outcome, error) { return EditProgressEntry(s, env, logs[4], dec("1")) },
	}
	for _, step := range steps {
		out, err := step(st)
		require.NoError(t, err)
		st = out.State
		ledgerInvariant(t, st.Goals[0])
	}
	assertDecimal(t, "10.75", st.Goals[0].Current)
}

func TestLedgerTotal_ManySmallEntries(t *testing.T) {
	env := testEnv(t, "2024-06-01")
	st := goalState(newGoal("g1", "Save", 100, 0, "USD"))
	for i := 0; i < 10; i++ {
		out, err := AddGoalProgress(st, env, "g1", dec("0.1"))
		require.NoError(t, err)
		st = out.State
	}

	assert.True(t, decimal.NewFromInt(1).Equal(st.Goals[0].Current))
	ledgerInvariant(t, st.Goals[0])
}
