package engine

import (
	"regexp"
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
)

// datePattern matches the date embedded in a habit check-in description. It
// is only consulted for entries that predate the structured date field.
var datePattern = regexp.MustCompile(`for (\d{4}-\d{2}-\d{2})`)

// ParseDate returns the habit date recorded by entry.
func ParseDate(entry models.ActivityLog) (string, bool) {
	if entry.Date != "" {
		return entry.Date, true
	}
	m := datePattern.FindStringSubmatch(entry.Description)
	if m == nil {
		return "", false
	}
	if _, err := time.Parse(models.DateLayout, m[1]); err != nil {
		return "", false
	}
	return m[1], true
}

// ReverseProgressEntry soft-cancels a reversible log entry and rolls back its
// effect on the related goal or habit. The entry stays in the log, marked
// reversed, and can no longer be edited or reversed.
//
// A missing goal or habit does not block the reversal: the entry is still
// marked and an orphaned-reference warning is returned.
func ReverseProgressEntry(st State, env Env, logID string) (Outcome, error) {
	const op = "reverse log entry"

	li := st.logIndex(logID)
	if li < 0 {
		return Outcome{}, newError(KindNotFound, op, "log entry %s not found", logID)
	}
	entry := st.Logs[li]
	if !entry.Reversible {
		return Outcome{}, newError(KindIllegalState, op, "log entry %s is not reversible", logID)
	}
	if entry.Reversed {
		return Outcome{}, newError(KindIllegalState, op, "log entry %s is already reversed", logID)
	}

	out := Outcome{State: st.Clone()}
	out.State.Logs[li].Reversed = true
	out.emit(MarkLogReversed{LogID: logID})

	switch entry.Type {
	case models.ActivityGoal:
		reverseGoalEntry(&out, env, entry)
	case models.ActivityHabit:
		reverseHabitEntry(&out, entry)
	}
	return out, nil
}

// reverseHabitEntry clears the habit entry for the logged date, as long as it
// still holds the status that was logged.
func reverseHabitEntry(out *Outcome, entry models.ActivityLog) {
	hi := out.State.habitIndex(entry.RelatedID)
	if hi < 0 {
		out.warn(warnf(WarnOrphanedReference, "habit %s for log entry %s no longer exists", entry.RelatedID, entry.ID))
		return
	}
	date, ok := ParseDate(entry)
	if !ok {
		out.warn(warnf(WarnUnparseableDate, "log entry %s has no readable date; habit left unchanged", entry.ID))
		return
	}

	habit := &out.State.Habits[hi]
	current, logged := habit.History[date]
	if !logged {
		return
	}
	expected := entry.Status
	if expected == "" {
		expected = GoodStatus(PolarityOf(*habit))
	}
	if current != expected {
		out.warn(warnf(WarnStaleHabitEntry, "habit %s on %s changed since log entry %s; entry kept", habit.ID, date, entry.ID))
		return
	}
	delete(habit.History, date)
	out.emit(UpsertHabitEntry{HabitID: habit.ID, Date: date})
}
