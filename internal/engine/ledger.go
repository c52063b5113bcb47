package engine

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/Dias221467/HabitFlow/internal/models"
)

// addedPattern matches the amount embedded in a progress description. It is
// only consulted for entries that predate the structured amount field.
var addedPattern = regexp.MustCompile(`Added ([\d.]+)`)

func formatAmount(amount decimal.Decimal) string {
	return amount.String()
}

func clampZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

func progressDescription(g models.Goal, amount decimal.Decimal) string {
	return fmt.Sprintf("Added %s %s to %s", formatAmount(amount), g.Unit, g.Title)
}

// ParseAmount returns the progress amount recorded by entry: the structured
// amount when present, else the amount embedded in the description.
func ParseAmount(entry models.ActivityLog) (decimal.Decimal, bool) {
	if entry.Amount != nil {
		return *entry.Amount, true
	}
	m := addedPattern.FindStringSubmatch(entry.Description)
	if m == nil {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// IsProgressEntry reports whether entry records an add-progress action: a
// reversible goal entry with a structured amount, or a legacy one whose
// description carries it. CRUD goal logs are never reversible.
func IsProgressEntry(entry models.ActivityLog) bool {
	if entry.Type != models.ActivityGoal || !entry.Reversible {
		return false
	}
	return entry.Amount != nil || addedPattern.MatchString(entry.Description)
}

// rewriteAmount replaces the first embedded amount in description.
func rewriteAmount(description string, amount decimal.Decimal) string {
	replaced := false
	return addedPattern.ReplaceAllStringFunc(description, func(match string) string {
		if replaced {
			return match
		}
		replaced = true
		return "Added " + formatAmount(amount)
	})
}

// LedgerTotal returns the sum of non-reversed entries of g, clamped at 0.
func LedgerTotal(g models.Goal) decimal.Decimal {
	total := decimal.Zero
	for _, e := range g.History {
		if !e.Reversed {
			total = total.Add(e.Amount)
		}
	}
	return clampZero(total)
}

func entryIndexForLog(g models.Goal, logID string) int {
	for i := range g.History {
		if g.History[i].LogID == logID {
			return i
		}
	}
	return -1
}

// AddGoalProgress appends amount to the ledger of goalID dated today and logs
// a reversible goal entry.
func AddGoalProgress(st State, env Env, goalID string, amount decimal.Decimal) (Outcome, error) {
	const op = "add goal progress"

	if !amount.IsPositive() {
		return Outcome{}, newError(KindValidation, op, "amount must be a positive number, got %s", amount)
	}
	idx := st.goalIndex(goalID)
	if idx < 0 {
		return Outcome{}, newError(KindNotFound, op, "goal %s not found", goalID)
	}

	out := Outcome{State: st.Clone()}
	goal := &out.State.Goals[idx]

	logID := env.id()
	entry := models.GoalEntry{
		ID:     env.id(),
		Date:   env.Today(),
		Amount: amount,
		LogID:  logID,
	}
	goal.History = append(goal.History, entry)
	goal.Current = clampZero(goal.Current.Add(amount))
	goal.UpdatedAt = env.Now
	out.emit(AppendGoalEntry{GoalID: goalID, Entry: entry})

	logged := amount
	out.prependLog(models.ActivityLog{
		ID:          logID,
		UserID:      st.UserID,
		Type:        models.ActivityGoal,
		Description: progressDescription(*goal, amount),
		Timestamp:   env.Now,
		Reversible:  true,
		RelatedID:   goalID,
		Amount:      &logged,
	})
	return out, nil
}

// EditProgressEntry corrects the amount of a non-reversed add-progress entry
// and moves the goal total by the difference. The ledger entry linked to the
// log is the authority for the old amount; an entry without one is rejected
// so the log and the ledger cannot disagree.
func EditProgressEntry(st State, env Env, logID string, newAmount decimal.Decimal) (Outcome, error) {
	const op = "edit progress entry"

	if !newAmount.IsPositive() {
		return Outcome{}, newError(KindValidation, op, "amount must be a positive number, got %s", newAmount)
	}
	li := st.logIndex(logID)
	if li < 0 {
		return Outcome{}, newError(KindNotFound, op, "log entry %s not found", logID)
	}
	if st.Logs[li].Reversed {
		return Outcome{}, newError(KindIllegalState, op, "log entry %s is reversed", logID)
	}
	if !IsProgressEntry(st.Logs[li]) {
		return Outcome{}, newError(KindIllegalState, op, "log entry %s is not a goal progress entry", logID)
	}

	gi := st.goalIndex(st.Logs[li].RelatedID)
	if gi < 0 {
		return Outcome{}, newError(KindIllegalState, op, "goal %s for log entry %s no longer exists", st.Logs[li].RelatedID, logID)
	}
	ei := entryIndexForLog(st.Goals[gi], logID)
	if ei < 0 {
		return Outcome{}, newError(KindIllegalState, op, "log entry %s has no ledger entry to edit", logID)
	}

	out := Outcome{State: st.Clone()}
	entry := &out.State.Logs[li]
	goal := &out.State.Goals[gi]
	ledger := &goal.History[ei]

	diff := newAmount.Sub(ledger.Amount)
	ledger.Amount = newAmount
	goal.Current = clampZero(goal.Current.Add(diff))
	goal.UpdatedAt = env.Now

	entry.Description = rewriteAmount(entry.Description, newAmount)
	amount := newAmount
	entry.Amount = &amount

	out.emit(UpdateLogEntry{LogID: logID, Description: entry.Description, Amount: &amount})
	out.emit(UpdateGoalEntry{GoalID: goal.ID, EntryID: ledger.ID, Amount: newAmount})
	out.emit(SetGoalCurrent{GoalID: goal.ID, Current: goal.Current})
	return out, nil
}

// reverseGoalEntry rolls the goal total back by the amount of entry. The
// linked ledger entry supplies the amount; legacy logs without one fall back
// to the amount recorded on the log.
func reverseGoalEntry(out *Outcome, env Env, entry models.ActivityLog) {
	gi := out.State.goalIndex(entry.RelatedID)
	if gi < 0 {
		out.warn(warnf(WarnOrphanedReference, "goal %s for log entry %s no longer exists", entry.RelatedID, entry.ID))
		return
	}
	goal := &out.State.Goals[gi]

	ei := entryIndexForLog(*goal, entry.ID)
	var amount decimal.Decimal
	if ei >= 0 {
		amount = goal.History[ei].Amount
	} else {
		var ok bool
		if amount, ok = ParseAmount(entry); !ok {
			out.warn(warnf(WarnUnparseableAmount, "log entry %s has no readable amount; nothing subtracted", entry.ID))
		}
	}

	goal.Current = clampZero(goal.Current.Sub(amount))
	goal.UpdatedAt = env.Now
	if ei >= 0 {
		goal.History[ei].Reversed = true
		out.emit(UpdateGoalEntry{GoalID: goal.ID, EntryID: goal.History[ei].ID, Amount: goal.History[ei].Amount, Reversed: true})
	}
	out.emit(SetGoalCurrent{GoalID: goal.ID, Current: goal.Current})
}
