package engine

import (
	"fmt"
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
)

// Polarity says whether doing a habit is good (positive) or avoiding it is
// good (negative).
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

// PolarityOf returns the polarity of h.
func PolarityOf(h models.Habit) Polarity {
	if h.IsNegative {
		return Negative
	}
	return Positive
}

// Mark is what a stored status means for a habit of a given polarity.
type Mark int

const (
	Unset Mark = iota
	Good
	Bad
)

func (m Mark) String() string {
	switch m {
	case Good:
		return "good"
	case Bad:
		return "bad"
	default:
		return "unset"
	}
}

// unset is the zero status: no history entry for the day.
const unset models.HabitStatus = ""

type transitionKey struct {
	polarity Polarity
	current  models.HabitStatus
}

// transitions is the toggle cycle. Both polarities cycle in three steps.
var transitions = map[transitionKey]models.HabitStatus{
	{Positive, unset}:                 models.HabitCompleted,
	{Positive, models.HabitCompleted}: models.HabitFailed,
	{Positive, models.HabitFailed}:    unset,

	{Negative, unset}:                 models.HabitFailed,
	{Negative, models.HabitFailed}:    models.HabitCompleted,
	{Negative, models.HabitCompleted}: unset,
}

// NextStatus returns the status that follows current in the toggle cycle for
// polarity p. An empty status means the entry is cleared.
func NextStatus(p Polarity, current models.HabitStatus) models.HabitStatus {
	next, ok := transitions[transitionKey{p, current}]
	if !ok {
		// unknown stored value (e.g. legacy SKIPPED) restarts the cycle
		return transitions[transitionKey{p, unset}]
	}
	return next
}

// GoodStatus returns the stored status that counts as success for p.
func GoodStatus(p Polarity) models.HabitStatus {
	if p == Negative {
		return models.HabitFailed
	}
	return models.HabitCompleted
}

// MarkOf maps a stored status to good/bad/unset for polarity p.
func MarkOf(p Polarity, status models.HabitStatus) Mark {
	switch status {
	case unset:
		return Unset
	case GoodStatus(p):
		return Good
	default:
		return Bad
	}
}

func habitLogDescription(h models.Habit, date string) string {
	verb := "Completed"
	if h.IsNegative {
		verb = "Avoided"
	}
	return fmt.Sprintf("%s %q for %s", verb, h.Title, date)
}

// ToggleHabit advances the status of habitID on date by one step of the
// cycle. Only a transition into the good status is logged.
func ToggleHabit(st State, env Env, habitID, date string) (Outcome, error) {
	const op = "toggle habit"

	day, err := time.ParseInLocation(models.DateLayout, date, env.loc())
	if err != nil {
		return Outcome{}, newError(KindValidation, op, "invalid date %q", date)
	}
	if day.Format(models.DateLayout) > env.Today() {
		return Outcome{}, newError(KindValidation, op, "cannot log %s before it happens", date)
	}

	idx := st.habitIndex(habitID)
	if idx < 0 {
		return Outcome{}, newError(KindNotFound, op, "habit %s not found", habitID)
	}

	out := Outcome{State: st.Clone()}
	habit := &out.State.Habits[idx]
	polarity := PolarityOf(*habit)
	next := NextStatus(polarity, habit.History[date])

	if next == unset {
		delete(habit.History, date)
		out.emit(UpsertHabitEntry{HabitID: habitID, Date: date})
	} else {
		habit.History[date] = next
		status := next
		out.emit(UpsertHabitEntry{HabitID: habitID, Date: date, Status: &status})
	}

	if MarkOf(polarity, next) == Good {
		out.prependLog(models.ActivityLog{
			ID:          env.id(),
			UserID:      st.UserID,
			Type:        models.ActivityHabit,
			Description: habitLogDescription(*habit, date),
			Timestamp:   env.Now,
			Reversible:  true,
			RelatedID:   habitID,
			Date:        date,
			Status:      next,
		})
	}
	return out, nil
}

// Streak returns the number of consecutive days ending on today whose status
// is good for h, and the first date of that run. A zero length has no start.
// The good status is COMPLETED for positive habits and FAILED for negative
// ones, where FAILED records a day the user avoided the habit. A negative
// habit marked COMPLETED on a day breaks its streak.
func Streak(h models.Habit, today time.Time) (int, string) {
	good := GoodStatus(PolarityOf(h))
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	length := 0
	start := ""
	for h.History[day.Format(models.DateLayout)] == good {
		length++
		start = day.Format(models.DateLayout)
		day = day.AddDate(0, 0, -1)
	}
	return length, start
}

// LongestStreak returns the longest run of consecutive good days in h.
func LongestStreak(h models.Habit) int {
	good := GoodStatus(PolarityOf(h))
	longest := 0
	for date, status := range h.History {
		if status != good {
			continue
		}
		day, err := time.Parse(models.DateLayout, date)
		if err != nil {
			continue
		}
		// only count from the first day of each run
		if h.History[day.AddDate(0, 0, -1).Format(models.DateLayout)] == good {
			continue
		}
		run := 0
		for h.History[day.Format(models.DateLayout)] == good {
			run++
			day = day.AddDate(0, 0, 1)
		}
		longest = max(longest, run)
	}
	return longest
}

// HabitStats summarizes one habit over a window of days ending today.
type HabitStats struct {
	HabitID        string  `json:"habit_id"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	GoodDays       int     `json:"good_days"`
	BadDays        int     `json:"bad_days"`
	WindowDays     int     `json:"window_days"`
	CompletionRate float64 `json:"completion_rate"`
}

// Stats computes HabitStats for h over the last window days including today.
func Stats(h models.Habit, today time.Time, window int) HabitStats {
	polarity := PolarityOf(h)
	current, _ := Streak(h, today)
	stats := HabitStats{
		HabitID:       h.ID,
		CurrentStreak: current,
		LongestStreak: LongestStreak(h),
		WindowDays:    window,
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < window; i++ {
		switch MarkOf(polarity, h.History[day.Format(models.DateLayout)]) {
		case Good:
			stats.GoodDays++
		case Bad:
			stats.BadDays++
		}
		day = day.AddDate(0, 0, -1)
	}
	if window > 0 {
		stats.CompletionRate = float64(stats.GoodDays) / float64(window)
	}
	return stats
}
