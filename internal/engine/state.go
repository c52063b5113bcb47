package engine

import (
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is one user's in-memory view. Logs are kept newest first.
type State struct {
	UserID string
	Habits []models.Habit
	Goals  []models.Goal
	Logs   []models.ActivityLog
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		UserID: s.UserID,
		Habits: make([]models.Habit, len(s.Habits)),
		Goals:  make([]models.Goal, len(s.Goals)),
		Logs:   make([]models.ActivityLog, len(s.Logs)),
	}
	for i, h := range s.Habits {
		out.Habits[i] = h.Clone()
	}
	for i, g := range s.Goals {
		out.Goals[i] = g.Clone()
	}
	for i, l := range s.Logs {
		out.Logs[i] = l.Clone()
	}
	return out
}

func (s State) habitIndex(id string) int {
	for i := range s.Habits {
		if s.Habits[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) goalIndex(id string) int {
	for i := range s.Goals {
		if s.Goals[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) logIndex(id string) int {
	for i := range s.Logs {
		if s.Logs[i].ID == id {
			return i
		}
	}
	return -1
}

// Habit returns the habit with the given id.
func (s State) Habit(id string) (models.Habit, bool) {
	if i := s.habitIndex(id); i >= 0 {
		return s.Habits[i], true
	}
	return models.Habit{}, false
}

// Goal returns the goal with the given id.
func (s State) Goal(id string) (models.Goal, bool) {
	if i := s.goalIndex(id); i >= 0 {
		return s.Goals[i], true
	}
	return models.Goal{}, false
}

// Log returns the activity entry with the given id.
func (s State) Log(id string) (models.ActivityLog, bool) {
	if i := s.logIndex(id); i >= 0 {
		return s.Logs[i], true
	}
	return models.ActivityLog{}, false
}

// Env carries the inputs an operation needs besides state.
type Env struct {
	Now      time.Time
	Location *time.Location
	NewID    func() string
}

// DefaultEnv returns an Env for the current time in loc with uuid ids.
func DefaultEnv(loc *time.Location) Env {
	if loc == nil {
		loc = time.UTC
	}
	return Env{Now: time.Now().In(loc), Location: loc, NewID: uuid.NewString}
}

func (e Env) loc() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

// Today returns the calendar date of Now in the env location.
func (e Env) Today() string {
	return e.Now.In(e.loc()).Format(models.DateLayout)
}

func (e Env) id() string {
	if e.NewID == nil {
		return uuid.NewString()
	}
	return e.NewID()
}

// Effect is a persistence call the caller must confirm against the store
// after an outcome has been applied to the in-memory view.
type Effect interface {
	effect()
}

// UpsertHabitEntry writes Status for (HabitID, Date), or clears the entry
// when Status is nil.
type UpsertHabitEntry struct {
	HabitID string
	Date    string
	Status  *models.HabitStatus
}

// AppendGoalEntry appends Entry to the goal ledger and adds its amount to
// the stored total.
type AppendGoalEntry struct {
	GoalID string
	Entry  models.GoalEntry
}

type UpdateGoalEntry struct {
	GoalID   string
	EntryID  string
	Amount   decimal.Decimal
	Reversed bool
}

type SetGoalCurrent struct {
	GoalID  string
	Current decimal.Decimal
}

type AppendLog struct {
	Entry models.ActivityLog
}

type MarkLogReversed struct {
	LogID string
}

type UpdateLogEntry struct {
	LogID       string
	Description string
	Amount      *decimal.Decimal
}

func (UpsertHabitEntry) effect() {}
func (AppendGoalEntry) effect()  {}
func (UpdateGoalEntry) effect()  {}
func (SetGoalCurrent) effect()   {}
func (AppendLog) effect()        {}
func (MarkLogReversed) effect()  {}
func (UpdateLogEntry) effect()   {}

// Outcome is the result of an accepted operation: the next state, the
// effects that persist it, and any soft warnings.
type Outcome struct {
	State    State
	Effects  []Effect
	Warnings []Warning
	Entry    *models.ActivityLog
}

func (o *Outcome) emit(e Effect) {
	o.Effects = append(o.Effects, e)
}

func (o *Outcome) warn(w Warning) {
	o.Warnings = append(o.Warnings, w)
}

// prependLog adds entry as the newest log and records the append effect.
func (o *Outcome) prependLog(entry models.ActivityLog) {
	o.State.Logs = append([]models.ActivityLog{entry}, o.State.Logs...)
	o.emit(AppendLog{Entry: entry})
	logged := entry.Clone()
	o.Entry = &logged
}

// RecordActivity appends a non-reversible entry, e.g. a CRUD or friend
// action, to the log.
func RecordActivity(st State, env Env, kind models.ActivityType, description, relatedID string) Outcome {
	out := Outcome{State: st.Clone()}
	out.prependLog(models.ActivityLog{
		ID:          env.id(),
		UserID:      st.UserID,
		Type:        kind,
		Description: description,
		Timestamp:   env.Now,
		RelatedID:   relatedID,
	})
	return out
}
