package models

import "time"

// DateLayout is the calendar-date format used for habit history keys, goal
// entries and deadlines.
const DateLayout = "2006-01-02"

// HabitStatus is the stored outcome of a habit on one day. A missing history
// key means the day was not logged.
type HabitStatus string

const (
	HabitCompleted HabitStatus = "COMPLETED"
	HabitFailed    HabitStatus = "FAILED"
)

// Valid reports whether s is one of the storable statuses.
func (s HabitStatus) Valid() bool {
	return s == HabitCompleted || s == HabitFailed
}

type HabitCategory string

const (
	CategoryHealth      HabitCategory = "Health"
	CategoryWork        HabitCategory = "Work"
	CategoryFitness     HabitCategory = "Fitness"
	CategoryMindfulness HabitCategory = "Mindfulness"
	CategoryCustom      HabitCategory = "Custom"
)

// AllowedHabitCategories lists the categories a habit may be created with.
var AllowedHabitCategories = map[HabitCategory]struct{}{
	CategoryHealth:      {},
	CategoryWork:        {},
	CategoryFitness:     {},
	CategoryMindfulness: {},
	CategoryCustom:      {},
}

// Habit is a recurring binary-outcome activity tracked per calendar day.
type Habit struct {
	ID          string                 `bson:"_id" json:"id"`
	UserID      string                 `bson:"user_id" json:"user_id"`
	Title       string                 `bson:"title" json:"title"`
	Description string                 `bson:"description,omitempty" json:"description,omitempty"`
	Category    HabitCategory          `bson:"category" json:"category"`
	IsNegative  bool                   `bson:"is_negative" json:"is_negative"`
	History     map[string]HabitStatus `bson:"history" json:"history"`
	CreatedAt   time.Time              `bson:"created_at" json:"created_at"`
}

// Clone returns a copy of h that does not share its history map.
func (h Habit) Clone() Habit {
	history := make(map[string]HabitStatus, len(h.History))
	for date, status := range h.History {
		history[date] = status
	}
	h.History = history
	return h
}
