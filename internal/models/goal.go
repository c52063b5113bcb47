package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// GoalEntry is one progress entry in a goal's ledger. Reversed entries stay
// in the history for auditing but no longer count towards Current.
type GoalEntry struct {
	ID       string          `bson:"id" json:"id"`
	Date     string          `bson:"date" json:"date"`
	Amount   decimal.Decimal `bson:"amount" json:"amount"`
	LogID    string          `bson:"log_id,omitempty" json:"log_id,omitempty"`
	Reversed bool            `bson:"reversed" json:"reversed"`
}

// Goal is a numeric target accumulated over time via progress entries.
type Goal struct {
	ID        string          `bson:"_id" json:"id"`
	UserID    string          `bson:"user_id" json:"user_id"`
	Title     string          `bson:"title" json:"title"`
	Category  string          `bson:"category" json:"category"`
	Target    decimal.Decimal `bson:"target" json:"target"`
	Current   decimal.Decimal `bson:"current" json:"current"`
	Unit      string          `bson:"unit" json:"unit"`
	Deadline  string          `bson:"deadline,omitempty" json:"deadline,omitempty"`
	History   []GoalEntry     `bson:"history" json:"history"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updated_at"`
}

// Reached reports whether Current has met a positive fraction of Target,
// e.g. Reached(decimal.NewFromInt(1)) for completion. It compares exactly.
func (g Goal) Reached(fraction decimal.Decimal) bool {
	if !g.Target.IsPositive() {
		return false
	}
	return g.Current.GreaterThanOrEqual(g.Target.Mul(fraction))
}

// Percent returns Current as a whole percentage of Target, rounded down.
func (g Goal) Percent() int64 {
	if !g.Target.IsPositive() {
		return 0
	}
	return g.Current.Mul(decimal.NewFromInt(100)).Div(g.Target).Floor().IntPart()
}

// Clone returns a copy of g that does not share its history slice.
func (g Goal) Clone() Goal {
	g.History = append([]GoalEntry(nil), g.History...)
	return g
}

// GoalUpdate carries the editable goal fields; nil fields are left unchanged.
type GoalUpdate struct {
	Title    *string          `json:"title,omitempty"`
	Target   *decimal.Decimal `json:"target,omitempty"`
	Deadline *string          `json:"deadline,omitempty"`
}
