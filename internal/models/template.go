package models

import "github.com/shopspring/decimal"

// SuggestedGoal is a goal offered during onboarding.
type SuggestedGoal struct {
	Title    string          `yaml:"title" json:"title"`
	Category string          `yaml:"category" json:"category"`
	Target   decimal.Decimal `yaml:"target" json:"target"`
	Unit     string          `yaml:"unit" json:"unit"`
}

// SuggestedHabit is a habit offered during onboarding.
type SuggestedHabit struct {
	Title      string        `yaml:"title" json:"title"`
	Category   HabitCategory `yaml:"category" json:"category"`
	IsNegative bool          `yaml:"is_negative" json:"is_negative"`
}

// OnboardingTemplate is a named bundle of suggestions.
type OnboardingTemplate struct {
	ID          string           `yaml:"id" json:"id"`
	Title       string           `yaml:"title" json:"title"`
	Description string           `yaml:"description" json:"description"`
	Goals       []SuggestedGoal  `yaml:"goals" json:"goals"`
	Habits      []SuggestedHabit `yaml:"habits" json:"habits"`
}

// OnboardingSelection is what a new user picked: template suggestions,
// possibly with edited targets, plus custom entries. A selection with only
// TemplateID takes the whole template.
type OnboardingSelection struct {
	TemplateID string           `json:"template_id,omitempty"`
	Goals      []SuggestedGoal  `json:"goals"`
	Habits     []SuggestedHabit `json:"habits"`
}
