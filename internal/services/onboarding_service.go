package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OnboardingResult is what onboarding created.
type OnboardingResult struct {
	Habits []models.Habit `json:"habits"`
	Goals  []models.Goal  `json:"goals"`
}

// OnboardingService offers starter templates and bulk-creates the picked
// habits and goals.
type OnboardingService struct {
	templates *repository.TemplateRepository
	habits    repository.HabitStore
	goals     repository.GoalStore
	sessions  *SessionManager
}

func NewOnboardingService(templates *repository.TemplateRepository, habits repository.HabitStore, goals repository.GoalStore, sessions *SessionManager) *OnboardingService {
	return &OnboardingService{templates: templates, habits: habits, goals: goals, sessions: sessions}
}

// Templates returns the starter templates.
func (s *OnboardingService) Templates() []models.OnboardingTemplate {
	return s.templates.GetAllTemplates()
}

// Onboard creates the selected habits and goals for a user who has neither.
// Goals get a deadline of December 31 of the current year.
func (s *OnboardingService) Onboard(ctx context.Context, userID string, sel models.OnboardingSelection) (*OnboardingResult, error) {
	const op = "onboard"

	if sel.TemplateID != "" && len(sel.Goals) == 0 && len(sel.Habits) == 0 {
		tmpl, err := s.templates.GetTemplateByID(sel.TemplateID)
		if err != nil {
			return nil, notFound(op, "template %s not found", sel.TemplateID)
		}
		sel.Goals, sel.Habits = tmpl.Goals, tmpl.Habits
	}
	if len(sel.Goals) == 0 && len(sel.Habits) == 0 {
		return nil, invalid(op, "select at least one habit or goal")
	}

	session := s.sessions.Get(userID)
	st, err := session.View(ctx)
	if err != nil {
		return nil, err
	}
	if len(st.Habits) > 0 || len(st.Goals) > 0 {
		return nil, forbidden(op, "user already has habits or goals")
	}

	now := time.Now().In(s.sessions.Location())
	deadline := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC).Format(models.DateLayout)

	result := &OnboardingResult{Habits: []models.Habit{}, Goals: []models.Goal{}}
	for _, h := range sel.Habits {
		title := strings.TrimSpace(h.Title)
		if title == "" {
			return nil, invalid(op, "habit title is required")
		}
		category := h.Category
		if category == "" {
			category = models.CategoryCustom
		}
		if _, ok := models.AllowedHabitCategories[category]; !ok {
			return nil, invalid(op, "unknown category %q", category)
		}
		result.Habits = append(result.Habits, models.Habit{
			ID:         uuid.NewString(),
			UserID:     userID,
			Title:      title,
			Category:   category,
			IsNegative: h.IsNegative,
			History:    map[string]models.HabitStatus{},
			CreatedAt:  now,
		})
	}
	for _, g := range sel.Goals {
		title := strings.TrimSpace(g.Title)
		if title == "" {
			return nil, invalid(op, "goal title is required")
		}
		if !validTarget(g.Target) {
			return nil, invalid(op, "target of %q must be a positive number", title)
		}
		goal := models.Goal{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     title,
			Category:  g.Category,
			Target:    g.Target,
			Unit:      g.Unit,
			Deadline:  deadline,
			History:   []models.GoalEntry{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if goal.Category == "" {
			goal.Category = defaultGoalCategory
		}
		if goal.Unit == "" {
			goal.Unit = defaultGoalUnit
		}
		result.Goals = append(result.Goals, goal)
	}

	err = session.Write(ctx, func(ctx context.Context) error {
		if err := s.habits.CreateHabits(ctx, result.Habits); err != nil {
			return err
		}
		return s.goals.CreateGoals(ctx, result.Goals)
	})
	if err != nil {
		logger.Log.WithError(err).WithField("userID", userID).Error("Onboarding failed")
		return nil, fmt.Errorf("failed to create onboarding selection: %w", err)
	}
	record(ctx, session, models.ActivitySystem,
		fmt.Sprintf("Started with %d habit(s) and %d goal(s)", len(result.Habits), len(result.Goals)), "")

	logger.Log.WithFields(logrus.Fields{
		"userID": userID,
		"habits": len(result.Habits),
		"goals":  len(result.Goals),
	}).Info("User onboarded")
	return result, nil
}
