package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dias221467/HabitFlow/internal/engine"
	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultGoalCategory = "Custom"
	defaultGoalUnit     = "units"
)

// GoalService manages goals and their progress ledgers.
type GoalService struct {
	goals    repository.GoalStore
	sessions *SessionManager
}

func NewGoalService(goals repository.GoalStore, sessions *SessionManager) *GoalService {
	return &GoalService{goals: goals, sessions: sessions}
}

// ListGoals returns the goals of userID.
func (s *GoalService) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	st, err := s.sessions.Get(userID).View(ctx)
	if err != nil {
		return nil, err
	}
	return st.Goals, nil
}

// CreateGoal validates and stores a new goal for userID with no progress.
func (s *GoalService) CreateGoal(ctx context.Context, userID string, goal *models.Goal) (*models.Goal, error) {
	const op = "create goal"

	goal.Title = strings.TrimSpace(goal.Title)
	if goal.Title == "" {
		return nil, invalid(op, "title is required")
	}
	if !validTarget(goal.Target) {
		return nil, invalid(op, "target must be a positive number, got %s", goal.Target)
	}
	if err := validDeadline(goal.Deadline); err != nil {
		return nil, invalid(op, "%v", err)
	}
	if goal.Category == "" {
		goal.Category = defaultGoalCategory
	}
	if goal.Unit == "" {
		goal.Unit = defaultGoalUnit
	}
	now := time.Now()
	goal.ID = uuid.NewString()
	goal.UserID = userID
	goal.Current = decimal.Zero
	goal.History = []models.GoalEntry{}
	goal.CreatedAt = now
	goal.UpdatedAt = now

	session := s.sessions.Get(userID)
	err := session.Write(ctx, func(ctx context.Context) error {
		return s.goals.CreateGoals(ctx, []models.Goal{*goal})
	})
	if err != nil {
		logger.Log.WithError(err).WithField("userID", userID).Error("Failed to create goal")
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	record(ctx, session, models.ActivityGoal,
		fmt.Sprintf("Created goal %q: target %s %s", goal.Title, formatAmount(goal.Target), goal.Unit), goal.ID)

	logger.Log.WithFields(logrus.Fields{"userID": userID, "goalID": goal.ID}).Info("Goal created")
	return goal, nil
}

// UpdateGoal edits title, target or deadline of a goal owned by userID.
func (s *GoalService) UpdateGoal(ctx context.Context, userID, goalID string, update models.GoalUpdate) (*models.Goal, error) {
	const op = "update goal"

	session := s.sessions.Get(userID)
	st, err := session.View(ctx)
	if err != nil {
		return nil, err
	}
	existing, ok := st.Goal(goalID)
	if !ok {
		return nil, notFound(op, "goal %s not found", goalID)
	}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, invalid(op, "title is required")
		}
		update.Title = &title
	}
	if update.Target != nil && !validTarget(*update.Target) {
		return nil, invalid(op, "target must be a positive number, got %s", *update.Target)
	}
	if update.Deadline != nil {
		if err := validDeadline(*update.Deadline); err != nil {
			return nil, invalid(op, "%v", err)
		}
	}

	var updated *models.Goal
	err = session.Write(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.goals.UpdateGoal(ctx, goalID, update)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	title := existing.Title
	if update.Title != nil {
		title = *update.Title
	}
	record(ctx, session, models.ActivityGoal, fmt.Sprintf("Updated goal %q", title), goalID)
	return updated, nil
}

// DeleteGoal removes a goal owned by userID. Its log entries are kept.
func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	const op = "delete goal"

	session := s.sessions.Get(userID)
	st, err := session.View(ctx)
	if err != nil {
		return err
	}
	goal, ok := st.Goal(goalID)
	if !ok {
		return notFound(op, "goal %s not found", goalID)
	}

	err = session.Write(ctx, func(ctx context.Context) error {
		return s.goals.DeleteGoal(ctx, goalID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	record(ctx, session, models.ActivitySystem, fmt.Sprintf("Deleted goal %q", goal.Title), "")
	logger.Log.WithFields(logrus.Fields{"userID": userID, "goalID": goalID}).Info("Goal deleted")
	return nil
}

// AddProgress adds amount to the goal ledger.
func (s *GoalService) AddProgress(ctx context.Context, userID, goalID string, amount decimal.Decimal) (*Result, error) {
	return s.sessions.Get(userID).Apply(ctx, "add goal progress", func(st engine.State, env engine.Env) (engine.Outcome, error) {
		return engine.AddGoalProgress(st, env, goalID, amount)
	})
}

func validTarget(v decimal.Decimal) bool {
	return v.IsPositive()
}

func validDeadline(deadline string) error {
	if deadline == "" {
		return nil
	}
	if _, err := time.Parse(models.DateLayout, deadline); err != nil {
		return fmt.Errorf("invalid deadline %q", deadline)
	}
	return nil
}

func formatAmount(v decimal.Decimal) string {
	return v.String()
}
