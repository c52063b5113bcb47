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
	"github.com/sirupsen/logrus"
)

// HabitUpdate carries the editable habit fields; nil fields are left unchanged.
type HabitUpdate struct {
	Title       *string               `json:"title,omitempty"`
	Description *string               `json:"description,omitempty"`
	Category    *models.HabitCategory `json:"category,omitempty"`
}

// HabitService manages habits and their daily entries.
type HabitService struct {
	habits   repository.HabitStore
	sessions *SessionManager
}

func NewHabitService(habits repository.HabitStore, sessions *SessionManager) *HabitService {
	return &HabitService{habits: habits, sessions: sessions}
}

// ListHabits returns the habits of userID.
func (s *HabitService) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	st, err := s.sessions.Get(userID).View(ctx)
	if err != nil {
		return nil, err
	}
	return st.Habits, nil
}

// InsightsWindow is the number of days habit stats are computed over.
const InsightsWindow = 30

// Insights returns streak and completion stats for every habit of userID.
func (s *HabitService) Insights(ctx context.Context, userID string) ([]engine.HabitStats, error) {
	st, err := s.sessions.Get(userID).View(ctx)
	if err != nil {
		return nil, err
	}
	today := time.Now().In(s.sessions.Location())
	stats := make([]engine.HabitStats, 0, len(st.Habits))
	for _, h := range st.Habits {
		stats = append(stats, engine.Stats(h, today, InsightsWindow))
	}
	return stats, nil
}

// CreateHabit validates and stores a new habit for userID.
func (s *HabitService) CreateHabit(ctx context.Context, userID string, habit *models.Habit) (*models.Habit, error) {
	const op = "create habit"

	habit.Title = strings.TrimSpace(habit.Title)
	if habit.Title == "" {
		return nil, invalid(op, "title is required")
	}
	if habit.Category == "" {
		habit.Category = models.CategoryCustom
	}
	if _, ok := models.AllowedHabitCategories[habit.Category]; !ok {
		return nil, invalid(op, "unknown category %q", habit.Category)
	}
	habit.ID = uuid.NewString()
	habit.UserID = userID
	habit.History = map[string]models.HabitStatus{}
	habit.CreatedAt = time.Now()

	session := s.sessions.Get(userID)
	err := session.Write(ctx, func(ctx context.Context) error {
		return s.habits.CreateHabits(ctx, []models.Habit{*habit})
	})
	if err != nil {
		logger.Log.WithError(err).WithField("userID", userID).Error("Failed to create habit")
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}
	record(ctx, session, models.ActivityHabit, fmt.Sprintf("Created habit %q", habit.Title), habit.ID)

	logger.Log.WithFields(logrus.Fields{"userID": userID, "habitID": habit.ID}).Info("Habit created")
	return habit, nil
}

// UpdateHabit applies update to a habit owned by userID.
func (s *HabitService) UpdateHabit(ctx context.Context, userID, habitID string, update HabitUpdate) (*models.Habit, error) {
	const op = "update habit"

	session := s.sessions.Get(userID)
	st, err := session.View(ctx)
	if err != nil {
		return nil, err
	}
	habit, ok := st.Habit(habitID)
	if !ok {
		return nil, notFound(op, "habit %s not found", habitID)
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, invalid(op, "title is required")
		}
		habit.Title = title
	}
	if update.Description != nil {
		habit.Description = *update.Description
	}
	if update.Category != nil {
		if _, ok := models.AllowedHabitCategories[*update.Category]; !ok {
			return nil, invalid(op, "unknown category %q", *update.Category)
		}
		habit.Category = *update.Category
	}

	err = session.Write(ctx, func(ctx context.Context) error {
		return s.habits.UpdateHabit(ctx, &habit)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	record(ctx, session, models.ActivityHabit, fmt.Sprintf("Updated habit %q", habit.Title), habit.ID)
	return &habit, nil
}

// DeleteHabit removes a habit owned by userID. Its log entries are kept.
func (s *HabitService) DeleteHabit(ctx context.Context, userID, habitID string) error {
	const op = "delete habit"

	session := s.sessions.Get(userID)
	st, err := session.View(ctx)
	if err != nil {
		return err
	}
	habit, ok := st.Habit(habitID)
	if !ok {
		return notFound(op, "habit %s not found", habitID)
	}

	err = session.Write(ctx, func(ctx context.Context) error {
		return s.habits.DeleteHabit(ctx, habitID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	record(ctx, session, models.ActivityHabit, fmt.Sprintf("Deleted habit %q", habit.Title), "")
	logger.Log.WithFields(logrus.Fields{"userID": userID, "habitID": habitID}).Info("Habit deleted")
	return nil
}

// ToggleHabit advances the habit entry for date one step through its cycle.
func (s *HabitService) ToggleHabit(ctx context.Context, userID, habitID, date string) (*Result, error) {
	return s.sessions.Get(userID).Apply(ctx, "toggle habit", func(st engine.State, env engine.Env) (engine.Outcome, error) {
		return engine.ToggleHabit(st, env, habitID, date)
	})
}

// record appends a CRUD log entry. A failure here never fails the write it
// describes.
func record(ctx context.Context, session *Session, kind models.ActivityType, description, relatedID string) {
	res, err := session.Record(ctx, kind, description, relatedID)
	if err == nil {
		err = res.Wait(ctx)
	}
	if err != nil {
		logger.Log.WithError(err).WithField("description", description).Warn("Failed to record activity")
	}
}
