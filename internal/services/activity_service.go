package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Dias221467/HabitFlow/internal/engine"
	"github.com/Dias221467/HabitFlow/internal/models"
)

// TimelineQuery selects part of a user's activity log.
type TimelineQuery struct {
	Type  models.ActivityType
	Limit int
}

// ActivityService reads the activity log and drives edits and reversals.
type ActivityService struct {
	sessions *SessionManager
}

func NewActivityService(sessions *SessionManager) *ActivityService {
	return &ActivityService{sessions: sessions}
}

// Timeline returns the log of userID newest first, filtered by q.
func (s *ActivityService) Timeline(ctx context.Context, userID string, q TimelineQuery) ([]models.ActivityLog, error) {
	st, err := s.sessions.Get(userID).View(ctx)
	if err != nil {
		return nil, err
	}
	logs := engine.FilterLogs(st.Logs, q.Type)
	if q.Limit > 0 && len(logs) > q.Limit {
		logs = logs[:q.Limit]
	}
	return logs, nil
}

// GroupedTimeline returns Timeline grouped by calendar day.
func (s *ActivityService) GroupedTimeline(ctx context.Context, userID string, q TimelineQuery) ([]engine.DayGroup, error) {
	logs, err := s.Timeline(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	return engine.GroupByDate(logs, s.sessions.Location()), nil
}

// EditEntry corrects the amount of a goal progress entry.
func (s *ActivityService) EditEntry(ctx context.Context, userID, logID string, amount decimal.Decimal) (*Result, error) {
	return s.sessions.Get(userID).Apply(ctx, "edit progress entry", func(st engine.State, env engine.Env) (engine.Outcome, error) {
		return engine.EditProgressEntry(st, env, logID, amount)
	})
}

// ReverseEntry undoes a reversible log entry.
func (s *ActivityService) ReverseEntry(ctx context.Context, userID, logID string) (*Result, error) {
	return s.sessions.Get(userID).Apply(ctx, "reverse log entry", func(st engine.State, env engine.Env) (engine.Outcome, error) {
		return engine.ReverseProgressEntry(st, env, logID)
	})
}
