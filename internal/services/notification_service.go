package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/HabitFlow/internal/engine"
	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/pkg/logger"
)

// NotificationService derives notifications on every read and persists
// which of them were read or cleared.
type NotificationService struct {
	dismissals repository.DismissalStore
	friends    *FriendService
	events     *EventService
	sessions   *SessionManager
	ttl        time.Duration

	// Now is the clock used for projection and dismissal expiry.
	Now func() time.Time
}

func NewNotificationService(dismissals repository.DismissalStore, friends *FriendService, events *EventService, sessions *SessionManager, ttl time.Duration) *NotificationService {
	return &NotificationService{
		dismissals: dismissals,
		friends:    friends,
		events:     events,
		sessions:   sessions,
		ttl:        ttl,
		Now:        time.Now,
	}
}

// GetNotifications returns the current notifications of userID without the
// cleared ones.
func (s *NotificationService) GetNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	now := s.Now()
	projected, err := s.project(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	dismissals, err := s.dismissals.ListDismissals(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load dismissals: %w", err)
	}
	return engine.ApplyDismissals(projected, dismissals), nil
}

// MarkRead marks a notification as read. A cleared notification stays
// cleared.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	now := s.Now()
	dismissals, err := s.dismissals.ListDismissals(ctx, userID, now)
	if err != nil {
		return fmt.Errorf("failed to load dismissals: %w", err)
	}
	for _, d := range dismissals {
		if d.NotificationID == notificationID && d.Kind == models.DismissalCleared {
			return nil
		}
	}
	return s.dismiss(ctx, userID, notificationID, models.DismissalRead, now)
}

// Clear hides a notification.
func (s *NotificationService) Clear(ctx context.Context, userID, notificationID string) error {
	return s.dismiss(ctx, userID, notificationID, models.DismissalCleared, s.Now())
}

// PruneExpired deletes dismissals past their expiry.
func (s *NotificationService) PruneExpired(ctx context.Context) (int64, error) {
	n, err := s.dismissals.DeleteExpired(ctx, s.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to prune dismissals: %w", err)
	}
	logger.Log.WithField("deleted", n).Info("Pruned expired dismissals")
	return n, nil
}

func (s *NotificationService) dismiss(ctx context.Context, userID, notificationID string, kind models.DismissalKind, now time.Time) error {
	if notificationID == "" {
		return invalid("dismiss notification", "notification id is required")
	}
	err := s.dismissals.Dismiss(ctx, models.Dismissal{
		UserID:         userID,
		NotificationID: notificationID,
		Kind:           kind,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.ttl),
	})
	if err != nil {
		return fmt.Errorf("failed to dismiss notification: %w", err)
	}
	return nil
}

func (s *NotificationService) project(ctx context.Context, userID string, now time.Time) ([]models.Notification, error) {
	st, err := s.sessions.Get(userID).View(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.friends.PendingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListEvents(ctx, userID)
	if err != nil {
		return nil, err
	}
	return engine.Project(engine.ProjectionInput{
		UserID:   userID,
		Habits:   st.Habits,
		Goals:    st.Goals,
		Requests: requests,
		Events:   events,
		Now:      now,
		Location: s.sessions.Location(),
	}), nil
}
