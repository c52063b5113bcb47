package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dias221467/HabitFlow/internal/models"
)

// StreakMilestone is the streak length that earns a milestone message.
const StreakMilestone = 7

var (
	// NearCompletion is the progress ratio that earns an encouragement message.
	NearCompletion = decimal.RequireFromString("0.75")

	complete = decimal.NewFromInt(1)
)

// ProjectionInput is everything the projector reads.
type ProjectionInput struct {
	UserID   string
	Habits   []models.Habit
	Goals    []models.Goal
	Requests []models.PendingRequest
	Events   []models.Event
	Now      time.Time
	Location *time.Location
}

// Project derives the notification list for one user. It keeps no state:
// the same input always yields the same notifications with the same ids, so
// callers can suppress repeats with a set of dismissed ids.
//
// Order: friend requests, event invites, goals, habits.
func Project(in ProjectionInput) []models.Notification {
	var out []models.Notification
	seen := map[string]bool{}
	add := func(n models.Notification) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		out = append(out, n)
	}

	for _, r := range in.Requests {
		add(models.Notification{
			ID:         "friend-request-" + r.RequestID,
			Message:    fmt.Sprintf("%s sent you a friend request", r.Name),
			Timestamp:  r.CreatedAt,
			Type:       models.NotificationFriendRequest,
			ActionType: string(models.NotificationFriendRequest),
			ActionData: &models.ActionData{FriendID: r.SenderID},
		})
	}

	for _, e := range in.Events {
		if e.RSVPs[in.UserID] != models.RSVPInvited {
			continue
		}
		add(models.Notification{
			ID:         "event-invite-" + e.ID,
			Message:    fmt.Sprintf("%s invited you to %q on %s", e.OrganizerName, e.Title, e.Date),
			Timestamp:  e.CreatedAt,
			Type:       models.NotificationEventInvite,
			ActionType: string(models.NotificationEventInvite),
			ActionData: &models.ActionData{EventID: e.ID},
		})
	}

	for _, g := range in.Goals {
		switch {
		case g.Reached(complete):
			add(models.Notification{
				ID:        "goal-complete-" + g.ID,
				Message:   fmt.Sprintf("🎉 You reached your goal %q: %s %s!", g.Title, formatAmount(g.Target), g.Unit),
				Timestamp: in.Now,
				Type:      models.NotificationGoal,
			})
		case g.Reached(NearCompletion):
			add(models.Notification{
				ID:        "goal-near-" + g.ID,
				Message:   fmt.Sprintf("Almost there! %q is %d%% complete", g.Title, g.Percent()),
				Timestamp: in.Now,
				Type:      models.NotificationGoal,
			})
		}
	}

	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, h := range in.Habits {
		length, start := Streak(h, in.Now.In(loc))
		if length < StreakMilestone {
			continue
		}
		add(models.Notification{
			ID:        "habit-streak-" + h.ID + "-" + start,
			Message:   fmt.Sprintf("🔥 %d-day streak on %q!", length, h.Title),
			Timestamp: in.Now,
			Type:      models.NotificationHabit,
		})
	}

	return out
}

// ApplyDismissals marks read notifications and drops cleared ones.
func ApplyDismissals(notifications []models.Notification, dismissals []models.Dismissal) []models.Notification {
	read := map[string]bool{}
	cleared := map[string]bool{}
	for _, d := range dismissals {
		switch d.Kind {
		case models.DismissalRead:
			read[d.NotificationID] = true
		case models.DismissalCleared:
			cleared[d.NotificationID] = true
		}
	}

	visible := []models.Notification{}
	for _, n := range notifications {
		if cleared[n.ID] {
			continue
		}
		n.Read = read[n.ID]
		visible = append(visible, n)
	}
	return visible
}
