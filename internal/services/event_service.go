package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const eventTimeLayout = "15:04"

// EventService manages group events and RSVPs.
type EventService struct {
	events   repository.EventStore
	users    repository.UserStore
	friends  *FriendService
	sessions *SessionManager
}

func NewEventService(events repository.EventStore, users repository.UserStore, friends *FriendService, sessions *SessionManager) *EventService {
	return &EventService{events: events, users: users, friends: friends, sessions: sessions}
}

// ListEvents returns the events userID organizes or was invited to.
func (s *EventService) ListEvents(ctx context.Context, userID string) ([]models.Event, error) {
	return s.events.ListEventsForUser(ctx, userID)
}

// CreateEvent stores a new event organized by userID, who attends it.
func (s *EventService) CreateEvent(ctx context.Context, userID string, event *models.Event) (*models.Event, error) {
	const op = "create event"

	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return nil, invalid(op, "title is required")
	}
	if _, err := time.Parse(models.DateLayout, event.Date); err != nil {
		return nil, invalid(op, "invalid date %q", event.Date)
	}
	if event.Time != "" {
		if _, err := time.Parse(eventTimeLayout, event.Time); err != nil {
			return nil, invalid(op, "invalid time %q", event.Time)
		}
	}

	organizer, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(op, "user %s not found", userID)
	}
	if err != nil {
		return nil, err
	}

	event.ID = uuid.NewString()
	event.OrganizerID = userID
	event.OrganizerName = organizer.Name
	event.RSVPs = map[string]models.RSVPStatus{userID: models.RSVPAttending}
	event.CreatedAt = time.Now()
	if err := s.events.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	record(ctx, s.sessions.Get(userID), models.ActivityEvent, fmt.Sprintf("Created event %q", event.Title), event.ID)

	logger.Log.WithFields(logrus.Fields{"userID": userID, "eventID": event.ID}).Info("Event created")
	return event, nil
}

// Invite adds friends of the organizer to the event. Users who already have
// an RSVP are left as they are.
func (s *EventService) Invite(ctx context.Context, userID, eventID string, friendIDs []string) (*models.Event, error) {
	const op = "invite to event"

	if len(friendIDs) == 0 {
		return nil, invalid(op, "friend_ids is required")
	}
	event, err := s.getEvent(ctx, op, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != userID {
		return nil, forbidden(op, "only the organizer can invite people")
	}

	invited := 0
	for _, friendID := range friendIDs {
		if _, ok := event.RSVPs[friendID]; ok {
			continue
		}
		friends, err := s.friends.AreFriends(ctx, userID, friendID)
		if err != nil {
			return nil, err
		}
		if !friends {
			return nil, invalid(op, "%s is not a friend", friendID)
		}
		if err := s.events.SetRSVP(ctx, eventID, friendID, models.RSVPInvited); err != nil {
			return nil, fmt.Errorf("failed to invite %s: %w", friendID, err)
		}
		if event.RSVPs == nil {
			event.RSVPs = map[string]models.RSVPStatus{}
		}
		event.RSVPs[friendID] = models.RSVPInvited
		invited++
	}
	record(ctx, s.sessions.Get(userID), models.ActivityEvent,
		fmt.Sprintf("Invited %d friend(s) to %q", invited, event.Title), eventID)
	return event, nil
}

// RSVP answers an invitation of userID to the event.
func (s *EventService) RSVP(ctx context.Context, userID, eventID string, attending bool) (*models.Event, error) {
	const op = "rsvp"

	event, err := s.getEvent(ctx, op, eventID)
	if err != nil {
		return nil, err
	}
	if _, ok := event.RSVPs[userID]; !ok {
		return nil, forbidden(op, "not invited to event %s", eventID)
	}

	status, verb := models.RSVPDeclined, "Declined"
	if attending {
		status, verb = models.RSVPAttending, "Attending"
	}
	if err := s.events.SetRSVP(ctx, eventID, userID, status); err != nil {
		return nil, fmt.Errorf("failed to rsvp: %w", err)
	}
	event.RSVPs[userID] = status
	record(ctx, s.sessions.Get(userID), models.ActivityEvent, fmt.Sprintf("%s event %q", verb, event.Title), eventID)
	return event, nil
}

func (s *EventService) getEvent(ctx context.Context, op, id string) (*models.Event, error) {
	event, err := s.events.GetEvent(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(op, "event %s not found", id)
	}
	return event, err
}
