package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
)

const eventColumns = "e.id, e.organizer_id, COALESCE(u.name, ''), e.title, e.description, e.location, e.event_date, e.event_time, e.created_at"

func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := s.txExec(ctx, tx,
			"INSERT INTO events (id, organizer_id, title, description, location, event_date, event_time, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			event.ID, event.OrganizerID, event.Title, event.Description, event.Location, event.Date, event.Time, encodeTime(event.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		for userID, status := range event.RSVPs {
			if _, err := s.txExec(ctx, tx,
				"INSERT INTO event_rsvps (event_id, user_id, status) VALUES (?, ?, ?)",
				event.ID, userID, string(status)); err != nil {
				return fmt.Errorf("failed to add rsvp: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	events, err := s.listEvents(ctx, "e.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, repository.ErrNotFound
	}
	return &events[0], nil
}

func (s *Store) ListEventsForUser(ctx context.Context, userID string) ([]models.Event, error) {
	return s.listEvents(ctx,
		"e.organizer_id = ? OR e.id IN (SELECT event_id FROM event_rsvps WHERE user_id = ?)",
		userID, userID)
}

func (s *Store) listEvents(ctx context.Context, where string, args ...any) ([]models.Event, error) {
	rows, err := s.query(ctx,
		"SELECT "+eventColumns+" FROM events e LEFT JOIN users u ON u.id = e.organizer_id WHERE "+where+
			" ORDER BY e.event_date, e.event_time, e.id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	index := map[string]int{}
	for rows.Next() {
		var (
			e         models.Event
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.OrganizerID, &e.OrganizerName, &e.Title, &e.Description,
			&e.Location, &e.Date, &e.Time, &createdAt); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		e.RSVPs = map[string]models.RSVPStatus{}
		index[e.ID] = len(events)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return events, nil
	}

	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	rsvps, err := s.query(ctx,
		"SELECT event_id, user_id, status FROM event_rsvps WHERE event_id IN ("+placeholders(len(ids))+")",
		stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rsvps: %w", err)
	}
	defer rsvps.Close()
	for rsvps.Next() {
		var eventID, userID, status string
		if err := rsvps.Scan(&eventID, &userID, &status); err != nil {
			return nil, err
		}
		events[index[eventID]].RSVPs[userID] = models.RSVPStatus(status)
	}
	return events, rsvps.Err()
}

func (s *Store) SetRSVP(ctx context.Context, eventID, userID string, status models.RSVPStatus) error {
	var exists int
	err := s.queryRow(ctx, "SELECT 1 FROM events WHERE id = ?", eventID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = s.exec(ctx, `
		INSERT INTO event_rsvps (event_id, user_id, status) VALUES (?, ?, ?)
		ON CONFLICT (event_id, user_id) DO UPDATE SET status = excluded.status`,
		eventID, userID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update rsvp: %w", err)
	}
	return nil
}
