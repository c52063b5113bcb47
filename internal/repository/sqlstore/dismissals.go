package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
)

func (s *Store) Dismiss(ctx context.Context, d models.Dismissal) error {
	_, err := s.exec(ctx, `
		INSERT INTO notification_dismissals (user_id, notification_id, kind, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, notification_id) DO UPDATE SET kind = excluded.kind, expires_at = excluded.expires_at`,
		d.UserID, d.NotificationID, string(d.Kind), encodeTime(d.CreatedAt), encodeTime(d.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to store dismissal: %w", err)
	}
	return nil
}

func (s *Store) ListDismissals(ctx context.Context, userID string, now time.Time) ([]models.Dismissal, error) {
	rows, err := s.query(ctx, `
		SELECT user_id, notification_id, kind, created_at, expires_at
		FROM notification_dismissals
		WHERE user_id = ? AND expires_at > ?
		ORDER BY created_at DESC`, userID, encodeTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dismissals: %w", err)
	}
	defer rows.Close()

	dismissals := []models.Dismissal{}
	for rows.Next() {
		var (
			d                  models.Dismissal
			kind               string
			created, expiresAt string
		)
		if err := rows.Scan(&d.UserID, &d.NotificationID, &kind, &created, &expiresAt); err != nil {
			return nil, err
		}
		if d.CreatedAt, err = decodeTime(created); err != nil {
			return nil, err
		}
		if d.ExpiresAt, err = decodeTime(expiresAt); err != nil {
			return nil, err
		}
		d.Kind = models.DismissalKind(kind)
		dismissals = append(dismissals, d)
	}
	return dismissals, rows.Err()
}

func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.exec(ctx, "DELETE FROM notification_dismissals WHERE expires_at <= ?", encodeTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired dismissals: %w", err)
	}
	return result.RowsAffected()
}
