package sqlstore

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/pkg/logger"
)

const logColumns = "id, user_id, type, description, logged_at, reversible, reversed, related_id, amount, entry_date, status"

func (s *Store) AppendLog(ctx context.Context, entry models.ActivityLog) error {
	var amount decimal.NullDecimal
	if entry.Amount != nil {
		amount = decimal.NewNullDecimal(*entry.Amount)
	}
	_, err := s.exec(ctx,
		"INSERT INTO activity_logs ("+logColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, entry.UserID, string(entry.Type), entry.Description, encodeTime(entry.Timestamp),
		entry.Reversible, entry.Reversed, entry.RelatedID, amount, entry.Date, string(entry.Status))
	if err != nil {
		logger.Log.WithError(err).WithField("log_id", entry.ID).Error("Failed to insert activity")
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func (s *Store) ListActivityLog(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	return s.listLogs(ctx,
		"SELECT "+logColumns+" FROM activity_logs WHERE user_id = ? ORDER BY logged_at DESC LIMIT ?",
		userID, limit)
}

func (s *Store) ListFeed(ctx context.Context, userIDs []string, limit int) ([]models.ActivityLog, error) {
	if len(userIDs) == 0 {
		return []models.ActivityLog{}, nil
	}
	args := stringArgs(userIDs)
	args = append(args, string(models.ActivityHabit), string(models.ActivityGoal), false, limit)
	return s.listLogs(ctx,
		"SELECT "+logColumns+" FROM activity_logs WHERE user_id IN ("+placeholders(len(userIDs))+") "+
			"AND type IN (?, ?) AND reversed = ? ORDER BY logged_at DESC LIMIT ?",
		args...)
}

func (s *Store) listLogs(ctx context.Context, query string, args ...any) ([]models.ActivityLog, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	defer rows.Close()

	logs := []models.ActivityLog{}
	for rows.Next() {
		var (
			l            models.ActivityLog
			kind, status string
			loggedAt     string
			amount       decimal.NullDecimal
		)
		err := rows.Scan(&l.ID, &l.UserID, &kind, &l.Description, &loggedAt,
			&l.Reversible, &l.Reversed, &l.RelatedID, &amount, &l.Date, &status)
		if err != nil {
			return nil, err
		}
		if l.Timestamp, err = decodeTime(loggedAt); err != nil {
			return nil, err
		}
		l.Type = models.ActivityType(kind)
		l.Status = models.HabitStatus(status)
		if amount.Valid {
			v := amount.Decimal
			l.Amount = &v
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) MarkLogReversed(ctx context.Context, logID string) error {
	return s.execOne(ctx, "UPDATE activity_logs SET reversed = ? WHERE id = ? AND reversible = ?", true, logID, true)
}

func (s *Store) UpdateLogEntry(ctx context.Context, logID, description string, amount *decimal.Decimal) error {
	if amount == nil {
		return s.execOne(ctx,
			"UPDATE activity_logs SET description = ? WHERE id = ? AND reversed = ?",
			description, logID, false)
	}
	return s.execOne(ctx,
		"UPDATE activity_logs SET description = ?, amount = ? WHERE id = ? AND reversed = ?",
		description, *amount, logID, false)
}
