package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/pkg/logger"
)

const habitColumns = "id, user_id, title, description, category, is_negative, created_at"

func (s *Store) CreateHabits(ctx context.Context, habits []models.Habit) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, h := range habits {
			_, err := s.txExec(ctx, tx,
				"INSERT INTO habits ("+habitColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
				h.ID, h.UserID, h.Title, h.Description, string(h.Category), h.IsNegative, encodeTime(h.CreatedAt))
			if err != nil {
				logger.Log.WithError(err).WithField("habit_id", h.ID).Error("Failed to insert habit")
				return fmt.Errorf("failed to insert habit: %w", err)
			}
			for date, status := range h.History {
				_, err := s.txExec(ctx, tx,
					"INSERT INTO habit_entries (habit_id, entry_date, status) VALUES (?, ?, ?)",
					h.ID, date, string(status))
				if err != nil {
					return fmt.Errorf("failed to insert habit entry: %w", err)
				}
			}
		}
		return nil
	})
}

func (s *Store) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	rows, err := s.query(ctx, "SELECT "+habitColumns+" FROM habits WHERE user_id = ? ORDER BY created_at, id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	index := map[string]int{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		index[h.ID] = len(habits)
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries, err := s.query(ctx, `
		SELECT e.habit_id, e.entry_date, e.status
		FROM habit_entries e JOIN habits h ON h.id = e.habit_id
		WHERE h.user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habit entries: %w", err)
	}
	defer entries.Close()

	for entries.Next() {
		var habitID, date, status string
		if err := entries.Scan(&habitID, &date, &status); err != nil {
			return nil, err
		}
		if i, ok := index[habitID]; ok {
			habits[i].History[date] = models.HabitStatus(status)
		}
	}
	return habits, entries.Err()
}

func (s *Store) GetHabit(ctx context.Context, id string) (*models.Habit, error) {
	h, err := scanHabit(s.queryRow(ctx, "SELECT "+habitColumns+" FROM habits WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, "SELECT entry_date, status FROM habit_entries WHERE habit_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habit entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var date, status string
		if err := rows.Scan(&date, &status); err != nil {
			return nil, err
		}
		h.History[date] = models.HabitStatus(status)
	}
	return &h, rows.Err()
}

func (s *Store) UpdateHabit(ctx context.Context, habit *models.Habit) error {
	return s.execOne(ctx,
		"UPDATE habits SET title = ?, description = ?, category = ?, is_negative = ? WHERE id = ?",
		habit.Title, habit.Description, string(habit.Category), habit.IsNegative, habit.ID)
}

func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	return s.execOne(ctx, "DELETE FROM habits WHERE id = ?", id)
}

func (s *Store) UpsertHabitEntry(ctx context.Context, habitID, date string, status *models.HabitStatus) error {
	var exists int
	err := s.queryRow(ctx, "SELECT 1 FROM habits WHERE id = ?", habitID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}

	if status == nil {
		_, err = s.exec(ctx, "DELETE FROM habit_entries WHERE habit_id = ? AND entry_date = ?", habitID, date)
	} else {
		_, err = s.exec(ctx, `
			INSERT INTO habit_entries (habit_id, entry_date, status) VALUES (?, ?, ?)
			ON CONFLICT (habit_id, entry_date) DO UPDATE SET status = excluded.status`,
			habitID, date, string(*status))
	}
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"habit_id": habitID,
			"date":     date,
		}).Error("Failed to write habit entry")
		return fmt.Errorf("failed to write habit entry: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var (
		h         models.Habit
		category  string
		createdAt string
	)
	if err := row.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &category, &h.IsNegative, &createdAt); err != nil {
		return h, err
	}
	t, err := decodeTime(createdAt)
	if err != nil {
		return h, err
	}
	h.Category = models.HabitCategory(category)
	h.CreatedAt = t
	h.History = map[string]models.HabitStatus{}
	return h, nil
}
