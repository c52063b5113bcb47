package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/pkg/logger"
)

const goalColumns = "id, user_id, title, category, target, current_total, unit, deadline, created_at, updated_at"

func (s *Store) CreateGoals(ctx context.Context, goals []models.Goal) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, g := range goals {
			_, err := s.txExec(ctx, tx,
				"INSERT INTO goals ("+goalColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				g.ID, g.UserID, g.Title, g.Category, g.Target, g.Current, g.Unit, g.Deadline,
				encodeTime(g.CreatedAt), encodeTime(g.UpdatedAt))
			if err != nil {
				logger.Log.WithError(err).WithField("goal_id", g.ID).Error("Failed to insert goal")
				return fmt.Errorf("failed to insert goal: %w", err)
			}
			for i, e := range g.History {
				_, err := s.txExec(ctx, tx,
					"INSERT INTO goal_entries (id, goal_id, seq, entry_date, amount, log_id, reversed) VALUES (?, ?, ?, ?, ?, ?, ?)",
					e.ID, g.ID, i+1, e.Date, e.Amount, e.LogID, e.Reversed)
				if err != nil {
					return fmt.Errorf("failed to insert goal entry: %w", err)
				}
			}
		}
		return nil
	})
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	return s.listGoals(ctx, []string{userID})
}

func (s *Store) ListGoalsByUsers(ctx context.Context, userIDs []string) ([]models.Goal, error) {
	return s.listGoals(ctx, userIDs)
}

func (s *Store) listGoals(ctx context.Context, userIDs []string) ([]models.Goal, error) {
	goals := []models.Goal{}
	if len(userIDs) == 0 {
		return goals, nil
	}
	in := placeholders(len(userIDs))

	rows, err := s.query(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE user_id IN ("+in+") ORDER BY created_at, id",
		stringArgs(userIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}
	defer rows.Close()

	index := map[string]int{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		index[g.ID] = len(goals)
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries, err := s.query(ctx, `
		SELECT e.goal_id, e.id, e.entry_date, e.amount, e.log_id, e.reversed
		FROM goal_entries e JOIN goals g ON g.id = e.goal_id
		WHERE g.user_id IN (`+in+`)
		ORDER BY e.goal_id, e.seq`, stringArgs(userIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goal entries: %w", err)
	}
	defer entries.Close()

	for entries.Next() {
		var goalID string
		var e models.GoalEntry
		if err := entries.Scan(&goalID, &e.ID, &e.Date, &e.Amount, &e.LogID, &e.Reversed); err != nil {
			return nil, err
		}
		if i, ok := index[goalID]; ok {
			goals[i].History = append(goals[i].History, e)
		}
	}
	return goals, entries.Err()
}

func (s *Store) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	g, err := scanGoal(s.queryRow(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx,
		"SELECT id, entry_date, amount, log_id, reversed FROM goal_entries WHERE goal_id = ? ORDER BY seq", id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goal entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e models.GoalEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Amount, &e.LogID, &e.Reversed); err != nil {
			return nil, err
		}
		g.History = append(g.History, e)
	}
	return &g, rows.Err()
}

func (s *Store) UpdateGoal(ctx context.Context, id string, update models.GoalUpdate) (*models.Goal, error) {
	sets := []string{"updated_at = ?"}
	args := []any{encodeTime(time.Now())}
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Target != nil {
		sets = append(sets, "target = ?")
		args = append(args, *update.Target)
	}
	if update.Deadline != nil {
		sets = append(sets, "deadline = ?")
		args = append(args, *update.Deadline)
	}
	args = append(args, id)

	if err := s.execOne(ctx, "UPDATE goals SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return nil, err
	}
	return s.GetGoal(ctx, id)
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	return s.execOne(ctx, "DELETE FROM goals WHERE id = ?", id)
}

func (s *Store) AppendGoalEntry(ctx context.Context, goalID string, entry models.GoalEntry) (*models.Goal, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		// the total is summed here rather than in SQL so that SQLite, which
		// keeps NUMERIC values as REAL, never accumulates float error
		var current decimal.Decimal
		err := tx.QueryRowContext(ctx, s.rebind("SELECT current_total FROM goals WHERE id = ?"), goalID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := s.txExec(ctx, tx,
			"UPDATE goals SET current_total = ?, updated_at = ? WHERE id = ?",
			current.Add(entry.Amount), encodeTime(time.Now()), goalID); err != nil {
			return err
		}

		var seq int
		if err := tx.QueryRowContext(ctx, s.rebind("SELECT COALESCE(MAX(seq), 0) + 1 FROM goal_entries WHERE goal_id = ?"), goalID).Scan(&seq); err != nil {
			return err
		}
		_, err = s.txExec(ctx, tx,
			"INSERT INTO goal_entries (id, goal_id, seq, entry_date, amount, log_id, reversed) VALUES (?, ?, ?, ?, ?, ?, ?)",
			entry.ID, goalID, seq, entry.Date, entry.Amount, entry.LogID, entry.Reversed)
		return err
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Log.WithError(err).WithField("goal_id", goalID).Error("Failed to append goal entry")
		}
		return nil, err
	}
	return s.GetGoal(ctx, goalID)
}

func (s *Store) UpdateGoalEntry(ctx context.Context, goalID, entryID string, amount decimal.Decimal, reversed bool) error {
	return s.execOne(ctx,
		"UPDATE goal_entries SET amount = ?, reversed = ? WHERE goal_id = ? AND id = ?",
		amount, reversed, goalID, entryID)
}

func (s *Store) SetGoalCurrent(ctx context.Context, goalID string, current decimal.Decimal) error {
	return s.execOne(ctx,
		"UPDATE goals SET current_total = ?, updated_at = ? WHERE id = ?",
		current, encodeTime(time.Now()), goalID)
}

func scanGoal(row scanner) (models.Goal, error) {
	var (
		g                    models.Goal
		createdAt, updatedAt string
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Category, &g.Target, &g.Current, &g.Unit, &g.Deadline, &createdAt, &updatedAt)
	if err != nil {
		return g, err
	}
	if g.CreatedAt, err = decodeTime(createdAt); err != nil {
		return g, err
	}
	if g.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return g, err
	}
	g.History = []models.GoalEntry{}
	return g, nil
}
