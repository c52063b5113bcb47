package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/pkg/logger"
)

const userColumns = "id, name, email, avatar_url, hashed_password, role, last_active_at, created_at, updated_at"

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.LastActiveAt.IsZero() {
		user.LastActiveAt = now
	}
	_, err := s.exec(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.AvatarURL, user.HashedPassword, user.Role,
		encodeTime(user.LastActiveAt), encodeTime(user.CreatedAt), encodeTime(user.UpdatedAt))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert user into database")
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (s *Store) getUser(ctx context.Context, query string, args ...any) (*models.User, error) {
	user, err := scanUser(s.queryRow(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return s.listUsers(ctx,
		"SELECT "+userColumns+" FROM users WHERE id IN ("+placeholders(len(ids))+") ORDER BY name",
		stringArgs(ids)...)
}

func (s *Store) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return s.listUsers(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\' ORDER BY name LIMIT ?",
		pattern, pattern, limit)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *Store) listUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) UpdateProfile(ctx context.Context, id, name, avatarURL string) error {
	return s.execOne(ctx,
		"UPDATE users SET name = ?, avatar_url = ?, updated_at = ? WHERE id = ?",
		name, avatarURL, encodeTime(time.Now()), id)
}

func (s *Store) UpdateLastActive(ctx context.Context, id string, at time.Time) error {
	_, err := s.exec(ctx, "UPDATE users SET last_active_at = ? WHERE id = ?", encodeTime(at), id)
	return err
}

// DeleteUser relies on ON DELETE CASCADE for everything the user owns.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := s.execOne(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
		return err
	}
	logger.Log.WithField("user_id", id).Info("User deleted successfully")
	return nil
}

func scanUser(row scanner) (models.User, error) {
	var (
		u                              models.User
		lastActive, created, updated string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.HashedPassword, &u.Role, &lastActive, &created, &updated)
	if err != nil {
		return u, err
	}
	if u.LastActiveAt, err = decodeTime(lastActive); err != nil {
		return u, err
	}
	if u.CreatedAt, err = decodeTime(created); err != nil {
		return u, err
	}
	u.UpdatedAt, err = decodeTime(updated)
	return u, err
}
