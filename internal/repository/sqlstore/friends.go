package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
)

const requestColumns = "id, sender_id, receiver_id, status, created_at"

func (s *Store) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	if req.Status == "" {
		req.Status = models.FriendRequestPending
	}
	_, err := s.exec(ctx,
		"INSERT INTO friend_requests ("+requestColumns+") VALUES (?, ?, ?, ?, ?)",
		req.ID, req.SenderID, req.ReceiverID, req.Status, encodeTime(req.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to send friend request: %w", err)
	}
	return nil
}

func (s *Store) GetRequestByID(ctx context.Context, id string) (*models.FriendRequest, error) {
	return s.getRequest(ctx, "SELECT "+requestColumns+" FROM friend_requests WHERE id = ?", id)
}

func (s *Store) FindRequest(ctx context.Context, a, b string) (*models.FriendRequest, error) {
	return s.getRequest(ctx,
		"SELECT "+requestColumns+" FROM friend_requests WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?) ORDER BY created_at DESC LIMIT 1",
		a, b, b, a)
}

func (s *Store) getRequest(ctx context.Context, query string, args ...any) (*models.FriendRequest, error) {
	req, err := scanRequest(s.queryRow(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %w", err)
	}
	return &req, nil
}

func (s *Store) GetRequestsByReceiver(ctx context.Context, receiverID string) ([]models.FriendRequest, error) {
	rows, err := s.query(ctx,
		"SELECT "+requestColumns+" FROM friend_requests WHERE receiver_id = ? AND status = ? ORDER BY created_at",
		receiverID, models.FriendRequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %w", err)
	}
	defer rows.Close()

	requests := []models.FriendRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (s *Store) UpdateRequestStatus(ctx context.Context, id, status string) error {
	return s.execOne(ctx, "UPDATE friend_requests SET status = ? WHERE id = ?", status, id)
}

func (s *Store) GetFriends(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.query(ctx, `
		SELECT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
		FROM friend_requests
		WHERE (sender_id = ? OR receiver_id = ?) AND status = ?
		ORDER BY created_at`,
		userID, userID, userID, models.FriendRequestAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve friends: %w", err)
	}
	defer rows.Close()

	friends := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		friends = append(friends, id)
	}
	return friends, rows.Err()
}

func (s *Store) DeleteFriendship(ctx context.Context, a, b string) error {
	return s.execOne(ctx,
		"DELETE FROM friend_requests WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		a, b, b, a)
}

func scanRequest(row scanner) (models.FriendRequest, error) {
	var (
		req       models.FriendRequest
		createdAt string
	)
	if err := row.Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &createdAt); err != nil {
		return req, err
	}
	t, err := decodeTime(createdAt)
	req.CreatedAt = t
	return req, err
}
