package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FeedLimit is the number of entries the friend feed returns.
const FeedLimit = 30

// FriendService handles friend requests, the friend list and the feed.
type FriendService struct {
	friends  repository.FriendStore
	users    repository.UserStore
	goals    repository.GoalStore
	activity repository.ActivityStore
	sessions *SessionManager
}

func NewFriendService(stores repository.Stores, sessions *SessionManager) *FriendService {
	return &FriendService{
		friends:  stores.Friends,
		users:    stores.Users,
		goals:    stores.Goals,
		activity: stores.Activity,
		sessions: sessions,
	}
}

// SendFriendRequest asks friendID to become a friend of userID. A pending
// request in the other direction is accepted instead.
func (s *FriendService) SendFriendRequest(ctx context.Context, userID, friendID string) (*models.PublicUser, error) {
	const op = "send friend request"

	if friendID == "" {
		return nil, invalid(op, "friend_id is required")
	}
	if friendID == userID {
		return nil, invalid(op, "cannot add yourself")
	}
	target, err := s.lookupUser(ctx, op, friendID)
	if err != nil {
		return nil, err
	}

	existing, err := s.friends.FindRequest(ctx, userID, friendID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		switch {
		case existing.Status == models.FriendRequestAccepted:
			return nil, forbidden(op, "already friends with %s", friendID)
		case existing.Status == models.FriendRequestPending && existing.SenderID == friendID:
			if _, err := s.AcceptFriendRequest(ctx, userID, friendID); err != nil {
				return nil, err
			}
			public := target.Public()
			return &public, nil
		case existing.Status == models.FriendRequestPending:
			public := target.Public()
			return &public, nil
		}
	}

	req := &models.FriendRequest{
		ID:         uuid.NewString(),
		SenderID:   userID,
		ReceiverID: friendID,
		Status:     models.FriendRequestPending,
	}
	if err := s.friends.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to send friend request: %w", err)
	}
	record(ctx, s.sessions.Get(userID), models.ActivityFriend, fmt.Sprintf("Sent friend request to %q", target.Name), friendID)

	logger.Log.WithFields(logrus.Fields{"from": userID, "to": friendID}).Info("Friend request sent")
	public := target.Public()
	return &public, nil
}

// PendingRequests returns the requests userID received and has not answered,
// oldest first, joined with their senders.
func (s *FriendService) PendingRequests(ctx context.Context, userID string) ([]models.PendingRequest, error) {
	requests, err := s.friends.GetRequestsByReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}
	senderIDs := make([]string, 0, len(requests))
	for _, r := range requests {
		senderIDs = append(senderIDs, r.SenderID)
	}
	senders, err := s.usersByID(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	pending := make([]models.PendingRequest, 0, len(requests))
	for _, r := range requests {
		sender, ok := senders[r.SenderID]
		if !ok {
			continue
		}
		public := sender.Public()
		pending = append(pending, models.PendingRequest{
			RequestID: r.ID,
			SenderID:  r.SenderID,
			Name:      public.Name,
			Email:     public.Email,
			AvatarURL: public.AvatarURL,
			CreatedAt: r.CreatedAt,
		})
	}
	return pending, nil
}

// AcceptFriendRequest accepts the pending request friendID sent to userID.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, friendID string) (*models.Friend, error) {
	const op = "accept friend request"

	req, err := s.pendingFrom(ctx, op, userID, friendID)
	if err != nil {
		return nil, err
	}
	if err := s.friends.UpdateRequestStatus(ctx, req.ID, models.FriendRequestAccepted); err != nil {
		return nil, fmt.Errorf("failed to accept friend request: %w", err)
	}

	sender, err := s.lookupUser(ctx, op, friendID)
	if err != nil {
		return nil, err
	}
	me, err := s.lookupUser(ctx, op, userID)
	if err != nil {
		return nil, err
	}
	record(ctx, s.sessions.Get(userID), models.ActivityFriend, fmt.Sprintf("Accepted friend request from %q", sender.Name), friendID)
	record(ctx, s.sessions.Get(friendID), models.ActivityFriend, fmt.Sprintf("%s accepted your friend request", me.Name), userID)

	goals, err := s.goals.ListGoals(ctx, friendID)
	if err != nil {
		return nil, err
	}
	friend := toFriend(*sender, goals)
	return &friend, nil
}

// RejectFriendRequest declines the pending request friendID sent to userID.
func (s *FriendService) RejectFriendRequest(ctx context.Context, userID, friendID string) error {
	const op = "reject friend request"

	req, err := s.pendingFrom(ctx, op, userID, friendID)
	if err != nil {
		return err
	}
	if err := s.friends.UpdateRequestStatus(ctx, req.ID, models.FriendRequestRejected); err != nil {
		return fmt.Errorf("failed to reject friend request: %w", err)
	}

	name := "Unknown"
	if sender, err := s.users.GetUserByID(ctx, friendID); err == nil {
		name = sender.Name
	}
	record(ctx, s.sessions.Get(userID), models.ActivityFriend, fmt.Sprintf("Declined friend request from %q", name), friendID)
	return nil
}

// RemoveFriend ends the friendship between userID and friendID.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	const op = "remove friend"

	err := s.friends.DeleteFriendship(ctx, userID, friendID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(op, "no friendship with %s", friendID)
	}
	if err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}

	name := "a friend"
	if friend, err := s.users.GetUserByID(ctx, friendID); err == nil {
		name = fmt.Sprintf("%q", friend.Name)
	}
	record(ctx, s.sessions.Get(userID), models.ActivityFriend, fmt.Sprintf("Removed %s from friends", name), friendID)
	return nil
}

// GetFriends returns the accepted friends of userID with their goals.
// Goal ledgers are not shared.
func (s *FriendService) GetFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	ids, err := s.friends.GetFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	goals, err := s.goals.ListGoalsByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	byOwner := map[string][]models.Goal{}
	for _, g := range goals {
		byOwner[g.UserID] = append(byOwner[g.UserID], g)
	}

	friends := make([]models.Friend, 0, len(ids))
	for _, id := range ids {
		u, ok := users[id]
		if !ok {
			continue
		}
		friends = append(friends, toFriend(u, byOwner[id]))
	}
	return friends, nil
}

// Feed returns the latest habit and goal activity of userID's friends.
func (s *FriendService) Feed(ctx context.Context, userID string) ([]models.FeedItem, error) {
	ids, err := s.friends.GetFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.activity.ListFeed(ctx, ids, FeedLimit)
	if err != nil {
		return nil, err
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	feed := make([]models.FeedItem, 0, len(logs))
	for _, l := range logs {
		u, ok := users[l.UserID]
		if !ok {
			continue
		}
		public := u.Public()
		feed = append(feed, models.FeedItem{
			ID:           l.ID,
			FriendID:     l.UserID,
			FriendName:   public.Name,
			FriendAvatar: public.AvatarURL,
			Description:  l.Description,
			Timestamp:    l.Timestamp,
		})
	}
	return feed, nil
}

// AreFriends reports whether a and b have an accepted request between them.
func (s *FriendService) AreFriends(ctx context.Context, a, b string) (bool, error) {
	req, err := s.friends.FindRequest(ctx, a, b)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return req.Status == models.FriendRequestAccepted, nil
}

func (s *FriendService) pendingFrom(ctx context.Context, op, userID, senderID string) (*models.FriendRequest, error) {
	if senderID == "" {
		return nil, invalid(op, "friend_id is required")
	}
	req, err := s.friends.FindRequest(ctx, senderID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(op, "no pending request from %s", senderID)
	}
	if err != nil {
		return nil, err
	}
	if req.Status != models.FriendRequestPending || req.SenderID != senderID {
		return nil, notFound(op, "no pending request from %s", senderID)
	}
	return req, nil
}

func (s *FriendService) lookupUser(ctx context.Context, op, id string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(op, "user %s not found", id)
	}
	return user, err
}

func (s *FriendService) usersByID(ctx context.Context, ids []string) (map[string]models.User, error) {
	byID := map[string]models.User{}
	if len(ids) == 0 {
		return byID, nil
	}
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func toFriend(u models.User, goals []models.Goal) models.Friend {
	shared := make([]models.Goal, 0, len(goals))
	for _, g := range goals {
		g.History = []models.GoalEntry{}
		shared = append(shared, g)
	}
	return models.Friend{
		PublicUser: u.Public(),
		LastActive: u.LastActiveAt,
		Goals:      shared,
	}
}
