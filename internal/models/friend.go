package models

import "time"

const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestRejected = "rejected"
)

type FriendRequest struct {
	ID         string    `bson:"_id" json:"id"`
	SenderID   string    `bson:"sender_id" json:"sender_id"`
	ReceiverID string    `bson:"receiver_id" json:"receiver_id"`
	Status     string    `bson:"status" json:"status"` // "pending", "accepted", "rejected"
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// PendingRequest is an incoming friend request joined with its sender.
type PendingRequest struct {
	RequestID string    `json:"request_id"`
	SenderID  string    `json:"sender_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Friend is an accepted friend with their goals.
type Friend struct {
	PublicUser
	LastActive time.Time `json:"last_active"`
	Goals      []Goal    `json:"goals"`
}
