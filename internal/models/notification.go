package models

import "time"

type NotificationType string

const (
	NotificationFriendRequest NotificationType = "friend_request"
	NotificationEventInvite   NotificationType = "event_invite"
	NotificationGoal          NotificationType = "goal"
	NotificationHabit         NotificationType = "habit"
)

// ActionData tells the consumer which entity a notification action targets.
type ActionData struct {
	FriendID string `json:"friend_id,omitempty"`
	EventID  string `json:"event_id,omitempty"`
}

// Notification is derived on every read and never persisted.
type Notification struct {
	ID         string           `json:"id"`
	Message    string           `json:"message"`
	Timestamp  time.Time        `json:"timestamp"`
	Read       bool             `json:"read"`
	Type       NotificationType `json:"type"`
	ActionType string           `json:"action_type,omitempty"`
	ActionData *ActionData      `json:"action_data,omitempty"`
}

type DismissalKind string

const (
	DismissalRead    DismissalKind = "read"
	DismissalCleared DismissalKind = "cleared"
)

// Dismissal records that a user read or cleared a derived notification.
type Dismissal struct {
	UserID         string        `bson:"user_id" json:"user_id"`
	NotificationID string        `bson:"notification_id" json:"notification_id"`
	Kind           DismissalKind `bson:"kind" json:"kind"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
	ExpiresAt      time.Time     `bson:"expires_at" json:"expires_at"` // pruned by the scheduler
}
