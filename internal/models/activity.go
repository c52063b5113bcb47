package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ActivityType string

const (
	ActivityHabit  ActivityType = "habit"
	ActivityGoal   ActivityType = "goal"
	ActivitySystem ActivityType = "system"
	ActivityFriend ActivityType = "friend"
	ActivityEvent  ActivityType = "event"
)

// ActivityLog is one entry of a user's audit trail. Amount, Date and Status
// are the structured reversal fields; Description is display text.
type ActivityLog struct {
	ID          string           `bson:"_id" json:"id"`
	UserID      string           `bson:"user_id" json:"user_id"`
	Type        ActivityType     `bson:"type" json:"type"`
	Description string           `bson:"description" json:"description"`
	Timestamp   time.Time        `bson:"timestamp" json:"timestamp"`
	Reversible  bool             `bson:"reversible" json:"reversible"`
	Reversed    bool             `bson:"reversed" json:"reversed"`
	RelatedID   string           `bson:"related_id,omitempty" json:"related_id,omitempty"`
	Amount      *decimal.Decimal `bson:"amount,omitempty" json:"amount,omitempty"`
	Date        string           `bson:"date,omitempty" json:"date,omitempty"`
	Status      HabitStatus      `bson:"status,omitempty" json:"status,omitempty"`
}

// Clone returns a copy of l that does not share its amount pointer.
func (l ActivityLog) Clone() ActivityLog {
	if l.Amount != nil {
		amount := *l.Amount
		l.Amount = &amount
	}
	return l
}

// FeedItem is a friend's activity entry as shown in the shared feed.
type FeedItem struct {
	ID           string    `json:"id"`
	FriendID     string    `json:"friend_id"`
	FriendName   string    `json:"friend_name"`
	FriendAvatar string    `json:"friend_avatar"`
	Description  string    `json:"description"`
	Timestamp    time.Time `json:"timestamp"`
}
