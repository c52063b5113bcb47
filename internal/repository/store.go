package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dias221467/HabitFlow/internal/models"
)

// ErrNotFound is returned when the addressed row or document does not exist.
var ErrNotFound = errors.New("not found")

// HabitStore persists habits and their per-day entries.
type HabitStore interface {
	CreateHabits(ctx context.Context, habits []models.Habit) error
	ListHabits(ctx context.Context, userID string) ([]models.Habit, error)
	GetHabit(ctx context.Context, id string) (*models.Habit, error)
	UpdateHabit(ctx context.Context, habit *models.Habit) error
	DeleteHabit(ctx context.Context, id string) error

	// UpsertHabitEntry writes status for (habitID, date), or clears the
	// entry when status is nil. Writing the same value twice is a no-op.
	UpsertHabitEntry(ctx context.Context, habitID, date string, status *models.HabitStatus) error
}

// GoalStore persists goals and their progress ledgers.
type GoalStore interface {
	CreateGoals(ctx context.Context, goals []models.Goal) error
	ListGoals(ctx context.Context, userID string) ([]models.Goal, error)
	ListGoalsByUsers(ctx context.Context, userIDs []string) ([]models.Goal, error)
	GetGoal(ctx context.Context, id string) (*models.Goal, error)
	UpdateGoal(ctx context.Context, id string, update models.GoalUpdate) (*models.Goal, error)
	DeleteGoal(ctx context.Context, id string) error

	// AppendGoalEntry appends entry to the ledger, adds its amount to the
	// stored total and returns the updated goal.
	AppendGoalEntry(ctx context.Context, goalID string, entry models.GoalEntry) (*models.Goal, error)
	UpdateGoalEntry(ctx context.Context, goalID, entryID string, amount decimal.Decimal, reversed bool) error
	SetGoalCurrent(ctx context.Context, goalID string, current decimal.Decimal) error
}

// ActivityStore persists the activity log.
type ActivityStore interface {
	AppendLog(ctx context.Context, entry models.ActivityLog) error

	// ListActivityLog returns at most limit entries of userID, newest first.
	ListActivityLog(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error)
	MarkLogReversed(ctx context.Context, logID string) error
	UpdateLogEntry(ctx context.Context, logID, description string, amount *decimal.Decimal) error

	// ListFeed returns non-reversed habit and goal entries of userIDs,
	// newest first.
	ListFeed(ctx context.Context, userIDs []string, limit int) ([]models.ActivityLog, error)
}

// FriendStore persists friend requests. A friendship is an accepted request.
type FriendStore interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	GetRequestByID(ctx context.Context, id string) (*models.FriendRequest, error)

	// FindRequest returns the request between a and b in either direction.
	FindRequest(ctx context.Context, a, b string) (*models.FriendRequest, error)
	GetRequestsByReceiver(ctx context.Context, receiverID string) ([]models.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, id, status string) error
	GetFriends(ctx context.Context, userID string) ([]string, error)
	DeleteFriendship(ctx context.Context, a, b string) error
}

// EventStore persists events and RSVPs.
type EventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)

	// ListEventsForUser returns the events userID organizes or was invited to.
	ListEventsForUser(ctx context.Context, userID string) ([]models.Event, error)
	SetRSVP(ctx context.Context, eventID, userID string, status models.RSVPStatus) error
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	UpdateProfile(ctx context.Context, id, name, avatarURL string) error
	UpdateLastActive(ctx context.Context, id string, at time.Time) error
	SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error)

	// DeleteUser removes the account and everything it owns.
	DeleteUser(ctx context.Context, id string) error
}

// DismissalStore persists the read and cleared notification ids.
type DismissalStore interface {
	Dismiss(ctx context.Context, d models.Dismissal) error
	ListDismissals(ctx context.Context, userID string, now time.Time) ([]models.Dismissal, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Stores bundles one backend's implementations.
type Stores struct {
	Habits     HabitStore
	Goals      GoalStore
	Activity   ActivityStore
	Friends    FriendStore
	Events     EventStore
	Users      UserStore
	Dismissals DismissalStore

	Close func(ctx context.Context) error
}
