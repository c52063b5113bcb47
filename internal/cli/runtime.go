package cli

import (
	"context"

	"github.com/Dias221467/HabitFlow/internal/database"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/internal/services"
)

// runtime is the service graph a command works against.
type runtime struct {
	stores        repository.Stores
	sessions      *services.SessionManager
	activity      *services.ActivityService
	notifications *services.NotificationService
}

func openRuntime(opts *RootOptions) (*runtime, error) {
	cfg := opts.effectiveConfig()
	stores, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	sessions := services.NewSessionManager(stores, cfg.Location, cfg.LogLimit)
	friends := services.NewFriendService(stores, sessions)
	events := services.NewEventService(stores.Events, stores.Users, friends, sessions)
	return &runtime{
		stores:        stores,
		sessions:      sessions,
		activity:      services.NewActivityService(sessions),
		notifications: services.NewNotificationService(stores.Dismissals, friends, events, sessions, cfg.DismissalTTL),
	}, nil
}

func (r *runtime) Close() error {
	if r.stores.Close == nil {
		return nil
	}
	return r.stores.Close(context.Background())
}
