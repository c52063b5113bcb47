package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DismissalPruner deletes notification dismissals past their expiry.
type DismissalPruner interface {
	PruneExpired(ctx context.Context) (int64, error)
}

// SessionEvictor drops in-memory user sessions that have gone idle.
type SessionEvictor interface {
	EvictIdle(ttl time.Duration) int
}

// StartMaintenanceJobs schedules dismissal pruning hourly and idle session
// eviction every minute. The returned cron is already running; Stop it on
// shutdown.
func StartMaintenanceJobs(pruner DismissalPruner, evictor SessionEvictor, idleTTL time.Duration) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc("@hourly", func() { PruneDismissals(context.Background(), pruner) }); err != nil {
		return nil, fmt.Errorf("failed to schedule dismissal pruning: %w", err)
	}
	if _, err := c.AddFunc("@every 1m", func() { EvictSessions(evictor, idleTTL) }); err != nil {
		return nil, fmt.Errorf("failed to schedule session eviction: %w", err)
	}

	c.Start()
	return c, nil
}

// PruneDismissals runs one pruning pass.
func PruneDismissals(ctx context.Context, pruner DismissalPruner) {
	if _, err := pruner.PruneExpired(ctx); err != nil {
		logrus.WithError(err).Error("PruneExpired failed")
	}
}

// EvictSessions runs one eviction pass.
func EvictSessions(evictor SessionEvictor, ttl time.Duration) {
	if n := evictor.EvictIdle(ttl); n > 0 {
		logrus.WithField("count", n).Debug("Evicted idle sessions")
	}
}
