package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ActivityRecorder stores when a user was last seen.
type ActivityRecorder interface {
	UpdateLastActive(ctx context.Context, id string, at time.Time) error
}

// UpdateLastActiveMiddleware records the authenticated user as active.
// Failures are logged and never block the request.
func UpdateLastActiveMiddleware(recorder ActivityRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims := GetUserFromContext(r.Context()); claims != nil {
				if err := recorder.UpdateLastActive(r.Context(), claims.UserID, time.Now()); err != nil {
					logrus.WithError(err).WithField("userID", claims.UserID).Warn("Failed to update last active")
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
