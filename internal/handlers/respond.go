package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dias221467/HabitFlow/internal/engine"
	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/internal/services"
	"github.com/Dias221467/HabitFlow/pkg/middleware"
	"github.com/sirupsen/logrus"
)

// mutationResponse is returned by every ledger or habit operation.
type mutationResponse struct {
	Entry    *models.ActivityLog `json:"entry,omitempty"`
	Habit    *models.Habit       `json:"habit,omitempty"`
	Goal     *models.Goal        `json:"goal,omitempty"`
	Warnings []engine.Warning    `json:"warnings"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("Failed to encode response")
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var rerr *services.ReconcileError
	switch {
	case errors.As(err, &rerr):
		return http.StatusServiceUnavailable
	case engine.IsValidation(err):
		return http.StatusBadRequest
	case engine.IsNotFound(err), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case engine.IsIllegalState(err):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := logrus.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	http.Error(w, message, status)
}

// userID returns the authenticated user or writes 401.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		logrus.WithField("path", r.URL.Path).Warn("Unauthorized access attempt")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logrus.WithError(err).WithField("path", r.URL.Path).Warn("Invalid request payload")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return false
	}
	return true
}

// confirm waits for the store to confirm res. It writes the error response
// and returns false when it did not.
func confirm(w http.ResponseWriter, r *http.Request, res *services.Result) bool {
	if err := res.Wait(r.Context()); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}

func warnings(res *services.Result) []engine.Warning {
	if res.Warnings == nil {
		return []engine.Warning{}
	}
	return res.Warnings
}
