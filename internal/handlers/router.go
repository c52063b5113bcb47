package handlers

import (
	"net/http"

	"github.com/Dias221467/HabitFlow/internal/config"
	"github.com/Dias221467/HabitFlow/internal/services"
	"github.com/Dias221467/HabitFlow/pkg/middleware"
	"github.com/gorilla/mux"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Users         *services.UserService
	Habits        *services.HabitService
	Goals         *services.GoalService
	Activity      *services.ActivityService
	Notifications *services.NotificationService
	Friends       *services.FriendService
	Events        *services.EventService
	Onboarding    *services.OnboardingService
}

// NewRouter registers every route. Everything except registration, login
// and health requires a bearer token.
func NewRouter(cfg *config.Config, svc Services) *mux.Router {
	userHandler := NewUserHandler(svc.Users, cfg)
	habitHandler := NewHabitHandler(svc.Habits)
	goalHandler := NewGoalHandler(svc.Goals)
	logHandler := NewLogHandler(svc.Activity)
	notificationHandler := NewNotificationHandler(svc.Notifications)
	friendHandler := NewFriendHandler(svc.Friends)
	eventHandler := NewEventHandler(svc.Events)
	onboardingHandler := NewOnboardingHandler(svc.Onboarding)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	protected := router.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protected.Use(middleware.UpdateLastActiveMiddleware(svc.Users))

	// User routes
	protected.HandleFunc("/users/me", userHandler.GetMeHandler).Methods("GET")
	protected.HandleFunc("/users/me", userHandler.UpdateMeHandler).Methods("PATCH")
	protected.HandleFunc("/users/me", userHandler.DeleteMeHandler).Methods("DELETE")
	protected.HandleFunc("/users/search", userHandler.SearchUsersHandler).Methods("GET")

	// Habit routes
	protected.HandleFunc("/habits", habitHandler.GetHabitsHandler).Methods("GET")
	protected.HandleFunc("/habits", habitHandler.CreateHabitHandler).Methods("POST")
	protected.HandleFunc("/habits/insights", habitHandler.GetInsightsHandler).Methods("GET")
	protected.HandleFunc("/habits/{id}", habitHandler.UpdateHabitHandler).Methods("PUT")
	protected.HandleFunc("/habits/{id}", habitHandler.DeleteHabitHandler).Methods("DELETE")
	protected.HandleFunc("/habits/{id}/entries", habitHandler.ToggleHabitHandler).Methods("PUT")

	// Goal routes
	protected.HandleFunc("/goals", goalHandler.GetGoalsHandler).Methods("GET")
	protected.HandleFunc("/goals", goalHandler.CreateGoalHandler).Methods("POST")
	protected.HandleFunc("/goals/{id}", goalHandler.UpdateGoalHandler).Methods("PUT")
	protected.HandleFunc("/goals/{id}", goalHandler.DeleteGoalHandler).Methods("DELETE")
	protected.HandleFunc("/goals/{id}/progress", goalHandler.AddProgressHandler).Methods("POST")

	// Activity log routes
	protected.HandleFunc("/logs", logHandler.GetLogsHandler).Methods("GET")
	protected.HandleFunc("/logs/{id}", logHandler.EditLogHandler).Methods("PUT")
	protected.HandleFunc("/logs/{id}/reverse", logHandler.ReverseLogHandler).Methods("PUT")

	// Notification routes
	protected.HandleFunc("/notifications", notificationHandler.GetNotificationsHandler).Methods("GET")
	protected.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")
	protected.HandleFunc("/notifications/{id}", notificationHandler.ClearHandler).Methods("DELETE")

	// Friend routes
	protected.HandleFunc("/friends", friendHandler.GetFriendsHandler).Methods("GET")
	protected.HandleFunc("/friends", friendHandler.SendFriendRequestHandler).Methods("POST")
	protected.HandleFunc("/friends/requests", friendHandler.GetPendingRequestsHandler).Methods("GET")
	protected.HandleFunc("/friends/accept", friendHandler.AcceptFriendRequestHandler).Methods("POST")
	protected.HandleFunc("/friends/reject", friendHandler.RejectFriendRequestHandler).Methods("POST")
	protected.HandleFunc("/friends/feed", friendHandler.GetFeedHandler).Methods("GET")
	protected.HandleFunc("/friends/{id}", friendHandler.RemoveFriendHandler).Methods("DELETE")

	// Event routes
	protected.HandleFunc("/events", eventHandler.GetEventsHandler).Methods("GET")
	protected.HandleFunc("/events", eventHandler.CreateEventHandler).Methods("POST")
	protected.HandleFunc("/events/{id}/invite", eventHandler.InviteHandler).Methods("POST")
	protected.HandleFunc("/events/{id}/rsvp", eventHandler.RSVPHandler).Methods("POST")

	// Onboarding routes
	protected.HandleFunc("/onboarding/templates", onboardingHandler.GetTemplatesHandler).Methods("GET")
	protected.HandleFunc("/onboarding", onboardingHandler.OnboardHandler).Methods("POST")

	return router
}
