package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/HabitFlow/internal/config"
	"github.com/Dias221467/HabitFlow/internal/database"
	"github.com/Dias221467/HabitFlow/internal/handlers"
	"github.com/Dias221467/HabitFlow/internal/repository"
	cron "github.com/Dias221467/HabitFlow/internal/scheduler"
	"github.com/Dias221467/HabitFlow/internal/services"
	"github.com/Dias221467/HabitFlow/pkg/logger"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	stores, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer stores.Close(context.Background())

	templateRepo, err := repository.NewTemplateRepository()
	if err != nil {
		log.Fatalf("Failed to load onboarding templates: %v", err)
	}

	// --- Services ---
	sessions := services.NewSessionManager(stores, cfg.Location, cfg.LogLimit)
	friendService := services.NewFriendService(stores, sessions)
	eventService := services.NewEventService(stores.Events, stores.Users, friendService, sessions)
	notificationService := services.NewNotificationService(stores.Dismissals, friendService, eventService, sessions, cfg.DismissalTTL)

	router := handlers.NewRouter(cfg, handlers.Services{
		Users:         services.NewUserService(stores.Users, stores.Friends, sessions),
		Habits:        services.NewHabitService(stores.Habits, sessions),
		Goals:         services.NewGoalService(stores.Goals, sessions),
		Activity:      services.NewActivityService(sessions),
		Notifications: notificationService,
		Friends:       friendService,
		Events:        eventService,
		Onboarding:    services.NewOnboardingService(templateRepo, stores.Habits, stores.Goals, sessions),
	})

	jobs, err := cron.StartMaintenanceJobs(notificationService, sessions, cfg.SessionIdleTTL)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer jobs.Stop()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("Server running on port %s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Graceful shutdown failed")
	}
}
