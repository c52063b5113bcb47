package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/HabitFlow/internal/config"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/Dias221467/HabitFlow/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB connects to MongoDB and ensures the indexes the repositories
// rely on.
func ConnectDB(cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI).SetRegistry(repository.Registry()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	if err := EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}

	logger.Log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")
	return db, nil
}

// EnsureIndexes creates the indexes used by the repositories. It is safe to
// call repeatedly.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"habits": {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		"goals": {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		"activity_logs": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		"friend_requests": {
			{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		"notification_dismissals": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "notification_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		},
	}
	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

// MongoStores wires the Mongo repositories into a repository.Stores.
func MongoStores(db *mongo.Database) repository.Stores {
	return repository.Stores{
		Habits:     repository.NewHabitRepository(db),
		Goals:      repository.NewGoalRepository(db),
		Activity:   repository.NewActivityRepository(db),
		Friends:    repository.NewFriendRepository(db),
		Events:     repository.NewEventRepository(db),
		Users:      repository.NewUserRepository(db),
		Dismissals: repository.NewNotificationRepository(db),
		Close: func(ctx context.Context) error {
			return db.Client().Disconnect(ctx)
		},
	}
}
