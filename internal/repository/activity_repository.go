package repository

import (
	"context"
	"fmt"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActivityRepository struct {
	collection *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		collection: db.Collection("activity_logs"),
	}
}

// AppendLog inserts a new activity log entry
func (r *ActivityRepository) AppendLog(ctx context.Context, entry models.ActivityLog) error {
	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		logrus.WithError(err).WithField("log_id", entry.ID).Error("Failed to insert activity")
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// ListActivityLog fetches recent activities of a specific user
func (r *ActivityRepository) ListActivityLog(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	return r.find(ctx, bson.M{"user_id": userID}, limit)
}

// ListFeed fetches the non-reversed habit and goal entries of userIDs
func (r *ActivityRepository) ListFeed(ctx context.Context, userIDs []string, limit int) ([]models.ActivityLog, error) {
	if len(userIDs) == 0 {
		return []models.ActivityLog{}, nil
	}
	filter := bson.M{
		"user_id":  bson.M{"$in": userIDs},
		"type":     bson.M{"$in": []models.ActivityType{models.ActivityHabit, models.ActivityGoal}},
		"reversed": false,
	}
	return r.find(ctx, filter, limit)
}

func (r *ActivityRepository) find(ctx context.Context, filter bson.M, limit int) ([]models.ActivityLog, error) {
	sort := bson.D{{Key: "timestamp", Value: -1}}
	opts := options.Find().SetSort(sort).SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w", err)
	}
	defer cursor.Close(ctx)

	activities := []models.ActivityLog{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return activities, nil
}

// MarkLogReversed flags a reversible entry as reversed
func (r *ActivityRepository) MarkLogReversed(ctx context.Context, logID string) error {
	filter := bson.M{"_id": logID, "reversible": true}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"reversed": true}})
	if err != nil {
		logrus.WithError(err).WithField("log_id", logID).Error("Failed to mark activity reversed")
		return fmt.Errorf("failed to mark activity reversed: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLogEntry rewrites the description and structured amount of an entry
func (r *ActivityRepository) UpdateLogEntry(ctx context.Context, logID, description string, amount *decimal.Decimal) error {
	set := bson.M{"description": description}
	if amount != nil {
		set["amount"] = *amount
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": logID, "reversed": false}, bson.M{"$set": set})
	if err != nil {
		logrus.WithError(err).WithField("log_id", logID).Error("Failed to update activity")
		return fmt.Errorf("failed to update activity: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
