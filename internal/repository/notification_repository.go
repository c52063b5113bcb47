package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository stores which derived notifications a user has read
// or cleared. Notifications themselves are never stored.
type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notification_dismissals"),
	}
}

// Dismiss upserts the dismissal keyed by (user, notification).
func (r *NotificationRepository) Dismiss(ctx context.Context, d models.Dismissal) error {
	filter := bson.M{"user_id": d.UserID, "notification_id": d.NotificationID}
	update := bson.M{
		"$set":         bson.M{"kind": d.Kind, "expires_at": d.ExpiresAt},
		"$setOnInsert": bson.M{"created_at": d.CreatedAt},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logrus.WithError(err).WithField("notification_id", d.NotificationID).Error("Failed to store dismissal")
		return fmt.Errorf("failed to store dismissal: %w", err)
	}
	return nil
}

// ListDismissals returns the unexpired dismissals of a user
func (r *NotificationRepository) ListDismissals(ctx context.Context, userID string, now time.Time) ([]models.Dismissal, error) {
	filter := bson.M{
		"user_id":    userID,
		"expires_at": bson.M{"$gt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dismissals: %w", err)
	}
	defer cursor.Close(ctx)

	dismissals := []models.Dismissal{}
	if err := cursor.All(ctx, &dismissals); err != nil {
		return nil, fmt.Errorf("failed to decode dismissals: %w", err)
	}
	return dismissals, nil
}

// DeleteExpired removes dismissals whose expiry has passed
func (r *NotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{"expires_at": bson.M{"$lte": now}}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired dismissals: %w", err)
	}
	logrus.Infof("Deleted %d expired dismissals", result.DeletedCount)
	return result.DeletedCount, nil
}
