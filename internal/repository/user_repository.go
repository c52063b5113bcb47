package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository handles database operations related to users.
type UserRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		db:         db,
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.LastActiveAt.IsZero() {
		user.LastActiveAt = now
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		logrus.WithError(err).Error("Failed to insert user into database")
		return fmt.Errorf("failed to insert user: %w", err)
	}

	logrus.WithField("userID", user.ID).Info("User inserted successfully")
	return nil
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"filter": filter,
			"error":  err,
		}).Warn("Failed to find user")
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// GetUsersByIDs fetches user details for a list of IDs (mainly for friends).
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// SearchUsers matches query case-insensitively against name and email.
func (r *UserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"$or": []bson.M{
			{"name": pattern},
			{"email": pattern},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, user)
	}
	return users, cursor.Err()
}

// UpdateProfile changes the display name and avatar.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, avatarURL string) error {
	update := bson.M{"$set": bson.M{
		"name":       name,
		"avatar_url": avatarURL,
		"updated_at": time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id,
			"error":  err,
		}).Error("Failed to update user")
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	logrus.WithField("userID", id).Info("User updated successfully")
	return nil
}

func (r *UserRepository) UpdateLastActive(ctx context.Context, id string, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_active_at": at}})
	if err != nil {
		return fmt.Errorf("failed to update last active: %w", err)
	}
	return nil
}

// DeleteUser deletes a user and every document the user owns.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	owned := []struct {
		collection string
		filter     bson.M
	}{
		{"habits", bson.M{"user_id": id}},
		{"goals", bson.M{"user_id": id}},
		{"activity_logs", bson.M{"user_id": id}},
		{"notification_dismissals", bson.M{"user_id": id}},
		{"events", bson.M{"organizer_id": id}},
		{"friend_requests", bson.M{"$or": []bson.M{{"sender_id": id}, {"receiver_id": id}}}},
	}
	for _, o := range owned {
		if _, err := r.db.Collection(o.collection).DeleteMany(ctx, o.filter); err != nil {
			return fmt.Errorf("failed to delete %s of user %s: %w", o.collection, id, err)
		}
	}
	if _, err := r.db.Collection("events").UpdateMany(ctx, bson.M{}, bson.M{"$unset": bson.M{"rsvps." + id: ""}}); err != nil {
		return fmt.Errorf("failed to remove rsvps of user %s: %w", id, err)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id,
			"error":  err,
		}).Error("Failed to delete user")
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	logrus.WithField("userID", id).Info("User deleted successfully")
	return nil
}
