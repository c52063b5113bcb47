package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HabitRepository stores habits with their history embedded as a
// date-keyed map.
type HabitRepository struct {
	collection *mongo.Collection
}

func NewHabitRepository(db *mongo.Database) *HabitRepository {
	return &HabitRepository{
		collection: db.Collection("habits"),
	}
}

// CreateHabits inserts habits in one round trip.
func (r *HabitRepository) CreateHabits(ctx context.Context, habits []models.Habit) error {
	if len(habits) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(habits))
	for _, h := range habits {
		if h.History == nil {
			h.History = map[string]models.HabitStatus{}
		}
		docs = append(docs, h)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		logger.Log.WithError(err).WithField("count", len(habits)).Error("Failed to insert habits")
		return fmt.Errorf("failed to insert habits: %w", err)
	}
	return nil
}

func (r *HabitRepository) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to fetch habits")
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}
	defer cursor.Close(ctx)

	habits := []models.Habit{}
	if err := cursor.All(ctx, &habits); err != nil {
		return nil, fmt.Errorf("failed to decode habits: %w", err)
	}
	for i := range habits {
		if habits[i].History == nil {
			habits[i].History = map[string]models.HabitStatus{}
		}
	}
	return habits, nil
}

func (r *HabitRepository) GetHabit(ctx context.Context, id string) (*models.Habit, error) {
	var habit models.Habit
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&habit)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", id).Error("Failed to find habit by ID")
		return nil, fmt.Errorf("failed to find habit: %w", err)
	}
	if habit.History == nil {
		habit.History = map[string]models.HabitStatus{}
	}
	return &habit, nil
}

// UpdateHabit writes the editable fields of habit. History is left alone.
func (r *HabitRepository) UpdateHabit(ctx context.Context, habit *models.Habit) error {
	update := bson.M{"$set": bson.M{
		"title":       habit.Title,
		"description": habit.Description,
		"category":    habit.Category,
		"is_negative": habit.IsNegative,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": habit.ID}, update)
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", habit.ID).Error("Failed to update habit")
		return fmt.Errorf("failed to update habit: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *HabitRepository) DeleteHabit(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", id).Error("Failed to delete habit")
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	logger.Log.WithField("habit_id", id).Info("Habit deleted successfully")
	return nil
}

func (r *HabitRepository) UpsertHabitEntry(ctx context.Context, habitID, date string, status *models.HabitStatus) error {
	key := "history." + date
	update := bson.M{"$unset": bson.M{key: ""}}
	if status != nil {
		update = bson.M{"$set": bson.M{key: *status}}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": habitID}, update)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"habit_id": habitID,
			"date":     date,
		}).Error("Failed to write habit entry")
		return fmt.Errorf("failed to write habit entry: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
