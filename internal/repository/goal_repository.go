package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/shopspring/decimal"
	"github.com/Dias221467/HabitFlow/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GoalRepository struct handles database operations related to goals
type GoalRepository struct {
	collection *mongo.Collection
}

// NewGoalRepository creates a new instance of GoalRepository
func NewGoalRepository(db *mongo.Database) *GoalRepository {
	return &GoalRepository{
		collection: db.Collection("goals"),
	}
}

// CreateGoals inserts goals in one round trip
func (r *GoalRepository) CreateGoals(ctx context.Context, goals []models.Goal) error {
	if len(goals) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(goals))
	for _, g := range goals {
		if g.History == nil {
			g.History = []models.GoalEntry{}
		}
		docs = append(docs, g)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		logger.Log.WithError(err).WithField("count", len(goals)).Error("Failed to insert goals")
		return fmt.Errorf("failed to insert goals: %w", err)
	}
	logger.Log.WithField("count", len(goals)).Info("Goals created successfully")
	return nil
}

// ListGoals fetches the goals of one user in creation order
func (r *GoalRepository) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// ListGoalsByUsers fetches the goals of several users, e.g. a friend list
func (r *GoalRepository) ListGoalsByUsers(ctx context.Context, userIDs []string) ([]models.Goal, error) {
	if len(userIDs) == 0 {
		return []models.Goal{}, nil
	}
	return r.find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
}

func (r *GoalRepository) find(ctx context.Context, filter bson.M) ([]models.Goal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch goals")
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}
	defer cursor.Close(ctx)

	goals := []models.Goal{}
	for cursor.Next(ctx) {
		var goal models.Goal
		if err := cursor.Decode(&goal); err != nil {
			logger.Log.WithError(err).Error("Failed to decode goal")
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, cursor.Err()
}

// GetGoal fetches a goal by its ID
func (r *GoalRepository) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	var goal models.Goal
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&goal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id).Error("Failed to find goal by ID")
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}
	return &goal, nil
}

// UpdateGoal applies the non-nil fields of update and returns the result
func (r *GoalRepository) UpdateGoal(ctx context.Context, id string, update models.GoalUpdate) (*models.Goal, error) {
	set := bson.M{"updated_at": time.Now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Target != nil {
		set["target"] = *update.Target
	}
	if update.Deadline != nil {
		set["deadline"] = *update.Deadline
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var goal models.Goal
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&goal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id).Error("Failed to update goal")
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	logger.Log.WithField("goal_id", id).Info("Goal updated successfully")
	return &goal, nil
}

// DeleteGoal deletes a goal and its embedded ledger
func (r *GoalRepository) DeleteGoal(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id).Error("Failed to delete goal")
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	logger.Log.WithField("goal_id", id).Info("Goal deleted successfully")
	return nil
}

// AppendGoalEntry pushes entry onto the ledger and increments current in a
// single document update
func (r *GoalRepository) AppendGoalEntry(ctx context.Context, goalID string, entry models.GoalEntry) (*models.Goal, error) {
	update := bson.M{
		"$push": bson.M{"history": entry},
		"$inc":  bson.M{"current": entry.Amount},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var goal models.Goal
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": goalID}, update, opts).Decode(&goal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"goal_id": goalID,
			"amount":  entry.Amount,
		}).Error("Failed to append goal entry")
		return nil, fmt.Errorf("failed to append goal entry: %w", err)
	}
	return &goal, nil
}

// UpdateGoalEntry rewrites one ledger entry in place
func (r *GoalRepository) UpdateGoalEntry(ctx context.Context, goalID, entryID string, amount decimal.Decimal, reversed bool) error {
	filter := bson.M{"_id": goalID, "history.id": entryID}
	update := bson.M{"$set": bson.M{
		"history.$.amount":   amount,
		"history.$.reversed": reversed,
		"updated_at":         time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"goal_id":  goalID,
			"entry_id": entryID,
		}).Error("Failed to update goal entry")
		return fmt.Errorf("failed to update goal entry: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetGoalCurrent overwrites the cached total
func (r *GoalRepository) SetGoalCurrent(ctx context.Context, goalID string, current decimal.Decimal) error {
	update := bson.M{"$set": bson.M{"current": current, "updated_at": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": goalID}, update)
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", goalID).Error("Failed to set goal total")
		return fmt.Errorf("failed to set goal total: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
