package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FriendRepository struct {
	collection *mongo.Collection
}

func NewFriendRepository(db *mongo.Database) *FriendRepository {
	return &FriendRepository{
		collection: db.Collection("friend_requests"),
	}
}

func (r *FriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	if req.Status == "" {
		req.Status = models.FriendRequestPending
	}

	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to send friend request: %w", err)
	}
	return nil
}

func (r *FriendRepository) GetRequestsByReceiver(ctx context.Context, receiverID string) ([]models.FriendRequest, error) {
	filter := bson.M{"receiver_id": receiverID, "status": models.FriendRequestPending}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []models.FriendRequest{}
	for cursor.Next(ctx) {
		var req models.FriendRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, cursor.Err()
}

func (r *FriendRepository) UpdateRequestStatus(ctx context.Context, id, status string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FriendRepository) GetFriends(ctx context.Context, userID string) ([]string, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userID, "status": models.FriendRequestAccepted},
			{"receiver_id": userID, "status": models.FriendRequestAccepted},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve friends: %w", err)
	}
	defer cursor.Close(ctx)

	friends := []string{}
	for cursor.Next(ctx) {
		var req models.FriendRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, err
		}

		if req.SenderID == userID {
			friends = append(friends, req.ReceiverID)
		} else {
			friends = append(friends, req.SenderID)
		}
	}

	return friends, cursor.Err()
}

func (r *FriendRepository) GetRequestByID(ctx context.Context, id string) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %w", err)
	}
	return &request, nil
}

func (r *FriendRepository) FindRequest(ctx context.Context, a, b string) (*models.FriendRequest, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": a, "receiver_id": b},
			{"sender_id": b, "receiver_id": a},
		},
	}
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %w", err)
	}
	return &request, nil
}

// DeleteFriendship removes every request between a and b
func (r *FriendRepository) DeleteFriendship(ctx context.Context, a, b string) error {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": a, "receiver_id": b},
			{"sender_id": b, "receiver_id": a},
		},
	}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
