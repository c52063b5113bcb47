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

// EventRepository stores events with RSVPs embedded as a user-keyed map.
type EventRepository struct {
	collection *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		collection: db.Collection("events"),
	}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.RSVPs == nil {
		event.RSVPs = map[string]models.RSVPStatus{}
	}
	if _, err := r.collection.InsertOne(ctx, event); err != nil {
		logger.Log.WithError(err).WithField("organizer_id", event.OrganizerID).Error("Failed to insert event")
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return &event, nil
}

func (r *EventRepository) ListEventsForUser(ctx context.Context, userID string) ([]models.Event, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"organizer_id": userID},
			{"rsvps." + userID: bson.M{"$exists": true}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) SetRSVP(ctx context.Context, eventID, userID string, status models.RSVPStatus) error {
	update := bson.M{"$set": bson.M{"rsvps." + userID: status}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": eventID}, update)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"event_id": eventID,
			"user_id":  userID,
		}).Error("Failed to update RSVP")
		return fmt.Errorf("failed to update rsvp: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
