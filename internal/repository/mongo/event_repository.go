package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventhub/internal/domain"
	"eventhub/internal/repository"
)

const eventsCollection = "events"

type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) repository.EventRepository {
	return &EventRepository{col: db.Collection(eventsCollection)}
}

func (r *EventRepository) Init(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create event indexes: %w", err)
	}
	return nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (string, error) {
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Participants == nil {
		event.Participants = []string{}
	}

	res, err := r.col.InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("insert event: %w", repository.ErrDuplicate)
		}
		return "", fmt.Errorf("insert event: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert event: unexpected id type %T", res.InsertedID)
	}
	event.ID = oid
	return oid.Hex(), nil
}

func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []domain.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var event domain.Event
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &event, nil
}

func (r *EventRepository) Replace(ctx context.Context, id string, event *domain.Event) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	event.ID = oid
	event.UpdatedAt = time.Now().UTC()
	if event.Participants == nil {
		event.Participants = []string{}
	}

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("replace event: %w", repository.ErrDuplicate)
		}
		return nil, fmt.Errorf("replace event: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}
	return event, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddParticipant appends userID to the event's participant list as a single
// conditional update: the filter only matches when userID is not already
// present, so two concurrent registrations cannot both append and a failed
// match is either a missing event or a duplicate registration.
func (r *EventRepository) AddParticipant(ctx context.Context, id, userID string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	filter := bson.M{
		"_id":          oid,
		"participants": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$addToSet": bson.M{"participants": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var event domain.Event
	err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&event)
	if err == nil {
		return &event, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("add participant: %w", err)
	}

	// Nothing matched: tell a missing event apart from an existing registration.
	count, countErr := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if countErr != nil {
		return nil, fmt.Errorf("add participant: %w", countErr)
	}
	if count == 0 {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrDuplicateParticipant
}
