package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no record matches the requested identifier,
// including identifiers that are malformed for the store's addressing scheme.
var ErrNotFound = errors.New("record not found")

// ErrMissingFields is returned when a create is attempted without the three
// required fields. Nothing is inserted in that case.
var ErrMissingFields = errors.New("name, email, and phone are required")

type recordCollection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// RecordRepository persists and retrieves user records in MongoDB.
type RecordRepository struct {
	collection recordCollection
}

// NewRecordRepository constructs a RecordRepository.
func NewRecordRepository(collection recordCollection) *RecordRepository {
	return &RecordRepository{collection: collection}
}

// Create inserts a record built from the draft. The store assigns the
// identifier; the creation timestamp is set here. Drafts missing any required
// field are rejected before anything reaches the store.
func (r *RecordRepository) Create(ctx context.Context, draft Draft) (Record, error) {
	if r == nil || r.collection == nil {
		return Record{}, errors.New("record repository is not initialized")
	}
	if ctx == nil {
		return Record{}, errors.New("context is required")
	}
	if !draft.HasRequiredFields() {
		return Record{}, ErrMissingFields
	}

	record := Record{
		Name:        draft.Name,
		Email:       draft.Email,
		Phone:       draft.Phone,
		Position:    draft.Position,
		Description: draft.Description,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return Record{}, fmt.Errorf("insert record: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return Record{}, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	record.ID = insertedID

	return record, nil
}

// GetByID fetches a record by its hex identifier. Malformed identifiers are
// treated the same as absent records.
func (r *RecordRepository) GetByID(ctx context.Context, id string) (Record, error) {
	if r == nil || r.collection == nil {
		return Record{}, errors.New("record repository is not initialized")
	}
	if ctx == nil {
		return Record{}, errors.New("context is required")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Record{}, ErrNotFound
	}

	result := r.collection.FindOne(ctx, bson.M{"_id": objectID})
	if result == nil {
		return Record{}, errors.New("find record returned no result")
	}
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("find record: %w", err)
	}

	var record Record
	if err := result.Decode(&record); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}

	return record, nil
}

// List returns all records ordered by creation time, newest first. An empty
// collection yields an empty slice, not an error.
func (r *RecordRepository) List(ctx context.Context) ([]Record, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("record repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	cursor, err := r.collection.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]Record, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	return records, nil
}
