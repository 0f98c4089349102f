package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aurapaste/aurapaste/models"
)

const mongoOpTimeout = 10 * time.Second

// MongoStore implements PasteStore using MongoDB.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore creates a new MongoDB storage backend and verifies the
// connection before returning.
func NewMongoStore(uri, dbName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	store := &MongoStore{
		client:     client,
		collection: client.Database(dbName).Collection("pastes"),
	}
	if err := store.createIndexes(); err != nil {
		return nil, err
	}
	return store, nil
}

// createIndexes creates the indexes behind the author and discovery queries.
func (m *MongoStore) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "visibility", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	return m.mapError(err)
}

// Insert persists a new paste. The _id unique index enforces identifier
// uniqueness; a collision surfaces as ErrDuplicateID.
func (m *MongoStore) Insert(ctx context.Context, paste *models.Paste) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	_, err := m.collection.InsertOne(ctx, paste)
	return m.mapError(err)
}

// Get retrieves a paste by its ID.
func (m *MongoStore) Get(ctx context.Context, id string) (*models.Paste, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var paste models.Paste
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&paste)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, m.mapError(err)
	}
	return &paste, nil
}

// IncrementViewCount bumps the view counter with a server-side $inc and
// returns the updated document in one round trip.
func (m *MongoStore) IncrementViewCount(ctx context.Context, id string) (*models.Paste, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var paste models.Paste
	err := m.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"view_count": 1}},
		opts,
	).Decode(&paste)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, m.mapError(err)
	}
	return &paste, nil
}

// ListByAuthor returns all pastes owned by authorID.
func (m *MongoStore) ListByAuthor(ctx context.Context, authorID string) ([]*models.Paste, error) {
	return m.find(ctx, bson.M{"author_id": authorID})
}

// ListByVisibility returns all pastes with the given visibility.
func (m *MongoStore) ListByVisibility(ctx context.Context, visibility models.Visibility) ([]*models.Paste, error) {
	return m.find(ctx, bson.M{"visibility": visibility})
}

func (m *MongoStore) find(ctx context.Context, filter bson.M) ([]*models.Paste, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, m.mapError(err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var pastes []*models.Paste
	if err := cursor.All(ctx, &pastes); err != nil {
		return nil, m.mapError(err)
	}
	return pastes, nil
}

// Close disconnects from MongoDB.
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// mapError translates driver errors onto the store's sentinel taxonomy.
func (m *MongoStore) mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicateID, err)
	case isMongoValidationError(err):
		return fmt.Errorf("%w: %v", ErrWriteRejected, err)
	case mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}

// isMongoValidationError reports whether err is a server-side document
// validation failure (error code 121).
func isMongoValidationError(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 121 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	return errors.As(err, &ce) && ce.Code == 121
}
