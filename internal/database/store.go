package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bikehouse/internal/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid id")
)

// InsertResult mirrors the acknowledgement the store returns for insertOne.
type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

// UpdateResult mirrors the acknowledgement the store returns for updateOne.
type UpdateResult struct {
	Acknowledged  bool                `json:"acknowledged"`
	MatchedCount  int64               `json:"matchedCount"`
	ModifiedCount int64               `json:"modifiedCount"`
	UpsertedCount int64               `json:"upsertedCount"`
	UpsertedID    *primitive.ObjectID `json:"upsertedId"`
}

// DeleteResult mirrors the acknowledgement the store returns for deleteOne.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Collection is the set of document operations the API needs. Filters are
// exact-match on top-level fields.
type Collection[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	Find(ctx context.Context, filter bson.M) ([]T, error)
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	InsertOne(ctx context.Context, doc *T) (InsertResult, error)
	UpdateOne(ctx context.Context, filter bson.M, set bson.M) (UpdateResult, error)
	UpsertOne(ctx context.Context, filter bson.M, set bson.M) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter bson.M) (DeleteResult, error)
}

// Store groups the four storefront collections behind one lifecycle.
type Store struct {
	Products Collection[models.Product]
	Users    Collection[models.User]
	Orders   Collection[models.Order]
	Reviews  Collection[models.Review]

	timeout time.Duration
	ping    func(ctx context.Context) error
	close   func(ctx context.Context) error
}

const defaultTimeout = 5 * time.Second

// SetTimeout bounds every operation started through WithTimeout.
func (s *Store) SetTimeout(d time.Duration) {
	s.timeout = d
}

// WithTimeout derives the context a single store operation runs under.
func (s *Store) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithTimeout(ctx, defaultTimeout)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Ping checks that the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backing store.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// ParseID converts a hex path parameter into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return id, nil
}
