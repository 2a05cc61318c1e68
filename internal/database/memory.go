package database

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bikehouse/internal/models"
)

// NewMemoryStore returns a Store kept entirely in process. Documents go
// through the same BSON encoding as the MongoDB driver, so field names, inline
// maps and binary values behave identically.
func NewMemoryStore() *Store {
	return &Store{
		Products: newMemoryCollection[models.Product](ProductsCollection),
		Users:    newMemoryCollection[models.User](UsersCollection),
		Orders:   newMemoryCollection[models.Order](OrdersCollection),
		Reviews:  newMemoryCollection[models.Review](ReviewsCollection),
	}
}

type memoryCollection[T any] struct {
	name string

	mu   sync.RWMutex
	docs []bson.Raw
}

func newMemoryCollection[T any](name string) *memoryCollection[T] {
	return &memoryCollection[T]{name: name}
}

func (m *memoryCollection[T]) FindAll(ctx context.Context) ([]T, error) {
	return m.Find(ctx, bson.M{})
}

func (m *memoryCollection[T]) Find(ctx context.Context, filter bson.M) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, 0)
	for _, raw := range m.docs {
		ok, err := matches(raw, filter)
		if err != nil {
			return nil, fmt.Errorf("find %s: %w", m.name, err)
		}
		if !ok {
			continue
		}
		var doc T
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", m.name, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func (m *memoryCollection[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, err := m.indexOf(filter)
	if err != nil {
		return nil, fmt.Errorf("find one %s: %w", m.name, err)
	}
	if idx < 0 {
		return nil, ErrNotFound
	}

	var doc T
	if err := bson.Unmarshal(m.docs[idx], &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.name, err)
	}
	return &doc, nil
}

func (m *memoryCollection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return m.FindOne(ctx, bson.M{"_id": id})
}

func (m *memoryCollection[T]) InsertOne(ctx context.Context, doc *T) (InsertResult, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert %s: %w", m.name, err)
	}

	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return InsertResult{}, fmt.Errorf("insert %s: %w", m.name, err)
	}

	id, ok := fields["_id"].(primitive.ObjectID)
	if !ok {
		id = primitive.NewObjectID()
		fields["_id"] = id
		if raw, err = bson.Marshal(fields); err != nil {
			return InsertResult{}, fmt.Errorf("insert %s: %w", m.name, err)
		}
	}

	m.mu.Lock()
	m.docs = append(m.docs, raw)
	m.mu.Unlock()

	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (m *memoryCollection[T]) UpdateOne(ctx context.Context, filter bson.M, set bson.M) (UpdateResult, error) {
	return m.update(filter, set, false)
}

func (m *memoryCollection[T]) UpsertOne(ctx context.Context, filter bson.M, set bson.M) (UpdateResult, error) {
	return m.update(filter, set, true)
}

func (m *memoryCollection[T]) update(filter bson.M, set bson.M, upsert bool) (UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.indexOf(filter)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update %s: %w", m.name, err)
	}

	if idx < 0 {
		if !upsert {
			return UpdateResult{Acknowledged: true}, nil
		}
		id := primitive.NewObjectID()
		fields := bson.M{"_id": id}
		for key, value := range filter {
			fields[key] = value
		}
		for key, value := range set {
			fields[key] = value
		}
		raw, err := bson.Marshal(fields)
		if err != nil {
			return UpdateResult{}, fmt.Errorf("upsert %s: %w", m.name, err)
		}
		m.docs = append(m.docs, raw)
		return UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: &id}, nil
	}

	var fields bson.M
	if err := bson.Unmarshal(m.docs[idx], &fields); err != nil {
		return UpdateResult{}, fmt.Errorf("update %s: %w", m.name, err)
	}

	modified := false
	for key, value := range set {
		current, ok := fields[key]
		if !ok || !sameValue(current, value) {
			modified = true
		}
		fields[key] = value
	}

	result := UpdateResult{Acknowledged: true, MatchedCount: 1}
	if !modified {
		return result, nil
	}

	raw, err := bson.Marshal(fields)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update %s: %w", m.name, err)
	}
	m.docs[idx] = raw
	result.ModifiedCount = 1
	return result, nil
}

func (m *memoryCollection[T]) DeleteOne(ctx context.Context, filter bson.M) (DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.indexOf(filter)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete %s: %w", m.name, err)
	}
	if idx < 0 {
		return DeleteResult{Acknowledged: true}, nil
	}

	m.docs = append(m.docs[:idx], m.docs[idx+1:]...)
	return DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// indexOf returns the position of the first document matching filter, or -1.
// Callers hold the lock.
func (m *memoryCollection[T]) indexOf(filter bson.M) (int, error) {
	for i, raw := range m.docs {
		ok, err := matches(raw, filter)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

func matches(raw bson.Raw, filter bson.M) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}

	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return false, err
	}
	for key, want := range filter {
		got, ok := fields[key]
		if !ok || !sameValue(got, want) {
			return false, nil
		}
	}
	return true, nil
}

// sameValue compares two values by their BSON encoding, the way the server
// compares an equality filter against a stored field.
func sameValue(a, b interface{}) bool {
	at, ab, err := bson.MarshalValue(a)
	if err != nil {
		return false
	}
	bt, bb, err := bson.MarshalValue(b)
	if err != nil {
		return false
	}
	return at == bt && bytes.Equal(ab, bb)
}
