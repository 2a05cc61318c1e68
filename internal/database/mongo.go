package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCollection[T any] struct {
	coll *mongo.Collection
}

func newMongoCollection[T any](coll *mongo.Collection) *mongoCollection[T] {
	return &mongoCollection[T]{coll: coll}
}

func (m *mongoCollection[T]) FindAll(ctx context.Context) ([]T, error) {
	return m.Find(ctx, bson.M{})
}

func (m *mongoCollection[T]) Find(ctx context.Context, filter bson.M) ([]T, error) {
	cursor, err := m.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", m.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.coll.Name(), err)
	}
	return docs, nil
}

func (m *mongoCollection[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	err := m.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one %s: %w", m.coll.Name(), err)
	}
	return &doc, nil
}

func (m *mongoCollection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return m.FindOne(ctx, bson.M{"_id": id})
}

func (m *mongoCollection[T]) InsertOne(ctx context.Context, doc *T) (InsertResult, error) {
	res, err := m.coll.InsertOne(ctx, doc)
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert %s: %w", m.coll.Name(), err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (m *mongoCollection[T]) UpdateOne(ctx context.Context, filter bson.M, set bson.M) (UpdateResult, error) {
	return m.update(ctx, filter, set, false)
}

func (m *mongoCollection[T]) UpsertOne(ctx context.Context, filter bson.M, set bson.M) (UpdateResult, error) {
	return m.update(ctx, filter, set, true)
}

func (m *mongoCollection[T]) update(ctx context.Context, filter bson.M, set bson.M, upsert bool) (UpdateResult, error) {
	res, err := m.coll.UpdateOne(ctx, filter, bson.M{"$set": set}, options.Update().SetUpsert(upsert))
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update %s: %w", m.coll.Name(), err)
	}

	out := UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = &id
	}
	return out, nil
}

func (m *mongoCollection[T]) DeleteOne(ctx context.Context, filter bson.M) (DeleteResult, error) {
	res, err := m.coll.DeleteOne(ctx, filter)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete %s: %w", m.coll.Name(), err)
	}
	return DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
