package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"bikehouse/internal/models"
)

const (
	ProductsCollection = "products"
	UsersCollection    = "users"
	OrdersCollection   = "orders"
	ReviewsCollection  = "reviews"
)

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// NewMongoStore opens the storefront collections on db. Closing the store
// disconnects the client that owns db.
func NewMongoStore(db *mongo.Database) *Store {
	client := db.Client()
	return &Store{
		Products: newMongoCollection[models.Product](db.Collection(ProductsCollection)),
		Users:    newMongoCollection[models.User](db.Collection(UsersCollection)),
		Orders:   newMongoCollection[models.Order](db.Collection(OrdersCollection)),
		Reviews:  newMongoCollection[models.Review](db.Collection(ReviewsCollection)),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: func(ctx context.Context) error {
			zap.L().Info("disconnecting mongo", zap.String("db", db.Name()))
			return client.Disconnect(ctx)
		},
	}
}
