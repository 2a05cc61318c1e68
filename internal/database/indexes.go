package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureUserIndexes indexes users by email. The index is not unique: the
// same email may be registered more than once.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	return ensureEmailIndex(ctx, db.Collection(UsersCollection), "users_email")
}

// EnsureOrderIndexes indexes orders by the email that placed them.
func EnsureOrderIndexes(ctx context.Context, db *mongo.Database) error {
	return ensureEmailIndex(ctx, db.Collection(OrdersCollection), "orders_email")
}

func ensureEmailIndex(ctx context.Context, coll *mongo.Collection, name string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	log := zap.L().With(zap.String("collection", coll.Name()), zap.String("index", name))

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName(name),
	}

	log.Debug("creating index")
	if _, err := coll.Indexes().CreateOne(ctx, emailIndex); err != nil {
		log.Warn("index creation failed", zap.Error(err))
		return err
	}
	log.Info("index ready")
	return nil
}
