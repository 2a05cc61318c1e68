package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bikehouse/internal/models"
)

func TestMemoryStoreInsertAssignsIDAndFinds(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	product := models.Product{
		Name:        "Roadster",
		Description: models.ProductDescription{Feature1: "carbon", Feature2: "disc", Feature3: "22 speed"},
		Image:       []byte{0x89, 'P', 'N', 'G', 0x00, 0xff},
		Price:       1200,
	}
	res, err := store.Products.InsertOne(ctx, &product)
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	assert.False(t, res.InsertedID.IsZero())

	all, err := store.Products.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, res.InsertedID, all[0].ID)
	assert.Equal(t, product.Image, all[0].Image)
	assert.Equal(t, product.Description, all[0].Description)

	found, err := store.Products.FindByID(ctx, res.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, "Roadster", found.Name)
}

func TestMemoryStoreFindByIDMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Orders.FindByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreFindFiltersByExactMatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, email := range []string{"a@example.com", "b@example.com", "a@example.com"} {
		_, err := store.Orders.InsertOne(ctx, &models.Order{Email: email, Details: bson.M{"item": "helmet"}})
		require.NoError(t, err)
	}

	orders, err := store.Orders.Find(ctx, bson.M{"email": "a@example.com"})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = store.Orders.Find(ctx, bson.M{"email": "A@example.com"})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NotNil(t, orders)
}

func TestMemoryStoreUpdateReplacesField(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	res, err := store.Orders.InsertOne(ctx, &models.Order{
		Email:   "a@example.com",
		Payment: bson.M{"amount": 10.0, "last4": "4242"},
	})
	require.NoError(t, err)

	upd, err := store.Orders.UpdateOne(ctx, bson.M{"_id": res.InsertedID}, bson.M{"payment": bson.M{"transaction": "pi_1"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), upd.MatchedCount)
	assert.Equal(t, int64(1), upd.ModifiedCount)

	order, err := store.Orders.FindByID(ctx, res.InsertedID)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"transaction": "pi_1"}, order.Payment)

	upd, err = store.Orders.UpdateOne(ctx, bson.M{"_id": primitive.NewObjectID()}, bson.M{"payment": bson.M{}})
	require.NoError(t, err)
	assert.Zero(t, upd.MatchedCount)
	assert.Nil(t, upd.UpsertedID)
}

func TestMemoryStoreUpsertCreatesFromFilter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	upd, err := store.Users.UpsertOne(ctx, bson.M{"email": "root@example.com"}, bson.M{"role": models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, int64(1), upd.UpsertedCount)
	require.NotNil(t, upd.UpsertedID)

	user, err := store.Users.FindOne(ctx, bson.M{"email": "root@example.com"})
	require.NoError(t, err)
	assert.Equal(t, *upd.UpsertedID, user.ID)
	assert.True(t, user.IsAdmin())

	upd, err = store.Users.UpsertOne(ctx, bson.M{"email": "root@example.com"}, bson.M{"role": models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, int64(1), upd.MatchedCount)
	assert.Zero(t, upd.ModifiedCount)
	assert.Zero(t, upd.UpsertedCount)
}

func TestMemoryStoreDeleteOne(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	res, err := store.Reviews.InsertOne(ctx, &models.Review{Name: "Sam", Rating: 4.5})
	require.NoError(t, err)

	del, err := store.Reviews.DeleteOne(ctx, bson.M{"_id": res.InsertedID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), del.DeletedCount)

	del, err = store.Reviews.DeleteOne(ctx, bson.M{"_id": res.InsertedID})
	require.NoError(t, err)
	assert.Zero(t, del.DeletedCount)

	reviews, err := store.Reviews.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()

	parsed, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseID("not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}
