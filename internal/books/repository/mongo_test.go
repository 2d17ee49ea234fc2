package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/bookstore/bookstore-api/internal/books"
	"github.com/bookstore/bookstore-api/internal/database"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newMongoTestCollection(t *testing.T) *mongo.Collection {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, uri, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	col := client.Database("bookstore_test").Collection("books_" + time.Now().Format("150405.000000"))
	t.Cleanup(func() { _ = col.Drop(ctx) })
	return col
}

func TestMongoRepoCRUD(t *testing.T) {
	col := newMongoTestCollection(t)
	r := NewMongoRepo(col)
	ctx := context.Background()

	id, err := r.Create(ctx, &books.Book{Title: "Dune", Author: "Herbert", Price: 9.5})
	require.NoError(t, err)
	require.Len(t, id, 24)

	raw, err := col.FindOne(ctx, bson.M{}).Raw()
	require.NoError(t, err)
	require.Equal(t, bson.TypeObjectID, raw.Lookup("_id").Type)

	got, err := r.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, "Dune", got.Title)

	updated, err := r.Update(ctx, id, books.Input{Title: "Dune Messiah", Author: "Herbert", Price: 11})
	require.NoError(t, err)
	require.Equal(t, "Dune Messiah", updated.Title)

	require.NoError(t, r.SetCover(ctx, id, "covers/"+id))
	require.NoError(t, r.Delete(ctx, id))
	_, err = r.Get(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)

	for _, bad := range []string{"not-hex", "", primitive.NewObjectID().Hex()} {
		_, err = r.Get(ctx, bad)
		require.ErrorIs(t, err, ErrNotFound, bad)
		require.ErrorIs(t, r.Delete(ctx, bad), ErrNotFound, bad)
	}
}

// Documents inserted by other writers carry driver-generated ObjectIDs.
func TestMongoRepo_ReadsForeignObjectIDs(t *testing.T) {
	col := newMongoTestCollection(t)
	r := NewMongoRepo(col)
	ctx := context.Background()

	res, err := col.InsertOne(ctx, bson.M{"title": "Emma", "author": "Austen", "price": 4.0, "stock": 2})
	require.NoError(t, err)
	oid := res.InsertedID.(primitive.ObjectID)

	got, err := r.Get(ctx, oid.Hex())
	require.NoError(t, err)
	require.Equal(t, oid.Hex(), got.ID)
	require.Equal(t, "Emma", got.Title)

	list, err := r.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, oid.Hex(), list[0].ID)
}
