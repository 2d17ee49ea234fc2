package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type record struct {
	ID    string `bson:"_id,omitempty"`
	Title string `bson:"title"`
}

func TestDocWithObjectID_RoundTrip(t *testing.T) {
	oid := primitive.NewObjectID()
	doc, err := DocWithObjectID(oid, record{Title: "Dune"})
	require.NoError(t, err)
	require.Equal(t, "_id", doc[0].Key)
	require.Equal(t, oid, doc[0].Value)
	require.Len(t, doc, 2)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	// stored as a real ObjectID, read back into the string field as hex
	require.Equal(t, bson.TypeObjectID, bson.Raw(raw).Lookup("_id").Type)
	var got record
	require.NoError(t, bson.Unmarshal(raw, &got))
	require.Equal(t, oid.Hex(), got.ID)
	require.Equal(t, "Dune", got.Title)
}

func TestDocWithObjectID_DropsStringID(t *testing.T) {
	oid := primitive.NewObjectID()
	doc, err := DocWithObjectID(oid, record{ID: "stale", Title: "x"})
	require.NoError(t, err)
	require.Len(t, doc, 2)
	require.Equal(t, oid, doc[0].Value)
}

func TestIDFilter(t *testing.T) {
	oid := primitive.NewObjectID()
	f, err := IDFilter(oid.Hex())
	require.NoError(t, err)
	require.Equal(t, bson.M{"_id": oid}, f)

	_, err = IDFilter("not-hex")
	require.ErrorIs(t, err, ErrInvalidID)
}
