package revocation

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type revokedToken struct {
	JTI       string    `bson:"jti"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoStore keeps revoked IDs in a collection with a TTL index on expiresAt.
type MongoStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col, now: time.Now}
}

// EnsureIndexes creates the unique jti index and the expiry TTL index.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "jti", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	})
	if err != nil {
		return fmt.Errorf("revocation indexes: %w", err)
	}
	return nil
}

func (m *MongoStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if !expiresAt.After(m.now()) {
		return nil
	}
	filter := bson.M{"jti": jti}
	upd := bson.M{"$set": revokedToken{JTI: jti, ExpiresAt: expiresAt.UTC()}}
	_, err := m.col.UpdateOne(ctx, filter, upd, options.Update().SetUpsert(true))
	return err
}

// IsRevoked also checks expiresAt because the TTL monitor only runs once a minute.
func (m *MongoStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var rt revokedToken
	if err := m.col.FindOne(ctx, bson.M{"jti": jti}).Decode(&rt); err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	return m.now().Before(rt.ExpiresAt), nil
}
