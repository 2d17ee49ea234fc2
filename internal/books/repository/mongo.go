package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookstore/bookstore-api/internal/books"
	"github.com/bookstore/bookstore-api/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores books under native ObjectID _ids. Callers pass the hex form;
// an id that is not valid hex can never match and is reported as ErrNotFound.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(ctx context.Context, b *books.Book) (string, error) {
	oid := primitive.NewObjectID()
	if b.ID != "" {
		var err error
		if oid, err = primitive.ObjectIDFromHex(b.ID); err != nil {
			return "", fmt.Errorf("insert book: %w", err)
		}
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	stored := *b
	stored.ID = ""
	doc, err := database.DocWithObjectID(oid, stored)
	if err != nil {
		return "", err
	}
	if _, err := m.col.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert book: %w", err)
	}
	b.ID = oid.Hex()
	return b.ID, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*books.Book, error) {
	filter, err := database.IDFilter(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var b books.Book
	if err := m.col.FindOne(ctx, filter).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return &b, nil
}

func (m *MongoRepo) List(ctx context.Context, limit int) ([]*books.Book, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer cur.Close(ctx)
	out := []*books.Book{}
	for cur.Next(ctx) {
		var b books.Book
		if err := cur.Decode(&b); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Update(ctx context.Context, id string, in books.Input) (*books.Book, error) {
	set := bson.M{
		"title":          in.Title,
		"author":         in.Author,
		"price":          in.Price,
		"stock":          in.Stock,
		"image":          in.Image,
		"discount_price": in.DiscountPrice,
		"description":    in.Description,
		"updated_at":     time.Now().UTC(),
	}
	filter, err := database.IDFilter(id)
	if err != nil {
		return nil, ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b books.Book
	if err := m.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	return &b, nil
}

func (m *MongoRepo) SetCover(ctx context.Context, id, key string) error {
	filter, err := database.IDFilter(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := m.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"cover_key": key, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("set cover: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	filter, err := database.IDFilter(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := m.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
