package database

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is returned for ids that are not 24-character ObjectID hex.
var ErrInvalidID = errors.New("invalid object id")

// IDFilter matches the document whose _id is the ObjectID spelled by hex.
func IDFilter(hex string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return bson.M{"_id": oid}, nil
}

// DocWithObjectID encodes v and stores oid as a native ObjectID _id in front
// of its fields. v's own _id field must be tagged omitempty and left empty.
// Models keep the id as a hex string; the driver decodes ObjectIDs into
// string fields as hex, so reads need no conversion.
func DocWithObjectID(oid primitive.ObjectID, v interface{}) (bson.D, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var fields bson.D
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc := bson.D{{Key: "_id", Value: oid}}
	for _, f := range fields {
		if f.Key != "_id" {
			doc = append(doc, f)
		}
	}
	return doc, nil
}
