package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo stores one document per (key, user) pair in the collections
// collection. The whole blob is replaced on every write, mirroring the
// contract of the other backends.
type Mongo struct {
	col *mongo.Collection
}

func NewMongo(client *mongo.Client, dbName string) *Mongo {
	return &Mongo{col: client.Database(dbName).Collection("collections")}
}

type mongoDoc struct {
	Key    string `bson:"key"`
	UserID string `bson:"user_id"`
	Data   []byte `bson:"data"`
}

func (m *Mongo) ReadCollection(ctx context.Context, key, userID string) (json.RawMessage, bool, error) {
	var doc mongoDoc
	err := m.col.FindOne(ctx, bson.M{"key": key, "user_id": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo read %s/%s: %w", key, userID, err)
	}
	return doc.Data, true, nil
}

func (m *Mongo) WriteCollection(ctx context.Context, key, userID string, data json.RawMessage) error {
	filter := bson.M{"key": key, "user_id": userID}
	doc := mongoDoc{Key: key, UserID: userID, Data: data}

	opts := options.Replace().SetUpsert(true)
	if _, err := m.col.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("mongo write %s/%s: %w", key, userID, err)
	}
	return nil
}
