package kv

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type kvDocument struct {
	Key   string `bson:"key"`
	Value string `bson:"value"`
}

// MongoStore keeps one document per key in a single collection. Values are
// stored as JSON text, not BSON, so they read back byte-for-byte.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore ensures a unique index on key so that concurrent first
// writes of the same key upsert one document.
func NewMongoStore(ctx context.Context, db *mongo.Database, collection string) (*MongoStore, error) {
	if collection == "" {
		collection = "kv"
	}
	coll := db.Collection(collection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create key index: %w", err)
	}
	return &MongoStore{
		collection: coll,
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument
	err := s.collection.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Value), nil
}

func (s *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"key": key}, kvDocument{Key: key, Value: string(value)}, opts)
	return err
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"key": key})
	return err
}

// Close disconnects the client that owns the collection.
func (s *MongoStore) Close() error {
	return s.collection.Database().Client().Disconnect(context.Background())
}
