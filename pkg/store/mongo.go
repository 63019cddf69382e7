package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoDatabase   = "protouml"
	mongoCollection = "diagrams"
)

// MongoStore persists shared diagrams in a MongoDB collection, for
// service deployments that must survive restarts and share state across
// instances.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to the MongoDB instance at uri and verifies the
// connection with a ping.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

// Put upserts the diagram under its ID.
func (s *MongoStore) Put(ctx context.Context, d *Diagram) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": d.ID},
		d,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Get retrieves a diagram by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Diagram, error) {
	var d Diagram
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
