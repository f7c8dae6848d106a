package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devhelpr/ocif-generator/pkg/errors"
	"github.com/devhelpr/ocif-generator/pkg/ocif"
)

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string // connection string (default "mongodb://localhost:27017")
	Database   string // database name (default "ocif")
	Collection string // collection name (default "layouts")
}

// MongoStore persists documents in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "ocif"
	}
	if cfg.Collection == "" {
		cfg.Collection = "layouts"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect %s", cfg.URI)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping %s", cfg.URI)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save persists doc under a fresh uuid.
func (s *MongoStore) Save(ctx context.Context, doc *ocif.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	rec := record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Document:  data,
	}
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "insert document")
	}
	return rec.ID, nil
}

// Get retrieves a document by id.
func (s *MongoStore) Get(ctx context.Context, id string) (*ocif.Document, error) {
	var rec record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "find document %s", id)
	}
	var doc ocif.Document
	if err := json.Unmarshal(rec.Document, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode document %s", id)
	}
	return &doc, nil
}

// Close disconnects the MongoDB client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
