// Package mongo implements the repositories on MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rrens/fitness-coach/internal/config"
	"github.com/Rrens/fitness-coach/internal/repository"
)

const (
	usersCollection    = "users"
	messagesCollection = "chat_history"
	progressCollection = "daily_progress"

	defaultDatabase = "fitness_ai"
)

// Client wraps a connected MongoDB client and database
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewClient connects to MongoDB and ensures the indexes exist
func NewClient(ctx context.Context, uri, database string) (*Client, error) {
	if database == "" {
		database = defaultDatabase
	}

	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	c := &Client{client: client, db: client.Database(database)}
	if err := c.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return c, nil
}

func (c *Client) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		progressCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := c.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// Ping verifies connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

// Close disconnects the client
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Store returns the repositories backed by this client
func (c *Client) Store() *repository.Store {
	return repository.NewStore(
		&UserRepository{coll: c.db.Collection(usersCollection)},
		&MessageRepository{coll: c.db.Collection(messagesCollection)},
		&ProgressRepository{coll: c.db.Collection(progressCollection)},
		c.Ping,
		c.Close,
	)
}

// Open is the repository.Factory for the mongodb driver
func Open(ctx context.Context, cfg config.DatabaseConfig) (*repository.Store, error) {
	c, err := NewClient(ctx, cfg.DSN(), cfg.Database)
	if err != nil {
		return nil, err
	}
	return c.Store(), nil
}

// objectID parses a hex id. ok is false for ids this store never issued.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}
