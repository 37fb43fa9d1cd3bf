// Package mongodb owns the process-wide Mongo client: it is created once in
// main, injected into the repositories and closed on shutdown.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const (
	JobsCollection  = "jobs"
	UsersCollection = "users"
)

type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Connect dials uri and pings the primary within timeout.
func Connect(ctx context.Context, uri, database string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(30 * time.Second)
	c, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.Ping(pctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("mongo connected", zap.String("database", database))
	return &Client{client: c, db: c.Database(database), logger: logger}, nil
}

func (c *Client) Database() *mongo.Database { return c.db }

func (c *Client) Jobs() *mongo.Collection { return c.db.Collection(JobsCollection) }

func (c *Client) Users() *mongo.Collection { return c.db.Collection(UsersCollection) }

// Logger returns the client's logger for repositories built on it.
func (c *Client) Logger() *zap.Logger { return c.logger }

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// RenameCollection atomically replaces to with from, dropping the old target.
func (c *Client) RenameCollection(ctx context.Context, from, to string) error {
	name := c.db.Name()
	cmd := bson.D{
		{Key: "renameCollection", Value: name + "." + from},
		{Key: "to", Value: name + "." + to},
		{Key: "dropTarget", Value: true},
	}
	if err := c.client.Database("admin").RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// JobIndexes are the secondary indexes of the jobs collection.
func JobIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
		{Keys: bson.D{{Key: "companyName", Value: 1}}},
		{Keys: bson.D{{Key: "experienceLevel", Value: 1}}},
		{Keys: bson.D{{Key: "contractType", Value: 1}}},
		{Keys: bson.D{{Key: "workType", Value: 1}}},
		{Keys: bson.D{{Key: "applicationsCount", Value: 1}}},
	}
}

// UserIndexes enforce one account per email.
func UserIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

// EnsureIndexes creates the job and user indexes; existing ones are kept.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	if _, err := c.Jobs().Indexes().CreateMany(ctx, JobIndexes()); err != nil {
		return fmt.Errorf("create job indexes: %w", err)
	}
	if _, err := c.Users().Indexes().CreateMany(ctx, UserIndexes()); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	c.logger.Info("mongo indexes ensured")
	return nil
}
