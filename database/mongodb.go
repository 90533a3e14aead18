package database

import (
	"context"
	"fmt"
	"survivor-league/logging"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Config struct {
	// URI, when set, is used as-is and the host fields are ignored.
	URI      string
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Timeout  time.Duration

	// Transactions require a replica set. Single-node development servers
	// can turn them off; batch writes then run without a session.
	Transactions bool
}

// ConnectionURI builds the MongoDB connection string.
func (c Config) ConnectionURI() string {
	if c.URI != "" {
		return c.URI
	}
	if c.Username != "" && c.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=%s",
			c.Username, c.Password, c.Host, c.Port, c.Database, c.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s", c.Host, c.Port, c.Database)
}

// MongoDB owns the client for the whole process. It is created once in main
// and handed to every repository.
type MongoDB struct {
	client       *mongo.Client
	database     *mongo.Database
	transactions bool
	logger       *logging.Logger
}

func NewMongoConnection(ctx context.Context, config Config) (*MongoDB, error) {
	logger := logging.WithPrefix("MongoDB")

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = MediumTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if config.Username != "" && config.URI == "" {
		logger.Infof("Connecting with authentication as user: %s", config.Username)
	} else {
		logger.Info("Connecting")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.ConnectionURI()))
	if err != nil {
		logger.Errorf("Failed to connect: %v", err)
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Errorf("Failed to ping: %v", err)
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Infof("Connected to database=%s (transactions=%t)", config.Database, config.Transactions)

	return &MongoDB{
		client:       client,
		database:     client.Database(config.Database),
		transactions: config.Transactions,
		logger:       logger,
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ShortTimeout)
	defer cancel()

	err := m.client.Disconnect(ctx)
	if err != nil {
		m.logger.Errorf("Error disconnecting: %v", err)
	} else {
		m.logger.Info("Connection closed")
	}
	return err
}

// Ping checks the primary is reachable.
func (m *MongoDB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ShortTimeout)
	defer cancel()

	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("MongoDB ping failed: %w", err)
	}
	return nil
}

func (m *MongoDB) GetCollection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// WithTransaction runs fn inside a multi-document transaction. The context
// passed to fn carries the session; repository calls made with it join the
// transaction. fn may be retried by the driver on transient errors.
func (m *MongoDB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.transactions {
		return fn(ctx)
	}

	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// IndexNames lists the index names of a collection
func (m *MongoDB) IndexNames(ctx context.Context, collection string) ([]string, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	cursor, err := m.GetCollection(collection).Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes on %s: %w", collection, err)
	}

	var indexes []bson.M
	if err := cursor.All(ctx, &indexes); err != nil {
		return nil, fmt.Errorf("failed to read indexes on %s: %w", collection, err)
	}

	names := make([]string, 0, len(indexes))
	for _, index := range indexes {
		if name, ok := index["name"].(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}
