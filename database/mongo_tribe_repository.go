package database

import (
	"context"
	"fmt"
	"time"

	"survivor-league/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTribeRepository stores player rosters. Tribes are insert-only.
type MongoTribeRepository struct {
	collection *mongo.Collection
}

func NewMongoTribeRepository(db *MongoDB) *MongoTribeRepository {
	return &MongoTribeRepository{
		collection: db.GetCollection("player_tribes"),
	}
}

// EnsureIndexes creates lookup indexes for season and owner
func (r *MongoTribeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "season", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "player_id", Value: 1}, {Key: "season", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create tribe indexes: %w", err)
	}
	return nil
}

// Create inserts a tribe and sets its id
func (r *MongoTribeRepository) Create(ctx context.Context, tribe *models.PlayerTribe) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	if tribe.CreatedAt.IsZero() {
		tribe.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, tribe)
	if err != nil {
		return fmt.Errorf("failed to create tribe: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tribe.ID = oid
	}
	return nil
}

// FindBySeason returns every tribe of a season, newest first
func (r *MongoTribeRepository) FindBySeason(ctx context.Context, season int) ([]*models.PlayerTribe, error) {
	return r.find(ctx, bson.M{"season": season})
}

// FindByPlayer returns a player's tribes across seasons, newest first
func (r *MongoTribeRepository) FindByPlayer(ctx context.Context, playerID int) ([]*models.PlayerTribe, error) {
	return r.find(ctx, bson.M{"player_id": playerID})
}

func (r *MongoTribeRepository) find(ctx context.Context, filter bson.M) ([]*models.PlayerTribe, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tribes: %w", err)
	}
	defer cursor.Close(ctx)

	var tribes []*models.PlayerTribe
	if err := cursor.All(ctx, &tribes); err != nil {
		return nil, fmt.Errorf("failed to decode tribes: %w", err)
	}
	return tribes, nil
}
