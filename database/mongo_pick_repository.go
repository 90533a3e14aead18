package database

import (
	"context"
	"fmt"
	"time"

	"survivor-league/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPickRepository stores players' pick'em selections
type MongoPickRepository struct {
	collection *mongo.Collection
}

func NewMongoPickRepository(db *MongoDB) *MongoPickRepository {
	return &MongoPickRepository{
		collection: db.GetCollection("picks"),
	}
}

// EnsureIndexes creates the unique (player, market) index and query indexes
func (r *MongoPickRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "player_id", Value: 1}, {Key: "pickem_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "season", Value: 1}, {Key: "week", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "player_id", Value: 1}, {Key: "season", Value: 1}, {Key: "week", Value: 1}},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create pick indexes: %w", err)
	}
	return nil
}

// UpsertMany writes a player's selections in one bulk write. Callers wrap it
// in MongoDB.WithTransaction so the batch lands all-or-nothing.
func (r *MongoPickRepository) UpsertMany(ctx context.Context, picks []*models.Pick) error {
	if len(picks) == 0 {
		return nil
	}

	ctx, cancel := WithLongTimeout(ctx)
	defer cancel()

	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(picks))
	for _, pick := range picks {
		pick.UpdatedAt = now
		filter := bson.M{"player_id": pick.PlayerID, "pickem_id": pick.PickEmID}
		update := bson.M{
			"$set": bson.M{
				"selection":  pick.Selection,
				"season":     pick.Season,
				"week":       pick.Week,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{
				"player_id":  pick.PlayerID,
				"pickem_id":  pick.PickEmID,
				"created_at": now,
			},
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(filter).
			SetUpdate(update).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to upsert picks: %w", err)
	}
	return nil
}

// FindByPlayerAndWeek returns one player's selections for a week
func (r *MongoPickRepository) FindByPlayerAndWeek(ctx context.Context, playerID, season, week int) ([]*models.Pick, error) {
	return r.find(ctx, bson.M{"player_id": playerID, "season": season, "week": week})
}

// FindByWeek returns every player's selections for a week
func (r *MongoPickRepository) FindByWeek(ctx context.Context, season, week int) ([]*models.Pick, error) {
	return r.find(ctx, bson.M{"season": season, "week": week})
}

// FindBySeason returns every selection of a season
func (r *MongoPickRepository) FindBySeason(ctx context.Context, season int) ([]*models.Pick, error) {
	return r.find(ctx, bson.M{"season": season})
}

func (r *MongoPickRepository) find(ctx context.Context, filter bson.M) ([]*models.Pick, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "player_id", Value: 1},
		{Key: "pickem_id", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find picks: %w", err)
	}
	defer cursor.Close(ctx)

	var picks []*models.Pick
	for cursor.Next(ctx) {
		var pick models.Pick
		if err := cursor.Decode(&pick); err != nil {
			return nil, fmt.Errorf("failed to decode pick: %w", err)
		}
		picks = append(picks, &pick)
	}
	return picks, cursor.Err()
}
