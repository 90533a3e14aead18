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

// MongoContestantRepository stores show contestants
type MongoContestantRepository struct {
	collection *mongo.Collection
}

func NewMongoContestantRepository(db *MongoDB) *MongoContestantRepository {
	return &MongoContestantRepository{
		collection: db.GetCollection("contestants"),
	}
}

// EnsureIndexes creates the season index
func (r *MongoContestantRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "season", Value: 1}, {Key: "vote_out_order", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create contestant indexes: %w", err)
	}
	return nil
}

// FindBySeason returns the season's cast ordered by id
func (r *MongoContestantRepository) FindBySeason(ctx context.Context, season int) ([]*models.Contestant, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"season": season}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find contestants for season %d: %w", season, err)
	}
	defer cursor.Close(ctx)

	var contestants []*models.Contestant
	if err := cursor.All(ctx, &contestants); err != nil {
		return nil, fmt.Errorf("failed to decode contestants: %w", err)
	}
	return contestants, nil
}

// FindByID returns one contestant or ErrNotFound
func (r *MongoContestantRepository) FindByID(ctx context.Context, id int) (*models.Contestant, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	var contestant models.Contestant
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contestant); err != nil {
		return nil, notFound(err)
	}
	return &contestant, nil
}

// UpdateStats overwrites the performance counters of a contestant
func (r *MongoContestantRepository) UpdateStats(ctx context.Context, contestant *models.Contestant) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"in_play":        contestant.InPlay,
			"vote_out_order": contestant.VoteOutOrder,
			"immunity_wins":  contestant.ImmunityWins,
			"hidden_idols":   contestant.HiddenIdols,
			"tribal_wins":    contestant.TribalWins,
			"rewards":        contestant.Rewards,
			"episodes":       contestant.Episodes,
			"advantages":     contestant.Advantages,
			"made_merge":     contestant.MadeMerge,
			"top3":           contestant.Top3,
			"sole_survivor":  contestant.SoleSurvivor,
			"made_fire":      contestant.MadeFire,
			"updated_at":     contestant.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": contestant.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update contestant %d: %w", contestant.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertMany replaces or inserts a batch of contestants keyed by id
func (r *MongoContestantRepository) UpsertMany(ctx context.Context, contestants []*models.Contestant) error {
	if len(contestants) == 0 {
		return nil
	}
	ctx, cancel := WithLongTimeout(ctx)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(contestants))
	now := time.Now()
	for _, c := range contestants {
		c.UpdatedAt = now
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": c.ID}).
			SetReplacement(c).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to upsert contestants: %w", err)
	}
	return nil
}
