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

// MongoPickEmRepository stores weekly pick'em markets
type MongoPickEmRepository struct {
	collection *mongo.Collection
	sequences  *Sequences
}

func NewMongoPickEmRepository(db *MongoDB, sequences *Sequences) *MongoPickEmRepository {
	return &MongoPickEmRepository{
		collection: db.GetCollection("pick_ems"),
		sequences:  sequences,
	}
}

// EnsureIndexes creates the season/week index
func (r *MongoPickEmRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "season", Value: 1}, {Key: "week", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create pick'em indexes: %w", err)
	}
	return nil
}

// Create validates and inserts a market, assigning its id
func (r *MongoPickEmRepository) Create(ctx context.Context, market *models.PickEm) error {
	if err := market.Validate(); err != nil {
		return err
	}

	id, err := r.sequences.Next(ctx, "pick_ems")
	if err != nil {
		return err
	}

	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	market.ID = id
	market.CreatedAt = time.Now()
	if market.Answers == nil {
		market.Answers = []int{}
	}

	if _, err := r.collection.InsertOne(ctx, market); err != nil {
		return fmt.Errorf("failed to create pick'em: %w", err)
	}
	return nil
}

// FindByID returns one market or ErrNotFound
func (r *MongoPickEmRepository) FindByID(ctx context.Context, id int) (*models.PickEm, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	var market models.PickEm
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&market); err != nil {
		return nil, notFound(err)
	}
	return &market, nil
}

// FindBySeasonWeek returns a week's markets in id order
func (r *MongoPickEmRepository) FindBySeasonWeek(ctx context.Context, season, week int) ([]*models.PickEm, error) {
	return r.find(ctx, bson.M{"season": season, "week": week})
}

// FindBySeason returns every market of a season
func (r *MongoPickEmRepository) FindBySeason(ctx context.Context, season int) ([]*models.PickEm, error) {
	return r.find(ctx, bson.M{"season": season})
}

func (r *MongoPickEmRepository) find(ctx context.Context, filter bson.M) ([]*models.PickEm, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "week", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find pick'ems: %w", err)
	}
	defer cursor.Close(ctx)

	var markets []*models.PickEm
	if err := cursor.All(ctx, &markets); err != nil {
		return nil, fmt.Errorf("failed to decode pick'ems: %w", err)
	}
	return markets, nil
}

// SetAnswers scores a market. Only unscored markets match the filter, so a
// second call returns ErrNotFound and the first answers stay in place.
func (r *MongoPickEmRepository) SetAnswers(ctx context.Context, id int, answers []int) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"answers": bson.M{"$size": 0}},
			bson.M{"answers": bson.M{"$exists": false}},
		},
	}
	update := bson.M{"$set": bson.M{"answers": answers, "scored_at": now}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to score pick'em %d: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
