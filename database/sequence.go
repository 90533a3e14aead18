package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sequences hands out integer ids for collections keyed by int _id.
type Sequences struct {
	collection *mongo.Collection
}

func NewSequences(db *MongoDB) *Sequences {
	return &Sequences{collection: db.GetCollection("counters")}
}

// Next atomically increments and returns the counter called name.
func (s *Sequences) Next(ctx context.Context, name string) (int, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Value int `bson:"value"`
	}
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", name, err)
	}
	return counter.Value, nil
}

// Ensure raises the counter to at least floor. Used after importing documents
// that carry their own ids.
func (s *Sequences) Ensure(ctx context.Context, name string, floor int) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$max": bson.M{"value": floor}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to raise sequence %s: %w", name, err)
	}
	return nil
}
