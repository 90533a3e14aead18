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

// MongoPlayerRepository stores league players
type MongoPlayerRepository struct {
	collection *mongo.Collection
	sequences  *Sequences
}

func NewMongoPlayerRepository(db *MongoDB, sequences *Sequences) *MongoPlayerRepository {
	return &MongoPlayerRepository{
		collection: db.GetCollection("players"),
		sequences:  sequences,
	}
}

// EnsureIndexes creates the unique email index and the login selector index
func (r *MongoPlayerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "login_selector", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create player indexes: %w", err)
	}
	return nil
}

// GetByEmail looks a player up by normalised email
func (r *MongoPlayerRepository) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	return r.findOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

// GetByID looks a player up by id
func (r *MongoPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByLoginSelector finds the player holding a magic-link selector
func (r *MongoPlayerRepository) GetByLoginSelector(ctx context.Context, selector string) (*models.Player, error) {
	return r.findOne(ctx, bson.M{"login_selector": selector})
}

func (r *MongoPlayerRepository) findOne(ctx context.Context, filter bson.M) (*models.Player, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	var player models.Player
	if err := r.collection.FindOne(ctx, filter).Decode(&player); err != nil {
		return nil, notFound(err)
	}
	return &player, nil
}

// GetByIDs returns the players with the given ids keyed by id
func (r *MongoPlayerRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Player, error) {
	players := make(map[int]*models.Player, len(ids))
	if len(ids) == 0 {
		return players, nil
	}

	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find players: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var p models.Player
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode player: %w", err)
		}
		players[p.ID] = &p
	}
	return players, cursor.Err()
}

// Create inserts a new player and assigns its id
func (r *MongoPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	id, err := r.sequences.Next(ctx, "players")
	if err != nil {
		return err
	}

	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	now := time.Now()
	player.ID = id
	player.Email = models.NormalizeEmail(player.Email)
	player.CreatedAt = now
	player.UpdatedAt = now
	if player.TribeIDs == nil {
		player.TribeIDs = []primitive.ObjectID{}
	}
	if player.Badges == nil {
		player.Badges = []models.EarnedBadge{}
	}

	if _, err := r.collection.InsertOne(ctx, player); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("player %s already exists: %w", player.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// SaveLoginToken persists the magic-link fields of a player
func (r *MongoPlayerRepository) SaveLoginToken(ctx context.Context, player *models.Player) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	var update bson.M
	if player.LoginSelector == "" {
		update = bson.M{
			"$unset": bson.M{"login_selector": "", "login_verifier_hash": "", "login_token_expiry": ""},
			"$set":   bson.M{"updated_at": player.UpdatedAt},
		}
	} else {
		update = bson.M{"$set": bson.M{
			"login_selector":      player.LoginSelector,
			"login_verifier_hash": player.LoginVerifierHash,
			"login_token_expiry":  player.LoginTokenExpiry,
			"updated_at":          player.UpdatedAt,
		}}
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": player.ID}, update); err != nil {
		return fmt.Errorf("failed to save login token: %w", err)
	}
	return nil
}

// AddTribe records a tribe id on its owner
func (r *MongoPlayerRepository) AddTribe(ctx context.Context, playerID int, tribeID primitive.ObjectID) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": playerID},
		bson.M{
			"$addToSet": bson.M{"tribe_ids": tribeID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add tribe to player %d: %w", playerID, err)
	}
	return nil
}

// AddBadge awards a badge unless the player already holds it for that season
func (r *MongoPlayerRepository) AddBadge(ctx context.Context, playerID int, badge models.EarnedBadge) (bool, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"_id": playerID,
		"badges": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"code":   badge.Code,
			"season": badge.Season,
		}}},
	}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"badges": badge},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return false, fmt.Errorf("failed to award badge %s to player %d: %w", badge.Code, playerID, err)
	}
	return result.ModifiedCount > 0, nil
}
