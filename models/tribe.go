package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TribeSize is the number of contestants on every roster.
const TribeSize = 6

// PlayerTribe is a player's roster of six contestants. The first contestant is
// the player's predicted Sole Survivor. Tribes are never edited after creation.
type PlayerTribe struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PlayerID    int                `json:"playerId" bson:"player_id"`
	Contestants []int              `json:"tribeArray" bson:"contestants"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	Emoji       string             `json:"emoji" bson:"emoji"`
	Color       string             `json:"color" bson:"color"`
	Paid        bool               `json:"paid" bson:"paid"`
	Season      int                `json:"season" bson:"season"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`

	// LegacyScore holds the final score of tribes imported from seasons that
	// predate live scoring.
	LegacyScore *int `json:"-" bson:"legacy_score,omitempty"`

	// Display fields populated by the service layer
	PlayerName string `json:"playerName,omitempty" bson:"-"`
	Points     int    `json:"points" bson:"-"`
	Rank       int    `json:"rank,omitempty" bson:"-"`
}

// PredictedWinner returns the contestant at index 0, or 0 for an empty roster.
func (t *PlayerTribe) PredictedWinner() int {
	if len(t.Contestants) == 0 {
		return 0
	}
	return t.Contestants[0]
}

// NewTribeRequest is the body of POST /api/add-player.
type NewTribeRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	TribeName string `json:"tribeName"`
	Color     string `json:"color"`
	Emoji     string `json:"emoji"`
	Season    int    `json:"season"`
	TribeIDs  []int  `json:"tribeArray"`
}

// Validate checks the request shape. Contestant existence is checked by the service.
func (r *NewTribeRequest) Validate() error {
	if r.Email == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if r.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if r.TribeName == "" {
		return &ValidationError{Field: "tribeName", Reason: "is required"}
	}
	if len(r.TribeIDs) != TribeSize {
		return &ValidationError{Field: "tribeArray", Reason: "must contain exactly six contestants"}
	}
	seen := make(map[int]bool, TribeSize)
	for _, id := range r.TribeIDs {
		if id <= 0 {
			return &ValidationError{Field: "tribeArray", Reason: "contains an invalid contestant id"}
		}
		if seen[id] {
			return &ValidationError{Field: "tribeArray", Reason: "contains a duplicate contestant"}
		}
		seen[id] = true
	}
	return nil
}
