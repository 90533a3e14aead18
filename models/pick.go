package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pick is one player's selection for one pick'em market.
// (PlayerID, PickEmID) is unique.
type Pick struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	PlayerID  int                `json:"playerId" bson:"player_id"`
	PickEmID  int                `json:"pickId" bson:"pickem_id"`
	Season    int                `json:"season" bson:"season"`
	Week      int                `json:"week" bson:"week"`
	Selection int                `json:"selection" bson:"selection"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// PickSubmission is one entry of a submit request.
type PickSubmission struct {
	PickEmID  int `json:"pickId"`
	Selection int `json:"selection"`
}

// SubmitPicksRequest is the body of POST /api/pick-ems/submit.
type SubmitPicksRequest struct {
	Season int              `json:"season"`
	Week   int              `json:"week"`
	Picks  []PickSubmission `json:"picks"`
}

// Validate checks the request shape.
func (r *SubmitPicksRequest) Validate() error {
	if r.Season <= 0 {
		return &ValidationError{Field: "season", Reason: "must be positive"}
	}
	if r.Week <= 0 {
		return &ValidationError{Field: "week", Reason: "must be positive"}
	}
	if len(r.Picks) == 0 {
		return &ValidationError{Field: "picks", Reason: "must not be empty"}
	}
	seen := make(map[int]bool, len(r.Picks))
	for _, p := range r.Picks {
		if seen[p.PickEmID] {
			return &ValidationError{Field: "picks", Reason: "market submitted twice"}
		}
		seen[p.PickEmID] = true
	}
	return nil
}

// PickScore is a scored pick in a player's breakdown.
type PickScore struct {
	PickEmID  int `json:"pickId"`
	Selection int `json:"selection"`
	Points    int `json:"points"`
}

// PlayerPickEmScore is a player's pick'em total for a season or week.
type PlayerPickEmScore struct {
	PlayerID   int         `json:"playerId"`
	PlayerName string      `json:"playerName"`
	Total      int         `json:"total"`
	Picks      []PickScore `json:"picks"`
}
