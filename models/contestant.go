package models

import (
	"time"
)

// Vote-out codes at or above VoteOutSpecialThreshold mark a final placement
// rather than an elimination order.
const (
	VoteOutSpecialThreshold = 900
	VoteOutThirdPlace       = 901
	VoteOutRunnerUp         = 902
	VoteOutWinner           = 903
)

// Contestant is a show contestant and their running performance counters.
// Contestants are imported once per season and mutated as episodes air; they
// are never deleted.
type Contestant struct {
	ID         int    `json:"id" bson:"_id"`
	Name       string `json:"name" bson:"name"`
	ImageURL   string `json:"image" bson:"image"`
	Season     int    `json:"season" bson:"season"`
	Hometown   string `json:"hometown" bson:"hometown"`
	Profession string `json:"profession" bson:"profession"`
	ShowTribes []int  `json:"tribes" bson:"tribes"`

	InPlay       bool `json:"inPlay" bson:"in_play"`
	VoteOutOrder int  `json:"voteOutOrder" bson:"vote_out_order"`

	ImmunityWins int  `json:"immunityWins" bson:"immunity_wins"`
	HiddenIdols  int  `json:"hiddenIdols" bson:"hidden_idols"`
	TribalWins   int  `json:"tribalWins" bson:"tribal_wins"`
	Rewards      int  `json:"rewards" bson:"rewards"`
	Episodes     int  `json:"episodes" bson:"episodes"`
	Advantages   int  `json:"advantages" bson:"advantages"`
	MadeMerge    bool `json:"madeMerge" bson:"made_merge"`
	Top3         bool `json:"top3" bson:"top3"`
	SoleSurvivor bool `json:"soleSurvivor" bson:"sole_survivor"`
	MadeFire     bool `json:"madeFire" bson:"made_fire"`

	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`

	// Computed on read, never stored
	Points int `json:"points" bson:"-"`
}

// ContestantStats is the administrator-editable part of a contestant.
type ContestantStats struct {
	InPlay       bool `json:"inPlay"`
	VoteOutOrder int  `json:"voteOutOrder"`
	ImmunityWins int  `json:"immunityWins"`
	HiddenIdols  int  `json:"hiddenIdols"`
	TribalWins   int  `json:"tribalWins"`
	Rewards      int  `json:"rewards"`
	Episodes     int  `json:"episodes"`
	Advantages   int  `json:"advantages"`
	MadeMerge    bool `json:"madeMerge"`
	Top3         bool `json:"top3"`
	SoleSurvivor bool `json:"soleSurvivor"`
	MadeFire     bool `json:"madeFire"`
}

// Placement describes where a contestant finished (or that they are still playing).
type Placement string

const (
	PlacementInPlay     Placement = "in_play"
	PlacementEliminated Placement = "eliminated"
	PlacementThird      Placement = "third"
	PlacementRunnerUp   Placement = "runner_up"
	PlacementWinner     Placement = "winner"
)

// Placement decodes VoteOutOrder.
func (c *Contestant) Placement() Placement {
	switch c.VoteOutOrder {
	case VoteOutWinner:
		return PlacementWinner
	case VoteOutRunnerUp:
		return PlacementRunnerUp
	case VoteOutThirdPlace:
		return PlacementThird
	}
	if c.InPlay || c.VoteOutOrder <= 0 {
		return PlacementInPlay
	}
	return PlacementEliminated
}

// Validate checks the counters are in range.
func (s ContestantStats) Validate() error {
	for name, v := range map[string]int{
		"immunityWins": s.ImmunityWins,
		"hiddenIdols":  s.HiddenIdols,
		"tribalWins":   s.TribalWins,
		"rewards":      s.Rewards,
		"episodes":     s.Episodes,
		"advantages":   s.Advantages,
		"voteOutOrder": s.VoteOutOrder,
	} {
		if v < 0 {
			return &ValidationError{Field: name, Reason: "must not be negative"}
		}
	}
	if s.VoteOutOrder > VoteOutWinner {
		return &ValidationError{Field: "voteOutOrder", Reason: "unknown placement code"}
	}
	return nil
}

// Apply copies the stats onto the contestant.
func (s ContestantStats) Apply(c *Contestant) {
	c.InPlay = s.InPlay
	c.VoteOutOrder = s.VoteOutOrder
	c.ImmunityWins = s.ImmunityWins
	c.HiddenIdols = s.HiddenIdols
	c.TribalWins = s.TribalWins
	c.Rewards = s.Rewards
	c.Episodes = s.Episodes
	c.Advantages = s.Advantages
	c.MadeMerge = s.MadeMerge
	c.Top3 = s.Top3
	c.SoleSurvivor = s.SoleSurvivor
	c.MadeFire = s.MadeFire
	c.UpdatedAt = time.Now()
}
