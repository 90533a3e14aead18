package models

import (
	"strings"
	"time"
)

// OptionKind says what a pick'em option refers to. It also decides the penalty
// for a wrong answer.
type OptionKind string

const (
	OptionBoolean    OptionKind = "boolean"
	OptionTribe      OptionKind = "tribe"
	OptionContestant OptionKind = "contestant"
	OptionText       OptionKind = "text"
)

// Valid reports whether k is a known option kind.
func (k OptionKind) Valid() bool {
	switch k {
	case OptionBoolean, OptionTribe, OptionContestant, OptionText:
		return true
	}
	return false
}

// PickOption is one selectable answer of a pick'em market.
//
// Value carries the referenced entity: "true"/"false" for boolean options, the
// show tribe id for tribe options, the contestant id for contestant options and
// free text otherwise.
type PickOption struct {
	ID         int        `json:"id" bson:"id"`
	Label      string     `json:"label" bson:"label"`
	Kind       OptionKind `json:"type" bson:"kind"`
	Value      string     `json:"value" bson:"value"`
	PointValue int        `json:"pointValue" bson:"point_value"`
}

// PickEm is a weekly prediction market.
type PickEm struct {
	ID        int          `json:"id" bson:"_id"`
	Season    int          `json:"season" bson:"season"`
	Week      int          `json:"week" bson:"week"`
	Question  string       `json:"question" bson:"question"`
	Options   []PickOption `json:"options" bson:"options"`
	Answers   []int        `json:"answers" bson:"answers"`
	CreatedAt time.Time    `json:"createdAt" bson:"created_at"`
	ScoredAt  *time.Time   `json:"scoredAt,omitempty" bson:"scored_at,omitempty"`
}

// IsScored reports whether an administrator has set the correct answers.
func (p *PickEm) IsScored() bool {
	return len(p.Answers) > 0
}

// Option looks up an option by id.
func (p *PickEm) Option(id int) (PickOption, bool) {
	for _, o := range p.Options {
		if o.ID == id {
			return o, true
		}
	}
	return PickOption{}, false
}

// IsCorrect reports whether optionID is one of the answers.
func (p *PickEm) IsCorrect(optionID int) bool {
	for _, a := range p.Answers {
		if a == optionID {
			return true
		}
	}
	return false
}

// Validate checks a market before it is stored.
func (p *PickEm) Validate() error {
	if p.Season <= 0 {
		return &ValidationError{Field: "season", Reason: "must be positive"}
	}
	if p.Week <= 0 {
		return &ValidationError{Field: "week", Reason: "must be positive"}
	}
	if strings.TrimSpace(p.Question) == "" {
		return &ValidationError{Field: "question", Reason: "is required"}
	}
	if len(p.Options) < 2 {
		return &ValidationError{Field: "options", Reason: "needs at least two options"}
	}
	seen := make(map[int]bool, len(p.Options))
	for _, o := range p.Options {
		if seen[o.ID] {
			return &ValidationError{Field: "options", Reason: "duplicate option id"}
		}
		seen[o.ID] = true
		if !o.Kind.Valid() {
			return &ValidationError{Field: "options", Reason: "unknown option type " + string(o.Kind)}
		}
		if o.PointValue < 0 {
			return &ValidationError{Field: "options", Reason: "point value must not be negative"}
		}
		if o.Kind == OptionBoolean && o.Value != "true" && o.Value != "false" {
			return &ValidationError{Field: "options", Reason: "boolean option value must be true or false"}
		}
	}
	return p.ValidateAnswers(p.Answers)
}

// ValidateAnswers checks that every answer names an existing option.
func (p *PickEm) ValidateAnswers(answers []int) error {
	for _, a := range answers {
		if _, ok := p.Option(a); !ok {
			return &ValidationError{Field: "answers", Reason: "answer is not an option of this market"}
		}
	}
	return nil
}
