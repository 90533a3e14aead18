package models

import "time"

// BadgeCode identifies a badge type.
type BadgeCode string

const (
	BadgeFirstTribe    BadgeCode = "FIRST_TRIBE"
	BadgeProphet       BadgeCode = "PROPHET"
	BadgePerfectWeek   BadgeCode = "PERFECT_WEEK"
	BadgePickEmRegular BadgeCode = "PICKEM_REGULAR"
)

// PickEmRegularMinWeeks is the number of distinct weeks needed for BadgePickEmRegular.
const PickEmRegularMinWeeks = 5

// BadgeType is the static definition of a badge.
type BadgeType struct {
	Code        BadgeCode `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Emoji       string    `json:"emoji"`
}

// EarnedBadge is a badge awarded to a player for a season.
type EarnedBadge struct {
	Code      BadgeCode `json:"code" bson:"code"`
	Season    int       `json:"season" bson:"season"`
	AwardedAt time.Time `json:"awardedAt" bson:"awarded_at"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty"`
}

// BadgeTypes lists every badge the league awards.
var BadgeTypes = map[BadgeCode]BadgeType{
	BadgeFirstTribe: {
		Code: BadgeFirstTribe, Name: "Castaway", Emoji: "🏝️",
		Description: "Drafted a tribe for the season",
	},
	BadgeProphet: {
		Code: BadgeProphet, Name: "Prophet", Emoji: "🔮",
		Description: "First pick of a tribe won the season",
	},
	BadgePerfectWeek: {
		Code: BadgePerfectWeek, Name: "Perfect Week", Emoji: "🎯",
		Description: "Answered every scored pick'em of a week correctly",
	},
	BadgePickEmRegular: {
		Code: BadgePickEmRegular, Name: "Regular", Emoji: "🔥",
		Description: "Made pick'em predictions in five different weeks",
	},
}
