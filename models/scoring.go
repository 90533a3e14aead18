package models

// ScoringTableVersion identifies the weights below. Bump it whenever a weight changes.
const ScoringTableVersion = "2025.1"

// SoleSurvivorPickBonus is added to a tribe whose first pick wins the season.
const SoleSurvivorPickBonus = 200

// StatKey names a scoring category and the contestant statistic behind it.
type StatKey string

const (
	StatImmunityWins StatKey = "immunityWins"
	StatHiddenIdols  StatKey = "hiddenIdols"
	StatTribalWins   StatKey = "tribalWins"
	StatRewards      StatKey = "rewards"
	StatEpisodes     StatKey = "episodes"
	StatAdvantages   StatKey = "advantages"
	StatMadeMerge    StatKey = "madeMerge"
	StatTop3         StatKey = "top3"
	StatSoleSurvivor StatKey = "soleSurvivor"
	StatMadeFire     StatKey = "madeFire"
)

// ScoringCategory maps one contestant statistic to a point weight.
type ScoringCategory struct {
	Key         StatKey `json:"schemaKey" bson:"schema_key"`
	Name        string  `json:"name" bson:"name"`
	Points      int     `json:"points" bson:"points"`
	Description string  `json:"description" bson:"description"`
}

// DefaultScoringTable is the league's scoring table.
var DefaultScoringTable = []ScoringCategory{
	{Key: StatImmunityWins, Name: "Immunity Win", Points: 100, Description: "Per individual or team immunity win"},
	{Key: StatHiddenIdols, Name: "Hidden Idol", Points: 50, Description: "Per hidden immunity idol found"},
	{Key: StatTribalWins, Name: "Tribal Council Survived", Points: 25, Description: "Per tribal council attended without being voted out"},
	{Key: StatRewards, Name: "Reward Win", Points: 25, Description: "Per reward challenge won"},
	{Key: StatEpisodes, Name: "Episode Survived", Points: 10, Description: "Per episode still in the game"},
	{Key: StatAdvantages, Name: "Advantage", Points: 25, Description: "Per advantage found or played"},
	{Key: StatMadeMerge, Name: "Made the Merge", Points: 100, Description: "Reached the merged tribe"},
	{Key: StatTop3, Name: "Final Three", Points: 150, Description: "Sat at final tribal council"},
	{Key: StatSoleSurvivor, Name: "Sole Survivor", Points: 500, Description: "Won the season"},
	{Key: StatMadeFire, Name: "Fire Making", Points: 100, Description: "Won the fire-making challenge"},
}

// StatValue reads the statistic behind key. Boolean milestones report flag=true
// and value 0 or 1. ok is false for keys with no contestant statistic.
func (c *Contestant) StatValue(key StatKey) (value int, flag bool, ok bool) {
	switch key {
	case StatImmunityWins:
		return c.ImmunityWins, false, true
	case StatHiddenIdols:
		return c.HiddenIdols, false, true
	case StatTribalWins:
		return c.TribalWins, false, true
	case StatRewards:
		return c.Rewards, false, true
	case StatEpisodes:
		return c.Episodes, false, true
	case StatAdvantages:
		return c.Advantages, false, true
	case StatMadeMerge:
		return boolToInt(c.MadeMerge), true, true
	case StatTop3:
		return boolToInt(c.Top3), true, true
	case StatSoleSurvivor:
		return boolToInt(c.SoleSurvivor), true, true
	case StatMadeFire:
		return boolToInt(c.MadeFire), true, true
	default:
		return 0, false, false
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
