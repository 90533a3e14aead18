package services

import (
	"sync"

	"survivor-league/logging"
	"survivor-league/models"
)

// ScoreCalculator turns contestant statistics into fantasy points
type ScoreCalculator struct {
	table  []models.ScoringCategory
	logger *logging.Logger

	mu     sync.Mutex
	warned map[models.StatKey]bool
}

// NewScoreCalculator creates a calculator for the given table. A nil table
// means models.DefaultScoringTable.
func NewScoreCalculator(table []models.ScoringCategory) *ScoreCalculator {
	if table == nil {
		table = models.DefaultScoringTable
	}
	return &ScoreCalculator{
		table:  table,
		logger: logging.WithPrefix("Scoring"),
		warned: make(map[models.StatKey]bool),
	}
}

// Table returns the scoring categories in use
func (s *ScoreCalculator) Table() []models.ScoringCategory {
	return s.table
}

// ContestantScore sums every category for one contestant. Categories whose key
// has no contestant statistic contribute zero and are logged once.
func (s *ScoreCalculator) ContestantScore(c *models.Contestant) int {
	if c == nil {
		return 0
	}

	total := 0
	for _, category := range s.table {
		value, flag, ok := c.StatValue(category.Key)
		if !ok {
			s.warnUnknown(category.Key)
			continue
		}
		if flag {
			if value == 1 {
				total += category.Points
			}
			continue
		}
		total += category.Points * value
	}
	return total
}

// TribeScore sums the roster's contestant scores and adds SoleSurvivorPickBonus
// when the first pick won the season. Contestants missing from byID count as
// zero. Tribes from legacy seasons report their stored score when they have one.
func (s *ScoreCalculator) TribeScore(tribe *models.PlayerTribe, byID map[int]*models.Contestant) int {
	if models.LegacyScoreSeasons[tribe.Season] && tribe.LegacyScore != nil {
		return *tribe.LegacyScore
	}

	total := 0
	for _, id := range tribe.Contestants {
		total += s.ContestantScore(byID[id])
	}

	if winner, ok := byID[tribe.PredictedWinner()]; ok && winner.SoleSurvivor {
		total += models.SoleSurvivorPickBonus
	}
	return total
}

// ApplyPoints sets Points on every contestant
func (s *ScoreCalculator) ApplyPoints(contestants []*models.Contestant) {
	for _, c := range contestants {
		c.Points = s.ContestantScore(c)
	}
}

func (s *ScoreCalculator) warnUnknown(key models.StatKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.warned[key] {
		return
	}
	s.warned[key] = true
	s.logger.Warnf("Scoring category %q has no contestant statistic, counting it as zero", key)
}

// ContestantsByID indexes contestants by id
func ContestantsByID(contestants []*models.Contestant) map[int]*models.Contestant {
	byID := make(map[int]*models.Contestant, len(contestants))
	for _, c := range contestants {
		byID[c.ID] = c
	}
	return byID
}
