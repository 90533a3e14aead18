package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"survivor-league/logging"
	"survivor-league/models"
)

// ContestantService serves the cast with computed points
type ContestantService struct {
	contestants ContestantRepository
	scorer      *ScoreCalculator
	logger      *logging.Logger
}

// NewContestantService creates a new contestant service
func NewContestantService(contestants ContestantRepository, scorer *ScoreCalculator) *ContestantService {
	return &ContestantService{
		contestants: contestants,
		scorer:      scorer,
		logger:      logging.WithPrefix("ContestantService"),
	}
}

// ContestantRank is a contestant's standing among same-season peers. It
// marshals as {"rank": n}, or {"rank": "even"} when every peer has zero points.
type ContestantRank struct {
	ContestantID int
	Rank         int
	Even         bool
}

func (r ContestantRank) MarshalJSON() ([]byte, error) {
	if r.Even {
		return json.Marshal(map[string]any{"rank": "even"})
	}
	return json.Marshal(map[string]any{"rank": r.Rank})
}

// ScoringTable is the scoring table in use and its version
type ScoringTable struct {
	Version    string                   `json:"version"`
	Categories []models.ScoringCategory `json:"categories"`
}

func (s *ContestantService) ScoringTable() ScoringTable {
	return ScoringTable{Version: models.ScoringTableVersion, Categories: s.scorer.Table()}
}

// GetCast returns a season's contestants with Points populated
func (s *ContestantService) GetCast(ctx context.Context, season int) ([]*models.Contestant, error) {
	contestants, err := s.contestants.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load cast for season %d: %w", season, err)
	}
	s.scorer.ApplyPoints(contestants)
	return contestants, nil
}

// GetRank ranks a contestant among its season's cast by points
func (s *ContestantService) GetRank(ctx context.Context, contestantID int) (*ContestantRank, error) {
	contestant, err := s.contestants.FindByID(ctx, contestantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contestant %d: %w", contestantID, err)
	}

	cast, err := s.GetCast(ctx, contestant.Season)
	if err != nil {
		return nil, err
	}

	allZero := true
	for _, c := range cast {
		if c.Points != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return &ContestantRank{ContestantID: contestantID, Even: true}, nil
	}

	sort.SliceStable(cast, func(i, j int) bool {
		return cast[i].Points > cast[j].Points
	})
	scores := make([]int, len(cast))
	for i, c := range cast {
		scores[i] = c.Points
	}
	ranks := CompetitionRanks(scores)

	for i, c := range cast {
		if c.ID == contestantID {
			return &ContestantRank{ContestantID: contestantID, Rank: ranks[i]}, nil
		}
	}

	// The contestant was found by id but is missing from its season listing
	return nil, fmt.Errorf("contestant %d not in season %d cast: %w", contestantID, contestant.Season, ErrNotFound)
}

// UpdateStats replaces a contestant's performance counters and returns the
// contestant with recomputed points
func (s *ContestantService) UpdateStats(ctx context.Context, contestantID int, stats models.ContestantStats) (*models.Contestant, error) {
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	contestant, err := s.contestants.FindByID(ctx, contestantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contestant %d: %w", contestantID, err)
	}

	stats.Apply(contestant)
	if err := s.contestants.UpdateStats(ctx, contestant); err != nil {
		return nil, fmt.Errorf("failed to update contestant %d: %w", contestantID, err)
	}

	contestant.Points = s.scorer.ContestantScore(contestant)
	s.logger.Infof("Updated stats for contestant %d (%s), now %d points", contestant.ID, contestant.Name, contestant.Points)
	return contestant, nil
}
