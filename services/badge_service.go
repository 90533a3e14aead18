package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"survivor-league/logging"
	"survivor-league/models"
)

// BadgeService awards badges to players
type BadgeService struct {
	players     PlayerRepository
	tribes      TribeRepository
	contestants ContestantRepository
	pickems     PickEmRepository
	picks       PickRepository
	logger      *logging.Logger
	now         func() time.Time
}

// NewBadgeService creates a new badge service
func NewBadgeService(players PlayerRepository, tribes TribeRepository, contestants ContestantRepository, pickems PickEmRepository, picks PickRepository) *BadgeService {
	return &BadgeService{
		players:     players,
		tribes:      tribes,
		contestants: contestants,
		pickems:     pickems,
		picks:       picks,
		logger:      logging.WithPrefix("BadgeService"),
		now:         time.Now,
	}
}

// award grants a badge once per player and season. It reports whether the
// badge was new.
func (s *BadgeService) award(ctx context.Context, playerID int, code models.BadgeCode, season int, note string) (bool, error) {
	badge := models.EarnedBadge{Code: code, Season: season, AwardedAt: s.now(), Note: note}
	added, err := s.players.AddBadge(ctx, playerID, badge)
	if err != nil {
		return false, err
	}
	if added {
		s.logger.Infof("Awarded %s to player %d for season %d", code, playerID, season)
	}
	return added, nil
}

// AwardFirstTribe grants the first-tribe badge for a season
func (s *BadgeService) AwardFirstTribe(ctx context.Context, playerID, season int) error {
	_, err := s.award(ctx, playerID, models.BadgeFirstTribe, season, "")
	return err
}

// SweepSeason evaluates every season badge and returns how many were newly awarded
func (s *BadgeService) SweepSeason(ctx context.Context, season int) (int, error) {
	awarded := 0

	n, err := s.sweepProphets(ctx, season)
	if err != nil {
		return awarded, err
	}
	awarded += n

	n, err = s.sweepPickEms(ctx, season)
	if err != nil {
		return awarded, err
	}
	awarded += n

	s.logger.Debugf("Badge sweep for season %d awarded %d badges", season, awarded)
	return awarded, nil
}

// sweepProphets awards tribes whose first pick won the season
func (s *BadgeService) sweepProphets(ctx context.Context, season int) (int, error) {
	contestants, err := s.contestants.FindBySeason(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("failed to load contestants: %w", err)
	}

	winners := make(map[int]bool)
	for _, c := range contestants {
		if c.SoleSurvivor {
			winners[c.ID] = true
		}
	}
	if len(winners) == 0 {
		return 0, nil
	}

	tribes, err := s.tribes.FindBySeason(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("failed to load tribes: %w", err)
	}

	awarded := 0
	for _, tribe := range tribes {
		if !winners[tribe.PredictedWinner()] {
			continue
		}
		added, err := s.award(ctx, tribe.PlayerID, models.BadgeProphet, season, tribe.Name)
		if err != nil {
			return awarded, err
		}
		if added {
			awarded++
		}
	}
	return awarded, nil
}

// sweepPickEms awards perfect weeks and regular participation
func (s *BadgeService) sweepPickEms(ctx context.Context, season int) (int, error) {
	markets, err := s.pickems.FindBySeason(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("failed to load pick'ems: %w", err)
	}
	picks, err := s.picks.FindBySeason(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("failed to load picks: %w", err)
	}

	marketsByWeek := make(map[int][]*models.PickEm)
	for _, m := range markets {
		marketsByWeek[m.Week] = append(marketsByWeek[m.Week], m)
	}

	// player -> market id -> selection
	selections := make(map[int]map[int]int)
	weeksPlayed := make(map[int]map[int]bool)
	for _, p := range picks {
		if selections[p.PlayerID] == nil {
			selections[p.PlayerID] = make(map[int]int)
			weeksPlayed[p.PlayerID] = make(map[int]bool)
		}
		selections[p.PlayerID][p.PickEmID] = p.Selection
		weeksPlayed[p.PlayerID][p.Week] = true
	}

	playerIDs := make([]int, 0, len(selections))
	for id := range selections {
		playerIDs = append(playerIDs, id)
	}
	sort.Ints(playerIDs)

	weeks := make([]int, 0, len(marketsByWeek))
	for week := range marketsByWeek {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	awarded := 0
	for _, playerID := range playerIDs {
		for _, week := range weeks {
			if !perfectWeek(marketsByWeek[week], selections[playerID]) {
				continue
			}
			added, err := s.award(ctx, playerID, models.BadgePerfectWeek, season, fmt.Sprintf("week %d", week))
			if err != nil {
				return awarded, err
			}
			if added {
				awarded++
			}
			break
		}

		if len(weeksPlayed[playerID]) >= models.PickEmRegularMinWeeks {
			added, err := s.award(ctx, playerID, models.BadgePickEmRegular, season, "")
			if err != nil {
				return awarded, err
			}
			if added {
				awarded++
			}
		}
	}
	return awarded, nil
}

// perfectWeek reports whether every market of the week is scored and the
// player picked a correct answer on each
func perfectWeek(markets []*models.PickEm, selections map[int]int) bool {
	if len(markets) == 0 {
		return false
	}
	for _, m := range markets {
		if !m.IsScored() {
			return false
		}
		selection, ok := selections[m.ID]
		if !ok || !m.IsCorrect(selection) {
			return false
		}
	}
	return true
}
