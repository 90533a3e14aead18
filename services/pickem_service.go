package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"survivor-league/logging"
	"survivor-league/models"
)

// PickEmService runs the weekly prediction markets
type PickEmService struct {
	pickems    PickEmRepository
	picks      PickRepository
	players    PlayerRepository
	tribes     TribeRepository
	tx         Transactor
	lock       *LockCalculator
	badges     *BadgeService
	ignoreLock bool
	season     int
	tieBreak   TieBreak
	logger     *logging.Logger
	now        func() time.Time
}

// PickEmServiceConfig holds the pick'em settings
type PickEmServiceConfig struct {
	CurrentSeason int
	TieBreak      TieBreak
	// IgnoreLock disables the weekly time lock. Never set in production.
	IgnoreLock bool
}

// NewPickEmService creates a new pick'em service. badges may be nil.
func NewPickEmService(pickems PickEmRepository, picks PickRepository, players PlayerRepository, tribes TribeRepository, tx Transactor, lock *LockCalculator, badges *BadgeService, cfg PickEmServiceConfig) *PickEmService {
	if cfg.TieBreak == "" {
		cfg.TieBreak = TieBreakNewestFirst
	}
	return &PickEmService{
		pickems:    pickems,
		picks:      picks,
		players:    players,
		tribes:     tribes,
		tx:         tx,
		lock:       lock,
		badges:     badges,
		ignoreLock: cfg.IgnoreLock,
		season:     cfg.CurrentSeason,
		tieBreak:   cfg.TieBreak,
		logger:     logging.WithPrefix("PickEmService"),
		now:        time.Now,
	}
}

// PickEmWeek is one week of markets as seen by a player
type PickEmWeek struct {
	Season     int                     `json:"season"`
	Week       int                     `json:"week"`
	LockAt     time.Time               `json:"lockAt"`
	Locked     bool                    `json:"locked"`
	Markets    []*models.PickEm        `json:"markets"`
	Selections []models.PickSubmission `json:"selections"`
}

// ResolveWeek fills in the current season and week for zero values
func (s *PickEmService) ResolveWeek(season, week int) (int, int) {
	if season <= 0 {
		season = s.season
	}
	if week <= 0 {
		week = s.lock.WeekAt(season, s.now())
		if week == 0 {
			week = 1
		}
	}
	return season, week
}

// List returns a week's markets and, when playerID is non-zero, that player's selections
func (s *PickEmService) List(ctx context.Context, season, week, playerID int) (*PickEmWeek, error) {
	season, week = s.ResolveWeek(season, week)
	now := s.now()

	markets, err := s.pickems.FindBySeasonWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load pick'ems for season %d week %d: %w", season, week, err)
	}
	if markets == nil {
		markets = []*models.PickEm{}
	}

	result := &PickEmWeek{
		Season:     season,
		Week:       week,
		LockAt:     s.lock.WeeklyLockAt(season, week, now),
		Locked:     s.lock.IsLocked(season, week, now),
		Markets:    markets,
		Selections: []models.PickSubmission{},
	}

	if playerID == 0 {
		return result, nil
	}

	picks, err := s.picks.FindByPlayerAndWeek(ctx, playerID, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load picks for player %d: %w", playerID, err)
	}
	for _, p := range picks {
		result.Selections = append(result.Selections, models.PickSubmission{PickEmID: p.PickEmID, Selection: p.Selection})
	}
	return result, nil
}

// Submit stores a player's selections for a week in one transaction.
// Unknown markets or options return ErrInvalidInput, scored markets ErrScored
// and submissions at or after the weekly lock ErrLocked.
func (s *PickEmService) Submit(ctx context.Context, playerID int, req models.SubmitPicksRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	markets, err := s.pickems.FindBySeasonWeek(ctx, req.Season, req.Week)
	if err != nil {
		return fmt.Errorf("failed to load pick'ems: %w", err)
	}
	byID := make(map[int]*models.PickEm, len(markets))
	for _, m := range markets {
		byID[m.ID] = m
	}

	for _, sub := range req.Picks {
		market, ok := byID[sub.PickEmID]
		if !ok {
			return fmt.Errorf("pick'em %d is not in season %d week %d: %w", sub.PickEmID, req.Season, req.Week, ErrInvalidInput)
		}
		if _, ok := market.Option(sub.Selection); !ok {
			return fmt.Errorf("option %d is not part of pick'em %d: %w", sub.Selection, sub.PickEmID, ErrInvalidInput)
		}
	}

	for _, sub := range req.Picks {
		if byID[sub.PickEmID].IsScored() {
			return fmt.Errorf("pick'em %d: %w", sub.PickEmID, ErrScored)
		}
	}

	now := s.now()
	if s.lock.IsLocked(req.Season, req.Week, now) {
		if !s.ignoreLock {
			return fmt.Errorf("season %d week %d locked at %s: %w",
				req.Season, req.Week, s.lock.WeeklyLockAt(req.Season, req.Week, now).Format(time.RFC3339), ErrLocked)
		}
		s.logger.Warnf("Accepting late picks from player %d for season %d week %d (lock ignored)", playerID, req.Season, req.Week)
	}

	picks := make([]*models.Pick, 0, len(req.Picks))
	for _, sub := range req.Picks {
		picks = append(picks, &models.Pick{
			PlayerID:  playerID,
			PickEmID:  sub.PickEmID,
			Season:    req.Season,
			Week:      req.Week,
			Selection: sub.Selection,
		})
	}

	if err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.picks.UpsertMany(ctx, picks)
	}); err != nil {
		return fmt.Errorf("failed to save picks for player %d: %w", playerID, err)
	}

	s.logger.Infof("Player %d submitted %d picks for season %d week %d", playerID, len(picks), req.Season, req.Week)
	return nil
}

// Score returns per-player breakdowns for a week, or the whole season when week is 0
func (s *PickEmService) Score(ctx context.Context, season, week int) ([]models.PlayerPickEmScore, error) {
	if season <= 0 {
		season = s.season
	}

	var (
		markets []*models.PickEm
		picks   []*models.Pick
		err     error
	)
	if week > 0 {
		markets, err = s.pickems.FindBySeasonWeek(ctx, season, week)
	} else {
		markets, err = s.pickems.FindBySeason(ctx, season)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pick'ems: %w", err)
	}

	if week > 0 {
		picks, err = s.picks.FindByWeek(ctx, season, week)
	} else {
		picks, err = s.picks.FindBySeason(ctx, season)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load picks: %w", err)
	}

	ids := make([]int, 0)
	seen := make(map[int]bool)
	for _, p := range picks {
		if !seen[p.PlayerID] {
			seen[p.PlayerID] = true
			ids = append(ids, p.PlayerID)
		}
	}
	players, err := s.players.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}

	return ScorePlayers(markets, picks, players), nil
}

// Leaderboard ranks a season's tribes by their owner's pick'em total
func (s *PickEmService) Leaderboard(ctx context.Context, season int) ([]*models.PlayerTribe, error) {
	if season <= 0 {
		season = s.season
	}

	scores, err := s.Score(ctx, season, 0)
	if err != nil {
		return nil, err
	}
	totals := make(map[int]models.PlayerPickEmScore, len(scores))
	for _, sc := range scores {
		totals[sc.PlayerID] = sc
	}

	tribes, err := s.tribes.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load tribes for season %d: %w", season, err)
	}

	missing := make([]int, 0)
	for _, tribe := range tribes {
		sc, ok := totals[tribe.PlayerID]
		if ok {
			tribe.Points = sc.Total
			tribe.PlayerName = sc.PlayerName
		} else {
			tribe.Points = 0
			missing = append(missing, tribe.PlayerID)
		}
	}

	if len(missing) > 0 {
		players, err := s.players.GetByIDs(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("failed to load tribe owners: %w", err)
		}
		for _, tribe := range tribes {
			if p, ok := players[tribe.PlayerID]; ok && tribe.PlayerName == "" {
				tribe.PlayerName = p.Name
			}
		}
	}

	return RankTribes(tribes, s.tieBreak), nil
}

// CreateMarket validates and stores a new, unscored market
func (s *PickEmService) CreateMarket(ctx context.Context, market *models.PickEm) error {
	if len(market.Answers) > 0 {
		return fmt.Errorf("new pick'ems cannot have answers: %w", ErrInvalidInput)
	}
	if err := market.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	if err := s.pickems.Create(ctx, market); err != nil {
		return fmt.Errorf("failed to create pick'em: %w", err)
	}
	s.logger.Infof("Created pick'em %d for season %d week %d", market.ID, market.Season, market.Week)
	return nil
}

// SetAnswers scores a market. Scoring is one-way: a scored market returns ErrScored.
func (s *PickEmService) SetAnswers(ctx context.Context, id int, answers []int) (*models.PickEm, error) {
	market, err := s.pickems.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load pick'em %d: %w", id, err)
	}
	if market.IsScored() {
		return nil, fmt.Errorf("pick'em %d: %w", id, ErrScored)
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("answers must not be empty: %w", ErrInvalidInput)
	}
	if err := market.ValidateAnswers(answers); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}

	if err := s.pickems.SetAnswers(ctx, id, answers); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Scored concurrently
			return nil, fmt.Errorf("pick'em %d: %w", id, ErrScored)
		}
		return nil, fmt.Errorf("failed to score pick'em %d: %w", id, err)
	}

	now := s.now()
	market.Answers = answers
	market.ScoredAt = &now
	s.logger.Infof("Scored pick'em %d with answers %v", id, answers)

	if s.badges != nil {
		if _, err := s.badges.SweepSeason(ctx, market.Season); err != nil {
			s.logger.Warnf("Badge sweep after scoring pick'em %d failed: %v", id, err)
		}
	}
	return market, nil
}
