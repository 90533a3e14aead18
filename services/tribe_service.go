package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"survivor-league/database"
	"survivor-league/logging"
	"survivor-league/models"
)

// TribeService drafts and lists player tribes
type TribeService struct {
	tribes      TribeRepository
	players     PlayerRepository
	contestants ContestantRepository
	tx          Transactor
	scorer      *ScoreCalculator
	badges      *BadgeService
	tieBreak    TieBreak
	season      int
	logger      *logging.Logger
}

// TribeServiceConfig holds the tribe service settings
type TribeServiceConfig struct {
	CurrentSeason int
	TieBreak      TieBreak
}

// NewTribeService creates a new tribe service. badges may be nil.
func NewTribeService(tribes TribeRepository, players PlayerRepository, contestants ContestantRepository, tx Transactor, scorer *ScoreCalculator, badges *BadgeService, cfg TribeServiceConfig) *TribeService {
	if cfg.TieBreak == "" {
		cfg.TieBreak = TieBreakNewestFirst
	}
	return &TribeService{
		tribes:      tribes,
		players:     players,
		contestants: contestants,
		tx:          tx,
		scorer:      scorer,
		badges:      badges,
		tieBreak:    cfg.TieBreak,
		season:      cfg.CurrentSeason,
		logger:      logging.WithPrefix("TribeService"),
	}
}

// ListBySeason returns a season's tribes with owner name, points and rank
func (s *TribeService) ListBySeason(ctx context.Context, season int) ([]*models.PlayerTribe, error) {
	tribes, err := s.tribes.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load tribes for season %d: %w", season, err)
	}

	contestants, err := s.contestants.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load cast for season %d: %w", season, err)
	}
	byID := ContestantsByID(contestants)

	if err := s.attachPlayerNames(ctx, tribes); err != nil {
		return nil, err
	}

	for _, tribe := range tribes {
		tribe.Points = s.scorer.TribeScore(tribe, byID)
	}
	return RankTribes(tribes, s.tieBreak), nil
}

func (s *TribeService) attachPlayerNames(ctx context.Context, tribes []*models.PlayerTribe) error {
	ids := make([]int, 0, len(tribes))
	seen := make(map[int]bool)
	for _, t := range tribes {
		if !seen[t.PlayerID] {
			seen[t.PlayerID] = true
			ids = append(ids, t.PlayerID)
		}
	}

	players, err := s.players.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load tribe owners: %w", err)
	}
	for _, t := range tribes {
		if p, ok := players[t.PlayerID]; ok {
			t.PlayerName = p.Name
		}
	}
	return nil
}

// AddPlayer drafts a tribe, creating the player on first use. The season
// defaults to the current season.
func (s *TribeService) AddPlayer(ctx context.Context, req models.NewTribeRequest) (*models.PlayerTribe, error) {
	req.Email = models.NormalizeEmail(req.Email)
	req.Name = NormalizeDisplayName(req.Name)
	req.TribeName = strings.Join(strings.Fields(req.TribeName), " ")
	if req.Season == 0 {
		req.Season = s.season
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidInput)
	}
	if err := s.checkCast(ctx, req.Season, req.TribeIDs); err != nil {
		return nil, err
	}

	tribe := &models.PlayerTribe{
		Contestants: req.TribeIDs,
		Name:        req.TribeName,
		Emoji:       req.Emoji,
		Color:       req.Color,
		Season:      req.Season,
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		player, err := s.findOrCreatePlayer(ctx, req.Email, req.Name)
		if err != nil {
			return err
		}

		tribe.PlayerID = player.ID
		tribe.Slug = TribeSlug(tribe.Name, player.ID)
		if err := s.tribes.Create(ctx, tribe); err != nil {
			return err
		}
		return s.players.AddTribe(ctx, player.ID, tribe.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add tribe %q: %w", req.TribeName, err)
	}

	s.logger.Infof("Player %d drafted tribe %q for season %d", tribe.PlayerID, tribe.Name, tribe.Season)

	if s.badges != nil {
		if err := s.badges.AwardFirstTribe(ctx, tribe.PlayerID, tribe.Season); err != nil {
			s.logger.Warnf("Failed to award first-tribe badge to player %d: %v", tribe.PlayerID, err)
		}
	}
	return tribe, nil
}

// checkCast verifies every id belongs to the season's cast
func (s *TribeService) checkCast(ctx context.Context, season int, ids []int) error {
	cast, err := s.contestants.FindBySeason(ctx, season)
	if err != nil {
		return fmt.Errorf("failed to load cast for season %d: %w", season, err)
	}
	byID := ContestantsByID(cast)
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return fmt.Errorf("contestant %d is not in season %d: %w", id, season, ErrInvalidInput)
		}
	}
	return nil
}

func (s *TribeService) findOrCreatePlayer(ctx context.Context, email, name string) (*models.Player, error) {
	player, err := s.players.GetByEmail(ctx, email)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	player = &models.Player{Email: email, Name: name}
	if err := s.players.Create(ctx, player); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return s.players.GetByEmail(ctx, email)
		}
		return nil, err
	}
	s.logger.Infof("Created player %d for %s", player.ID, email)
	return player, nil
}

// PlayerProfile is a player's public profile
type PlayerProfile struct {
	Player models.Player         `json:"player"`
	Tribes []*models.PlayerTribe `json:"tribes"`
	Badges []ProfileBadge        `json:"badges"`
}

// ProfileBadge is an earned badge with its display definition
type ProfileBadge struct {
	models.BadgeType
	Season    int       `json:"season"`
	AwardedAt time.Time `json:"awardedAt"`
	Note      string    `json:"note,omitempty"`
}

// GetProfile returns a player with scored tribes and badge details
func (s *TribeService) GetProfile(ctx context.Context, playerID int) (*PlayerProfile, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}

	tribes, err := s.tribes.FindByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tribes for player %d: %w", playerID, err)
	}

	casts := make(map[int]map[int]*models.Contestant)
	for _, tribe := range tribes {
		byID, ok := casts[tribe.Season]
		if !ok {
			cast, err := s.contestants.FindBySeason(ctx, tribe.Season)
			if err != nil {
				return nil, fmt.Errorf("failed to load cast for season %d: %w", tribe.Season, err)
			}
			byID = ContestantsByID(cast)
			casts[tribe.Season] = byID
		}
		tribe.PlayerName = player.Name
		tribe.Points = s.scorer.TribeScore(tribe, byID)
	}

	badges := make([]ProfileBadge, 0, len(player.Badges))
	for _, b := range player.Badges {
		def, ok := models.BadgeTypes[b.Code]
		if !ok {
			def = models.BadgeType{Code: b.Code, Name: string(b.Code)}
		}
		badges = append(badges, ProfileBadge{
			BadgeType: def,
			Season:    b.Season,
			AwardedAt: b.AwardedAt,
			Note:      b.Note,
		})
	}

	if tribes == nil {
		tribes = []*models.PlayerTribe{}
	}
	return &PlayerProfile{Player: player.ToPublic(), Tribes: tribes, Badges: badges}, nil
}
