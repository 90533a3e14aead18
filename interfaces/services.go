package interfaces

import (
	"context"
	"time"

	"survivor-league/models"
	"survivor-league/services"
)

// ContestantService defines the cast operations used by handlers
type ContestantService interface {
	GetCast(ctx context.Context, season int) ([]*models.Contestant, error)
	GetRank(ctx context.Context, contestantID int) (*services.ContestantRank, error)
	UpdateStats(ctx context.Context, contestantID int, stats models.ContestantStats) (*models.Contestant, error)
	ScoringTable() services.ScoringTable
}

// TribeService defines roster operations
type TribeService interface {
	ListBySeason(ctx context.Context, season int) ([]*models.PlayerTribe, error)
	AddPlayer(ctx context.Context, req models.NewTribeRequest) (*models.PlayerTribe, error)
	GetProfile(ctx context.Context, playerID int) (*services.PlayerProfile, error)
}

// PickEmService defines weekly prediction market operations
type PickEmService interface {
	List(ctx context.Context, season, week, playerID int) (*services.PickEmWeek, error)
	Submit(ctx context.Context, playerID int, req models.SubmitPicksRequest) error
	Score(ctx context.Context, season, week int) ([]models.PlayerPickEmScore, error)
	Leaderboard(ctx context.Context, season int) ([]*models.PlayerTribe, error)
	CreateMarket(ctx context.Context, market *models.PickEm) error
	SetAnswers(ctx context.Context, id int, answers []int) (*models.PickEm, error)
}

// AuthService defines magic-link login and session token operations
type AuthService interface {
	RequestMagicLink(ctx context.Context, email string) (string, error)
	VerifyMagicLink(ctx context.Context, token string) (*services.AuthResponse, error)
	GetPlayerFromToken(ctx context.Context, tokenString string) (*models.Player, error)
	IsAdmin(player *models.Player) bool
	TokenExpiry() time.Duration
}

// BackupService defines on-demand backup operations
type BackupService interface {
	CreateBackup(ctx context.Context) (*services.BackupInfo, error)
	ListBackups() ([]services.BackupInfo, error)
}

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}
