package services

import (
	"context"

	"survivor-league/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContestantRepository is implemented by database.MongoContestantRepository
type ContestantRepository interface {
	FindBySeason(ctx context.Context, season int) ([]*models.Contestant, error)
	FindByID(ctx context.Context, id int) (*models.Contestant, error)
	UpdateStats(ctx context.Context, contestant *models.Contestant) error
}

// TribeRepository is implemented by database.MongoTribeRepository
type TribeRepository interface {
	Create(ctx context.Context, tribe *models.PlayerTribe) error
	FindBySeason(ctx context.Context, season int) ([]*models.PlayerTribe, error)
	FindByPlayer(ctx context.Context, playerID int) ([]*models.PlayerTribe, error)
}

// PlayerRepository is implemented by database.MongoPlayerRepository
type PlayerRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByLoginSelector(ctx context.Context, selector string) (*models.Player, error)
	GetByIDs(ctx context.Context, ids []int) (map[int]*models.Player, error)
	Create(ctx context.Context, player *models.Player) error
	SaveLoginToken(ctx context.Context, player *models.Player) error
	AddTribe(ctx context.Context, playerID int, tribeID primitive.ObjectID) error
	AddBadge(ctx context.Context, playerID int, badge models.EarnedBadge) (bool, error)
}

// PickEmRepository is implemented by database.MongoPickEmRepository
type PickEmRepository interface {
	Create(ctx context.Context, market *models.PickEm) error
	FindByID(ctx context.Context, id int) (*models.PickEm, error)
	FindBySeasonWeek(ctx context.Context, season, week int) ([]*models.PickEm, error)
	FindBySeason(ctx context.Context, season int) ([]*models.PickEm, error)
	SetAnswers(ctx context.Context, id int, answers []int) error
}

// PickRepository is implemented by database.MongoPickRepository
type PickRepository interface {
	UpsertMany(ctx context.Context, picks []*models.Pick) error
	FindByPlayerAndWeek(ctx context.Context, playerID, season, week int) ([]*models.Pick, error)
	FindByWeek(ctx context.Context, season, week int) ([]*models.Pick, error)
	FindBySeason(ctx context.Context, season int) ([]*models.Pick, error)
}

// Transactor runs fn atomically. database.MongoDB implements it with a session transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoTransaction runs fn directly. Used by tests and single-node deployments.
type NoTransaction struct{}

func (NoTransaction) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
