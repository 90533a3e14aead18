package interfaces

import (
	"survivor-league/database"
	"survivor-league/services"
)

// Interface compliance checks - these will fail to compile if services don't implement interfaces
var (
	_ ContestantService = (*services.ContestantService)(nil)
	_ TribeService      = (*services.TribeService)(nil)
	_ PickEmService     = (*services.PickEmService)(nil)
	_ AuthService       = (*services.AuthService)(nil)
	_ BackupService     = (*services.BackupService)(nil)

	_ HealthChecker = (*database.MongoDB)(nil)

	_ services.CollectionStore = (*database.MongoDB)(nil)
	_ services.Transactor      = (*database.MongoDB)(nil)
)
