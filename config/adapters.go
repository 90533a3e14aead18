package config

import (
	"os"
	"path/filepath"

	"survivor-league/database"
	"survivor-league/logging"
	"survivor-league/services"
)

// ToDatabaseConfig converts Config to database.Config
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		URI:          c.Database.URI,
		Host:         c.Database.Host,
		Port:         c.Database.Port,
		Username:     c.Database.Username,
		Password:     c.Database.Password,
		Database:     c.Database.Database,
		Timeout:      c.Database.Timeout,
		Transactions: c.Database.Transactions,
	}
}

// ToLoggingConfig converts Config to logging.Config
func (c *Config) ToLoggingConfig() logging.Config {
	cfg := logging.Config{
		Level:       c.Logging.Level,
		Output:      os.Stdout,
		Prefix:      c.Logging.Prefix,
		EnableColor: c.Logging.EnableColor,
	}
	if c.Logging.EnableFile {
		cfg.FilePath = filepath.Join(c.Logging.LogDir, c.Logging.Prefix+".log")
	}
	return cfg
}

// ToS3Config converts Config to services.S3Config
func (c *Config) ToS3Config() services.S3Config {
	return services.S3Config{
		Bucket:          c.Storage.Bucket,
		Region:          c.Storage.Region,
		Endpoint:        c.Storage.Endpoint,
		AccessKeyID:     c.Storage.AccessKeyID,
		SecretAccessKey: c.Storage.SecretAccessKey,
		Prefix:          c.Storage.Prefix,
	}
}

// ToSchedulerConfig converts Config to services.SchedulerConfig. BACKUP_TIME
// is checked by Validate.
func (c *Config) ToSchedulerConfig() services.SchedulerConfig {
	hour, minute, _ := c.BackupClock()
	return services.SchedulerConfig{
		BackupEnabled:       c.Backup.Enabled,
		BackupHour:          hour,
		BackupMinute:        minute,
		BackupRetentionDays: c.Backup.RetentionDays,
		CurrentSeason:       c.App.CurrentSeason,
	}
}

// ToTribeServiceConfig converts Config to services.TribeServiceConfig
func (c *Config) ToTribeServiceConfig() services.TribeServiceConfig {
	tieBreak, _ := services.ParseTieBreak(c.App.TieBreak)
	return services.TribeServiceConfig{CurrentSeason: c.App.CurrentSeason, TieBreak: tieBreak}
}

// ToPickEmServiceConfig converts Config to services.PickEmServiceConfig
func (c *Config) ToPickEmServiceConfig() services.PickEmServiceConfig {
	tieBreak, _ := services.ParseTieBreak(c.App.TieBreak)
	return services.PickEmServiceConfig{
		CurrentSeason: c.App.CurrentSeason,
		TieBreak:      tieBreak,
		IgnoreLock:    c.App.PickEmsIgnoreLock,
	}
}
