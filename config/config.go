package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"survivor-league/logging"
	"survivor-league/services"

	"github.com/joho/godotenv"
)

// defaultJWTSecret is only acceptable in development
const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Logging  LoggingConfig  `json:"logging"`
	Auth     AuthConfig     `json:"auth"`
	App      AppConfig      `json:"app"`
	Backup   BackupConfig   `json:"backup"`

	// Object storage for backup uploads
	Storage StorageConfig `json:"storage"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string `json:"port"`
	Host        string `json:"host"`
	UseTLS      bool   `json:"use_tls"`
	BehindProxy bool   `json:"behind_proxy"`
	CertFile    string `json:"cert_file"`
	KeyFile     string `json:"key_file"`
	Environment string `json:"environment"`
	// PublicURL is where the web client lives; login links point at it
	PublicURL string `json:"public_url"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URI          string        `json:"-"`
	Host         string        `json:"host"`
	Port         string        `json:"port"`
	Username     string        `json:"username"`
	Password     string        `json:"-"`
	Database     string        `json:"database"`
	Timeout      time.Duration `json:"timeout"`
	Transactions bool          `json:"transactions"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
	LogDir      string `json:"log_dir"`
	EnableFile  bool   `json:"enable_file"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret   string        `json:"-"`
	TokenExpiry time.Duration `json:"token_expiry"`
	AdminEmails []string      `json:"admin_emails"`
	// SecretARN names an AWS Secrets Manager secret overlaying DB_PASSWORD and JWT_SECRET
	SecretARN string `json:"secret_arn"`
}

// AppConfig holds league configuration
type AppConfig struct {
	CurrentSeason     int    `json:"current_season"`
	IsDevelopment     bool   `json:"is_development"`
	PickEmsIgnoreLock bool   `json:"pickems_ignore_lock"`
	TieBreak          string `json:"tie_break"`
}

// BackupConfig holds backup configuration
type BackupConfig struct {
	Enabled       bool   `json:"enabled"`
	BackupDir     string `json:"backup_dir"`
	BackupTime    string `json:"backup_time"`
	RetentionDays int    `json:"retention_days"`
}

// StorageConfig configures the S3-compatible bucket backups are uploaded to.
// An empty bucket keeps backups on local disk.
type StorageConfig struct {
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"-"`
	SecretAccessKey string `json:"-"`
	Prefix          string `json:"prefix"`
}

// Load loads configuration from environment variables and .env file, overlays
// secrets from AWS Secrets Manager when AWS_SECRET_ARN is set, and validates
// the result.
func Load(ctx context.Context) (*Config, error) {
	// Don't treat missing .env as an error
	if err := godotenv.Load(); err != nil {
		logging.Debugf("Could not load .env file: %v", err)
	}

	config := FromEnv()

	if config.Auth.SecretARN != "" {
		client, err := newSecretsClient(ctx, config.Storage.Region)
		if err != nil {
			return nil, err
		}
		if err := config.ApplySecrets(ctx, client); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FromEnv builds a configuration from the process environment without validating it
func FromEnv() *Config {
	environment := getEnv("ENVIRONMENT", "development")
	isDevelopment := strings.ToLower(environment) == "development"
	isProduction := strings.ToLower(environment) == "production"

	// Get server port with development override
	serverPort := getEnv("SERVER_PORT", "8080")
	if isDevelopment {
		if develPort := getEnv("DEVEL_SERVER_PORT", ""); develPort != "" {
			serverPort = develPort
		}
	}

	return &Config{
		Server: ServerConfig{
			Port:        serverPort,
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			UseTLS:      getBoolEnv("USE_TLS", false),
			BehindProxy: getBoolEnv("BEHIND_PROXY", false),
			CertFile:    getEnv("TLS_CERT_FILE", "server.crt"),
			KeyFile:     getEnv("TLS_KEY_FILE", "server.key"),
			Environment: environment,
			PublicURL:   strings.TrimSuffix(getEnv("PUBLIC_URL", "http://localhost:"+serverPort), "/"),
		},
		Database: DatabaseConfig{
			URI:          getEnv("DATABASE_URL", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "27017"),
			Username:     getEnv("DB_USERNAME", ""),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "survivor"),
			Timeout:      getDurationEnv("DB_TIMEOUT", 10*time.Second),
			Transactions: getBoolEnv("DB_TRANSACTIONS", true),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Prefix:      getEnv("LOG_PREFIX", "survivor"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
			LogDir:      getEnv("LOG_DIR", "./logs"),
			EnableFile:  getBoolEnv("LOG_FILE", false),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
			TokenExpiry: getDurationEnv("TOKEN_EXPIRY", services.DefaultTokenExpiry),
			AdminEmails: getListEnv("ADMIN_EMAILS"),
			SecretARN:   getEnv("AWS_SECRET_ARN", ""),
		},
		App: AppConfig{
			CurrentSeason:     getIntEnv("CURRENT_SEASON", 49),
			IsDevelopment:     isDevelopment,
			PickEmsIgnoreLock: getBoolEnv("PICKEMS_IGNORE_LOCK", false) && !isProduction,
			TieBreak:          getEnv("RANK_TIE_BREAK", string(services.TieBreakNewestFirst)),
		},
		Backup: BackupConfig{
			Enabled:       getBoolEnv("BACKUP_ENABLED", true),
			BackupDir:     getEnv("BACKUP_DIR", "./backups"),
			BackupTime:    getEnv("BACKUP_TIME", "02:00"),
			RetentionDays: getIntEnv("BACKUP_RETENTION_DAYS", 30),
		},
		Storage: StorageConfig{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", getEnv("AWS_REGION", "us-east-1")),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Prefix:          getEnv("S3_PREFIX", "backups"),
		},
	}
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Server.UseTLS && !c.Server.BehindProxy {
		if c.Server.CertFile == "" || c.Server.KeyFile == "" {
			return fmt.Errorf("TLS certificate and key files are required when USE_TLS=true")
		}
		if _, err := os.Stat(c.Server.CertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file not found: %s", c.Server.CertFile)
		}
		if _, err := os.Stat(c.Server.KeyFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS key file not found: %s", c.Server.KeyFile)
		}
	}

	if c.Database.URI == "" {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.Port == "" {
			return fmt.Errorf("database port is required")
		}
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.JWTSecret == defaultJWTSecret && !c.App.IsDevelopment {
		return fmt.Errorf("JWT secret must be changed outside development")
	}
	if c.Auth.TokenExpiry <= 0 {
		return fmt.Errorf("token expiry must be positive, got: %s", c.Auth.TokenExpiry)
	}

	if c.App.CurrentSeason < 1 {
		return fmt.Errorf("current season must be positive, got: %d", c.App.CurrentSeason)
	}
	if _, err := services.ParseTieBreak(c.App.TieBreak); err != nil {
		return err
	}

	if c.Backup.Enabled {
		if c.Backup.BackupDir == "" {
			return fmt.Errorf("backup directory is required when backups are enabled")
		}
		if _, _, err := c.BackupClock(); err != nil {
			return err
		}
	}

	if c.Storage.Bucket != "" && (c.Storage.AccessKeyID == "") != (c.Storage.SecretAccessKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// BackupClock parses BACKUP_TIME ("HH:MM", Pacific time)
func (c *Config) BackupClock() (uint, uint, error) {
	parsed, err := time.Parse("15:04", c.Backup.BackupTime)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid BACKUP_TIME %q, expected HH:MM", c.Backup.BackupTime)
	}
	return uint(parsed.Hour()), uint(parsed.Minute()), nil
}

// IsStorageConfigured reports whether backups are uploaded to object storage
func (c *Config) IsStorageConfigured() bool {
	return c.Storage.Bucket != ""
}

// LoginLinkBaseURL is the page login tokens are appended to
func (c *Config) LoginLinkBaseURL() string {
	return c.Server.PublicURL + "/login"
}

// LogConfiguration logs the current configuration (without sensitive data)
func (c *Config) LogConfiguration() {
	logging.Info("=== Application Configuration ===")
	logging.Infof("Server: %s (TLS: %t, Behind Proxy: %t, Environment: %s)",
		c.GetServerAddress(), c.Server.UseTLS, c.Server.BehindProxy, c.Server.Environment)
	if c.Database.URI != "" {
		logging.Infof("Database: DATABASE_URL/%s (Transactions: %t)", c.Database.Database, c.Database.Transactions)
	} else {
		logging.Infof("Database: %s:%s/%s (Username: %s, Auth: %t, Transactions: %t)",
			c.Database.Host, c.Database.Port, c.Database.Database,
			c.Database.Username, c.Database.Password != "", c.Database.Transactions)
	}
	logging.Infof("Logging: Level=%s, Prefix=%s, Color=%t, File=%t",
		c.Logging.Level, c.Logging.Prefix, c.Logging.EnableColor, c.Logging.EnableFile)
	logging.Infof("Auth: TokenExpiry=%s, Admins=%d, SecretsManager=%t",
		c.Auth.TokenExpiry, len(c.Auth.AdminEmails), c.Auth.SecretARN != "")
	logging.Infof("App: Season=%d, Development=%t, IgnoreLock=%t, TieBreak=%s",
		c.App.CurrentSeason, c.App.IsDevelopment, c.App.PickEmsIgnoreLock, c.App.TieBreak)
	logging.Infof("Backup: Enabled=%t, Dir=%s, Time=%s, Retention=%d days, Bucket=%s",
		c.Backup.Enabled, c.Backup.BackupDir, c.Backup.BackupTime, c.Backup.RetentionDays, c.Storage.Bucket)
	logging.Info("================================")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated value, dropping blanks
func getListEnv(key string) []string {
	var result []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
