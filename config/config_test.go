package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"survivor-league/services"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", Host: "0.0.0.0"},
		Database: DatabaseConfig{Host: "localhost", Port: "27017", Database: "survivor"},
		Auth:     AuthConfig{JWTSecret: "s3cret", TokenExpiry: time.Hour},
		App:      AppConfig{CurrentSeason: 49, TieBreak: "newest"},
		Backup:   BackupConfig{Enabled: true, BackupDir: "./backups", BackupTime: "02:30"},
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ADMIN_EMAILS", " ann@example.com, ,bo@example.com ")
	t.Setenv("PICKEMS_IGNORE_LOCK", "true")

	cfg := FromEnv()

	if cfg.Server.Port != "8080" || !cfg.App.IsDevelopment {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if len(cfg.Auth.AdminEmails) != 2 || cfg.Auth.AdminEmails[1] != "bo@example.com" {
		t.Errorf("admin emails = %q", cfg.Auth.AdminEmails)
	}
	if !cfg.App.PickEmsIgnoreLock {
		t.Error("ignore lock should be honoured in development")
	}
	if cfg.Auth.TokenExpiry != services.DefaultTokenExpiry {
		t.Errorf("token expiry = %s", cfg.Auth.TokenExpiry)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default development config should validate: %v", err)
	}
}

func TestIgnoreLockNeverInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PICKEMS_IGNORE_LOCK", "true")

	if FromEnv().App.PickEmsIgnoreLock {
		t.Error("PICKEMS_IGNORE_LOCK must be ignored in production")
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		desc   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"missing port", func(c *Config) { c.Server.Port = "" }, false},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, false},
		{"uri replaces host", func(c *Config) { c.Database.Host = ""; c.Database.URI = "mongodb://db/survivor" }, true},
		{"default jwt secret outside development", func(c *Config) { c.Auth.JWTSecret = defaultJWTSecret }, false},
		{"default jwt secret in development", func(c *Config) { c.Auth.JWTSecret = defaultJWTSecret; c.App.IsDevelopment = true }, true},
		{"season zero", func(c *Config) { c.App.CurrentSeason = 0 }, false},
		{"bad tie-break", func(c *Config) { c.App.TieBreak = "random" }, false},
		{"bad backup time", func(c *Config) { c.Backup.BackupTime = "2am" }, false},
		{"bad backup time ignored when disabled", func(c *Config) { c.Backup.Enabled = false; c.Backup.BackupTime = "2am" }, true},
		{"half s3 credentials", func(c *Config) { c.Storage.Bucket = "b"; c.Storage.AccessKeyID = "id" }, false},
		{"tls without cert file", func(c *Config) { c.Server.UseTLS = true; c.Server.CertFile = "/nonexistent.crt"; c.Server.KeyFile = "k" }, false},
		{"tls behind proxy", func(c *Config) { c.Server.UseTLS = true; c.Server.BehindProxy = true }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() error = %v, expected success", err)
			}
			if !tc.ok && err == nil {
				t.Error("Validate() succeeded, expected an error")
			}
		})
	}
}

func TestAdapters(t *testing.T) {
	cfg := validConfig()
	cfg.App.PickEmsIgnoreLock = true
	cfg.App.TieBreak = "name"
	cfg.Logging = LoggingConfig{Level: "debug", Prefix: "survivor", LogDir: "/var/log/survivor", EnableFile: true}

	sched := cfg.ToSchedulerConfig()
	if sched.BackupHour != 2 || sched.BackupMinute != 30 || sched.CurrentSeason != 49 {
		t.Errorf("unexpected scheduler config %+v", sched)
	}

	pickems := cfg.ToPickEmServiceConfig()
	if !pickems.IgnoreLock || pickems.TieBreak != services.TieBreakName {
		t.Errorf("unexpected pick'em config %+v", pickems)
	}

	if path := cfg.ToLoggingConfig().FilePath; path != "/var/log/survivor/survivor.log" {
		t.Errorf("log file path = %q", path)
	}
	cfg.Logging.EnableFile = false
	if path := cfg.ToLoggingConfig().FilePath; path != "" {
		t.Errorf("file logging disabled but path = %q", path)
	}
}

type fakeSecrets struct {
	secret *string
	err    error
	asked  string
}

func (f *fakeSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.asked = aws.ToString(params.SecretId)
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.secret}, nil
}

func TestApplySecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.SecretARN = "arn:aws:secretsmanager:us-east-1:1:secret:survivor"
	client := &fakeSecrets{secret: aws.String(`{"DB_PASSWORD":"pw","JWT_SECRET":"from-secrets"}`)}

	if err := cfg.ApplySecrets(context.Background(), client); err != nil {
		t.Fatalf("ApplySecrets() error = %v", err)
	}
	if client.asked != cfg.Auth.SecretARN {
		t.Errorf("asked for %q", client.asked)
	}
	if cfg.Database.Password != "pw" || cfg.Auth.JWTSecret != "from-secrets" || cfg.Database.URI != "" {
		t.Errorf("secrets not applied: %+v %+v", cfg.Database, cfg.Auth)
	}

	failures := []*fakeSecrets{
		{err: errors.New("access denied")},
		{secret: nil},
		{secret: aws.String(`not json`)},
	}
	for _, client := range failures {
		if err := validConfig().ApplySecrets(context.Background(), client); err == nil {
			t.Errorf("expected an error for %+v", client)
		}
	}
}
