package config

import (
	"context"
	"encoding/json"
	"fmt"

	"survivor-league/logging"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsClient is the part of the Secrets Manager API used at startup
type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func newSecretsClient(ctx context.Context, region string) (*secretsmanager.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// ApplySecrets overlays DB_PASSWORD, DATABASE_URL and JWT_SECRET from the JSON
// secret named by AWS_SECRET_ARN. Keys missing from the secret keep their
// environment values.
func (c *Config) ApplySecrets(ctx context.Context, client SecretsClient) error {
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(c.Auth.SecretARN),
	})
	if err != nil {
		return fmt.Errorf("failed to read secret %s: %w", c.Auth.SecretARN, err)
	}
	if result.SecretString == nil {
		return fmt.Errorf("secret %s has no string value", c.Auth.SecretARN)
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &values); err != nil {
		return fmt.Errorf("secret %s is not a JSON object of strings: %w", c.Auth.SecretARN, err)
	}

	applied := 0
	if v := values["DB_PASSWORD"]; v != "" {
		c.Database.Password = v
		applied++
	}
	if v := values["DATABASE_URL"]; v != "" {
		c.Database.URI = v
		applied++
	}
	if v := values["JWT_SECRET"]; v != "" {
		c.Auth.JWTSecret = v
		applied++
	}
	logging.Infof("Applied %d values from Secrets Manager", applied)
	return nil
}
