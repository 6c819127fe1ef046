package vault

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/Alan16168/review-system-sub000/internal/config"
)

// Keys read from the application's KV secret
const (
	KeyJWTSecret  = "jwt_secret"
	KeyDBPassword = "db_password"
)

var ErrSecretNotFound = errors.New("secret not found")

// Client wraps the HashiCorp Vault API for KV v2 reads and writes
type Client struct {
	client *api.Client
}

// NewClient creates a new Vault client
func NewClient(cfg *config.VaultConfig) (*Client, error) {
	apiConfig := api.DefaultConfig()
	apiConfig.Address = cfg.Address

	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)

	return &Client{client: client}, nil
}

// StoreSecret stores a secret in Vault KV
func (c *Client) StoreSecret(ctx context.Context, path string, data map[string]interface{}) error {
	secretPath := fmt.Sprintf("secret/data/%s", path)

	payload := map[string]interface{}{
		"data": data,
	}

	if _, err := c.client.Logical().WriteWithContext(ctx, secretPath, payload); err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}

	return nil
}

// GetSecret retrieves a secret from Vault KV
func (c *Client) GetSecret(ctx context.Context, path string) (map[string]interface{}, error) {
	secretPath := fmt.Sprintf("secret/data/%s", path)

	secret, err := c.client.Logical().ReadWithContext(ctx, secretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	if secret == nil || secret.Data == nil {
		return nil, ErrSecretNotFound
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid secret data format")
	}

	return data, nil
}

// ApplySecrets overrides the JWT secret and database password in cfg with
// the values stored under cfg.Vault.SecretPath. Missing keys leave cfg unchanged.
func (c *Client) ApplySecrets(ctx context.Context, cfg *config.Config) error {
	data, err := c.GetSecret(ctx, cfg.Vault.SecretPath)
	if err != nil {
		return err
	}

	if v, ok := data[KeyJWTSecret].(string); ok && v != "" {
		cfg.JWT.Secret = v
		slog.Info("Loaded JWT secret from Vault", "path", cfg.Vault.SecretPath)
	}
	if v, ok := data[KeyDBPassword].(string); ok && v != "" {
		cfg.Database.Password = v
		slog.Info("Loaded database password from Vault", "path", cfg.Vault.SecretPath)
	}

	return nil
}

// Health checks Vault health status
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := c.client.Sys().HealthWithContext(ctx)
	if err != nil {
		return fmt.Errorf("vault health check failed: %w", err)
	}

	if !health.Initialized {
		return fmt.Errorf("vault is not initialized")
	}

	if health.Sealed {
		return fmt.Errorf("vault is sealed")
	}

	return nil
}
