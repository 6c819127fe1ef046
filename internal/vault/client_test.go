package vault

import (
	"context"
	"errors"
	"testing"

	"github.com/Alan16168/review-system-sub000/internal/config"
	"github.com/Alan16168/review-system-sub000/internal/testutil"
)

func TestClient(t *testing.T) {
	tv := testutil.SetupVault(t)
	ctx := context.Background()

	client, err := NewClient(&config.VaultConfig{Address: tv.Addr, Token: tv.Token})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	t.Run("health", func(t *testing.T) {
		if err := client.Health(ctx); err != nil {
			t.Errorf("Health() error = %v", err)
		}
	})

	t.Run("store and read back", func(t *testing.T) {
		err := client.StoreSecret(ctx, "review-system-test", map[string]interface{}{"key": "value"})
		if err != nil {
			t.Fatalf("StoreSecret() error = %v", err)
		}

		data, err := client.GetSecret(ctx, "review-system-test")
		if err != nil {
			t.Fatalf("GetSecret() error = %v", err)
		}
		if data["key"] != "value" {
			t.Errorf("key = %v, want value", data["key"])
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := client.GetSecret(ctx, "does-not-exist")
		if !errors.Is(err, ErrSecretNotFound) {
			t.Errorf("GetSecret() error = %v, want ErrSecretNotFound", err)
		}
	})

	t.Run("apply secrets overrides config", func(t *testing.T) {
		err := client.StoreSecret(ctx, "review-system", map[string]interface{}{
			KeyJWTSecret: "from-vault",
		})
		if err != nil {
			t.Fatalf("StoreSecret() error = %v", err)
		}

		cfg := &config.Config{
			JWT:      config.JWTConfig{Secret: "from-env"},
			Database: config.DatabaseConfig{Password: "env-password"},
			Vault:    config.VaultConfig{SecretPath: "review-system"},
		}
		if err := client.ApplySecrets(ctx, cfg); err != nil {
			t.Fatalf("ApplySecrets() error = %v", err)
		}

		if cfg.JWT.Secret != "from-vault" {
			t.Errorf("JWT secret = %q, want from-vault", cfg.JWT.Secret)
		}
		if cfg.Database.Password != "env-password" {
			t.Errorf("database password should be unchanged, got %q", cfg.Database.Password)
		}
	})
}
