package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("VAULT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Database.MaxOpenConns = %d, want 25", cfg.Database.MaxOpenConns)
	}
	if cfg.RateLimit.Duration != time.Minute {
		t.Errorf("RateLimit.Duration = %v, want 1m", cfg.RateLimit.Duration)
	}
	if cfg.Server.Address() != "localhost:8080" {
		t.Errorf("Server.Address() = %q", cfg.Server.Address())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("VAULT_ENABLED", "false")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SERVER_TIMEOUT_READ", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.Database.MaxOpenConns)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORS.AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Server.TimeoutRead != 3*time.Second {
		t.Errorf("Server.TimeoutRead = %v, want 3s", cfg.Server.TimeoutRead)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing jwt secret",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "jwt secret from vault",
			cfg: Config{
				Vault: VaultConfig{Enabled: true, Token: "root"},
			},
			wantErr: false,
		},
		{
			name: "vault without token",
			cfg: Config{
				Vault: VaultConfig{Enabled: true},
			},
			wantErr: true,
		},
		{
			name: "production without db password",
			cfg: Config{
				JWT: JWTConfig{Secret: "s"},
				App: AppConfig{Env: "production"},
			},
			wantErr: true,
		},
		{
			name: "rate limit with zero requests",
			cfg: Config{
				JWT:       JWTConfig{Secret: "s"},
				RateLimit: RateLimitConfig{Enabled: true, Duration: time.Second},
			},
			wantErr: true,
		},
		{
			name: "valid development config",
			cfg: Config{
				JWT: JWTConfig{Secret: "s"},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSecrets(t *testing.T) {
	cfg := Config{Vault: VaultConfig{Enabled: true, Token: "root"}}
	if err := cfg.ValidateSecrets(); err == nil {
		t.Error("expected error when jwt secret is still empty")
	}

	cfg.JWT.Secret = "from-vault"
	if err := cfg.ValidateSecrets(); err != nil {
		t.Errorf("ValidateSecrets() error = %v", err)
	}
}
