package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/vault"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/lib/pq"

	"github.com/Alan16168/review-system-sub000/internal/database"
	"github.com/Alan16168/review-system-sub000/migrations"
)

// TestVaultToken is the root token of the Vault dev container
const TestVaultToken = "test-token"

// TestDatabase holds a migrated PostgreSQL container
type TestDatabase struct {
	Container    *postgres.PostgresContainer
	DB           *sql.DB
	DBConnString string
}

// TestVault holds a Vault dev-mode container
type TestVault struct {
	Container *vault.VaultContainer
	Addr      string
	Token     string
}

// SetupDatabase starts PostgreSQL, applies the embedded migrations and
// registers cleanup. Skipped under -short.
func SetupDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:18",
		postgres.WithDatabase("review_test"),
		postgres.WithUsername("review_test"),
		postgres.WithPassword("review_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := postgresContainer.Terminate(context.Background()); err != nil {
			t.Errorf("Failed to terminate PostgreSQL container: %v", err)
		}
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := database.NewMigrationExecutor(db, migrations.Files).RunMigrations(ctx); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDatabase{
		Container:    postgresContainer,
		DB:           db,
		DBConnString: connStr,
	}
}

// Reset removes all rows so subtests start from an empty schema
func (d *TestDatabase) Reset(t *testing.T) {
	t.Helper()

	_, err := d.DB.Exec(`
		TRUNCATE audit_logs, review_answer_set_counters, review_answers, review_answer_sets,
		         review_collaborators, reviews, team_members, teams, users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("Failed to reset database: %v", err)
	}
}

// SetupVault starts Vault in dev mode and registers cleanup. Skipped under -short.
func SetupVault(t *testing.T) *TestVault {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	ctx := context.Background()

	vaultContainer, err := vault.Run(ctx,
		"hashicorp/vault:1.15",
		vault.WithToken(TestVaultToken),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Vault server started!").
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start Vault container: %v", err)
	}
	t.Cleanup(func() {
		if err := vaultContainer.Terminate(context.Background()); err != nil {
			t.Errorf("Failed to terminate Vault container: %v", err)
		}
	})

	// HttpHostAddress already carries the http:// scheme
	vaultAddr, err := vaultContainer.HttpHostAddress(ctx)
	if err != nil {
		t.Fatalf("Failed to get Vault address: %v", err)
	}

	return &TestVault{
		Container: vaultContainer,
		Addr:      vaultAddr,
		Token:     TestVaultToken,
	}
}
