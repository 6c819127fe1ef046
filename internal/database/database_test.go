package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/Alan16168/review-system-sub000/internal/config"
	schema "github.com/Alan16168/review-system-sub000/migrations"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "review",
		Password: "secret",
		Name:     "review_db",
		SSLMode:  "disable",
	})

	want := "host=db port=5432 user=review password=secret dbname=review_db sslmode=disable"
	if dsn != want {
		t.Errorf("DSN() = %q, want %q", dsn, want)
	}
}

func TestRunInTxCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = RunInTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec("UPDATE reviews SET title = $1", "x")
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = RunInTx(context.Background(), db, func(tx *sql.Tx) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunInTx() error = %v, want %v", err, boom)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pq.Error{Code: "23505"}, true},
		{"wrapped unique violation", fmt.Errorf("failed to insert: %w", &pq.Error{Code: "23505"}), true},
		{"foreign key violation", &pq.Error{Code: "23503"}, false},
		{"plain error", errors.New("nope"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadMigrations(t *testing.T) {
	files := fstest.MapFS{
		"002_add_answers.up.sql":   {Data: []byte("CREATE TABLE b (id INT);")},
		"002_add_answers.down.sql": {Data: []byte("DROP TABLE b;")},
		"001_init.up.sql":          {Data: []byte("CREATE TABLE a (id INT);")},
		"003_only_down.down.sql":   {Data: []byte("DROP TABLE c;")},
		"README.md":                {Data: []byte("ignored")},
	}

	migrations, err := NewMigrationExecutor(nil, files).ReadMigrations()
	if err != nil {
		t.Fatalf("ReadMigrations() error = %v", err)
	}

	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != "001" || migrations[1].Version != "002" {
		t.Errorf("migrations not sorted by version: %s, %s", migrations[0].Version, migrations[1].Version)
	}
	if migrations[1].Title != "add answers" {
		t.Errorf("Title = %q, want %q", migrations[1].Title, "add answers")
	}
	if migrations[1].DownSQL != "DROP TABLE b;" {
		t.Errorf("DownSQL = %q", migrations[1].DownSQL)
	}
	if migrations[0].Checksum != calculateChecksum("CREATE TABLE a (id INT);") {
		t.Errorf("unexpected checksum %q", migrations[0].Checksum)
	}
}

func TestEmbeddedMigrationsAreComplete(t *testing.T) {
	migrations, err := NewMigrationExecutor(nil, schema.Files).ReadMigrations()
	if err != nil {
		t.Fatalf("ReadMigrations() error = %v", err)
	}

	if len(migrations) == 0 {
		t.Fatal("no embedded migrations found")
	}
	for _, m := range migrations {
		if m.DownSQL == "" {
			t.Errorf("migration %s has no down file", m.Version)
		}
	}

	var all strings.Builder
	for _, m := range migrations {
		all.WriteString(m.UpSQL)
	}
	for _, fragment := range []string{
		"UNIQUE (review_id, user_id, set_number)",
		"UNIQUE (answer_set_id, question_number)",
		"REFERENCES review_answer_sets(id) ON DELETE CASCADE",
	} {
		if !strings.Contains(all.String(), fragment) {
			t.Errorf("schema is missing %q", fragment)
		}
	}
}

func TestRunMigrationsAppliesPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	files := fstest.MapFS{
		"001_init.up.sql": {Data: []byte("CREATE TABLE a (id INT);")},
		"002_more.up.sql": {Data: []byte("CREATE TABLE b (id INT);")},
	}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version, checksum FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"version", "checksum"}).
			AddRow("001", calculateChecksum("CREATE TABLE a (id INT);")))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("001"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id INT);")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
		WithArgs("002", "more", calculateChecksum("CREATE TABLE b (id INT);")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := NewMigrationExecutor(db, files).RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRunMigrationsRejectsModifiedMigration(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	files := fstest.MapFS{
		"001_init.up.sql": {Data: []byte("CREATE TABLE a (id BIGINT);")},
	}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version, checksum FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"version", "checksum"}).AddRow("001", "stale"))

	err = NewMigrationExecutor(db, files).RunMigrations(context.Background())
	if err == nil || !strings.Contains(err.Error(), "have been modified") {
		t.Fatalf("expected checksum mismatch error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
