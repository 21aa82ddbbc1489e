// Package testutil provides helpers for tests that need a real database.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/database"
	"github.com/slipstream/mediascan/internal/database/sqlc"
)

// TestDB wraps a migrated test database.
type TestDB struct {
	DB      *database.DB
	Conn    *sql.DB
	Queries *sqlc.Queries
	Path    string
	Logger  zerolog.Logger
}

// NewTestDB creates a migrated SQLite database in t.TempDir().
// The database is closed automatically when the test finishes.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dir := t.TempDir()
	db, err := database.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	tdb := &TestDB{
		DB:      db,
		Conn:    db.Conn(),
		Queries: db.Queries(),
		Path:    dir,
		Logger:  NewTestLogger(t),
	}
	t.Cleanup(tdb.Close)
	return tdb
}

// Close closes the database. Safe to call more than once.
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// InsertStagedFile adds a staged file row directly and returns its id.
func (tdb *TestDB) InsertStagedFile(t *testing.T, path, mediaType, status string) int64 {
	t.Helper()

	now := time.Now().UTC()
	row, err := tdb.Queries.CreateStagedFile(context.Background(), sqlc.CreateStagedFileParams{
		MediaType: mediaType,
		Status:    status,
		Path:      path,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Failed to insert staged file %s: %v", path, err)
	}
	return row.ID
}

// NewTestLogger creates a test logger that outputs to t.Log.
func NewTestLogger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

// NopLogger returns a no-op logger for tests that don't need output.
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// TimePtr returns a pointer to a time.
func TimePtr(t time.Time) *time.Time {
	return &t
}
