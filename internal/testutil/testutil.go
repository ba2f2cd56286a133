package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wbsotracker/wbsotracker/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 480480

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates all tables for tests. Time entries are
// dropped first because of the foreign key on users.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	steps := []string{
		"000002_time_entries.down.sql",
		"000001_users.down.sql",
		"000001_users.up.sql",
		"000002_time_entries.up.sql",
	}

	for _, step := range steps {
		sql, err := os.ReadFile(filepath.Join(root, "migrations", step))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", step, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", step, err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:                    fmt.Sprintf("user-%d", now.UnixNano()),
		Email:                 email,
		PasswordHash:          fmt.Sprintf("hash-%d", now.UnixNano()),
		ProjectName:           "Test Project",
		WBSOApplicationNumber: "WBSO-2025-001",
		ApprovedHours:         500,
		ProjectPhases:         model.DefaultProjectPhases,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// NewTestEntry creates a test time entry on the given date.
func NewTestEntry(t testing.TB, userID string, date time.Time) *model.TimeEntry {
	t.Helper()
	now := time.Now().UTC()
	return &model.TimeEntry{
		ID:                  fmt.Sprintf("entry-%d", now.UnixNano()),
		UserID:              userID,
		Date:                model.DayOf(date),
		Hours:               4,
		ProjectPhase:        "Development",
		ActivityDescription: "Implemented feature",
		TechnicalChallenge:  "Concurrency handling",
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
