// Package testutil provides shared helpers, factories and in-memory fakes
// for tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wanderlust/wanderlust/internal/auth"
	"github.com/wanderlust/wanderlust/internal/model"
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

const advisoryLockID int64 = 420420

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

// migrations in apply order.
var migrations = []string{
	"000001_users",
	"000002_listings",
	"000003_reviews",
}

// ResetSchema drops every table and re-applies all up migrations.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		if err := applyMigration(ctx, pool, root, migrations[i]+".down.sql"); err != nil {
			return err
		}
	}
	for _, name := range migrations {
		if err := applyMigration(ctx, pool, root, name+".up.sql"); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, root, file string) error {
	sql, err := os.ReadFile(filepath.Join(root, "migrations", file))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", file, err)
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

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ============================================================================
// Test Data Factories
// ============================================================================

var seq atomic.Int64

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// TestPassword is the plaintext password of users made by NewTestUser.
const TestPassword = "correct horse"

var testPasswordHash = func() string {
	h, err := auth.HashPassword(TestPassword)
	if err != nil {
		panic(err)
	}
	return h
}()

// NewTestUser creates a user whose password is TestPassword.
func NewTestUser(t testing.TB, username string) *model.User {
	t.Helper()
	return &model.User{
		ID:           UniqueID("user"),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: testPasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// NewTestListing creates a listing owned by ownerID with the placeholder image.
func NewTestListing(t testing.TB, ownerID string) *model.Listing {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Listing{
		ID:          UniqueID("listing"),
		Title:       "Cozy Beachfront Cottage",
		Description: "Escape to this charming beachfront cottage.",
		Price:       1500,
		Location:    "Malibu",
		Country:     "United States",
		Category:    model.CategoryBeach,
		Geometry:    model.DefaultGeometry(),
		Image:       model.DefaultImage(),
		OwnerID:     ownerID,
		ReviewIDs:   []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestReview creates a review of listingID by authorID.
func NewTestReview(t testing.TB, listingID, authorID string) *model.Review {
	t.Helper()
	return &model.Review{
		ID:        UniqueID("review"),
		ListingID: listingID,
		AuthorID:  authorID,
		Rating:    4,
		Comment:   "Great stay",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// NewAuthenticatedSession returns a saved-looking session for user.
func NewAuthenticatedSession(t testing.TB, user *model.User) *model.Session {
	t.Helper()
	sess := model.NewSession()
	sess.Login(user)
	sess.MarkSaved()
	return sess
}
