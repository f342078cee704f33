//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/repository"
	"github.com/wanderlust/wanderlust/internal/testutil"
)

func newTestEnv(t *testing.T) (context.Context, *repository.Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := repository.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, repo
}

func mustCreateUser(t *testing.T, ctx context.Context, repo *repository.Repository, username string) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, username)
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return user
}

func mustCreateListing(t *testing.T, ctx context.Context, repo *repository.Repository, ownerID string) *model.Listing {
	t.Helper()
	listing := testutil.NewTestListing(t, ownerID)
	if err := repo.CreateListing(ctx, listing); err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}
	return listing
}

func mustCreateReview(t *testing.T, ctx context.Context, repo *repository.Repository, listingID, authorID string) *model.Review {
	t.Helper()
	review := testutil.NewTestReview(t, listingID, authorID)
	if err := repo.CreateReview(ctx, review); err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}
	return review
}

func TestIntegrationRepository_Ping(t *testing.T) {
	ctx, repo := newTestEnv(t)

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestIntegrationMigration_Tables(t *testing.T) {
	ctx, repo := newTestEnv(t)

	columns := map[string][]string{
		"users":    {"id", "username", "email", "password_hash", "created_at"},
		"listings": {"id", "title", "price", "category", "coordinates", "image_url", "image_filename", "owner_id", "review_ids"},
		"reviews":  {"id", "listing_id", "author_id", "rating", "comment", "created_at"},
	}

	for table, cols := range columns {
		for _, col := range cols {
			t.Run(table+"."+col, func(t *testing.T) {
				var exists bool
				err := repo.Pool().QueryRow(ctx, `
					SELECT EXISTS (
						SELECT FROM information_schema.columns
						WHERE table_schema = 'public'
						AND table_name = $1
						AND column_name = $2
					)
				`, table, col).Scan(&exists)
				if err != nil {
					t.Fatalf("column lookup failed: %v", err)
				}
				if !exists {
					t.Errorf("column %s.%s should exist after migrations", table, col)
				}
			})
		}
	}
}

func TestIntegrationMigration_Constraints(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := mustCreateUser(t, ctx, repo, "constraints")

	_, err := repo.Pool().Exec(ctx, `
		INSERT INTO listings (id, title, description, price, location, country, image_url, image_filename, owner_id)
		VALUES ('neg', 't', 'd', -1, 'l', 'c', 'u', 'f', $1)
	`, owner.ID)
	if err == nil {
		t.Error("expected check constraint violation for negative price")
	}

	listing := mustCreateListing(t, ctx, repo, owner.ID)
	_, err = repo.Pool().Exec(ctx, `
		INSERT INTO reviews (id, listing_id, author_id, rating, comment)
		VALUES ('r6', $1, $2, 6, 'too good')
	`, listing.ID, owner.ID)
	if err == nil {
		t.Error("expected check constraint violation for rating 6")
	}
}
