//go:build integration

package repository_test

import (
	"errors"
	"testing"

	"github.com/wanderlust/wanderlust/internal/repository"
	"github.com/wanderlust/wanderlust/internal/testutil"
)

func TestIntegrationReviewRepository_CreateAppendsToListing(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := mustCreateUser(t, ctx, repo, "owner")
	guest := mustCreateUser(t, ctx, repo, "guest")
	listing := mustCreateListing(t, ctx, repo, owner.ID)

	first := mustCreateReview(t, ctx, repo, listing.ID, guest.ID)
	second := mustCreateReview(t, ctx, repo, listing.ID, owner.ID)

	got, err := repo.GetListingByID(ctx, listing.ID)
	if err != nil {
		t.Fatalf("GetListingByID failed: %v", err)
	}
	if len(got.ReviewIDs) != 2 || got.ReviewIDs[0] != first.ID || got.ReviewIDs[1] != second.ID {
		t.Errorf("ReviewIDs = %v, want [%s %s]", got.ReviewIDs, first.ID, second.ID)
	}

	review, err := repo.GetReviewByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetReviewByID failed: %v", err)
	}
	if review.AuthorID != guest.ID || review.ListingID != listing.ID || review.Rating != 4 || review.Comment != "Great stay" {
		t.Errorf("unexpected review: %+v", review)
	}
}

func TestIntegrationReviewRepository_CreateUnknownListing(t *testing.T) {
	ctx, repo := newTestEnv(t)
	guest := mustCreateUser(t, ctx, repo, "guest")

	review := testutil.NewTestReview(t, "missing", guest.ID)
	if err := repo.CreateReview(ctx, review); !errors.Is(err, repository.ErrListingNotFound) {
		t.Errorf("expected ErrListingNotFound, got %v", err)
	}
	if _, err := repo.GetReviewByID(ctx, review.ID); !errors.Is(err, repository.ErrReviewNotFound) {
		t.Errorf("review must not be stored, got %v", err)
	}
}

func TestIntegrationReviewRepository_GetReviewsByIDsKeepsOrder(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := mustCreateUser(t, ctx, repo, "owner")
	listing := mustCreateListing(t, ctx, repo, owner.ID)

	a := mustCreateReview(t, ctx, repo, listing.ID, owner.ID)
	b := mustCreateReview(t, ctx, repo, listing.ID, owner.ID)

	reviews, err := repo.GetReviewsByIDs(ctx, []string{b.ID, "missing", a.ID})
	if err != nil {
		t.Fatalf("GetReviewsByIDs failed: %v", err)
	}
	if len(reviews) != 2 || reviews[0].ID != b.ID || reviews[1].ID != a.ID {
		t.Errorf("unexpected reviews order: %v", reviews)
	}

	empty, err := repo.GetReviewsByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("GetReviewsByIDs(nil) failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", empty)
	}
}

func TestIntegrationReviewRepository_Delete(t *testing.T) {
	ctx, repo := newTestEnv(t)
	owner := mustCreateUser(t, ctx, repo, "owner")
	listing := mustCreateListing(t, ctx, repo, owner.ID)
	other := mustCreateListing(t, ctx, repo, owner.ID)

	review := mustCreateReview(t, ctx, repo, listing.ID, owner.ID)

	if err := repo.DeleteReview(ctx, other.ID, review.ID); !errors.Is(err, repository.ErrReviewNotFound) {
		t.Errorf("wrong listing: expected ErrReviewNotFound, got %v", err)
	}

	if err := repo.DeleteReview(ctx, listing.ID, review.ID); err != nil {
		t.Fatalf("DeleteReview failed: %v", err)
	}

	got, err := repo.GetListingByID(ctx, listing.ID)
	if err != nil {
		t.Fatalf("GetListingByID failed: %v", err)
	}
	if got.HasReview(review.ID) {
		t.Error("review id should be removed from the listing")
	}

	if err := repo.DeleteReview(ctx, listing.ID, review.ID); !errors.Is(err, repository.ErrReviewNotFound) {
		t.Errorf("second delete: expected ErrReviewNotFound, got %v", err)
	}
}
