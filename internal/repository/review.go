package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/wanderlust/wanderlust/internal/model"
)

// ErrReviewNotFound is returned when no review matches the given IDs.
var ErrReviewNotFound = errors.New("review not found")

const reviewColumns = `id, listing_id, author_id, rating, comment, created_at`

// CreateReview inserts a review and appends its ID to the listing's review
// collection. The listing row is locked first so a concurrent delete either
// sees the review or the insert fails with ErrListingNotFound.
func (r *Repository) CreateReview(ctx context.Context, review *model.Review) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`UPDATE listings SET review_ids = array_append(review_ids, $2) WHERE id = $1`,
			review.ListingID, review.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to append review to listing: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrListingNotFound
		}

		query := `
			INSERT INTO reviews (id, listing_id, author_id, rating, comment, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.Exec(ctx, query,
			review.ID,
			review.ListingID,
			review.AuthorID,
			review.Rating,
			review.Comment,
			review.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		return nil
	})
}

// GetReviewByID retrieves a review by its ID.
func (r *Repository) GetReviewByID(ctx context.Context, id string) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review by ID: %w", err)
	}

	return review, nil
}

// GetReviewsByIDs retrieves reviews in the order of ids. IDs without a
// matching row are skipped.
func (r *Repository) GetReviewsByIDs(ctx context.Context, ids []string) ([]*model.Review, error) {
	reviews := []*model.Review{}
	if len(ids) == 0 {
		return reviews, nil
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews by IDs: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*model.Review, len(ids))
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		byID[review.ID] = review
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	for _, id := range ids {
		if review, ok := byID[id]; ok {
			reviews = append(reviews, review)
		}
	}

	return reviews, nil
}

// DeleteReview removes a review from a listing's collection and deletes the
// review record. Returns ErrReviewNotFound if the review does not belong to
// the listing.
func (r *Repository) DeleteReview(ctx context.Context, listingID, reviewID string) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE listings SET review_ids = array_remove(review_ids, $2) WHERE id = $1`,
			listingID, reviewID,
		); err != nil {
			return fmt.Errorf("failed to remove review from listing: %w", err)
		}

		result, err := tx.Exec(ctx,
			`DELETE FROM reviews WHERE id = $1 AND listing_id = $2`,
			reviewID, listingID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrReviewNotFound
		}

		return nil
	})
}

func scanReview(row pgx.Row) (*model.Review, error) {
	var review model.Review
	err := row.Scan(
		&review.ID,
		&review.ListingID,
		&review.AuthorID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
