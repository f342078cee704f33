package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/wanderlust/wanderlust/internal/model"
)

// ErrListingNotFound is returned when no listing matches the given ID.
var ErrListingNotFound = errors.New("listing not found")

// ListingFilter narrows ListListings results. Zero value means no filter.
type ListingFilter struct {
	Category model.Category
	OwnerID  string
}

const listingColumns = `id, title, description, price, location, country, category, coordinates,
	image_url, image_filename, owner_id, review_ids, created_at, updated_at`

// CreateListing inserts a new listing into the database.
func (r *Repository) CreateListing(ctx context.Context, listing *model.Listing) error {
	query := `
		INSERT INTO listings (id, title, description, price, location, country, category, coordinates,
			image_url, image_filename, owner_id, review_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	reviewIDs := listing.ReviewIDs
	if reviewIDs == nil {
		reviewIDs = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		listing.ID,
		listing.Title,
		listing.Description,
		listing.Price,
		listing.Location,
		listing.Country,
		string(listing.Category),
		pq.Array(listing.Geometry.Coordinates[:]),
		listing.Image.URL,
		listing.Image.Filename,
		listing.OwnerID,
		pq.Array(reviewIDs),
		listing.CreatedAt,
		listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	return nil
}

// GetListingByID retrieves a listing by its ID.
func (r *Repository) GetListingByID(ctx context.Context, id string) (*model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	listing, err := scanListing(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing by ID: %w", err)
	}

	return listing, nil
}

// ListListings returns listings matching the filter, newest first.
func (r *Repository) ListListings(ctx context.Context, filter ListingFilter) ([]*model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, string(filter.Category))
		argNum++
	}

	if filter.OwnerID != "" {
		query += fmt.Sprintf(" AND owner_id = $%d", argNum)
		args = append(args, filter.OwnerID)
	}

	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	listings := []*model.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	return listings, nil
}

// UpdateListing overwrites the editable fields of a listing.
// Owner and review collection are never modified here.
func (r *Repository) UpdateListing(ctx context.Context, listing *model.Listing) error {
	query := `
		UPDATE listings
		SET title = $2, description = $3, price = $4, location = $5, country = $6,
			category = $7, coordinates = $8, image_url = $9, image_filename = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		listing.ID,
		listing.Title,
		listing.Description,
		listing.Price,
		listing.Location,
		listing.Country,
		string(listing.Category),
		pq.Array(listing.Geometry.Coordinates[:]),
		listing.Image.URL,
		listing.Image.Filename,
		listing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}

// DeleteListing removes a listing and every review belonging to it in a
// single transaction. It returns the deleted listing and the number of
// reviews removed with it.
func (r *Repository) DeleteListing(ctx context.Context, id string) (*model.Listing, int64, error) {
	var (
		deleted *model.Listing
		removed int64
	)

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		lockQuery := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`

		listing, err := scanListing(tx.QueryRow(ctx, lockQuery, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrListingNotFound
			}
			return fmt.Errorf("failed to lock listing: %w", err)
		}

		// Both the captured id list and the live foreign key are matched.
		result, err := tx.Exec(ctx,
			`DELETE FROM reviews WHERE listing_id = $1 OR id = ANY($2)`,
			id, pq.Array(listing.ReviewIDs),
		)
		if err != nil {
			return fmt.Errorf("failed to delete listing reviews: %w", err)
		}
		removed = result.RowsAffected()

		if _, err := tx.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete listing: %w", err)
		}

		deleted = listing
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return deleted, removed, nil
}

// ClearListings removes every listing and review. It returns the number of
// listings and reviews removed.
func (r *Repository) ClearListings(ctx context.Context) (int64, int64, error) {
	var listings, reviews int64

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM reviews`)
		if err != nil {
			return fmt.Errorf("failed to clear reviews: %w", err)
		}
		reviews = result.RowsAffected()

		result, err = tx.Exec(ctx, `DELETE FROM listings`)
		if err != nil {
			return fmt.Errorf("failed to clear listings: %w", err)
		}
		listings = result.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return listings, reviews, nil
}

func scanListing(row pgx.Row) (*model.Listing, error) {
	var (
		listing     model.Listing
		category    string
		coordinates []float64
		reviewIDs   []string
	)

	err := row.Scan(
		&listing.ID,
		&listing.Title,
		&listing.Description,
		&listing.Price,
		&listing.Location,
		&listing.Country,
		&category,
		pq.Array(&coordinates),
		&listing.Image.URL,
		&listing.Image.Filename,
		&listing.OwnerID,
		pq.Array(&reviewIDs),
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	listing.Category = model.Category(category)
	listing.Geometry = model.DefaultGeometry()
	if len(coordinates) == 2 {
		listing.Geometry.Coordinates = [2]float64{coordinates[0], coordinates[1]}
	}
	if reviewIDs == nil {
		reviewIDs = []string{}
	}
	listing.ReviewIDs = reviewIDs

	return &listing, nil
}
