package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wanderlust/wanderlust/internal/blob"
	"github.com/wanderlust/wanderlust/internal/form"
	"github.com/wanderlust/wanderlust/internal/metrics"
	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/repository"
)

// releaseTimeout bounds best-effort blob cleanup after the request's own
// work is done.
const releaseTimeout = 10 * time.Second

// AllCategories is the category slug meaning "no filter".
const AllCategories = "all"

// ListingService handles listing business logic.
type ListingService struct {
	listings ListingStore
	reviews  ReviewStore
	users    UserStore
	blobs    blob.Store
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewListingService creates a new ListingService.
func NewListingService(
	listings ListingStore,
	reviews ReviewStore,
	users UserStore,
	blobs blob.Store,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *ListingService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingService{
		listings: listings,
		reviews:  reviews,
		users:    users,
		blobs:    blobs,
		logger:   logger,
		metrics:  recorder,
	}
}

// ListingIndex is the result of ListListings.
type ListingIndex struct {
	Listings         []*model.Listing `json:"listings"`
	Categories       []CategoryOption `json:"categories"`
	SelectedCategory string           `json:"selected_category"`
}

// CategoryOption is one entry of the category filter bar.
type CategoryOption struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ReviewDetail is a review joined with its author.
type ReviewDetail struct {
	*model.Review
	Author *model.User `json:"author,omitempty"`
}

// ListingDetail is a listing joined with its owner and reviews.
type ListingDetail struct {
	*model.Listing
	Owner   *model.User     `json:"owner,omitempty"`
	Reviews []*ReviewDetail `json:"reviews"`
}

// ListListings returns listings, optionally filtered by a category slug.
// An empty slug or "all" means no filter; an unknown slug matches nothing.
func (s *ListingService) ListListings(ctx context.Context, categorySlug string) (*ListingIndex, error) {
	index := &ListingIndex{
		Categories:       CategoryOptions(),
		SelectedCategory: AllCategories,
		Listings:         []*model.Listing{},
	}

	var filter repository.ListingFilter
	if categorySlug != "" && categorySlug != AllCategories {
		index.SelectedCategory = categorySlug
		category, ok := model.CategoryFromSlug(categorySlug)
		if !ok {
			return index, nil
		}
		filter.Category = category
	}

	listings, err := s.listings.ListListings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	index.Listings = listings

	return index, nil
}

// GetListing returns a listing by ID.
func (s *ListingService) GetListing(ctx context.Context, id string) (*model.Listing, error) {
	listing, err := s.listings.GetListingByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

// GetListingDetail returns a listing with its owner and its reviews, each
// review with its author. Users that no longer exist are left nil.
func (s *ListingService) GetListingDetail(ctx context.Context, id string) (*ListingDetail, error) {
	listing, err := s.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.GetReviewsByIDs(ctx, listing.ReviewIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	userIDs := make([]string, 0, len(reviews)+1)
	userIDs = append(userIDs, listing.OwnerID)
	for _, r := range reviews {
		userIDs = append(userIDs, r.AuthorID)
	}

	users, err := s.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	detail := &ListingDetail{
		Listing: listing,
		Owner:   users[listing.OwnerID],
		Reviews: make([]*ReviewDetail, 0, len(reviews)),
	}
	for _, r := range reviews {
		detail.Reviews = append(detail.Reviews, &ReviewDetail{Review: r, Author: users[r.AuthorID]})
	}

	return detail, nil
}

// CreateListing creates a listing owned by ownerID. An uploaded file wins
// over a typed image URL; with neither the placeholder image is used.
func (s *ListingService) CreateListing(ctx context.Context, ownerID string, in *form.ListingInput) (*model.Listing, error) {
	now := time.Now().UTC()
	listing := &model.Listing{
		ID:        newID(),
		OwnerID:   ownerID,
		Image:     model.DefaultImage(),
		ReviewIDs: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Apply(listing)

	if supplied, ok := in.SuppliedImage(); ok {
		listing.Image = supplied
	}

	stored, err := s.storeUpload(ctx, in.Upload)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		listing.Image = *stored
	}

	if err := s.listings.CreateListing(ctx, listing); err != nil {
		if stored != nil {
			s.releaseImage(ctx, *stored)
		}
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	s.metrics.IncListingCreated()
	return listing, nil
}

// UpdateListing applies the form to an existing listing. Ownership and
// reviews are never changed. Without an upload or a typed image URL the
// current image is kept; an uploaded image replaced by either is released
// once the update is stored.
func (s *ListingService) UpdateListing(ctx context.Context, existing *model.Listing, in *form.ListingInput) (*model.Listing, error) {
	updated := *existing
	updated.ReviewIDs = append([]string(nil), existing.ReviewIDs...)
	in.Apply(&updated)
	updated.UpdatedAt = time.Now().UTC()

	if supplied, ok := in.SuppliedImage(); ok {
		updated.Image = supplied
	}

	stored, err := s.storeUpload(ctx, in.Upload)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		updated.Image = *stored
	}

	if err := s.listings.UpdateListing(ctx, &updated); err != nil {
		if stored != nil {
			s.releaseImage(ctx, *stored)
		}
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	if updated.Image.Filename != existing.Image.Filename {
		s.releaseImage(ctx, existing.Image)
	}

	s.metrics.IncListingUpdated()
	return &updated, nil
}

// DeleteListing removes the listing and all of its reviews, then releases
// its uploaded image. Image release failures are logged and counted but
// never returned: the listing deletion is the result that matters.
func (s *ListingService) DeleteListing(ctx context.Context, id string) (*model.Listing, error) {
	listing, removed, err := s.listings.DeleteListing(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to delete listing: %w", err)
	}

	s.metrics.IncListingDeleted()
	s.metrics.AddReviewsCascaded(removed)

	s.logger.InfoContext(ctx, "listing deleted",
		slog.String("listing_id", listing.ID),
		slog.Int64("reviews_removed", removed),
	)

	s.releaseImage(ctx, listing.Image)

	return listing, nil
}

func (s *ListingService) storeUpload(ctx context.Context, upload *form.Upload) (*model.Image, error) {
	if upload == nil {
		return nil, nil
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("%w: no blob store configured", ErrImageStore)
	}

	img, err := s.blobs.Store(ctx, upload.File, upload.Metadata())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageStore, err)
	}

	s.metrics.IncBlobStored()
	return &img, nil
}

// releaseImage releases an uploaded image. The placeholder is never
// released. Failures are logged and counted.
func (s *ListingService) releaseImage(ctx context.Context, img model.Image) {
	if !img.IsReleasable() || s.blobs == nil {
		return
	}

	// Cleanup must outlive a cancelled request.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.blobs.Release(ctx, img.Filename); err != nil {
		s.metrics.IncBlobReleaseFailed()
		s.logger.WarnContext(ctx, "image release failed",
			slog.String("filename", img.Filename),
			slog.String("error", err.Error()),
		)
		return
	}

	s.metrics.IncBlobReleased()
}

// CategoryOptions lists every category with its URL slug.
func CategoryOptions() []CategoryOption {
	opts := make([]CategoryOption, 0, len(model.Categories))
	for _, c := range model.Categories {
		opts = append(opts, CategoryOption{Name: string(c), Slug: c.Slug()})
	}
	return opts
}
