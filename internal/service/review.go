package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wanderlust/wanderlust/internal/form"
	"github.com/wanderlust/wanderlust/internal/metrics"
	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/repository"
)

// ReviewService handles review business logic.
type ReviewService struct {
	reviews ReviewStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews ReviewStore, logger *slog.Logger, recorder metrics.Recorder) *ReviewService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{reviews: reviews, logger: logger, metrics: recorder}
}

// CreateReview appends a review by authorID to the listing.
func (s *ReviewService) CreateReview(ctx context.Context, listingID, authorID string, in *form.ReviewInput) (*model.Review, error) {
	review := &model.Review{
		ID:        newID(),
		ListingID: listingID,
		AuthorID:  authorID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reviews.CreateReview(ctx, review); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.metrics.IncReviewCreated()
	return review, nil
}

// GetReview returns a review of the given listing.
func (s *ReviewService) GetReview(ctx context.Context, listingID, reviewID string) (*model.Review, error) {
	review, err := s.reviews.GetReviewByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	if review.ListingID != listingID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// DeleteReview removes the review from the listing and deletes it.
func (s *ReviewService) DeleteReview(ctx context.Context, listingID, reviewID string) error {
	if err := s.reviews.DeleteReview(ctx, listingID, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.metrics.IncReviewDeleted()
	s.logger.InfoContext(ctx, "review deleted",
		slog.String("listing_id", listingID),
		slog.String("review_id", reviewID),
	)
	return nil
}
