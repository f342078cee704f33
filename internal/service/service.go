// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"

	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/repository"
)

// Service errors.
var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrImageStore         = errors.New("failed to store image")
)

// ListingStore persists listings. Implemented by *repository.Repository.
type ListingStore interface {
	CreateListing(ctx context.Context, listing *model.Listing) error
	GetListingByID(ctx context.Context, id string) (*model.Listing, error)
	ListListings(ctx context.Context, filter repository.ListingFilter) ([]*model.Listing, error)
	UpdateListing(ctx context.Context, listing *model.Listing) error
	DeleteListing(ctx context.Context, id string) (*model.Listing, int64, error)
}

// ReviewStore persists reviews. Implemented by *repository.Repository.
type ReviewStore interface {
	CreateReview(ctx context.Context, review *model.Review) error
	GetReviewByID(ctx context.Context, id string) (*model.Review, error)
	GetReviewsByIDs(ctx context.Context, ids []string) ([]*model.Review, error)
	DeleteReview(ctx context.Context, listingID, reviewID string) error
}

// UserStore persists users. Implemented by *repository.Repository.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error)
}

func newID() string {
	return ulid.Make().String()
}
