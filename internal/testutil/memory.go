package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/repository"
)

// MemoryStore is an in-memory stand-in for *repository.Repository with the
// same error contract. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	listings map[string]*model.Listing
	reviews  map[string]*model.Review
	order    []string

	// Err, when set, is returned by every call.
	Err error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*model.User),
		listings: make(map[string]*model.Listing),
		reviews:  make(map[string]*model.Review),
	}
}

func copyListing(l *model.Listing) *model.Listing {
	c := *l
	c.ReviewIDs = append([]string{}, l.ReviewIDs...)
	return &c
}

func copyReview(r *model.Review) *model.Review {
	c := *r
	return &c
}

func copyUser(u *model.User) *model.User {
	c := *u
	return &c
}

// CreateUser implements the user store.
func (m *MemoryStore) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailTaken
		}
	}
	m.users[user.ID] = copyUser(user)
	return nil
}

// GetUserByID implements the user store.
func (m *MemoryStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetUserByUsername implements the user store.
func (m *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, u := range m.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// GetUsersByIDs implements the user store.
func (m *MemoryStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := make(map[string]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = copyUser(u)
		}
	}
	return out, nil
}

// CreateListing implements the listing store.
func (m *MemoryStore) CreateListing(ctx context.Context, listing *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	m.listings[listing.ID] = copyListing(listing)
	m.order = append(m.order, listing.ID)
	return nil
}

// GetListingByID implements the listing store.
func (m *MemoryStore) GetListingByID(ctx context.Context, id string) (*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	l, ok := m.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	return copyListing(l), nil
}

// ListListings implements the listing store, newest first.
func (m *MemoryStore) ListListings(ctx context.Context, filter repository.ListingFilter) ([]*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := []*model.Listing{}
	for i := len(m.order) - 1; i >= 0; i-- {
		l, ok := m.listings[m.order[i]]
		if !ok {
			continue
		}
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		if filter.OwnerID != "" && l.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, copyListing(l))
	}
	return out, nil
}

// UpdateListing implements the listing store. Owner and reviews are kept.
func (m *MemoryStore) UpdateListing(ctx context.Context, listing *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	cur, ok := m.listings[listing.ID]
	if !ok {
		return repository.ErrListingNotFound
	}

	next := copyListing(listing)
	next.OwnerID = cur.OwnerID
	next.ReviewIDs = cur.ReviewIDs
	next.CreatedAt = cur.CreatedAt
	m.listings[listing.ID] = next
	return nil
}

// DeleteListing implements the listing store, removing the listing's reviews.
func (m *MemoryStore) DeleteListing(ctx context.Context, id string) (*model.Listing, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}

	l, ok := m.listings[id]
	if !ok {
		return nil, 0, repository.ErrListingNotFound
	}

	referenced := make(map[string]bool, len(l.ReviewIDs))
	for _, rid := range l.ReviewIDs {
		referenced[rid] = true
	}

	var removed int64
	for rid, r := range m.reviews {
		if r.ListingID == id || referenced[rid] {
			delete(m.reviews, rid)
			removed++
		}
	}

	delete(m.listings, id)
	return l, removed, nil
}

// CreateReview implements the review store.
func (m *MemoryStore) CreateReview(ctx context.Context, review *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	l, ok := m.listings[review.ListingID]
	if !ok {
		return repository.ErrListingNotFound
	}
	l.ReviewIDs = append(l.ReviewIDs, review.ID)
	m.reviews[review.ID] = copyReview(review)
	return nil
}

// GetReviewByID implements the review store.
func (m *MemoryStore) GetReviewByID(ctx context.Context, id string) (*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	r, ok := m.reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	return copyReview(r), nil
}

// GetReviewsByIDs implements the review store, keeping the order of ids.
func (m *MemoryStore) GetReviewsByIDs(ctx context.Context, ids []string) ([]*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := []*model.Review{}
	for _, id := range ids {
		if r, ok := m.reviews[id]; ok {
			out = append(out, copyReview(r))
		}
	}
	return out, nil
}

// DeleteReview implements the review store.
func (m *MemoryStore) DeleteReview(ctx context.Context, listingID, reviewID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if l, ok := m.listings[listingID]; ok {
		kept := l.ReviewIDs[:0]
		for _, id := range l.ReviewIDs {
			if id != reviewID {
				kept = append(kept, id)
			}
		}
		l.ReviewIDs = kept
	}

	r, ok := m.reviews[reviewID]
	if !ok || r.ListingID != listingID {
		return repository.ErrReviewNotFound
	}
	delete(m.reviews, reviewID)
	return nil
}

// ReviewCount returns the number of stored reviews.
func (m *MemoryStore) ReviewCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reviews)
}

// ReviewsOf returns stored reviews whose listing is listingID, sorted by ID.
func (m *MemoryStore) ReviewsOf(listingID string) []*model.Review {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*model.Review
	for _, r := range m.reviews {
		if r.ListingID == listingID {
			out = append(out, copyReview(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
