package model

import "time"

// Rating bounds for reviews.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rating and comment attached to exactly one listing.
type Review struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	AuthorID  string    `json:"author_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAuthoredBy reports whether userID wrote the review.
func (r *Review) IsAuthoredBy(userID string) bool {
	return userID != "" && r.AuthorID == userID
}
