// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// Category is the closed set of listing categories.
type Category string

const (
	CategoryTrending     Category = "Trending"
	CategoryRooms        Category = "Rooms"
	CategoryIconicCities Category = "Iconic Cities"
	CategoryCastles      Category = "Castles"
	CategoryPools        Category = "Pools"
	CategoryCamping      Category = "Camping"
	CategoryFarms        Category = "Farms"
	CategoryArctic       Category = "Arctic"
	CategoryBeach        Category = "Beach"
	CategoryMountains    Category = "Mountains"
)

// DefaultCategory is assigned when a listing is created without one.
const DefaultCategory = CategoryTrending

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTrending,
	CategoryRooms,
	CategoryIconicCities,
	CategoryCastles,
	CategoryPools,
	CategoryCamping,
	CategoryFarms,
	CategoryArctic,
	CategoryBeach,
	CategoryMountains,
}

// IsValid checks if the category is one of the known values.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Slug returns the URL form of the category, e.g. "iconic-cities".
func (c Category) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(c)), " ", "-")
}

// CategoryFromSlug maps a URL slug back to its category.
// The second return value is false for unknown slugs.
func CategoryFromSlug(slug string) (Category, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, c := range Categories {
		if c.Slug() == slug {
			return c, true
		}
	}
	return "", false
}

// Placeholder image used when a listing has no uploaded image.
// The sentinel filename is never passed to a blob store for release.
const (
	DefaultImageFilename = "listingimage"
	DefaultImageURL      = "https://images.unsplash.com/photo-1625505826533-5c80aca7d157?auto=format&fit=crop&w=800&q=60"
)

// Image is a reference to a stored listing image.
type Image struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// DefaultImage returns the placeholder image reference.
func DefaultImage() Image {
	return Image{URL: DefaultImageURL, Filename: DefaultImageFilename}
}

// IsReleasable reports whether the image was explicitly uploaded
// and its blob may be released from storage.
func (i Image) IsReleasable() bool {
	return i.Filename != "" && i.Filename != DefaultImageFilename
}

// Geometry is a GeoJSON point. Coordinates are [lng, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// DefaultGeometry returns a point at the origin.
func DefaultGeometry() Geometry {
	return Geometry{Type: "Point", Coordinates: [2]float64{0, 0}}
}

// Listing represents a bookable property.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Country     string    `json:"country"`
	Category    Category  `json:"category"`
	Geometry    Geometry  `json:"geometry"`
	Image       Image     `json:"image"`
	OwnerID     string    `json:"owner_id"`
	ReviewIDs   []string  `json:"review_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether userID owns the listing.
func (l *Listing) IsOwnedBy(userID string) bool {
	return userID != "" && l.OwnerID == userID
}

// HasReview reports whether reviewID is in the listing's review collection.
func (l *Listing) HasReview(reviewID string) bool {
	for _, id := range l.ReviewIDs {
		if id == reviewID {
			return true
		}
	}
	return false
}
