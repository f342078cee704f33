// Package dto defines the data handed to each view.
package dto

import (
	"strings"

	"github.com/wanderlust/wanderlust/internal/model"
	"github.com/wanderlust/wanderlust/internal/service"
)

// cdnUploadSegment marks a CDN delivery URL that accepts transformations.
const cdnUploadSegment = "/upload/"

// previewTransform scales the edit page thumbnail down on the CDN.
const previewTransform = "h_300,w_250/"

// ListingFormPage is the data of the new listing form.
type ListingFormPage struct {
	Categories []service.CategoryOption `json:"categories"`
}

// EditListingPage is the data of the edit listing form.
type EditListingPage struct {
	Listing    *model.Listing           `json:"listing"`
	PreviewURL string                   `json:"preview_url"`
	Categories []service.CategoryOption `json:"categories"`
}

// NewEditListingPage builds the edit page for a listing.
func NewEditListingPage(listing *model.Listing, categories []service.CategoryOption) EditListingPage {
	return EditListingPage{
		Listing:    listing,
		PreviewURL: PreviewURL(listing.Image.URL),
		Categories: categories,
	}
}

// PreviewURL returns a thumbnail URL for an image. CDN delivery URLs get a
// resize transformation; any other URL is returned unchanged.
func PreviewURL(imageURL string) string {
	if !strings.Contains(imageURL, cdnUploadSegment) {
		return imageURL
	}
	return strings.Replace(imageURL, cdnUploadSegment, cdnUploadSegment+previewTransform, 1)
}
