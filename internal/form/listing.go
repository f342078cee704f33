package form

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/wanderlust/wanderlust/internal/blob"
	"github.com/wanderlust/wanderlust/internal/model"
)

// Listing form field names.
const (
	FieldTitle       = "listing[title]"
	FieldDescription = "listing[description]"
	FieldPrice       = "listing[price]"
	FieldLocation    = "listing[location]"
	FieldCountry     = "listing[country]"
	FieldCategory    = "listing[category]"
	FieldCoordinates = "listing[geometry][coordinates]"
	FieldImageURL    = "listing[image][url]"
	FieldImageFile   = "listing[image]"
)

// DefaultMaxMemory is the multipart memory threshold before spilling to disk.
const DefaultMaxMemory = 8 << 20

// ListingInput is a submitted listing form.
type ListingInput struct {
	Title       string    `form:"listing[title]" validate:"required"`
	Description string    `form:"listing[description]" validate:"required"`
	Price       *float64  `form:"listing[price]" validate:"required,gte=0"`
	Location    string    `form:"listing[location]" validate:"required"`
	Country     string    `form:"listing[country]" validate:"required"`
	Category    string    `form:"listing[category]" validate:"omitempty,category"`
	Coordinates []float64 `form:"listing[geometry][coordinates]" validate:"omitempty,len=2"`
	ImageURL    string    `form:"listing[image][url]"`

	// Upload is the image file, nil when none was sent.
	Upload *Upload `form:"-" validate:"-"`
}

// Upload is an image file from a multipart form.
type Upload struct {
	File   multipart.File
	Name   string
	Size   int64
	Format string
}

// Close releases the underlying file.
func (u *Upload) Close() error {
	if u == nil || u.File == nil {
		return nil
	}
	return u.File.Close()
}

// Metadata describes the upload for a blob store.
func (u *Upload) Metadata() blob.Metadata {
	return blob.Metadata{Format: u.Format, OriginalName: u.Name, Size: u.Size}
}

// ParseListing reads and validates a listing form. maxUpload caps the image
// size; zero means no limit. The caller must Close any returned Upload.
func ParseListing(r *http.Request, maxUpload int64) (*ListingInput, error) {
	if err := parse(r); err != nil {
		return nil, err
	}

	in := &ListingInput{
		Title:       strings.TrimSpace(r.PostFormValue(FieldTitle)),
		Description: strings.TrimSpace(r.PostFormValue(FieldDescription)),
		Location:    strings.TrimSpace(r.PostFormValue(FieldLocation)),
		Country:     strings.TrimSpace(r.PostFormValue(FieldCountry)),
		Category:    strings.TrimSpace(r.PostFormValue(FieldCategory)),
		ImageURL:    strings.TrimSpace(r.PostFormValue(FieldImageURL)),
	}

	var msgs []string

	if raw := strings.TrimSpace(r.PostFormValue(FieldPrice)); raw != "" {
		price, err := parseFinite(raw)
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("%q must be a number", FieldPrice))
		} else {
			in.Price = &price
		}
	}

	coords, err := parseCoordinates(r)
	if err != nil {
		msgs = append(msgs, fmt.Sprintf("%q must contain numbers", FieldCoordinates))
	}
	in.Coordinates = coords

	if len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}

	if err := Struct(in); err != nil {
		return nil, err
	}

	upload, err := parseUpload(r, maxUpload)
	if err != nil {
		return nil, err
	}
	in.Upload = upload

	return in, nil
}

// Apply copies the form fields onto l. Category and coordinates fall back
// to their defaults when omitted. The image is left to the caller.
func (in *ListingInput) Apply(l *model.Listing) {
	l.Title = in.Title
	l.Description = in.Description
	l.Location = in.Location
	l.Country = in.Country
	if in.Price != nil {
		l.Price = *in.Price
	}

	l.Category = model.DefaultCategory
	if in.Category != "" {
		l.Category = model.Category(in.Category)
	}

	l.Geometry = model.DefaultGeometry()
	if len(in.Coordinates) == 2 {
		l.Geometry.Coordinates = [2]float64{in.Coordinates[0], in.Coordinates[1]}
	}
}

// SuppliedImage returns the image URL typed into the form, if any. The
// reference carries no filename: only names handed out by a blob store
// may ever be released.
func (in *ListingInput) SuppliedImage() (model.Image, bool) {
	if in.ImageURL == "" {
		return model.Image{}, false
	}
	return model.Image{URL: in.ImageURL}, true
}

// parseFinite parses a float, rejecting Inf and NaN.
func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%q is not a finite number", raw)
	}
	return v, nil
}

// parseCoordinates accepts "lng,lat" in one field, repeated fields, or
// indexed fields ([0] and [1]).
func parseCoordinates(r *http.Request) ([]float64, error) {
	var raw []string

	switch {
	case len(r.PostForm[FieldCoordinates+"[]"]) > 0:
		raw = r.PostForm[FieldCoordinates+"[]"]
	case r.PostFormValue(FieldCoordinates+"[0]") != "" || r.PostFormValue(FieldCoordinates+"[1]") != "":
		raw = []string{r.PostFormValue(FieldCoordinates + "[0]"), r.PostFormValue(FieldCoordinates + "[1]")}
	case len(r.PostForm[FieldCoordinates]) > 1:
		raw = r.PostForm[FieldCoordinates]
	case strings.TrimSpace(r.PostFormValue(FieldCoordinates)) != "":
		raw = strings.Split(r.PostFormValue(FieldCoordinates), ",")
	default:
		return nil, nil
	}

	coords := make([]float64, 0, len(raw))
	for _, s := range raw {
		v, err := parseFinite(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		coords = append(coords, v)
	}
	return coords, nil
}

func parseUpload(r *http.Request, maxUpload int64) (*Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := r.FormFile(FieldImageFile)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}

	// Browsers send an empty part when no file was chosen.
	if header.Size == 0 && header.Filename == "" {
		_ = file.Close()
		return nil, nil
	}

	if maxUpload > 0 && header.Size > maxUpload {
		_ = file.Close()
		return nil, &ValidationError{Messages: []string{
			fmt.Sprintf("%q must not exceed %d bytes", FieldImageFile, maxUpload),
		}}
	}

	format, err := blob.DetectFormat(file)
	if err != nil {
		_ = file.Close()
		if errors.Is(err, blob.ErrUnsupportedFormat) {
			return nil, &ValidationError{Messages: []string{
				fmt.Sprintf("%q must be a jpeg, png, gif or webp image", FieldImageFile),
			}}
		}
		return nil, fmt.Errorf("detect image format: %w", err)
	}

	return &Upload{File: file, Name: header.Filename, Size: header.Size, Format: format}, nil
}

func parse(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
			return &ValidationError{Messages: []string{"malformed multipart form: " + err.Error()}}
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return &ValidationError{Messages: []string{"malformed form: " + err.Error()}}
	}
	return nil
}

type listingKey struct{}

// WithListing stores a parsed listing form in ctx.
func WithListing(ctx context.Context, in *ListingInput) context.Context {
	return context.WithValue(ctx, listingKey{}, in)
}

// ListingFromContext returns the parsed listing form, or nil.
func ListingFromContext(ctx context.Context) *ListingInput {
	in, _ := ctx.Value(listingKey{}).(*ListingInput)
	return in
}
