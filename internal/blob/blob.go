// Package blob stores listing images behind a backend-agnostic interface.
package blob

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	// Registered decoders for DetectFormat.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/wanderlust/wanderlust/internal/model"
)

var (
	// ErrNotFound is returned by Open when no blob has the filename.
	ErrNotFound = errors.New("blob not found")
	// ErrUnsupportedFormat is returned for uploads that are not a known image type.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrInvalidFilename is returned for filenames that cannot belong to the store.
	ErrInvalidFilename = errors.New("invalid blob filename")
	// ErrOpenUnsupported is returned by backends that do not serve bytes back.
	ErrOpenUnsupported = errors.New("blob backend does not support reads")
)

// Store is an opaque image store. Release of an unknown filename succeeds.
type Store interface {
	Store(ctx context.Context, r io.Reader, meta Metadata) (model.Image, error)
	Release(ctx context.Context, filename string) error
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
}

// Metadata describes an upload.
type Metadata struct {
	// Format is the decoded image format: jpeg, png, gif or webp.
	Format       string
	OriginalName string
	Size         int64
}

// ContentType returns the MIME type of the upload.
func (m Metadata) ContentType() string {
	return ContentTypeFor(m.Format)
}

var formats = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

var extensions = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".gif":  "gif",
	".webp": "webp",
}

// ContentTypeFor maps an image format to its MIME type.
func ContentTypeFor(format string) string {
	if ct, ok := formats[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ContentTypeForFilename guesses the MIME type from a stored filename.
func ContentTypeForFilename(filename string) string {
	if format, ok := extensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return ContentTypeFor(format)
	}
	return "application/octet-stream"
}

func extensionFor(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	if _, ok := formats[format]; ok {
		return "." + format
	}
	return ""
}

// DetectFormat decodes the image header of r and rewinds it.
func DetectFormat(r io.ReadSeeker) (string, error) {
	_, format, err := image.DecodeConfig(r)
	if _, seekErr := r.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("rewind upload: %w", seekErr)
	}
	if err != nil {
		return "", ErrUnsupportedFormat
	}
	if _, ok := formats[format]; !ok {
		return "", ErrUnsupportedFormat
	}
	return format, nil
}
