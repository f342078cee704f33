package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/oklog/ulid/v2"

	"github.com/wanderlust/wanderlust/internal/model"
)

// ErrCDNRequest wraps error responses from the CDN.
var ErrCDNRequest = errors.New("cdn request failed")

// CDNConfig configures the Cloudinary image CDN.
type CDNConfig struct {
	BaseURL   string // API prefix, e.g. https://api.cloudinary.com
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// CDNStore uploads images to Cloudinary. Filenames are the provider's
// public ids; URLs are the provider's absolute secure URLs.
type CDNStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

var _ Store = (*CDNStore)(nil)

// NewCDNStore creates a CDN store from credentials.
func NewCDNStore(cfg CDNConfig) (*CDNStore, error) {
	conf, err := config.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cdn config: %w", err)
	}
	if cfg.BaseURL != "" {
		conf.API.UploadPrefix = strings.TrimRight(cfg.BaseURL, "/")
	}

	cld, err := cloudinary.NewFromConfiguration(*conf)
	if err != nil {
		return nil, fmt.Errorf("cdn client: %w", err)
	}
	return &CDNStore{cld: cld, folder: cfg.Folder}, nil
}

// Store uploads r as a new image.
func (s *CDNStore) Store(ctx context.Context, r io.Reader, meta Metadata) (model.Image, error) {
	name := meta.OriginalName
	if name == "" {
		name = "upload" + extensionFor(meta.Format)
	}

	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:         strings.ToLower(ulid.Make().String()),
		Folder:           s.folder,
		FilenameOverride: name,
		Overwrite:        api.Bool(false),
	})
	if err != nil {
		return model.Image{}, fmt.Errorf("%w: upload: %v", ErrCDNRequest, err)
	}
	if resp.Error.Message != "" {
		return model.Image{}, fmt.Errorf("%w: upload: %s", ErrCDNRequest, resp.Error.Message)
	}
	if resp.PublicID == "" || resp.SecureURL == "" {
		return model.Image{}, fmt.Errorf("%w: upload response missing public_id or secure_url", ErrCDNRequest)
	}

	return model.Image{URL: resp.SecureURL, Filename: resp.PublicID}, nil
}

// Release destroys the image. Unknown ids count as success.
func (s *CDNStore) Release(ctx context.Context, filename string) error {
	if filename == "" {
		return nil
	}

	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   filename,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("%w: destroy: %v", ErrCDNRequest, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("%w: destroy: %s", ErrCDNRequest, resp.Error.Message)
	}

	switch resp.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("%w: destroy result %q", ErrCDNRequest, resp.Result)
	}
}

// Open is not supported; CDN images are served by the provider.
func (s *CDNStore) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	return nil, ErrOpenUnsupported
}
