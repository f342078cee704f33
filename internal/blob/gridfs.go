package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/wanderlust/wanderlust/internal/model"
)

// GridFSStore keeps blobs in a MongoDB GridFS bucket. Filenames handed
// out are the hex object ids of the stored files.
type GridFSStore struct {
	db        *mongo.Database
	urlPrefix string
}

var _ Store = (*GridFSStore)(nil)

// NewGridFSStore creates a store over the default "fs" bucket of db.
func NewGridFSStore(db *mongo.Database, urlPrefix string) *GridFSStore {
	return &GridFSStore{db: db, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *GridFSStore) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(s.db)
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := bucket.SetWriteDeadline(deadline); err != nil {
			return nil, fmt.Errorf("set write deadline: %w", err)
		}
		if err := bucket.SetReadDeadline(deadline); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}
	}
	return bucket, nil
}

// Store uploads r and returns a reference keyed by the new object id.
func (s *GridFSStore) Store(ctx context.Context, r io.Reader, meta Metadata) (model.Image, error) {
	bucket, err := s.bucket(ctx)
	if err != nil {
		return model.Image{}, err
	}

	name := meta.OriginalName
	if name == "" {
		name = "upload" + extensionFor(meta.Format)
	}

	opts := options.GridFSUpload().SetMetadata(bson.M{
		"contentType": meta.ContentType(),
		"format":      meta.Format,
	})

	id, err := bucket.UploadFromStream(name, r, opts)
	if err != nil {
		return model.Image{}, fmt.Errorf("upload: %w", err)
	}

	filename := id.Hex()
	return model.Image{URL: s.urlPrefix + "/" + filename, Filename: filename}, nil
}

// Release deletes the file and its chunks. Unknown ids are ignored.
func (s *GridFSStore) Release(ctx context.Context, filename string) error {
	oid, err := primitive.ObjectIDFromHex(filename)
	if err != nil {
		// Not an id this store could have produced.
		return nil
	}

	bucket, err := s.bucket(ctx)
	if err != nil {
		return err
	}

	if err := bucket.DeleteContext(ctx, oid); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil
		}
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Open streams the stored bytes.
func (s *GridFSStore) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	oid, err := primitive.ObjectIDFromHex(filename)
	if err != nil {
		return nil, ErrNotFound
	}

	bucket, err := s.bucket(ctx)
	if err != nil {
		return nil, err
	}

	stream, err := bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open download stream: %w", err)
	}
	return stream, nil
}

// ContentType returns the stored MIME type of a GridFS file, falling back
// to a generic type.
func (s *GridFSStore) ContentType(ctx context.Context, filename string) string {
	oid, err := primitive.ObjectIDFromHex(filename)
	if err != nil {
		return ContentTypeFor("")
	}

	var file struct {
		Metadata struct {
			ContentType string `bson:"contentType"`
		} `bson:"metadata"`
	}
	err = s.db.Collection("fs.files").FindOne(ctx, bson.M{"_id": oid}).Decode(&file)
	if err != nil || file.Metadata.ContentType == "" {
		return ContentTypeFor("")
	}
	return file.Metadata.ContentType
}

// Ping checks that the MongoDB deployment is reachable.
func (s *GridFSStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}
