package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/logging"
)

const imagePrefix = "recipes/images"

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ImageStore persists recipe images submitted as base64 data URIs and
// resolves stored keys to public URLs.
type ImageStore interface {
	Save(ctx context.Context, dataURI string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type decodedImage struct {
	contentType string
	ext         string
	body        []byte
}

// decodeDataURI parses data:image/<type>;base64,<payload>.
func decodeDataURI(dataURI string) (*decodedImage, error) {
	invalid := apperror.Validation("image", apperror.CodeInvalid, "image must be a base64 encoded data URI")

	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return nil, invalid
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, invalid
	}
	contentType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, invalid
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, apperror.Validation("image", apperror.CodeInvalid, "unsupported image type "+contentType)
	}
	body, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(body) == 0 {
		return nil, invalid
	}
	return &decodedImage{contentType: contentType, ext: ext, body: body}, nil
}

func newImageKey(ext string) string {
	return path.Join(imagePrefix, uuid.New().String()+"."+ext)
}

// LocalImageStore writes images below a media directory served by the API.
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	return &LocalImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalImageStore) Save(ctx context.Context, dataURI string) (string, error) {
	img, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	key := newImageKey(img.ext)
	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(target, img.body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	logging.Ctx(ctx).Debug().Str("key", key).Int("bytes", len(img.body)).Msg("stored recipe image")
	return key, nil
}

// Delete removes a stored image. A missing file is not an error.
func (s *LocalImageStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	target := filepath.Join(s.dir, filepath.FromSlash(path.Clean("/" + key)))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	logging.Ctx(ctx).Debug().Str("key", key).Msg("deleted recipe image")
	return nil
}

func (s *LocalImageStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + key
}

// S3ImageStore uploads images to the configured bucket.
type S3ImageStore struct {
	s3 *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3: s3Config}
}

func (s *S3ImageStore) Save(ctx context.Context, dataURI string) (string, error) {
	img, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	key := newImageKey(img.ext)
	if err := s.s3.PutObject(ctx, key, img.contentType, img.body); err != nil {
		return "", err
	}
	logging.Ctx(ctx).Debug().Str("key", key).Str("bucket", s.s3.BucketName).Msg("uploaded recipe image")
	return key, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.s3.DeleteObject(ctx, key)
}

func (s *S3ImageStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.s3.ObjectURL(key)
}

// NewImageStore picks the store for cfg.Driver.
func NewImageStore(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	switch cfg.Driver {
	case "s3":
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3ImageStore(s3Config), nil
	case "", "local":
		return NewLocalImageStore(cfg.MediaDir, cfg.MediaURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
