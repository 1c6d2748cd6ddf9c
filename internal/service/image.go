package service

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/msomdec/placeshare/internal/domain"
)

const (
	maxImageSize = 500_000
	imagePrefix  = "uploads/images/"
)

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// ImageUpload is an uploaded image file as received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string `validate:"oneof=image/png image/jpeg image/jpg"`
	Data        []byte `validate:"required,max=500000"`
}

// ImageService stores, serves, and removes uploaded images.
type ImageService struct {
	files domain.FileStore
}

// NewImageService creates a new ImageService.
func NewImageService(files domain.FileStore) *ImageService {
	return &ImageService{files: files}
}

// Store saves the upload under a fresh key and returns the key.
func (s *ImageService) Store(ctx context.Context, img *ImageUpload) (string, error) {
	ext, ok := imageExtensions[img.ContentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type %q", domain.ErrInvalidInput, img.ContentType)
	}
	if len(img.Data) > maxImageSize {
		return "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidInput, maxImageSize)
	}

	key := imagePrefix + uuid.NewString() + "." + ext
	if err := s.files.Save(ctx, key, img.Data); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return key, nil
}

// Get returns the bytes stored for an image name such as "<uuid>.png".
func (s *ImageService) Get(ctx context.Context, name string) ([]byte, error) {
	if name == "" || path.Base(name) != name {
		return nil, domain.NewError(domain.KindNotFound, "Could not find this image.")
	}

	data, err := s.files.Get(ctx, imagePrefix+name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.KindNotFound, "Could not find this image.")
		}
		return nil, fmt.Errorf("get image: %w", err)
	}
	return data, nil
}

// Remove deletes the image stored under key.
func (s *ImageService) Remove(ctx context.Context, key string) error {
	return s.files.Delete(ctx, key)
}
