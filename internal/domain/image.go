package domain

import "context"

// FileStore abstracts raw file byte storage for uploaded images.
// Keys are relative paths such as "uploads/images/<uuid>.png".
type FileStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
