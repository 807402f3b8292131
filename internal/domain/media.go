package domain

import (
	"context"
	"errors"
)

var ErrStorageUnavailable = errors.New("media storage is not configured")

// Media field names accepted by the upload endpoint
const (
	MediaImage     = "image"
	MediaCover     = "cover"
	MediaMiniature = "miniature"
)

// FileRepository stores media objects and returns their public URL
type FileRepository interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
