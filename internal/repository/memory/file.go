package memory

import (
	"context"
	"sync"
)

// FileRepository keeps uploaded objects in memory and serves fake URLs
type FileRepository struct {
	mu      sync.Mutex
	BaseURL string
	Objects map[string][]byte
}

func NewFileRepository(baseURL string) *FileRepository {
	return &FileRepository{BaseURL: baseURL, Objects: make(map[string][]byte)}
}

func (r *FileRepository) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Objects[key] = append([]byte{}, body...)
	return r.BaseURL + "/" + key, nil
}
