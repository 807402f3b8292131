package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mansoorceksport/gympro/internal/domain"
	"github.com/oklog/ulid/v2"
)

const mediaKeyPrefix = "uploads/images/"

// MediaUpload is one file received for an exercise media field
type MediaUpload struct {
	Field       string
	Filename    string
	ContentType string
	Body        []byte
}

// MediaService stores exercise media and records the resulting URLs.
// It only touches media fields; references are left alone.
type MediaService struct {
	fileRepo     domain.FileRepository
	exerciseRepo domain.ExerciseRepository
}

// NewMediaService accepts a nil fileRepo when storage is not configured;
// uploads then fail with domain.ErrStorageUnavailable
func NewMediaService(fileRepo domain.FileRepository, exerciseRepo domain.ExerciseRepository) *MediaService {
	return &MediaService{
		fileRepo:     fileRepo,
		exerciseRepo: exerciseRepo,
	}
}

// UploadExerciseMedia stores each file and writes its URL to the matching
// field. Files for unknown fields are ignored.
func (s *MediaService) UploadExerciseMedia(ctx context.Context, exerciseID string, uploads []MediaUpload) (*domain.Exercise, error) {
	if s.fileRepo == nil {
		return nil, domain.ErrStorageUnavailable
	}

	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return nil, domain.ErrExerciseNotFound
		}
		return nil, err
	}

	var media domain.MediaFields
	for _, up := range uploads {
		target := mediaTarget(&media, up.Field)
		if target == nil {
			continue
		}
		url, err := s.fileRepo.Upload(ctx, mediaKey(up.Filename), up.Body, up.ContentType)
		if err != nil {
			return nil, err
		}
		*target = url
	}

	if media.IsEmpty() {
		return nil, &domain.ValidationError{Field: "files", Message: "no image, cover or miniature file received"}
	}

	if err := s.exerciseRepo.UpdateMedia(ctx, exerciseID, media); err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

func mediaTarget(media *domain.MediaFields, field string) *string {
	switch field {
	case domain.MediaImage:
		return &media.Image
	case domain.MediaCover:
		return &media.Cover
	case domain.MediaMiniature:
		return &media.Miniature
	}
	return nil
}

// mediaKey keeps the original base name behind a ULID so repeated uploads
// of the same file never overwrite each other
func mediaKey(filename string) string {
	base := strings.ReplaceAll(filepath.Base(filename), " ", "_")
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	return fmt.Sprintf("%s%s-%s", mediaKeyPrefix, id, base)
}
