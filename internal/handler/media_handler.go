package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gympro/internal/domain"
	"github.com/mansoorceksport/gympro/internal/service"
)

// mediaTypeExercise is the only owner type accepted by the upload route
const mediaTypeExercise = "exercise"

var mediaFields = []string{domain.MediaImage, domain.MediaCover, domain.MediaMiniature}

type MediaHandler struct {
	mediaService    *service.MediaService
	maxUploadSizeMB int64
}

func NewMediaHandler(mediaService *service.MediaService, maxUploadSizeMB int64) *MediaHandler {
	return &MediaHandler{
		mediaService:    mediaService,
		maxUploadSizeMB: maxUploadSizeMB,
	}
}

// UploadMedia PUT /media/:id
// @Summary Upload exercise media
// @Description Stores image, cover and/or miniature files and records their URLs on the exercise
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exercise ID"
// @Param type formData string true "Owner type" Enums(exercise)
// @Param image formData file false "Image"
// @Param cover formData file false "Cover"
// @Param miniature formData file false "Miniature"
// @Success 200 {object} domain.Exercise
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /media/{id} [put]
func (h *MediaHandler) UploadMedia(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Expected multipart form data"})
	}

	if t := form.Value["type"]; len(t) == 0 || t[0] != mediaTypeExercise {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported media type, expected type=exercise"})
	}

	maxSize := h.maxUploadSizeMB * 1024 * 1024
	var uploads []service.MediaUpload
	for _, field := range mediaFields {
		files := form.File[field]
		if len(files) == 0 {
			continue
		}
		fh := files[0]
		if fh.Size > maxSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("%s exceeds maximum of %dMB", field, h.maxUploadSizeMB),
			})
		}
		if !isValidImageType(fh) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid file type for " + field + ", only JPEG, PNG, WEBP and GIF images are allowed",
			})
		}

		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read " + field})
		}
		body, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read " + field})
		}

		uploads = append(uploads, service.MediaUpload{
			Field:       field,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Body:        body,
		})
	}

	exercise, err := h.mediaService.UploadExerciseMedia(c.UserContext(), c.Params("id"), uploads)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exercise)
}

func isValidImageType(file *multipart.FileHeader) bool {
	switch file.Header.Get("Content-Type") {
	case "image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif":
		return true
	}

	// Fallback: check by file extension
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return true
	}
	return false
}
