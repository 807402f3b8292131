package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gympro/internal/domain"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error" example:"exercise already registered"`
}

// MessageResponse is returned by bulk operations
type MessageResponse struct {
	Message string `json:"msg"`
	Deleted int64  `json:"deleted,omitempty"`
}

// respondError maps domain errors to a status code and the {"error": ...} body.
// Anything that is not a known domain error is logged and hidden behind a 500.
func respondError(c *fiber.Ctx, err error) error {
	var partial *domain.PartialWriteError
	if errors.As(err, &partial) {
		log.Printf("Error: %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update exercise references"})
	}

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrDuplicateExercise),
		errors.Is(err, domain.ErrDuplicateCategory),
		errors.Is(err, domain.ErrReferenceNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrExerciseNotFound),
		errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("Error: %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
