package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gympro/internal/service"
	"github.com/mansoorceksport/gympro/internal/telemetry"
)

type ExerciseHandler struct {
	exerciseService *service.ExerciseService
}

func NewExerciseHandler(exerciseService *service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
	}
}

// ListExercises GET /exercise
// @Summary List exercises
// @Tags exercise
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} domain.ExerciseView
// @Failure 500 {object} ErrorResponse
// @Router /exercise [get]
func (h *ExerciseHandler) ListExercises(c *fiber.Ctx) error {
	exercises, err := h.exerciseService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exercises)
}

// GetExercise GET /exercise/:id
// Unknown IDs yield an empty array rather than a 404.
// @Summary Get one exercise
// @Tags exercise
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exercise ID"
// @Success 200 {array} domain.ExerciseView
// @Router /exercise/{id} [get]
func (h *ExerciseHandler) GetExercise(c *fiber.Ctx) error {
	id := c.Params("id")
	telemetry.SetSpanAttribute(c, "exercise.id", id)

	exercises, err := h.exerciseService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exercises)
}

// CreateExercise POST /exercise
// @Summary Create an exercise
// @Tags exercise
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param exercise body service.ExerciseInput true "Exercise"
// @Param X-Correlation-ID header string false "Idempotency key"
// @Success 200 {object} domain.Exercise
// @Failure 400 {object} ErrorResponse "Missing name, duplicate name or unknown reference. A duplicate name answers \"exercise already registered\", the English form of \"Ejercicio ya registrado.\""
// @Router /exercise [post]
func (h *ExerciseHandler) CreateExercise(c *fiber.Ctx) error {
	var req service.ExerciseInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	exercise, err := h.exerciseService.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exercise)
}

// UpdateExercise PUT /exercise/:id
// @Summary Update an exercise
// @Description Overwrites name, description, video and both references
// @Tags exercise
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Exercise ID"
// @Param exercise body service.ExerciseInput true "Exercise"
// @Success 200 {object} domain.Exercise
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /exercise/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *fiber.Ctx) error {
	var req service.ExerciseInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id := c.Params("id")
	telemetry.SetSpanAttribute(c, "exercise.id", id)

	exercise, err := h.exerciseService.Update(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exercise)
}

// DeleteExercise DELETE /exercise/:id
// @Summary Delete an exercise
// @Tags exercise
// @Security ApiKeyAuth
// @Param id path string true "Exercise ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /exercise/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *fiber.Ctx) error {
	id := c.Params("id")
	telemetry.SetSpanAttribute(c, "exercise.id", id)

	if err := h.exerciseService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ImportExercise POST /exercise/import
// @Summary Import one exercise record
// @Description typeexercise and groupmuscle are given by name. Media file names are placed under /uploads/images/.
// @Tags exercise
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param record body object true "Exercise record"
// @Success 200 {object} domain.Exercise
// @Failure 400 {object} ErrorResponse "Missing name, duplicate name or unknown reference. A duplicate name answers \"exercise already registered\", the English form of \"Ejercicio ya registrado.\""
// @Router /exercise/import [post]
func (h *ExerciseHandler) ImportExercise(c *fiber.Ctx) error {
	record := make(map[string]interface{})
	if err := c.BodyParser(&record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	exercise, err := h.exerciseService.Import(c.UserContext(), record)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exercise)
}
