package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gympro/internal/service"
)

// CategoryHandler serves either exercise types or muscle groups; the server
// mounts one instance per collection
type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// List GET /exercise-type, GET /group-muscle
// @Summary List categories with their exercises
// @Tags category
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} domain.CategoryView
// @Router /exercise-type [get]
// @Router /group-muscle [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categoryService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// Create POST /exercise-type, POST /group-muscle
// @Summary Create a category
// @Tags category
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param category body createCategoryRequest true "Category"
// @Success 201 {object} domain.Category
// @Failure 400 {object} ErrorResponse
// @Router /exercise-type [post]
// @Router /group-muscle [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	category, err := h.categoryService.Create(c.UserContext(), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
