package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gympro/internal/service"
)

// CatalogHandler is the plain CRUD handler shared by every catalog resource;
// the server mounts one instance per resource
type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// List
// @Summary List the items of a resource
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Param resource path string true "Resource" Enums(perfil-socio, socio, perfil-empleado, empleado, actividades, grupo-actividad, clases, entrenamiento, marketing, recompensa, horario)
// @Success 200 {array} object
// @Router /{resource} [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	items, err := h.catalogService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// Get returns a list holding the item, or an empty list
// @Summary Get one item
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Param resource path string true "Resource"
// @Param id path string true "Item ID"
// @Success 200 {array} object
// @Router /{resource}/{id} [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	items, err := h.catalogService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// Create
// @Summary Create an item
// @Description Body keys are the resource's own fields, e.g. {"nombre": "...", "descripcion": "..."} for recompensa or {"campaña": "..."} for marketing. Unknown keys are dropped.
// @Tags catalog
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param resource path string true "Resource"
// @Param item body object true "Item fields"
// @Success 200 {object} object
// @Failure 400 {object} ErrorResponse
// @Router /{resource} [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	body := make(map[string]interface{})
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	item, err := h.catalogService.Create(c.UserContext(), body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// Update only overwrites fields that carry a non-empty value
// @Summary Update an item
// @Tags catalog
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param resource path string true "Resource"
// @Param id path string true "Item ID"
// @Param item body object true "Fields to change"
// @Success 200 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /{resource}/{id} [put]
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	body := make(map[string]interface{})
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	item, err := h.catalogService.Update(c.UserContext(), c.Params("id"), body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// Delete
// @Summary Delete an item
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Param resource path string true "Resource"
// @Param id path string true "Item ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /{resource}/{id} [delete]
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalogService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(MessageResponse{Message: h.catalogService.Resource().Label + " deleted"})
}

// DeleteMany reads the IDs from the resource's bulk key, e.g. {"socioIds": [...]}
// @Summary Delete several items
// @Tags catalog
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param resource path string true "Resource"
// @Param ids body object true "{\"<resource>Ids\": [\"id1\", \"id2\"]}"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /{resource}/multiple [delete]
func (h *CatalogHandler) DeleteMany(c *fiber.Ctx) error {
	body := make(map[string]interface{})
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resource := h.catalogService.Resource()
	var ids []string
	if list, ok := body[resource.BulkKey].([]interface{}); ok {
		for _, v := range list {
			if id, ok := v.(string); ok {
				ids = append(ids, id)
			}
		}
	}

	deleted, err := h.catalogService.DeleteMany(c.UserContext(), ids)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(MessageResponse{Message: resource.Label + " items deleted", Deleted: deleted})
}
