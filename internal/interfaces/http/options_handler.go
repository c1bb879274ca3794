package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conciliador-api/internal/application/options"
)

// OptionsHandler expone las listas de opciones de los formularios.
type OptionsHandler struct {
	provider options.Provider
}

// NewOptionsHandler construye el handler.
func NewOptionsHandler(provider options.Provider) *OptionsHandler {
	return &OptionsHandler{provider: provider}
}

// List devuelve las opciones de una categoría.
func (h *OptionsHandler) List(c *fiber.Ctx) error {
	category := c.Params("category")
	opts, err := h.provider.Options(c.Context(), category)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"category": category, "options": opts})
}
