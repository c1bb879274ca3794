package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conciliador-api/internal/application/dto"
	"github.com/jhoicas/Conciliador-api/internal/application/editor"
)

// BlocksHandler expone los bloques editables registrados.
type BlocksHandler struct {
	manager *editor.Manager
}

// NewBlocksHandler construye el handler.
func NewBlocksHandler(manager *editor.Manager) *BlocksHandler {
	return &BlocksHandler{manager: manager}
}

// List devuelve los bloques con sus columnas.
func (h *BlocksHandler) List(c *fiber.Ctx) error {
	blocks := h.manager.Blocks()
	out := make([]dto.BlockDTO, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, dto.BlockDTO{
			ModuleID: b.ModuleID,
			BlockID:  b.BlockID,
			Fields:   dto.FromFieldSpecs(b.Specs),
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "blocks": out})
}
