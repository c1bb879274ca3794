package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conciliador-api/internal/application/dto"
	"github.com/jhoicas/Conciliador-api/internal/domain/repository"
)

// ChangeLogHandler expone el historial de cambios por registro.
type ChangeLogHandler struct {
	repo repository.ChangeLogRepository
}

// NewChangeLogHandler construye el handler.
func NewChangeLogHandler(repo repository.ChangeLogRepository) *ChangeLogHandler {
	return &ChangeLogHandler{repo: repo}
}

// ListByRecord devuelve el historial de un registro, del más reciente al más antiguo.
func (h *ChangeLogHandler) ListByRecord(c *fiber.Ctx) error {
	moduleID := c.Params("module")
	recordID := c.Params("record")
	entries, err := h.repo.ListByRecord(c.Context(), moduleID, recordID)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]dto.ChangeLogEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.FromChangeLogEntry(e))
	}
	return c.JSON(fiber.Map{"total": len(out), "entries": out})
}
