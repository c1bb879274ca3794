package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conciliador-api/internal/application/dto"
	"github.com/jhoicas/Conciliador-api/internal/application/editor"
	"github.com/jhoicas/Conciliador-api/internal/domain"
)

// SessionHandler maneja las peticiones HTTP del editor de filas.
type SessionHandler struct {
	manager *editor.Manager
}

// NewSessionHandler construye el handler.
func NewSessionHandler(manager *editor.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// Open abre una sesión de edición sobre un bloque y registro.
func (h *SessionHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.BlockID == "" || in.RecordID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "block_id y record_id son requeridos"})
	}
	s, err := h.manager.Open(c.Context(), in.BlockID, in.RecordID)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sessionResponse(s))
}

// Get devuelve el estado actual de la sesión y sus filas.
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(sessionResponse(s))
}

// ApplyChange edita un campo de una fila y devuelve la fila recalculada.
func (h *SessionHandler) ApplyChange(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	var in dto.ApplyChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	row, err := s.ApplyChange(in.RowKey, in.Field, in.Value)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.FromRow(row))
}

// BindSelection aplica un registro de referencia sobre una fila.
func (h *SessionHandler) BindSelection(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	var in dto.BindSelectionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	row, err := s.BindSelection(in.RowKey, in.Ref)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.FromRow(row))
}

// ClearSelection deshace la selección de una fila.
func (h *SessionHandler) ClearSelection(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	var in dto.RowKeyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	row, err := s.ClearSelection(in.RowKey)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.FromRow(row))
}

// AddRow agrega una fila nueva a la copia de trabajo.
func (h *SessionHandler) AddRow(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	row, err := s.AddRow()
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRow(row))
}

// RemoveRow quita una fila de la copia de trabajo.
func (h *SessionHandler) RemoveRow(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	var in dto.RowKeyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := s.RemoveRow(in.RowKey); err != nil {
		return mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Save ejecuta el pipeline de guardado y devuelve las filas persistidas.
func (h *SessionHandler) Save(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	rows, err := s.Save(c.Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"state": string(s.State()), "rows": dto.FromRows(rows)})
}

// Cancel descarta la copia de trabajo.
func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	s, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	if err := s.Cancel(); err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"state": string(s.State())})
}

// Close quita la sesión del registro en memoria.
func (h *SessionHandler) Close(c *fiber.Ctx) error {
	h.manager.Close(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func sessionResponse(s *editor.Session) dto.SessionResponse {
	return dto.SessionResponse{
		SessionID: s.ID(),
		State:     string(s.State()),
		Rows:      dto.FromRows(s.Rows()),
	}
}

// mapError traduce errores de dominio a códigos HTTP.
func mapError(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: vErr.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrRowLocked):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ROW_LOCKED", Message: err.Error()})
	case errors.Is(err, domain.ErrRowReadonly):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "ROW_READONLY", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
