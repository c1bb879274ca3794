package dto

import (
	"time"

	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
)

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OpenSessionRequest abre una sesión de edición sobre un bloque y registro.
type OpenSessionRequest struct {
	BlockID  string `json:"block_id"`
	RecordID string `json:"record_id"`
}

// ApplyChangeRequest edición de un campo de una fila.
type ApplyChangeRequest struct {
	RowKey string `json:"row_key"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

// BindSelectionRequest aplica un registro de referencia sobre una fila.
type BindSelectionRequest struct {
	RowKey string            `json:"row_key"`
	Ref    map[string]string `json:"ref"`
}

// RowKeyRequest operación que solo necesita identificar la fila.
type RowKeyRequest struct {
	RowKey string `json:"row_key"`
}

// RowDTO fila serializada para el cliente.
type RowDTO struct {
	Key      string            `json:"key"`
	ID       string            `json:"id,omitempty"`
	Fields   map[string]string `json:"fields"`
	Locked   []string          `json:"locked,omitempty"`
	Readonly bool              `json:"readonly,omitempty"`
}

// SessionResponse estado de la sesión y sus filas.
type SessionResponse struct {
	SessionID string   `json:"session_id"`
	State     string   `json:"state"`
	Rows      []RowDTO `json:"rows"`
}

// ChangeLogEntryDTO entrada del historial de cambios.
type ChangeLogEntryDTO struct {
	ID       string    `json:"id"`
	ModuleID string    `json:"module_id"`
	RecordID string    `json:"record_id"`
	BlockID  string    `json:"block_id"`
	Before   []RowDTO  `json:"before"`
	After    []RowDTO  `json:"after"`
	LoggedAt time.Time `json:"logged_at"`
}

// FieldSpecDTO columna de un bloque para el renderizador de formularios.
type FieldSpecDTO struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Type       string `json:"type"`
	Default    string `json:"default,omitempty"`
	Filterable bool   `json:"filterable,omitempty"`
	Category   string `json:"category,omitempty"`
}

// BlockDTO bloque editable registrado.
type BlockDTO struct {
	ModuleID string         `json:"module_id"`
	BlockID  string         `json:"block_id"`
	Fields   []FieldSpecDTO `json:"fields"`
}

// FromFieldSpecs convierte las especificaciones de columna de un bloque.
func FromFieldSpecs(specs []entity.FieldSpec) []FieldSpecDTO {
	out := make([]FieldSpecDTO, 0, len(specs))
	for _, s := range specs {
		out = append(out, FieldSpecDTO{
			Key:        s.Key,
			Label:      s.Label,
			Type:       string(s.Type),
			Default:    s.Default,
			Filterable: s.Filterable,
			Category:   s.Category,
		})
	}
	return out
}

// FromRow convierte una fila de dominio a su DTO.
func FromRow(row *entity.Row) RowDTO {
	return RowDTO{
		Key:      row.Key,
		ID:       row.ID,
		Fields:   row.Fields,
		Locked:   row.LockedFields(),
		Readonly: row.Readonly,
	}
}

// FromRows convierte una colección de filas.
func FromRows(rows []*entity.Row) []RowDTO {
	out := make([]RowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row))
	}
	return out
}

// FromChangeLogEntry convierte una entrada del historial.
func FromChangeLogEntry(e *entity.ChangeLogEntry) ChangeLogEntryDTO {
	return ChangeLogEntryDTO{
		ID:       e.ID,
		ModuleID: e.ModuleID,
		RecordID: e.RecordID,
		BlockID:  e.BlockID,
		Before:   FromRows(e.Before),
		After:    FromRows(e.After),
		LoggedAt: e.LoggedAt,
	}
}
