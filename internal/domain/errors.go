package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrRowLocked    = errors.New("campo bloqueado por una selección activa")
	ErrRowReadonly  = errors.New("fila de solo lectura")
	ErrInvalidState = errors.New("operación inválida para el estado de la sesión")
)

// ValidationError violación de regla de negocio detectada antes de cualquier
// escritura; es seguro corregir y reintentar.
type ValidationError struct {
	RowKey string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validación fila %s campo %s: %s", e.RowKey, e.Field, e.Reason)
	}
	return fmt.Sprintf("validación fila %s: %s", e.RowKey, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye el error con contexto de fila y campo.
func NewValidationError(rowKey, field, reason string) *ValidationError {
	return &ValidationError{RowKey: rowKey, Field: field, Reason: reason}
}

// ConflictError conflicto de conciliación a mitad del pipeline de guardado
// (cheque ya gastado por otro registro, saldo rechazado).
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicto en %s: %s", e.Resource, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError construye el error de conciliación.
func NewConflictError(resource, reason string) *ConflictError {
	return &ConflictError{Resource: resource, Reason: reason}
}
