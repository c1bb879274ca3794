package repository

import (
	"context"

	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
)

// RecordStore puerto genérico de persistencia de filas por colección. Las
// cuatro primitivas cubren todas las operaciones del coordinador de guardado.
type RecordStore interface {
	// Read devuelve las filas de la colección que coinciden con el filtro
	// (igualdad campo=valor; filtro vacío = todas).
	Read(ctx context.Context, collection string, filter map[string]string) ([]*entity.Row, error)
	// Write inserta o actualiza las filas. conflictKey indica el campo de
	// identidad para el upsert (normalmente el ID de servidor). Devuelve las
	// filas con su identidad asignada.
	Write(ctx context.Context, collection string, rows []*entity.Row, conflictKey string) ([]*entity.Row, error)
	// Delete elimina filas por ID de servidor.
	Delete(ctx context.Context, collection string, ids []string) error
	// UpdateField aplica un parche de campos a una fila existente.
	UpdateField(ctx context.Context, collection, id string, patch map[string]string) error
}
