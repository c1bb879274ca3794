package repository

import (
	"context"

	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
)

// ChangeLogRepository puerto del historial de cambios (solo-agregar).
type ChangeLogRepository interface {
	Append(ctx context.Context, entry *entity.ChangeLogEntry) error
	ListByRecord(ctx context.Context, moduleID, recordID string) ([]*entity.ChangeLogEntry, error)
}
