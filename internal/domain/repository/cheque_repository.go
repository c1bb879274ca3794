package repository

import (
	"context"

	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
)

// ChequeRepository puerto de instrumentos negociables (cheques).
type ChequeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Cheque, error)
	Create(ctx context.Context, cheque *entity.Cheque) error
	Update(ctx context.Context, cheque *entity.Cheque) error
	Delete(ctx context.Context, id string) error
	// MarkSpent estampa el cheque como gastado por el registro dado
	// (status spent + metadata spentOut).
	MarkSpent(ctx context.Context, id, recordID string) error
}
