package ledger

import (
	"context"

	"github.com/jhoicas/Conciliador-api/internal/domain/repository"
)

// TxRunner ejecuta el callback con repositorios atados a una misma transacción;
// hace Commit si fn retorna nil y Rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}
