package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
)

// StockRepository puerto para consultar/actualizar saldos por producto+estante.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(productID, shelfID string) (*entity.ShelfStock, error)
	Upsert(stock *entity.ShelfStock) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID, shelfID string) (*entity.ShelfStock, error)
	// TotalByProduct suma el saldo del producto sobre todos los estantes.
	TotalByProduct(productID string) (decimal.Decimal, error)
}
