package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el saldo actual de un producto en un estante.
func (r *StockRepo) Get(productID, shelfID string) (*entity.ShelfStock, error) {
	query := `
		SELECT product_id, shelf_id, quantity, updated_at
		FROM shelf_stock WHERE product_id = $1 AND shelf_id = $2`
	var s entity.ShelfStock
	err := r.q.QueryRow(context.Background(), query, productID, shelfID).Scan(
		&s.ProductID, &s.ShelfID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.ShelfStock{ProductID: productID, ShelfID: shelfID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el saldo (por producto y estante).
func (r *StockRepo) Upsert(stock *entity.ShelfStock) error {
	query := `
		INSERT INTO shelf_stock (product_id, shelf_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, shelf_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, stock.ProductID, stock.ShelfID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// GetForUpdate obtiene el saldo y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(productID, shelfID string) (*entity.ShelfStock, error) {
	query := `
		SELECT product_id, shelf_id, quantity, updated_at
		FROM shelf_stock WHERE product_id = $1 AND shelf_id = $2
		FOR UPDATE`
	var s entity.ShelfStock
	err := r.q.QueryRow(context.Background(), query, productID, shelfID).Scan(
		&s.ProductID, &s.ShelfID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.ShelfStock{ProductID: productID, ShelfID: shelfID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// TotalByProduct suma el saldo del producto sobre todos los estantes.
func (r *StockRepo) TotalByProduct(productID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM shelf_stock WHERE product_id = $1`
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, productID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total by product: %w", err)
	}
	return total, nil
}
