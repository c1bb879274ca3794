package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
)

// ProductRepository puerto de productos.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	// UpdateQuantity actualiza el total cacheado del producto tras una
	// conciliación de stock.
	UpdateQuantity(id string, quantity decimal.Decimal) error
}
