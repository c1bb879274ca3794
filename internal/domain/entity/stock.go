package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShelfStock saldo actual de un producto en un estante (tabla materializada).
// Es el único recurso mutable compartido entre sesiones de edición.
type ShelfStock struct {
	ProductID string
	ShelfID   string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
