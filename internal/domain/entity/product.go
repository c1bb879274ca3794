package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto o SKU. MainUnit/SubUnit definen la conversión de cantidades;
// UnitFactor distinto de cero reemplaza la tabla de unidades estándar
// (sub = cantidad × factor). Quantity es el total cacheado sobre todos los
// estantes y se recalcula al conciliar el libro de stock.
type Product struct {
	ID         string
	Code       string
	Name       string
	MainUnit   string
	SubUnit    string
	UnitFactor decimal.Decimal
	Price      decimal.Decimal
	TaxRate    decimal.Decimal
	Quantity   decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
