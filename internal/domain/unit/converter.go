package unit

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Manual es la sub-unidad de ingreso manual: su cantidad la escribe el usuario
// y nunca se convierte automáticamente.
const Manual = "manual"

// Familias de unidades soportadas.
const (
	familyLength = "length"
	familyMass   = "mass"
	familyCount  = "count"
)

type unitDef struct {
	family string
	// factor a la unidad base de la familia (m, kg, unidad)
	factor decimal.Decimal
}

var units = map[string]unitDef{
	"mm": {familyLength, decimal.RequireFromString("0.001")},
	"cm": {familyLength, decimal.RequireFromString("0.01")},
	"m":  {familyLength, decimal.NewFromInt(1)},
	"km": {familyLength, decimal.NewFromInt(1000)},

	"g":   {familyMass, decimal.RequireFromString("0.001")},
	"kg":  {familyMass, decimal.NewFromInt(1)},
	"ton": {familyMass, decimal.NewFromInt(1000)},

	"unit":   {familyCount, decimal.NewFromInt(1)},
	"dozen":  {familyCount, decimal.NewFromInt(12)},
	"carton": {familyCount, decimal.NewFromInt(24)},
}

// Known indica si la unidad pertenece a la tabla estándar.
func Known(u string) bool {
	_, ok := units[u]
	return ok
}

// Convert convierte una cantidad de la unidad principal a la sub-unidad.
// Ambas deben pertenecer a la misma familia; la sub-unidad manual no es
// convertible.
func Convert(qty decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return qty, nil
	}
	if from == Manual || to == Manual {
		return decimal.Zero, fmt.Errorf("la unidad %q es de ingreso manual", Manual)
	}
	f, ok := units[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("unidad desconocida: %q", from)
	}
	t, ok := units[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("unidad desconocida: %q", to)
	}
	if f.family != t.family {
		return decimal.Zero, fmt.Errorf("unidades incompatibles: %q y %q", from, to)
	}
	return qty.Mul(f.factor).Div(t.factor), nil
}

// ConvertWithFactor conversión por factor propio del producto o categoría:
// sub = cantidad × factor. Reemplaza la tabla estándar cuando el producto
// define su propia relación principal→sub.
func ConvertWithFactor(qty, factor decimal.Decimal) decimal.Decimal {
	return qty.Mul(factor)
}
