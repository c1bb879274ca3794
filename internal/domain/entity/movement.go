package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conciliador-api/internal/domain/numeric"
)

// Tipos de comprobante de un movimiento de stock.
const (
	VoucherIncoming = "incoming" // entrada: requiere estante destino
	VoucherOutgoing = "outgoing" // salida: requiere estante origen
	VoucherTransfer = "transfer" // traslado: requiere ambos estantes, distintos
)

// Orígenes de movimiento. Solo los manuales admiten edición en la grilla;
// el resto lo materializan procesos automáticos y llega como solo-lectura.
const (
	SourceManual     = "manual"
	SourcePurchase   = "purchase"
	SourceSale       = "sale"
	SourceProduction = "production"
	SourceInvoice    = "invoice"
)

// ManualSources orígenes que un usuario puede ingresar a mano.
var ManualSources = map[string]bool{
	SourceManual:   true,
	SourcePurchase: true,
	SourceSale:     true,
}

// Movement vista tipada de una fila de movimiento de stock.
type Movement struct {
	VoucherType  string
	Source       string
	ProductID    string
	MainQuantity decimal.Decimal
	SubQuantity  decimal.Decimal
	FromShelf    string
	ToShelf      string
	Readonly     bool
}

// MovementFromRow proyecta los campos de la fila sobre la vista tipada.
func MovementFromRow(r *Row) Movement {
	return Movement{
		VoucherType:  r.Get(FieldVoucherType),
		Source:       r.Get(FieldSource),
		ProductID:    r.Get(FieldProductID),
		MainQuantity: numeric.Decimal(r.Get(FieldQuantity)),
		SubQuantity:  numeric.Decimal(r.Get(FieldSubQuantity)),
		FromShelf:    r.Get(FieldFromShelf),
		ToShelf:      r.Get(FieldToShelf),
		Readonly:     r.Readonly,
	}
}

// InventoryDelta cambio con signo sobre el saldo de un producto en un estante.
// Los deltas nunca se persisten: solo su efecto sobre los saldos.
type InventoryDelta struct {
	ProductID string
	ShelfID   string
	Delta     decimal.Decimal
}
