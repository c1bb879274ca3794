package rowcalc

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/numeric"
	"github.com/jhoicas/Conciliador-api/internal/domain/unit"
)

// TableKind semántica de la colección de filas.
type TableKind string

const (
	TableStockMovement   TableKind = "stock_movement"
	TableInvoiceItem     TableKind = "invoice_item"
	TablePayment         TableKind = "payment"
	TableProductionOrder TableKind = "production_order"
)

// CalcMode modo de cálculo monetario de la fila.
type CalcMode string

const (
	// CalcModeUnitPrice el total se deriva de cantidad × precio unitario.
	CalcModeUnitPrice CalcMode = "unit_price"
	// CalcModeTotal el precio unitario se deriva del total ingresado.
	CalcModeTotal CalcMode = "total"
)

// Context contexto inmutable de cálculo de una colección.
type Context struct {
	Table TableKind
	Mode  CalcMode
	Specs map[string]entity.FieldSpec
}

// ApplyFieldChange aplica un cambio de campo y recalcula los campos derivados.
// Función pura: no hace I/O y devuelve siempre una fila nueva. Las cascadas se
// aplican en orden fijo para que el resultado no dependa del orden de
// evaluación: (1) efectos del campo cambiado, (2) cantidad por dimensiones,
// (3) conversión de sub-unidad, (4) total monetario.
func ApplyFieldChange(row *entity.Row, field, value string, ctx Context) *entity.Row {
	next := row.Clone()
	if next.Readonly || next.IsLocked(field) {
		return next
	}
	next.Set(field, normalizeForSpec(field, value, ctx))

	applySideEffects(next, field)
	applyDimensions(next)
	applySubUnit(next)
	applyTotal(next, field, ctx)
	return next
}

// normalizeForSpec normaliza el valor según el tipo semántico del campo.
// Los campos porcentaje-o-monto conservan su sufijo % hasta el cálculo.
func normalizeForSpec(field, value string, ctx Context) string {
	spec, ok := ctx.Specs[field]
	if !ok {
		return value
	}
	if spec.Type.Numeric() {
		return numeric.Normalize(value)
	}
	return value
}

// applySideEffects efectos propios del campo cambiado (paso 1).
func applySideEffects(row *entity.Row, field string) {
	switch field {
	case entity.FieldVoucherType:
		switch row.Get(entity.FieldVoucherType) {
		case entity.VoucherIncoming:
			row.Set(entity.FieldFromShelf, "")
		case entity.VoucherOutgoing:
			row.Set(entity.FieldToShelf, "")
		}
	case entity.FieldPaymentType:
		if row.Get(entity.FieldPaymentType) != entity.PaymentTypeCheque {
			row.Set(entity.FieldChequeID, "")
			row.Set(entity.FieldChequeOwned, "")
			row.Set(entity.FieldBankAccountID, "")
			row.Set(entity.FieldDueDate, "")
		}
	case entity.FieldHasDimensions:
		if !flagSet(row.Get(entity.FieldHasDimensions)) {
			row.Set(entity.FieldLength, "")
			row.Set(entity.FieldWidth, "")
		}
	}
}

// applyDimensions cantidad derivada de largo × ancho (paso 2).
func applyDimensions(row *entity.Row) {
	if !flagSet(row.Get(entity.FieldHasDimensions)) {
		return
	}
	length := numeric.Decimal(row.Get(entity.FieldLength))
	width := numeric.Decimal(row.Get(entity.FieldWidth))
	row.Set(entity.FieldQuantity, length.Mul(width).String())
}

// applySubUnit sub-cantidad por conversión de unidades (paso 3). La sub-unidad
// manual nunca se convierte; un factor propio del producto reemplaza la tabla
// estándar.
func applySubUnit(row *entity.Row) {
	sub := row.Get(entity.FieldSubUnit)
	if sub == "" || sub == unit.Manual {
		return
	}
	qty := numeric.Decimal(row.Get(entity.FieldQuantity))
	if factor := numeric.Decimal(row.Get(entity.FieldUnitFactor)); factor.GreaterThan(decimal.Zero) {
		row.Set(entity.FieldSubQuantity, unit.ConvertWithFactor(qty, factor).String())
		return
	}
	converted, err := unit.Convert(qty, row.Get(entity.FieldMainUnit), sub)
	if err != nil {
		return
	}
	row.Set(entity.FieldSubQuantity, converted.String())
}

// applyTotal total monetario (paso 4). En modo total, editar el total deriva
// el precio unitario; en cualquier otro caso el total se recalcula.
func applyTotal(row *entity.Row, changedField string, ctx Context) {
	if ctx.Table != TableInvoiceItem && ctx.Table != TableProductionOrder {
		return
	}
	if ctx.Mode == CalcModeTotal && changedField == entity.FieldTotalPrice {
		qty := numeric.Decimal(row.Get(entity.FieldQuantity))
		if qty.GreaterThan(decimal.Zero) {
			total := numeric.Decimal(row.Get(entity.FieldTotalPrice))
			row.Set(entity.FieldUnitPrice, total.Div(qty).String())
		}
		return
	}
	row.Set(entity.FieldTotalPrice, RowTotal(row).String())
}

// RowTotal total de la fila: cantidad × precio, menos descuento, más impuesto.
// Descuento e impuesto aceptan porcentaje (sufijo %) o monto absoluto.
func RowTotal(row *entity.Row) decimal.Decimal {
	qty := numeric.Decimal(row.Get(entity.FieldQuantity))
	price := numeric.Decimal(row.Get(entity.FieldUnitPrice))
	gross := qty.Mul(price)

	discount, isPct := numeric.PercentOrAmount(row.Get(entity.FieldDiscount))
	if isPct {
		discount = gross.Mul(discount).Div(decimal.NewFromInt(100))
	}
	net := gross.Sub(discount)

	tax, isPct := numeric.PercentOrAmount(row.Get(entity.FieldTax))
	if isPct {
		tax = net.Mul(tax).Div(decimal.NewFromInt(100))
	}
	return net.Add(tax)
}

// Recompute reaplica los pasos derivados (2-4) sin un cambio de campo puntual.
// Lo usa el binder de selección tras copiar campos de la referencia.
func Recompute(row *entity.Row, ctx Context) {
	applyDimensions(row)
	applySubUnit(row)
	if ctx.Table == TableInvoiceItem || ctx.Table == TableProductionOrder {
		row.Set(entity.FieldTotalPrice, RowTotal(row).String())
	}
}

func flagSet(v string) bool {
	return v == "1" || v == "true"
}
