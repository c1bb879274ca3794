package rowcalc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/rowcalc"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// invoiceCtx contexto de un bloque de ítems de factura en modo precio unitario.
func invoiceCtx() rowcalc.Context {
	return rowcalc.Context{
		Table: rowcalc.TableInvoiceItem,
		Mode:  rowcalc.CalcModeUnitPrice,
		Specs: entity.SpecsByKey([]entity.FieldSpec{
			{Key: entity.FieldQuantity, Type: entity.FieldTypeNumber},
			{Key: entity.FieldLength, Type: entity.FieldTypeNumber},
			{Key: entity.FieldWidth, Type: entity.FieldTypeNumber},
			{Key: entity.FieldUnitPrice, Type: entity.FieldTypePrice},
			{Key: entity.FieldDiscount, Type: entity.FieldTypePercentOrAmount},
			{Key: entity.FieldTax, Type: entity.FieldTypePercentOrAmount},
			{Key: entity.FieldTotalPrice, Type: entity.FieldTypePrice},
			{Key: entity.FieldUnitFactor, Type: entity.FieldTypeNumber},
		}),
	}
}

func movementCtx() rowcalc.Context {
	return rowcalc.Context{
		Table: rowcalc.TableStockMovement,
		Specs: entity.SpecsByKey([]entity.FieldSpec{
			{Key: entity.FieldQuantity, Type: entity.FieldTypeNumber},
			{Key: entity.FieldUnitFactor, Type: entity.FieldTypeNumber},
		}),
	}
}

func apply(row *entity.Row, ctx rowcalc.Context, changes ...[2]string) *entity.Row {
	for _, ch := range changes {
		row = rowcalc.ApplyFieldChange(row, ch[0], ch[1], ctx)
	}
	return row
}

// ──────────────────────────────────────────────────────────────────────────────
// Cascada de dimensiones
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyFieldChange_DimensionesDerivanCantidad(t *testing.T) {
	row := entity.NewRow("r1")
	row = apply(row, invoiceCtx(),
		[2]string{entity.FieldHasDimensions, "1"},
		[2]string{entity.FieldLength, "5"},
		[2]string{entity.FieldWidth, "3"},
	)
	assert.Equal(t, "15", row.Get(entity.FieldQuantity), "cantidad = largo × ancho")
}

func TestApplyFieldChange_OrdenDeEdicionIndiferente(t *testing.T) {
	ctx := invoiceCtx()

	a := apply(entity.NewRow("a"), ctx,
		[2]string{entity.FieldHasDimensions, "1"},
		[2]string{entity.FieldLength, "4"},
		[2]string{entity.FieldWidth, "2"},
		[2]string{entity.FieldUnitPrice, "10"},
	)
	b := apply(entity.NewRow("b"), ctx,
		[2]string{entity.FieldUnitPrice, "10"},
		[2]string{entity.FieldWidth, "2"},
		[2]string{entity.FieldHasDimensions, "1"},
		[2]string{entity.FieldLength, "4"},
	)

	assert.Equal(t, a.Get(entity.FieldQuantity), b.Get(entity.FieldQuantity))
	assert.Equal(t, a.Get(entity.FieldTotalPrice), b.Get(entity.FieldTotalPrice))
}

func TestApplyFieldChange_ApagarDimensionesLimpiaLargoAncho(t *testing.T) {
	row := entity.NewRow("r1")
	row = apply(row, invoiceCtx(),
		[2]string{entity.FieldHasDimensions, "1"},
		[2]string{entity.FieldLength, "5"},
		[2]string{entity.FieldWidth, "3"},
		[2]string{entity.FieldHasDimensions, ""},
	)
	assert.Empty(t, row.Get(entity.FieldLength))
	assert.Empty(t, row.Get(entity.FieldWidth))
}

// ──────────────────────────────────────────────────────────────────────────────
// Efectos del campo cambiado
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyFieldChange_ComprobanteEntradaLimpiaEstanteOrigen(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldFromShelf, "A")
	row.Set(entity.FieldToShelf, "B")

	row = rowcalc.ApplyFieldChange(row, entity.FieldVoucherType, entity.VoucherIncoming, movementCtx())

	assert.Empty(t, row.Get(entity.FieldFromShelf))
	assert.Equal(t, "B", row.Get(entity.FieldToShelf))
}

func TestApplyFieldChange_ComprobanteSalidaLimpiaEstanteDestino(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldFromShelf, "A")
	row.Set(entity.FieldToShelf, "B")

	row = rowcalc.ApplyFieldChange(row, entity.FieldVoucherType, entity.VoucherOutgoing, movementCtx())

	assert.Equal(t, "A", row.Get(entity.FieldFromShelf))
	assert.Empty(t, row.Get(entity.FieldToShelf))
}

func TestApplyFieldChange_TipoDePagoNoChequeLimpiaVinculacion(t *testing.T) {
	ctx := rowcalc.Context{Table: rowcalc.TablePayment}
	row := entity.NewRow("r1")
	row.Set(entity.FieldPaymentType, entity.PaymentTypeCheque)
	row.Set(entity.FieldChequeID, "ch-1")
	row.Set(entity.FieldChequeOwned, "1")
	row.Set(entity.FieldBankAccountID, "ba-1")
	row.Set(entity.FieldDueDate, "2026-09-01")

	row = rowcalc.ApplyFieldChange(row, entity.FieldPaymentType, "cash", ctx)

	assert.Empty(t, row.Get(entity.FieldChequeID))
	assert.Empty(t, row.Get(entity.FieldChequeOwned))
	assert.Empty(t, row.Get(entity.FieldBankAccountID))
	assert.Empty(t, row.Get(entity.FieldDueDate))
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversión de sub-unidad
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyFieldChange_SubCantidadPorTablaEstandar(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldMainUnit, "m")
	row.Set(entity.FieldSubUnit, "cm")

	row = rowcalc.ApplyFieldChange(row, entity.FieldQuantity, "2", movementCtx())

	assert.Equal(t, "200", row.Get(entity.FieldSubQuantity))
}

func TestApplyFieldChange_FactorPropioReemplazaTabla(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldMainUnit, "m")
	row.Set(entity.FieldSubUnit, "cm")
	row.Set(entity.FieldUnitFactor, "7")

	row = rowcalc.ApplyFieldChange(row, entity.FieldQuantity, "2", movementCtx())

	assert.Equal(t, "14", row.Get(entity.FieldSubQuantity), "el factor propio manda sobre la tabla")
}

func TestApplyFieldChange_SubUnidadManualNoSeConvierte(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldMainUnit, "m")
	row.Set(entity.FieldSubUnit, "manual")
	row.Set(entity.FieldSubQuantity, "99")

	row = rowcalc.ApplyFieldChange(row, entity.FieldQuantity, "2", movementCtx())

	assert.Equal(t, "99", row.Get(entity.FieldSubQuantity), "la sub-cantidad manual no se pisa")
}

// ──────────────────────────────────────────────────────────────────────────────
// Total monetario
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyFieldChange_TotalConDescuentoPorcentualEImpuestoFijo(t *testing.T) {
	row := entity.NewRow("r1")
	row = apply(row, invoiceCtx(),
		[2]string{entity.FieldQuantity, "2"},
		[2]string{entity.FieldUnitPrice, "10"},
		[2]string{entity.FieldDiscount, "10%"},
		[2]string{entity.FieldTax, "5"},
	)
	// bruto 20, descuento 2, neto 18, impuesto fijo 5 → 23
	assert.Equal(t, "23", row.Get(entity.FieldTotalPrice))
}

func TestApplyFieldChange_ModoTotalDerivaPrecioUnitario(t *testing.T) {
	ctx := invoiceCtx()
	ctx.Mode = rowcalc.CalcModeTotal

	row := entity.NewRow("r1")
	row.Set(entity.FieldQuantity, "2")
	row = rowcalc.ApplyFieldChange(row, entity.FieldTotalPrice, "50", ctx)

	assert.Equal(t, "25", row.Get(entity.FieldUnitPrice))
}

func TestApplyFieldChange_NormalizaSegunTipoDeCampo(t *testing.T) {
	row := entity.NewRow("r1")
	row = rowcalc.ApplyFieldChange(row, entity.FieldQuantity, "۲٬۰۰۰", invoiceCtx())
	assert.Equal(t, "2000", row.Get(entity.FieldQuantity))
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardas de edición
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyFieldChange_FilaSoloLecturaNoCambia(t *testing.T) {
	row := entity.NewRow("r1")
	row.Readonly = true
	row.Set(entity.FieldQuantity, "5")

	next := rowcalc.ApplyFieldChange(row, entity.FieldQuantity, "9", movementCtx())

	assert.Equal(t, "5", next.Get(entity.FieldQuantity))
}

func TestApplyFieldChange_CampoBloqueadoNoCambia(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldUnitPrice, "10")
	row.Lock(entity.FieldUnitPrice)

	next := rowcalc.ApplyFieldChange(row, entity.FieldUnitPrice, "99", invoiceCtx())

	assert.Equal(t, "10", next.Get(entity.FieldUnitPrice))
}

func TestApplyFieldChange_EsPuraNoMutaLaEntrada(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldQuantity, "1")

	next := rowcalc.ApplyFieldChange(row, entity.FieldQuantity, "9", movementCtx())

	require.NotSame(t, row, next)
	assert.Equal(t, "1", row.Get(entity.FieldQuantity), "la fila original queda intacta")
	assert.Equal(t, "9", next.Get(entity.FieldQuantity))
}
