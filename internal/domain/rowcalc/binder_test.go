package rowcalc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/rowcalc"
)

func bindOpts() rowcalc.BindOptions {
	return rowcalc.BindOptions{
		Fields: []string{entity.FieldProductID, entity.FieldUnitPrice, entity.FieldQuantity},
		FieldMap: map[string]string{
			entity.FieldProductID: "id",
			entity.FieldUnitPrice: "price",
		},
		Editable: []string{entity.FieldQuantity},
	}
}

func productRef() map[string]string {
	return map[string]string{
		"id":    "p-1",
		"name":  "Tornillo 3mm",
		"price": "10",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Bind
// ──────────────────────────────────────────────────────────────────────────────

func TestBind_CopiaCamposYGuardaSeleccion(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldQuantity, "2")

	next := rowcalc.Bind(row, productRef(), bindOpts(), invoiceCtx())

	assert.Equal(t, "p-1", next.Get(entity.FieldProductID))
	assert.Equal(t, "10", next.Get(entity.FieldUnitPrice))
	assert.Equal(t, "p-1", next.Get(entity.FieldSelectedID))
	assert.Equal(t, "Tornillo 3mm", next.Get(entity.FieldSelectedName))
}

func TestBind_BloqueaCopiadosYRespetaEditables(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldQuantity, "2")

	next := rowcalc.Bind(row, productRef(), bindOpts(), invoiceCtx())

	assert.True(t, next.IsLocked(entity.FieldProductID))
	assert.True(t, next.IsLocked(entity.FieldUnitPrice))
	assert.False(t, next.IsLocked(entity.FieldQuantity), "la cantidad sigue editable tras la selección")
}

func TestBind_RecalculaDerivados(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldQuantity, "2")

	next := rowcalc.Bind(row, productRef(), bindOpts(), invoiceCtx())

	assert.Equal(t, "20", next.Get(entity.FieldTotalPrice), "el total se recalcula con el precio copiado")
}

func TestBind_CampoAusenteEnLaReferenciaNoSePisa(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldUnitPrice, "7")

	ref := map[string]string{"id": "p-2", "name": "Sin precio"}
	next := rowcalc.Bind(row, ref, bindOpts(), invoiceCtx())

	assert.Equal(t, "7", next.Get(entity.FieldUnitPrice))
	assert.False(t, next.IsLocked(entity.FieldUnitPrice))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Unbind
// ──────────────────────────────────────────────────────────────────────────────

func TestUnbind_VaciaBloqueadosYLevantaBloqueo(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldQuantity, "2")
	bound := rowcalc.Bind(row, productRef(), bindOpts(), invoiceCtx())

	next := rowcalc.Unbind(bound, invoiceCtx())

	// deselección destructiva: no se restaura el valor previo al bind
	assert.Empty(t, next.Get(entity.FieldProductID))
	assert.Empty(t, next.Get(entity.FieldUnitPrice))
	assert.Empty(t, next.Get(entity.FieldSelectedID))
	assert.Empty(t, next.Get(entity.FieldSelectedName))
	assert.Empty(t, next.LockedFields())
}

func TestUnbind_ConservaEditablesYRecalcula(t *testing.T) {
	row := entity.NewRow("r1")
	row.Set(entity.FieldQuantity, "2")
	bound := rowcalc.Bind(row, productRef(), bindOpts(), invoiceCtx())
	require.Equal(t, "20", bound.Get(entity.FieldTotalPrice))

	next := rowcalc.Unbind(bound, invoiceCtx())

	assert.Equal(t, "2", next.Get(entity.FieldQuantity))
	assert.Equal(t, "0", next.Get(entity.FieldTotalPrice), "sin precio el total vuelve a cero")
}
