package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conciliador-api/internal/application/ledger"
	"github.com/jhoicas/Conciliador-api/internal/domain"
	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type slotKey struct{ productID, shelfID string }

// fakeStockRepo saldos en memoria por producto+estante.
type fakeStockRepo struct {
	balances map[slotKey]decimal.Decimal
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{balances: make(map[slotKey]decimal.Decimal)}
}

func (f *fakeStockRepo) set(productID, shelfID, qty string) {
	f.balances[slotKey{productID, shelfID}] = decimal.RequireFromString(qty)
}

func (f *fakeStockRepo) Get(productID, shelfID string) (*entity.ShelfStock, error) {
	return &entity.ShelfStock{
		ProductID: productID, ShelfID: shelfID,
		Quantity: f.balances[slotKey{productID, shelfID}],
	}, nil
}

func (f *fakeStockRepo) GetForUpdate(productID, shelfID string) (*entity.ShelfStock, error) {
	return f.Get(productID, shelfID)
}

func (f *fakeStockRepo) Upsert(stock *entity.ShelfStock) error {
	f.balances[slotKey{stock.ProductID, stock.ShelfID}] = stock.Quantity
	return nil
}

func (f *fakeStockRepo) TotalByProduct(productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for k, v := range f.balances {
		if k.productID == productID {
			total = total.Add(v)
		}
	}
	return total, nil
}

// fakeProductRepo registra los totales cacheados escritos.
type fakeProductRepo struct {
	totals map[string]decimal.Decimal
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{totals: make(map[string]decimal.Decimal)}
}

func (f *fakeProductRepo) GetByID(string) (*entity.Product, error) { return nil, nil }

func (f *fakeProductRepo) UpdateQuantity(id string, qty decimal.Decimal) error {
	f.totals[id] = qty
	return nil
}

// fakeTxRunner ejecuta el callback directamente sobre los fakes.
type fakeTxRunner struct {
	stock   *fakeStockRepo
	product *fakeProductRepo
	runs    int
	failErr error
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(repository.StockRepository, repository.ProductRepository) error) error {
	f.runs++
	if f.failErr != nil {
		return f.failErr
	}
	return fn(f.stock, f.product)
}

func movementRow(key, voucher, qty, from, to string) *entity.Row {
	row := entity.NewRow(key)
	row.Set(entity.FieldVoucherType, voucher)
	row.Set(entity.FieldSource, entity.SourceManual)
	row.Set(entity.FieldProductID, "p-1")
	row.Set(entity.FieldQuantity, qty)
	row.Set(entity.FieldFromShelf, from)
	row.Set(entity.FieldToShelf, to)
	return row
}

func balance(t *testing.T, stock *fakeStockRepo, productID, shelfID string) string {
	t.Helper()
	s, err := stock.Get(productID, shelfID)
	require.NoError(t, err)
	return s.Quantity.String()
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ComputeDeltas
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeDeltas_EntradaSumaEnDestino(t *testing.T) {
	rows := []*entity.Row{movementRow("r1", entity.VoucherIncoming, "10", "", "A")}
	deltas := ledger.ComputeDeltas(rows, +1)

	require.Len(t, deltas, 1)
	assert.Equal(t, "A", deltas[0].ShelfID)
	assert.True(t, deltas[0].Delta.Equal(decimal.NewFromInt(10)))
}

func TestComputeDeltas_SalidaRestaEnOrigen(t *testing.T) {
	rows := []*entity.Row{movementRow("r1", entity.VoucherOutgoing, "4", "A", "")}
	deltas := ledger.ComputeDeltas(rows, +1)

	require.Len(t, deltas, 1)
	assert.Equal(t, "A", deltas[0].ShelfID)
	assert.True(t, deltas[0].Delta.Equal(decimal.NewFromInt(-4)))
}

func TestComputeDeltas_TrasladoConservaElTotal(t *testing.T) {
	rows := []*entity.Row{movementRow("r1", entity.VoucherTransfer, "7", "A", "B")}
	deltas := ledger.ComputeDeltas(rows, +1)

	require.Len(t, deltas, 2)
	net := deltas[0].Delta.Add(deltas[1].Delta)
	assert.True(t, net.IsZero(), "un traslado no crea ni destruye stock")
}

func TestComputeDeltas_SignoNegativoRevierte(t *testing.T) {
	rows := []*entity.Row{movementRow("r1", entity.VoucherIncoming, "10", "", "A")}
	directos := ledger.ComputeDeltas(rows, +1)
	inversos := ledger.ComputeDeltas(rows, -1)

	require.Len(t, inversos, 1)
	assert.True(t, directos[0].Delta.Add(inversos[0].Delta).IsZero())
}

func TestComputeDeltas_CantidadCeroSeOmite(t *testing.T) {
	rows := []*entity.Row{movementRow("r1", entity.VoucherIncoming, "0", "", "A")}
	assert.Empty(t, ledger.ComputeDeltas(rows, +1))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ValidateRows
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateRows_OrigenNoManualRechazado(t *testing.T) {
	row := movementRow("r1", entity.VoucherIncoming, "5", "", "A")
	row.Set(entity.FieldSource, entity.SourceProduction)

	err := ledger.ValidateRows([]*entity.Row{row})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, entity.FieldSource, vErr.Field)
}

func TestValidateRows_CantidadDebeSerPositiva(t *testing.T) {
	row := movementRow("r1", entity.VoucherIncoming, "-3", "", "A")
	err := ledger.ValidateRows([]*entity.Row{row})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateRows_EntradaRequiereEstanteDestino(t *testing.T) {
	row := movementRow("r1", entity.VoucherIncoming, "5", "", "")
	err := ledger.ValidateRows([]*entity.Row{row})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateRows_TrasladoMismoEstanteRechazado(t *testing.T) {
	row := movementRow("r1", entity.VoucherTransfer, "5", "A", "A")
	err := ledger.ValidateRows([]*entity.Row{row})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateRows_FilaSoloLecturaNoSeValida(t *testing.T) {
	row := movementRow("r1", entity.VoucherIncoming, "0", "", "")
	row.Set(entity.FieldSource, entity.SourceInvoice)
	row.Readonly = true

	assert.NoError(t, ledger.ValidateRows([]*entity.Row{row}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Reconcile
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_EditarCantidadAjustaElSaldo(t *testing.T) {
	stock := newFakeStockRepo()
	stock.set("p-1", "A", "10")
	tx := &fakeTxRunner{stock: stock, product: newFakeProductRepo()}
	svc := ledger.NewService(tx, nil)

	prev := []*entity.Row{movementRow("r1", entity.VoucherIncoming, "10", "", "A")}
	next := []*entity.Row{movementRow("r1", entity.VoucherIncoming, "6", "", "A")}

	require.NoError(t, svc.Reconcile(context.Background(), prev, next))

	// revertir +10 y aplicar +6: 10 - 10 + 6 = 6
	assert.Equal(t, "6", balance(t, stock, "p-1", "A"))
}

func TestReconcile_QuitarFilaRevierteSuEfecto(t *testing.T) {
	stock := newFakeStockRepo()
	stock.set("p-1", "A", "10")
	tx := &fakeTxRunner{stock: stock, product: newFakeProductRepo()}
	svc := ledger.NewService(tx, nil)

	prev := []*entity.Row{movementRow("r1", entity.VoucherIncoming, "10", "", "A")}

	require.NoError(t, svc.Reconcile(context.Background(), prev, nil))

	assert.Equal(t, "0", balance(t, stock, "p-1", "A"))
}

func TestReconcile_TrasladoMueveEntreEstantes(t *testing.T) {
	stock := newFakeStockRepo()
	stock.set("p-1", "A", "10")
	tx := &fakeTxRunner{stock: stock, product: newFakeProductRepo()}
	svc := ledger.NewService(tx, nil)

	next := []*entity.Row{movementRow("r1", entity.VoucherTransfer, "4", "A", "B")}

	require.NoError(t, svc.Reconcile(context.Background(), nil, next))

	assert.Equal(t, "6", balance(t, stock, "p-1", "A"))
	assert.Equal(t, "4", balance(t, stock, "p-1", "B"))
}

func TestReconcile_RecalculaTotalDeProducto(t *testing.T) {
	stock := newFakeStockRepo()
	stock.set("p-1", "A", "3")
	products := newFakeProductRepo()
	tx := &fakeTxRunner{stock: stock, product: products}
	svc := ledger.NewService(tx, nil)

	next := []*entity.Row{movementRow("r1", entity.VoucherIncoming, "2", "", "B")}

	require.NoError(t, svc.Reconcile(context.Background(), nil, next))

	total, ok := products.totals["p-1"]
	require.True(t, ok, "el total cacheado del producto debe recalcularse")
	assert.True(t, total.Equal(decimal.NewFromInt(5)), "total = suma sobre todos los estantes")
}

func TestReconcile_ValidacionFallaSinMutaciones(t *testing.T) {
	stock := newFakeStockRepo()
	stock.set("p-1", "A", "10")
	tx := &fakeTxRunner{stock: stock, product: newFakeProductRepo()}
	svc := ledger.NewService(tx, nil)

	next := []*entity.Row{movementRow("r1", entity.VoucherIncoming, "-5", "", "A")}

	err := svc.Reconcile(context.Background(), nil, next)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, tx.runs, "ante validación fallida no se abre transacción")
	assert.Equal(t, "10", balance(t, stock, "p-1", "A"))
}

func TestReconcile_SinCambiosNoAbreTransaccion(t *testing.T) {
	tx := &fakeTxRunner{stock: newFakeStockRepo(), product: newFakeProductRepo()}
	svc := ledger.NewService(tx, nil)

	require.NoError(t, svc.Reconcile(context.Background(), nil, nil))
	assert.Zero(t, tx.runs)
}

func TestReconcile_FalloDeTransaccionSePropaga(t *testing.T) {
	boom := errors.New("conexión perdida")
	tx := &fakeTxRunner{stock: newFakeStockRepo(), product: newFakeProductRepo(), failErr: boom}
	svc := ledger.NewService(tx, nil)

	next := []*entity.Row{movementRow("r1", entity.VoucherIncoming, "2", "", "A")}

	err := svc.Reconcile(context.Background(), nil, next)
	assert.ErrorIs(t, err, boom)
}
