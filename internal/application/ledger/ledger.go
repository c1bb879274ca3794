package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conciliador-api/internal/domain"
	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/repository"
	"github.com/jhoicas/Conciliador-api/pkg/logger"
)

// Service concilia filas de movimiento contra los saldos persistidos de stock.
// La estrategia de guardado es revertir-y-reaplicar: se computan los deltas del
// conjunto de filas previo con signo -1 y los del conjunto nuevo con signo +1,
// y se aplican juntos como una sola mutación del libro. Así cualquier edición,
// alta o baja de filas queda capturada sin diferenciar fila por fila.
type Service struct {
	tx  TxRunner
	log *logger.Logger
}

// NewService construye el servicio de conciliación de stock.
func NewService(tx TxRunner, log *logger.Logger) *Service {
	return &Service{tx: tx, log: log}
}

// ComputeDeltas mapea cada fila de movimiento con cantidad no nula a sus
// deltas: uno para entradas/salidas, dos para traslados (negativo en origen,
// positivo en destino). sign (±1) escala todos los deltas.
func ComputeDeltas(rows []*entity.Row, sign int64) []entity.InventoryDelta {
	signDec := decimal.NewFromInt(sign)
	var deltas []entity.InventoryDelta
	for _, row := range rows {
		mv := entity.MovementFromRow(row)
		if mv.MainQuantity.IsZero() {
			continue
		}
		qty := mv.MainQuantity.Mul(signDec)
		switch mv.VoucherType {
		case entity.VoucherIncoming:
			deltas = append(deltas, entity.InventoryDelta{
				ProductID: mv.ProductID, ShelfID: mv.ToShelf, Delta: qty,
			})
		case entity.VoucherOutgoing:
			deltas = append(deltas, entity.InventoryDelta{
				ProductID: mv.ProductID, ShelfID: mv.FromShelf, Delta: qty.Neg(),
			})
		case entity.VoucherTransfer:
			deltas = append(deltas,
				entity.InventoryDelta{ProductID: mv.ProductID, ShelfID: mv.FromShelf, Delta: qty.Neg()},
				entity.InventoryDelta{ProductID: mv.ProductID, ShelfID: mv.ToShelf, Delta: qty},
			)
		}
	}
	return deltas
}

// ValidateRows valida las filas editables antes de cualquier escritura: tipo de
// comprobante y origen presentes, origen manual, cantidad positiva y estantes
// según el tipo. Las filas de solo lectura provienen de procesos automáticos y
// no se re-validan.
func ValidateRows(rows []*entity.Row) error {
	for _, row := range rows {
		if row.Readonly {
			continue
		}
		mv := entity.MovementFromRow(row)
		if mv.VoucherType == "" {
			return domain.NewValidationError(row.Key, entity.FieldVoucherType, "tipo de comprobante requerido")
		}
		if mv.Source == "" {
			return domain.NewValidationError(row.Key, entity.FieldSource, "origen requerido")
		}
		if !entity.ManualSources[mv.Source] {
			return domain.NewValidationError(row.Key, entity.FieldSource,
				fmt.Sprintf("el origen %q no admite ingreso manual", mv.Source))
		}
		if !mv.MainQuantity.GreaterThan(decimal.Zero) {
			return domain.NewValidationError(row.Key, entity.FieldQuantity, "la cantidad debe ser mayor a cero")
		}
		switch mv.VoucherType {
		case entity.VoucherIncoming:
			if mv.ToShelf == "" {
				return domain.NewValidationError(row.Key, entity.FieldToShelf, "una entrada requiere estante destino")
			}
		case entity.VoucherOutgoing:
			if mv.FromShelf == "" {
				return domain.NewValidationError(row.Key, entity.FieldFromShelf, "una salida requiere estante origen")
			}
		case entity.VoucherTransfer:
			if mv.FromShelf == "" || mv.ToShelf == "" {
				return domain.NewValidationError(row.Key, entity.FieldFromShelf, "un traslado requiere ambos estantes")
			}
			if mv.FromShelf == mv.ToShelf {
				return domain.NewValidationError(row.Key, entity.FieldToShelf, "origen y destino deben ser distintos")
			}
		default:
			return domain.NewValidationError(row.Key, entity.FieldVoucherType,
				fmt.Sprintf("tipo de comprobante desconocido: %q", mv.VoucherType))
		}
	}
	return nil
}

// Reconcile operación de guardado: valida el conjunto nuevo, revierte el efecto
// del conjunto previo y aplica el del nuevo en una sola transacción con bloqueo
// de fila, y recalcula el total cacheado de cada producto afectado. Ante
// cualquier fallo de validación no se intenta ninguna mutación.
func (s *Service) Reconcile(ctx context.Context, prev, next []*entity.Row) error {
	if err := ValidateRows(next); err != nil {
		return err
	}
	deltas := append(ComputeDeltas(prev, -1), ComputeDeltas(next, +1)...)
	if len(deltas) == 0 {
		return nil
	}
	return s.ApplyDeltas(ctx, deltas)
}

// ApplyDeltas aplica el conjunto de deltas como una mutación lógica única:
// agrupa por producto+estante, bloquea cada saldo, suma el delta neto y
// recalcula el total por producto.
func (s *Service) ApplyDeltas(ctx context.Context, deltas []entity.InventoryDelta) error {
	type slot struct{ productID, shelfID string }
	merged := make(map[slot]decimal.Decimal)
	var order []slot
	for _, d := range deltas {
		k := slot{d.ProductID, d.ShelfID}
		if _, ok := merged[k]; !ok {
			order = append(order, k)
		}
		merged[k] = merged[k].Add(d.Delta)
	}

	return s.tx.Run(ctx, func(stockRepo repository.StockRepository, productRepo repository.ProductRepository) error {
		products := make(map[string]bool)
		for _, k := range order {
			net := merged[k]
			if net.IsZero() {
				continue
			}
			stock, err := stockRepo.GetForUpdate(k.productID, k.shelfID)
			if err != nil {
				return fmt.Errorf("bloquear saldo %s/%s: %w", k.productID, k.shelfID, err)
			}
			stock.Quantity = stock.Quantity.Add(net)
			if err := stockRepo.Upsert(stock); err != nil {
				return fmt.Errorf("actualizar saldo %s/%s: %w", k.productID, k.shelfID, err)
			}
			products[k.productID] = true
		}
		// Recalcular el total cacheado de cada producto afectado
		for productID := range products {
			total, err := stockRepo.TotalByProduct(productID)
			if err != nil {
				return fmt.Errorf("total de producto %s: %w", productID, err)
			}
			if err := productRepo.UpdateQuantity(productID, total); err != nil {
				return fmt.Errorf("actualizar producto %s: %w", productID, err)
			}
			if s.log != nil {
				s.log.Debug().Str("product_id", productID).Str("total", total.String()).
					Msg("saldo de producto recalculado")
			}
		}
		return nil
	})
}
