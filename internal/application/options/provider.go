package options

import (
	"context"
	"fmt"

	"github.com/jhoicas/Conciliador-api/internal/domain"
	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/repository"
)

// Option entrada de una lista de opciones para el renderizador de formularios.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Provider resuelve una clave de categoría a su lista ordenada de opciones.
// Solo afecta presentación: el pipeline de guardado nunca depende de estas
// consultas.
type Provider interface {
	Options(ctx context.Context, category string) ([]Option, error)
}

// StaticProvider opciones fijas por bloque.
type StaticProvider map[string][]Option

// Options implementa Provider.
func (p StaticProvider) Options(_ context.Context, category string) ([]Option, error) {
	opts, ok := p[category]
	if !ok {
		return nil, fmt.Errorf("categoría %s: %w", category, domain.ErrNotFound)
	}
	return opts, nil
}

// DefaultStatic listas estáticas de los bloques incluidos.
func DefaultStatic() StaticProvider {
	return StaticProvider{
		"voucher_types": {
			{Label: "Entrada", Value: entity.VoucherIncoming},
			{Label: "Salida", Value: entity.VoucherOutgoing},
			{Label: "Traslado", Value: entity.VoucherTransfer},
		},
		"movement_sources": {
			{Label: "Manual", Value: entity.SourceManual},
			{Label: "Compra", Value: entity.SourcePurchase},
			{Label: "Venta", Value: entity.SourceSale},
		},
		"payment_types": {
			{Label: "Efectivo", Value: "cash"},
			{Label: "Transferencia", Value: "transfer"},
			{Label: "Cheque", Value: entity.PaymentTypeCheque},
		},
		"units": {
			{Label: "Metro", Value: "m"},
			{Label: "Centímetro", Value: "cm"},
			{Label: "Kilogramo", Value: "kg"},
			{Label: "Gramo", Value: "g"},
			{Label: "Unidad", Value: "unit"},
			{Label: "Docena", Value: "dozen"},
			{Label: "Manual", Value: "manual"},
		},
	}
}

// StoreProvider opciones dinámicas leídas del record store: cada categoría es
// una colección cuyas filas exponen label y value.
type StoreProvider struct {
	store repository.RecordStore
}

// NewStoreProvider construye el proveedor dinámico.
func NewStoreProvider(store repository.RecordStore) *StoreProvider {
	return &StoreProvider{store: store}
}

// Options implementa Provider leyendo la colección option_<categoría>.
func (p *StoreProvider) Options(ctx context.Context, category string) ([]Option, error) {
	rows, err := p.store.Read(ctx, "option_"+category, nil)
	if err != nil {
		return nil, fmt.Errorf("leer opciones de %s: %w", category, err)
	}
	opts := make([]Option, 0, len(rows))
	for _, row := range rows {
		opts = append(opts, Option{Label: row.Get("label"), Value: row.Get("value")})
	}
	return opts, nil
}

// Chain intenta cada proveedor en orden y devuelve la primera lista resuelta.
type Chain []Provider

// Options implementa Provider.
func (c Chain) Options(ctx context.Context, category string) ([]Option, error) {
	for _, p := range c {
		opts, err := p.Options(ctx, category)
		if err == nil {
			return opts, nil
		}
	}
	return nil, fmt.Errorf("categoría %s: %w", category, domain.ErrNotFound)
}
