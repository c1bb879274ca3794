package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Conciliador-api/internal/application/editor"
)

var _ editor.StatsSyncer = (*StatsSync)(nil)

// StatsSync recalcula agregados por tercero a partir de las filas de pago
// persistidas. Se ejecuta después de un guardado exitoso, fuera de la
// transacción de conciliación.
type StatsSync struct {
	q Querier
}

// NewStatsSync construye el sincronizador de agregados.
func NewStatsSync(q Querier) *StatsSync {
	return &StatsSync{q: q}
}

// SyncPartyTotals recalcula el total pagado de cada tercero afectado sumando
// sus filas de pago en el record store.
func (s *StatsSync) SyncPartyTotals(ctx context.Context, partyIDs []string) error {
	query := `
		INSERT INTO party_stats (party_id, total_paid, updated_at)
		SELECT $1,
		       COALESCE(SUM((fields->>'amount')::numeric), 0),
		       now()
		FROM records
		WHERE collection = 'payment_rows' AND fields->>'party_id' = $1
		ON CONFLICT (party_id)
		DO UPDATE SET total_paid = EXCLUDED.total_paid, updated_at = now()`
	for _, partyID := range partyIDs {
		if partyID == "" {
			continue
		}
		if _, err := s.q.Exec(ctx, query, partyID); err != nil {
			return fmt.Errorf("sync totales de %s: %w", partyID, err)
		}
	}
	return nil
}
