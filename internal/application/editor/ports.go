package editor

import "context"

// StatsSyncer sincroniza agregados derivados de entidades relacionadas
// (ej. totales por cliente) después de un guardado exitoso.
type StatsSyncer interface {
	SyncPartyTotals(ctx context.Context, partyIDs []string) error
}
