package entity

import "time"

// ChangeLogEntry registro antes/después de un guardado. Solo-agregar: una
// entrada jamás se modifica.
type ChangeLogEntry struct {
	ID       string
	ModuleID string
	RecordID string
	BlockID  string
	Before   []*Row
	After    []*Row
	LoggedAt time.Time
}
