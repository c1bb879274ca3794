package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/repository"
)

var _ repository.ChangeLogRepository = (*ChangeLogRepo)(nil)

// ChangeLogRepo implementación de ChangeLogRepository sobre PostgreSQL.
// Las instantáneas antes/después se guardan como JSONB.
type ChangeLogRepo struct {
	q Querier
}

// NewChangeLogRepository construye el adaptador del historial. Pasar pool o tx (Querier).
func NewChangeLogRepository(q Querier) *ChangeLogRepo {
	return &ChangeLogRepo{q: q}
}

// rowDoc forma serializada de una fila dentro de una instantánea.
type rowDoc struct {
	ID       string            `json:"id"`
	Fields   map[string]string `json:"fields"`
	Locked   []string          `json:"locked,omitempty"`
	Readonly bool              `json:"readonly,omitempty"`
}

// Append agrega una entrada al historial (nunca se modifica una existente).
func (r *ChangeLogRepo) Append(ctx context.Context, entry *entity.ChangeLogEntry) error {
	beforeJSON, err := marshalSnapshot(entry.Before)
	if err != nil {
		return fmt.Errorf("marshal before: %w", err)
	}
	afterJSON, err := marshalSnapshot(entry.After)
	if err != nil {
		return fmt.Errorf("marshal after: %w", err)
	}
	id := entry.ID
	if id == "" {
		id = uuid.New().String()
	}
	query := `
		INSERT INTO change_log (id, module_id, record_id, block_id, before, after, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err = r.q.Exec(ctx, query, id, entry.ModuleID, entry.RecordID, entry.BlockID, beforeJSON, afterJSON)
	if err != nil {
		return fmt.Errorf("append change log: %w", err)
	}
	return nil
}

// ListByRecord devuelve el historial de un registro, del más reciente al más antiguo.
func (r *ChangeLogRepo) ListByRecord(ctx context.Context, moduleID, recordID string) ([]*entity.ChangeLogEntry, error) {
	query := `
		SELECT id, module_id, record_id, block_id, before, after, logged_at
		FROM change_log
		WHERE module_id = $1 AND record_id = $2
		ORDER BY logged_at DESC`
	pgRows, err := r.q.Query(ctx, query, moduleID, recordID)
	if err != nil {
		return nil, fmt.Errorf("list change log: %w", err)
	}
	defer pgRows.Close()

	var entries []*entity.ChangeLogEntry
	for pgRows.Next() {
		var (
			e          entity.ChangeLogEntry
			beforeJSON []byte
			afterJSON  []byte
		)
		if err := pgRows.Scan(&e.ID, &e.ModuleID, &e.RecordID, &e.BlockID, &beforeJSON, &afterJSON, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan change log: %w", err)
		}
		if e.Before, err = unmarshalSnapshot(beforeJSON); err != nil {
			return nil, fmt.Errorf("unmarshal before: %w", err)
		}
		if e.After, err = unmarshalSnapshot(afterJSON); err != nil {
			return nil, fmt.Errorf("unmarshal after: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, pgRows.Err()
}

func marshalSnapshot(rows []*entity.Row) ([]byte, error) {
	docs := make([]rowDoc, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, rowDoc{
			ID:       row.ID,
			Fields:   row.Fields,
			Locked:   row.LockedFields(),
			Readonly: row.Readonly,
		})
	}
	return json.Marshal(docs)
}

func unmarshalSnapshot(data []byte) ([]*entity.Row, error) {
	var docs []rowDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}
	rows := make([]*entity.Row, 0, len(docs))
	for _, doc := range docs {
		row := entity.NewRow(doc.ID)
		row.ID = doc.ID
		row.Readonly = doc.Readonly
		for k, v := range doc.Fields {
			row.Fields[k] = v
		}
		row.Lock(doc.Locked...)
		rows = append(rows, row)
	}
	return rows, nil
}
