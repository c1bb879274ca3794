package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/repository"
)

var _ repository.RecordStore = (*RecordStoreRepo)(nil)

// RecordStoreRepo record store genérico sobre PostgreSQL: una tabla records
// con los campos de cada fila como JSONB, particionada lógicamente por
// colección.
type RecordStoreRepo struct {
	q Querier
}

// NewRecordStore construye el adaptador. Pasar pool o tx (Querier).
func NewRecordStore(q Querier) *RecordStoreRepo {
	return &RecordStoreRepo{q: q}
}

// Read devuelve las filas de la colección que coinciden con el filtro de
// igualdad campo=valor.
func (r *RecordStoreRepo) Read(ctx context.Context, collection string, filter map[string]string) ([]*entity.Row, error) {
	query := `
		SELECT id, fields, locked, readonly
		FROM records WHERE collection = $1`
	args := []any{collection}
	if len(filter) > 0 {
		filterJSON, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("marshal filtro: %w", err)
		}
		query += ` AND fields @> $2::jsonb`
		args = append(args, filterJSON)
	}
	query += ` ORDER BY created_at`

	pgRows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	defer pgRows.Close()

	var rows []*entity.Row
	for pgRows.Next() {
		row, err := scanRow(pgRows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		rows = append(rows, row)
	}
	return rows, pgRows.Err()
}

// Write inserta o actualiza las filas (upsert por conflictKey) y devuelve la
// colección con las identidades de servidor asignadas.
func (r *RecordStoreRepo) Write(ctx context.Context, collection string, rows []*entity.Row, conflictKey string) ([]*entity.Row, error) {
	out := make([]*entity.Row, 0, len(rows))
	for _, row := range rows {
		saved := row.Clone()
		if saved.ID == "" && conflictKey != "id" {
			// Resolver identidad por el campo de conflicto alternativo
			id, err := r.lookupID(ctx, collection, conflictKey, saved.Get(conflictKey))
			if err != nil {
				return nil, err
			}
			saved.ID = id
		}
		if saved.ID == "" {
			saved.ID = uuid.New().String()
		}
		fieldsJSON, lockedJSON, err := marshalRow(saved)
		if err != nil {
			return nil, fmt.Errorf("marshal fila %s: %w", saved.Key, err)
		}
		query := `
			INSERT INTO records (collection, id, fields, locked, readonly, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
			ON CONFLICT (collection, id)
			DO UPDATE SET fields = EXCLUDED.fields, locked = EXCLUDED.locked,
			              readonly = EXCLUDED.readonly, updated_at = now()`
		if _, err := r.q.Exec(ctx, query, collection, saved.ID, fieldsJSON, lockedJSON, saved.Readonly); err != nil {
			return nil, fmt.Errorf("write %s: %w", collection, err)
		}
		out = append(out, saved)
	}
	return out, nil
}

// Delete elimina filas por ID.
func (r *RecordStoreRepo) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `DELETE FROM records WHERE collection = $1 AND id = ANY($2)`
	if _, err := r.q.Exec(ctx, query, collection, ids); err != nil {
		return fmt.Errorf("delete %s: %w", collection, err)
	}
	return nil
}

// UpdateField aplica un parche de campos sobre una fila existente.
func (r *RecordStoreRepo) UpdateField(ctx context.Context, collection, id string, patch map[string]string) error {
	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}
	query := `
		UPDATE records SET fields = fields || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, collection, id, patchJSON)
	if err != nil {
		return fmt.Errorf("update field %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update field %s/%s: fila inexistente", collection, id)
	}
	return nil
}

func (r *RecordStoreRepo) lookupID(ctx context.Context, collection, key, value string) (string, error) {
	query := `SELECT id FROM records WHERE collection = $1 AND fields->>$2 = $3 LIMIT 1`
	var id string
	err := r.q.QueryRow(ctx, query, collection, key, value).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil // sin coincidencia: se tratará como fila nueva
		}
		return "", fmt.Errorf("lookup %s por %s: %w", collection, key, err)
	}
	return id, nil
}

func marshalRow(row *entity.Row) ([]byte, []byte, error) {
	fieldsJSON, err := json.Marshal(row.Fields)
	if err != nil {
		return nil, nil, err
	}
	lockedJSON, err := json.Marshal(row.LockedFields())
	if err != nil {
		return nil, nil, err
	}
	return fieldsJSON, lockedJSON, nil
}

func scanRow(scan func(dest ...any) error) (*entity.Row, error) {
	var (
		id         string
		fieldsJSON []byte
		lockedJSON []byte
		readonly   bool
	)
	if err := scan(&id, &fieldsJSON, &lockedJSON, &readonly); err != nil {
		return nil, err
	}
	row := entity.NewRow(id)
	row.ID = id
	row.Readonly = readonly
	if err := json.Unmarshal(fieldsJSON, &row.Fields); err != nil {
		return nil, err
	}
	var locked []string
	if len(lockedJSON) > 0 {
		if err := json.Unmarshal(lockedJSON, &locked); err != nil {
			return nil, err
		}
	}
	row.Lock(locked...)
	return row, nil
}
