package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Conciliador-api/internal/domain"
	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/repository"
)

var _ repository.ChequeRepository = (*ChequeRepo)(nil)

// ChequeRepo implementación de ChequeRepository sobre PostgreSQL.
type ChequeRepo struct {
	q Querier
}

// NewChequeRepository construye el adaptador de cheques. Pasar pool o tx (Querier).
func NewChequeRepository(q Querier) *ChequeRepo {
	return &ChequeRepo{q: q}
}

// GetByID busca un cheque por ID. Retorna nil si no existe.
func (r *ChequeRepo) GetByID(ctx context.Context, id string) (*entity.Cheque, error) {
	query := `
		SELECT id, type, status, amount, party_id, bank_account_id, due_date,
		       spent_out, spent_out_source_record_id, created_at, updated_at
		FROM cheques WHERE id = $1`
	var c entity.Cheque
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Type, &c.Status, &c.Amount, &c.PartyID, &c.BankAccountID, &c.DueDate,
		&c.Metadata.SpentOut, &c.Metadata.SpentOutSourceRecordID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cheque: %w", err)
	}
	return &c, nil
}

// Create inserta un cheque nuevo.
func (r *ChequeRepo) Create(ctx context.Context, cheque *entity.Cheque) error {
	query := `
		INSERT INTO cheques (id, type, status, amount, party_id, bank_account_id,
		                     due_date, spent_out, spent_out_source_record_id,
		                     created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`
	_, err := r.q.Exec(ctx, query,
		cheque.ID, cheque.Type, cheque.Status, cheque.Amount,
		cheque.PartyID, cheque.BankAccountID, cheque.DueDate,
		cheque.Metadata.SpentOut, cheque.Metadata.SpentOutSourceRecordID,
	)
	if err != nil {
		return fmt.Errorf("create cheque: %w", err)
	}
	return nil
}

// Update sobreescribe los campos mutables de un cheque existente.
func (r *ChequeRepo) Update(ctx context.Context, cheque *entity.Cheque) error {
	query := `
		UPDATE cheques
		SET type = $2, status = $3, amount = $4, party_id = $5,
		    bank_account_id = $6, due_date = $7, spent_out = $8,
		    spent_out_source_record_id = $9, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		cheque.ID, cheque.Type, cheque.Status, cheque.Amount,
		cheque.PartyID, cheque.BankAccountID, cheque.DueDate,
		cheque.Metadata.SpentOut, cheque.Metadata.SpentOutSourceRecordID,
	)
	if err != nil {
		return fmt.Errorf("update cheque: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update cheque %s: %w", cheque.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina un cheque por ID.
func (r *ChequeRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM cheques WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete cheque: %w", err)
	}
	return nil
}

// MarkSpent estampa el cheque como gastado por el registro dado.
func (r *ChequeRepo) MarkSpent(ctx context.Context, id, recordID string) error {
	query := `
		UPDATE cheques
		SET status = $2, spent_out = true, spent_out_source_record_id = $3,
		    updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, entity.ChequeStatusSpent, recordID)
	if err != nil {
		return fmt.Errorf("mark cheque spent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark cheque spent %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
