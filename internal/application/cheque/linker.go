package cheque

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Conciliador-api/internal/domain"
	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/numeric"
	"github.com/jhoicas/Conciliador-api/internal/domain/repository"
	"github.com/jhoicas/Conciliador-api/pkg/logger"
)

// Context contexto de guardado para la conciliación de cheques de un bloque.
type Context struct {
	// RecordID identidad del registro que está guardando; es quien gasta un
	// cheque recibido al vincularlo.
	RecordID string
	// Direction tipo de cheque que generan las filas de este bloque
	// (received para cobros, issued para pagos).
	Direction string
}

// Linker administra el ciclo de vida del cheque asociado a una fila de pago:
// crear al guardar, actualizar al re-guardar, o vincular a un cheque recibido
// existente marcándolo como gastado. Se invoca una vez por fila de pago dentro
// del pipeline de guardado.
type Linker struct {
	cheques repository.ChequeRepository
	log     *logger.Logger
}

// NewLinker construye el conciliador de cheques.
func NewLinker(cheques repository.ChequeRepository, log *logger.Logger) *Linker {
	return &Linker{cheques: cheques, log: log}
}

// ReconcilePaymentRow concilia el cheque de la fila y devuelve la fila
// resultante. Un cheque destino inexistente o inelegible aborta el guardado
// completo sin mutar instrumento ni fila.
func (l *Linker) ReconcilePaymentRow(ctx context.Context, row *entity.Row, save Context) (*entity.Row, error) {
	next := row.Clone()
	if next.Get(entity.FieldPaymentType) != entity.PaymentTypeCheque {
		return l.clearLinkage(ctx, next)
	}
	if id := next.Get(entity.FieldChequeID); id != "" && !ownedFlag(next) {
		return l.bindExisting(ctx, next, id, save)
	}
	return l.upsertOwned(ctx, next, save)
}

// clearLinkage la fila dejó de ser un pago con cheque: se elimina el cheque
// auto-generado que le pertenecía (si existe) y se limpian los campos de
// vinculación.
func (l *Linker) clearLinkage(ctx context.Context, row *entity.Row) (*entity.Row, error) {
	if id := row.Get(entity.FieldChequeID); id != "" && ownedFlag(row) {
		if err := l.cheques.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("eliminar cheque %s: %w", id, err)
		}
		if l.log != nil {
			l.log.Debug().Str("cheque_id", id).Msg("cheque auto-generado eliminado")
		}
	}
	row.Set(entity.FieldChequeID, "")
	row.Set(entity.FieldChequeOwned, "")
	return row, nil
}

// bindExisting vincula la fila a un cheque recibido existente y lo marca como
// gastado por el registro actual. Un cheque ya gastado por otro registro es un
// conflicto de conciliación.
func (l *Linker) bindExisting(ctx context.Context, row *entity.Row, chequeID string, save Context) (*entity.Row, error) {
	ch, err := l.cheques.GetByID(ctx, chequeID)
	if err != nil {
		return nil, fmt.Errorf("buscar cheque %s: %w", chequeID, err)
	}
	if ch == nil {
		return nil, fmt.Errorf("cheque %s: %w", chequeID, domain.ErrNotFound)
	}
	if ch.Type != entity.ChequeTypeReceived {
		return nil, domain.NewConflictError("cheque", fmt.Sprintf("%s no es un cheque recibido", chequeID))
	}
	if ch.Metadata.SpentOut && ch.Metadata.SpentOutSourceRecordID != save.RecordID {
		return nil, domain.NewConflictError("cheque",
			fmt.Sprintf("%s ya fue gastado por el registro %s", chequeID, ch.Metadata.SpentOutSourceRecordID))
	}
	if !ch.SpendableBy(save.RecordID) {
		return nil, domain.NewConflictError("cheque",
			fmt.Sprintf("%s no está disponible (estado %s)", chequeID, ch.Status))
	}
	if err := l.cheques.MarkSpent(ctx, chequeID, save.RecordID); err != nil {
		return nil, fmt.Errorf("marcar cheque %s gastado: %w", chequeID, err)
	}
	row.Set(entity.FieldChequeOwned, "")
	return row, nil
}

// upsertOwned crea el cheque auto-generado de la fila o lo actualiza en su
// lugar si la fila ya lo posee de un guardado anterior. Los campos
// parte/banco/monto/fecha se espejan desde la fila.
func (l *Linker) upsertOwned(ctx context.Context, row *entity.Row, save Context) (*entity.Row, error) {
	now := time.Now()
	chequeType := save.Direction
	if chequeType == "" {
		chequeType = entity.ChequeTypeIssued
	}
	ch := &entity.Cheque{
		Type:          chequeType,
		Status:        entity.ChequeStatusNew,
		Amount:        numeric.Decimal(row.Get(entity.FieldAmount)),
		PartyID:       row.Get(entity.FieldPartyID),
		BankAccountID: row.Get(entity.FieldBankAccountID),
		DueDate:       row.Get(entity.FieldDueDate),
		UpdatedAt:     now,
	}

	if id := row.Get(entity.FieldChequeID); id != "" && ownedFlag(row) {
		ch.ID = id
		if err := l.cheques.Update(ctx, ch); err != nil {
			return nil, fmt.Errorf("actualizar cheque %s: %w", id, err)
		}
		return row, nil
	}

	ch.ID = uuid.New().String()
	ch.CreatedAt = now
	if err := l.cheques.Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("crear cheque: %w", err)
	}
	row.Set(entity.FieldChequeID, ch.ID)
	row.Set(entity.FieldChequeOwned, "1")
	if l.log != nil {
		l.log.Debug().Str("cheque_id", ch.ID).Str("row", row.Key).Msg("cheque auto-generado")
	}
	return row, nil
}

func ownedFlag(row *entity.Row) bool {
	return row.Get(entity.FieldChequeOwned) == "1"
}
