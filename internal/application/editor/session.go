package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conciliador-api/internal/application/cheque"
	"github.com/jhoicas/Conciliador-api/internal/application/ledger"
	"github.com/jhoicas/Conciliador-api/internal/domain"
	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/numeric"
	"github.com/jhoicas/Conciliador-api/internal/domain/repository"
	"github.com/jhoicas/Conciliador-api/internal/domain/rowcalc"
	"github.com/jhoicas/Conciliador-api/pkg/logger"
)

// State estado de una sesión de edición.
type State string

const (
	StateViewing   State = "viewing"
	StateEditing   State = "editing"
	StateSaving    State = "saving"
	StateCancelled State = "cancelled"
)

// recordField campo que liga cada fila a su registro contenedor.
const recordField = "record_id"

// BlockConfig configuración estática de un bloque de filas editable.
type BlockConfig struct {
	ModuleID   string
	BlockID    string
	Collection string
	Kind       rowcalc.TableKind
	Mode       rowcalc.CalcMode
	Specs      []entity.FieldSpec
	// Bind cómo se aplica un registro de referencia sobre una fila del bloque.
	Bind rowcalc.BindOptions
	// ChequeDirection tipo de cheque que generan las filas de pago del bloque.
	ChequeDirection string
	// Editable predicado externo de visibilidad/edición (la política de
	// permisos es opaca para el motor). nil = todo campo editable.
	Editable func(field string) bool
}

// Deps colaboradores del coordinador de guardado.
type Deps struct {
	Store     repository.RecordStore
	Ledger    *ledger.Service
	Cheques   *cheque.Linker
	ChangeLog repository.ChangeLogRepository
	Stats     StatsSyncer
	Log       *logger.Logger
}

// Session editor lógico único de una colección de filas. Las mutaciones pasan
// exclusivamente por ApplyChange/BindSelection/ClearSelection; la copia de
// trabajo solo se vuelve durable en Save y se descarta en Cancel.
//
// Máquina de estados: Viewing -> Editing -> (Saving -> Viewing) |
// (Cancelled -> Viewing).
type Session struct {
	mu       sync.Mutex
	id       string
	cfg      BlockConfig
	recordID string
	deps     Deps
	calcCtx  rowcalc.Context

	state     State
	persisted []*entity.Row
	working   []*entity.Row
}

// NewSession construye una sesión en estado Viewing.
func NewSession(cfg BlockConfig, recordID string, deps Deps) *Session {
	return &Session{
		id:       uuid.New().String(),
		cfg:      cfg,
		recordID: recordID,
		deps:     deps,
		calcCtx: rowcalc.Context{
			Table: cfg.Kind,
			Mode:  cfg.Mode,
			Specs: entity.SpecsByKey(cfg.Specs),
		},
		state: StateViewing,
	}
}

// ID identidad de la sesión.
func (s *Session) ID() string { return s.id }

// State estado actual.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Rows vista de las filas actuales (copia de trabajo si se está editando).
func (s *Session) Rows() []*entity.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEditing || s.state == StateSaving {
		return entity.CloneRows(s.working)
	}
	return entity.CloneRows(s.persisted)
}

// StartEdit carga las filas persistidas, las clona como copia de trabajo,
// normaliza los campos numéricos y aplica los valores por defecto de cada
// especificación faltante.
func (s *Session) StartEdit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateViewing && s.state != StateCancelled {
		return fmt.Errorf("iniciar edición en estado %s: %w", s.state, domain.ErrInvalidState)
	}
	rows, err := s.deps.Store.Read(ctx, s.cfg.Collection, map[string]string{recordField: s.recordID})
	if err != nil {
		return fmt.Errorf("leer filas de %s: %w", s.cfg.Collection, err)
	}
	s.persisted = rows
	s.working = entity.CloneRows(rows)
	for _, row := range s.working {
		s.applySpecDefaults(row)
	}
	s.state = StateEditing
	return nil
}

// applySpecDefaults normaliza numéricos y completa campos faltantes con el
// valor por defecto de su especificación.
func (s *Session) applySpecDefaults(row *entity.Row) {
	for _, spec := range s.cfg.Specs {
		v, ok := row.Fields[spec.Key]
		if !ok {
			row.Set(spec.Key, spec.Default)
			v = spec.Default
		}
		if spec.Type.Numeric() {
			row.Set(spec.Key, numeric.Normalize(v))
		}
	}
}

// ApplyChange aplica la edición de un campo sobre la copia de trabajo,
// recalculando los campos derivados vía el motor de reglas.
func (s *Session) ApplyChange(rowKey, field, value string) (*entity.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return nil, fmt.Errorf("editar en estado %s: %w", s.state, domain.ErrInvalidState)
	}
	i, row, err := s.findWorking(rowKey)
	if err != nil {
		return nil, err
	}
	if err := s.checkEditable(row, field); err != nil {
		return nil, err
	}
	next := rowcalc.ApplyFieldChange(row, field, value, s.calcCtx)
	s.working[i] = next
	return next.Clone(), nil
}

// checkEditable reglas de editabilidad de un campo: fila de solo lectura,
// bloqueo por selección, condición readonlyWhen de la especificación y
// predicado externo de permisos.
func (s *Session) checkEditable(row *entity.Row, field string) error {
	if row.Readonly {
		return fmt.Errorf("fila %s: %w", row.Key, domain.ErrRowReadonly)
	}
	if row.IsLocked(field) {
		return fmt.Errorf("campo %s: %w", field, domain.ErrRowLocked)
	}
	if spec, ok := s.calcCtx.Specs[field]; ok && spec.ReadonlyWhen != nil {
		if row.Get(spec.ReadonlyWhen.Field) == spec.ReadonlyWhen.Value {
			return domain.NewValidationError(row.Key, field,
				fmt.Sprintf("solo lectura cuando %s=%s", spec.ReadonlyWhen.Field, spec.ReadonlyWhen.Value))
		}
	}
	if s.cfg.Editable != nil && !s.cfg.Editable(field) {
		return domain.NewValidationError(row.Key, field, "campo no editable para el usuario actual")
	}
	return nil
}

// BindSelection aplica un registro de referencia sobre la fila (producto
// elegido, escaneo de código resuelto) según las opciones del bloque.
func (s *Session) BindSelection(rowKey string, ref map[string]string) (*entity.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return nil, fmt.Errorf("seleccionar en estado %s: %w", s.state, domain.ErrInvalidState)
	}
	i, row, err := s.findWorking(rowKey)
	if err != nil {
		return nil, err
	}
	if row.Readonly {
		return nil, fmt.Errorf("fila %s: %w", row.Key, domain.ErrRowReadonly)
	}
	next := rowcalc.Bind(row, ref, s.cfg.Bind, s.calcCtx)
	s.working[i] = next
	return next.Clone(), nil
}

// ClearSelection deshace la selección de la fila: vacía los campos bloqueados
// y levanta el bloqueo.
func (s *Session) ClearSelection(rowKey string) (*entity.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return nil, fmt.Errorf("deseleccionar en estado %s: %w", s.state, domain.ErrInvalidState)
	}
	i, row, err := s.findWorking(rowKey)
	if err != nil {
		return nil, err
	}
	next := rowcalc.Unbind(row, s.calcCtx)
	s.working[i] = next
	return next.Clone(), nil
}

// AddRow agrega una fila nueva a la copia de trabajo con los valores por
// defecto del bloque.
func (s *Session) AddRow() (*entity.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return nil, fmt.Errorf("agregar fila en estado %s: %w", s.state, domain.ErrInvalidState)
	}
	row := entity.NewRow(uuid.New().String())
	s.applySpecDefaults(row)
	s.working = append(s.working, row)
	return row.Clone(), nil
}

// RemoveRow quita una fila de la copia de trabajo. Las filas de solo lectura
// pertenecen a procesos automáticos y no pueden quitarse.
func (s *Session) RemoveRow(rowKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return fmt.Errorf("quitar fila en estado %s: %w", s.state, domain.ErrInvalidState)
	}
	i, row, err := s.findWorking(rowKey)
	if err != nil {
		return err
	}
	if row.Readonly {
		return fmt.Errorf("fila %s: %w", row.Key, domain.ErrRowReadonly)
	}
	s.working = append(s.working[:i], s.working[i+1:]...)
	return nil
}

// Cancel descarta la copia de trabajo sin I/O.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return fmt.Errorf("cancelar en estado %s: %w", s.state, domain.ErrInvalidState)
	}
	s.working = nil
	s.state = StateCancelled
	return nil
}

// Save ejecuta el pipeline de guardado en orden estricto: validación
// estructural, conciliación de stock (bloques de movimiento), conciliación de
// cheques (bloques de pago), escritura de filas, sincronización de agregados y
// registro del historial. Los pasos son secuenciales y sin transacción
// cruzada: el orden (conciliaciones antes de la escritura de filas) minimiza
// la ventana en que las filas puedan referenciar un estado no conciliado; un
// fallo del historial se registra pero no revierte el guardado. Ante cualquier
// otro fallo la sesión vuelve a Editing con la copia de trabajo intacta.
func (s *Session) Save(ctx context.Context) ([]*entity.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return nil, fmt.Errorf("guardar en estado %s: %w", s.state, domain.ErrInvalidState)
	}
	s.state = StateSaving

	saved, err := s.runSavePipeline(ctx)
	if err != nil {
		s.state = StateEditing
		return nil, err
	}

	s.persisted = saved
	s.working = nil
	s.state = StateViewing
	return entity.CloneRows(saved), nil
}

func (s *Session) runSavePipeline(ctx context.Context) ([]*entity.Row, error) {
	// 1) Validación estructural, siempre antes de cualquier escritura
	if err := s.validate(); err != nil {
		return nil, err
	}

	// 2) Conciliación de stock: revertir el efecto previo y aplicar el nuevo
	if s.cfg.Kind == rowcalc.TableStockMovement {
		if err := s.deps.Ledger.Reconcile(ctx, editableRows(s.persisted), editableRows(s.working)); err != nil {
			return nil, err
		}
	}

	// 3) Conciliación de cheques, una vez por fila de pago
	if s.cfg.Kind == rowcalc.TablePayment {
		saveCtx := cheque.Context{RecordID: s.recordID, Direction: s.cfg.ChequeDirection}
		for i, row := range s.working {
			if row.Readonly {
				continue
			}
			next, err := s.deps.Cheques.ReconcilePaymentRow(ctx, row, saveCtx)
			if err != nil {
				return nil, err
			}
			s.working[i] = next
		}
	}

	// 4) Escritura de la colección de filas
	for _, row := range s.working {
		row.Set(recordField, s.recordID)
	}
	saved, err := s.deps.Store.Write(ctx, s.cfg.Collection, s.working, "id")
	if err != nil {
		return nil, fmt.Errorf("escribir filas de %s: %w", s.cfg.Collection, err)
	}
	if removed := s.removedIDs(saved); len(removed) > 0 {
		if err := s.deps.Store.Delete(ctx, s.cfg.Collection, removed); err != nil {
			return nil, fmt.Errorf("eliminar filas de %s: %w", s.cfg.Collection, err)
		}
	}

	// 5) Sincronización de agregados relacionados
	if s.cfg.Kind == rowcalc.TablePayment && s.deps.Stats != nil {
		if err := s.deps.Stats.SyncPartyTotals(ctx, partyIDs(saved)); err != nil {
			return nil, fmt.Errorf("sincronizar totales: %w", err)
		}
	}

	// 6) Historial de cambios: el fallo se registra pero no revierte el guardado
	entry := &entity.ChangeLogEntry{
		ModuleID: s.cfg.ModuleID,
		RecordID: s.recordID,
		BlockID:  s.cfg.BlockID,
		Before:   s.persisted,
		After:    saved,
	}
	if err := s.deps.ChangeLog.Append(ctx, entry); err != nil && s.deps.Log != nil {
		s.deps.Log.Warn().Err(err).
			Str("module_id", s.cfg.ModuleID).
			Str("record_id", s.recordID).
			Msg("no se pudo registrar el historial de cambios")
	}

	return saved, nil
}

// validate validación estructural previa a todo I/O, según el tipo de bloque.
func (s *Session) validate() error {
	switch s.cfg.Kind {
	case rowcalc.TableStockMovement:
		return ledger.ValidateRows(s.working)
	case rowcalc.TablePayment:
		for _, row := range s.working {
			if row.Readonly {
				continue
			}
			if row.Get(entity.FieldPaymentType) == "" {
				return domain.NewValidationError(row.Key, entity.FieldPaymentType, "tipo de pago requerido")
			}
			if !numeric.Decimal(row.Get(entity.FieldAmount)).GreaterThan(decimal.Zero) {
				return domain.NewValidationError(row.Key, entity.FieldAmount, "el monto debe ser mayor a cero")
			}
		}
	case rowcalc.TableInvoiceItem, rowcalc.TableProductionOrder:
		for _, row := range s.working {
			if row.Readonly {
				continue
			}
			if row.Get(entity.FieldProductID) == "" && row.Get(entity.FieldSelectedID) == "" {
				return domain.NewValidationError(row.Key, entity.FieldProductID, "producto requerido")
			}
			if !numeric.Decimal(row.Get(entity.FieldQuantity)).GreaterThan(decimal.Zero) {
				return domain.NewValidationError(row.Key, entity.FieldQuantity, "la cantidad debe ser mayor a cero")
			}
		}
	}
	return nil
}

// removedIDs filas persistidas que ya no están en el conjunto guardado.
func (s *Session) removedIDs(saved []*entity.Row) []string {
	kept := make(map[string]bool, len(saved))
	for _, row := range saved {
		kept[row.ID] = true
	}
	var removed []string
	for _, row := range s.persisted {
		if row.ID != "" && !kept[row.ID] {
			removed = append(removed, row.ID)
		}
	}
	return removed
}

func (s *Session) findWorking(rowKey string) (int, *entity.Row, error) {
	for i, row := range s.working {
		if row.Key == rowKey {
			return i, row, nil
		}
	}
	return 0, nil, fmt.Errorf("fila %s: %w", rowKey, domain.ErrNotFound)
}

// editableRows filtra las filas de solo lectura: su efecto sobre el stock
// pertenece al proceso que las materializó, no a esta sesión.
func editableRows(rows []*entity.Row) []*entity.Row {
	out := make([]*entity.Row, 0, len(rows))
	for _, row := range rows {
		if !row.Readonly {
			out = append(out, row)
		}
	}
	return out
}

func partyIDs(rows []*entity.Row) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, row := range rows {
		id := row.Get(entity.FieldPartyID)
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
