package rowcalc

import (
	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
)

// Claves que identifican a la referencia dentro del mapa de campos recibido.
const (
	refIDField   = "id"
	refNameField = "name"
)

// BindOptions cómo se aplica un registro de referencia sobre una fila.
type BindOptions struct {
	// Fields campos visibles de la fila a poblar desde la referencia.
	Fields []string
	// FieldMap remapa nombre de campo de fila -> nombre en la referencia,
	// cuando difieren.
	FieldMap map[string]string
	// Editable campos que permanecen editables después de la selección;
	// todo campo copiado fuera de esta lista queda bloqueado hasta Unbind.
	Editable []string
}

// Bind aplica el registro de referencia (producto elegido, destino de una
// relación, resultado de un escaneo de código) sobre la fila: copia los campos
// mapeados, guarda la identidad en los atributos selected_*, bloquea los
// campos no editables y recalcula los derivados. Devuelve una fila nueva.
func Bind(row *entity.Row, ref map[string]string, opts BindOptions, ctx Context) *entity.Row {
	next := row.Clone()
	editable := make(map[string]bool, len(opts.Editable))
	for _, f := range opts.Editable {
		editable[f] = true
	}
	for _, f := range opts.Fields {
		src := f
		if m, ok := opts.FieldMap[f]; ok && m != "" {
			src = m
		}
		v, ok := ref[src]
		if !ok {
			continue
		}
		next.Set(f, normalizeForSpec(f, v, ctx))
		if !editable[f] {
			next.Lock(f)
		}
	}
	next.Set(entity.FieldSelectedID, ref[refIDField])
	next.Set(entity.FieldSelectedName, ref[refNameField])
	Recompute(next, ctx)
	return next
}

// Unbind limpia la selección: los campos bloqueados se vacían (no se restaura
// su valor previo al bind), se borra el conjunto de bloqueo y los atributos
// selected_*, y se recalculan los derivados. Devuelve una fila nueva.
func Unbind(row *entity.Row, ctx Context) *entity.Row {
	next := row.Clone()
	for _, f := range next.LockedFields() {
		next.Set(f, "")
	}
	next.Locked = make(map[string]bool)
	next.Set(entity.FieldSelectedID, "")
	next.Set(entity.FieldSelectedName, "")
	Recompute(next, ctx)
	return next
}
