package entity

// Claves de campo compartidas entre bloques (movimientos, ítems de factura, pagos).
const (
	FieldVoucherType = "voucher_type"
	FieldSource      = "source"
	FieldProductID   = "product_id"
	FieldQuantity    = "quantity"
	FieldSubQuantity = "sub_quantity"
	FieldFromShelf   = "from_shelf"
	FieldToShelf     = "to_shelf"

	FieldHasDimensions = "has_dimensions"
	FieldLength        = "length"
	FieldWidth         = "width"
	FieldMainUnit      = "main_unit"
	FieldSubUnit       = "sub_unit"
	FieldUnitFactor    = "unit_factor"

	FieldUnitPrice  = "unit_price"
	FieldDiscount   = "discount"
	FieldTax        = "tax"
	FieldTotalPrice = "total_price"

	FieldPaymentType   = "payment_type"
	FieldAmount        = "amount"
	FieldPartyID       = "party_id"
	FieldBankAccountID = "bank_account_id"
	FieldDueDate       = "due_date"
	FieldChequeID      = "cheque_id"
	FieldChequeOwned   = "cheque_owned"

	FieldSelectedID   = "selected_id"
	FieldSelectedName = "selected_name"
)

// PaymentTypeCheque es el tipo de pago que dispara la conciliación de cheques.
const PaymentTypeCheque = "cheque"

// Row es una fila editable de una colección (ítem de factura, pago, movimiento
// de stock, inventario por estante). Key es la identidad estable del lado
// cliente y no se persiste como campo; ID es la identidad del servidor y queda
// vacía para filas nuevas. Locked contiene los campos no editables por una
// selección activa; Readonly marca filas materializadas por procesos
// automáticos que no admiten edición manual.
type Row struct {
	Key      string
	ID       string
	Fields   map[string]string
	Locked   map[string]bool
	Readonly bool
}

// NewRow crea una fila vacía con la identidad de cliente dada.
func NewRow(key string) *Row {
	return &Row{
		Key:    key,
		Fields: make(map[string]string),
		Locked: make(map[string]bool),
	}
}

// Clone devuelve una copia profunda de la fila.
func (r *Row) Clone() *Row {
	c := &Row{
		Key:      r.Key,
		ID:       r.ID,
		Fields:   make(map[string]string, len(r.Fields)),
		Locked:   make(map[string]bool, len(r.Locked)),
		Readonly: r.Readonly,
	}
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	for k := range r.Locked {
		c.Locked[k] = true
	}
	return c
}

// Get devuelve el valor del campo (vacío si no existe).
func (r *Row) Get(field string) string {
	return r.Fields[field]
}

// Set asigna el valor del campo.
func (r *Row) Set(field, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	r.Fields[field] = value
}

// IsLocked indica si el campo está bloqueado por una selección.
func (r *Row) IsLocked(field string) bool {
	return r.Locked[field]
}

// Lock marca campos como no editables.
func (r *Row) Lock(fields ...string) {
	if r.Locked == nil {
		r.Locked = make(map[string]bool)
	}
	for _, f := range fields {
		r.Locked[f] = true
	}
}

// LockedFields devuelve los campos bloqueados (orden no garantizado).
func (r *Row) LockedFields() []string {
	out := make([]string, 0, len(r.Locked))
	for f := range r.Locked {
		out = append(out, f)
	}
	return out
}

// CloneRows copia profunda de una colección de filas.
func CloneRows(rows []*Row) []*Row {
	out := make([]*Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
