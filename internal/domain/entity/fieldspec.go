package entity

// Tipos semánticos de campo. El despacho del motor de reglas se hace por este
// enum, nunca comparando nombres de campo sueltos.
type FieldType string

const (
	FieldTypeNumber          FieldType = "number"
	FieldTypePrice           FieldType = "price"
	FieldTypePercentage      FieldType = "percentage"
	FieldTypePercentOrAmount FieldType = "percentage_or_amount"
	FieldTypeSelect          FieldType = "select"
	FieldTypeRelation        FieldType = "relation"
	FieldTypeStatus          FieldType = "status"
	FieldTypeDate            FieldType = "date"
	FieldTypeDateTime        FieldType = "datetime"
	FieldTypeText            FieldType = "text"
)

// Numeric indica si el tipo participa de la normalización numérica.
func (t FieldType) Numeric() bool {
	switch t {
	case FieldTypeNumber, FieldTypePrice, FieldTypePercentage:
		return true
	}
	return false
}

// FieldCondition condición campo=valor que fuerza solo-lectura.
type FieldCondition struct {
	Field string
	Value string
}

// FieldSpec descripción estática de una columna de la grilla.
type FieldSpec struct {
	Key          string
	Label        string
	Type         FieldType
	Default      string
	Filterable   bool
	ReadonlyWhen *FieldCondition
	// Category clave para listas de opciones provistas externamente
	// (tipo select o relation).
	Category string
}

// SpecsByKey indexa las especificaciones por clave de campo.
func SpecsByKey(specs []FieldSpec) map[string]FieldSpec {
	m := make(map[string]FieldSpec, len(specs))
	for _, s := range specs {
		m[s.Key] = s
	}
	return m
}
