package numeric

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

// Normalize convierte una entrada numérica localizada a su forma canónica ASCII:
// dígitos persas (۰-۹) y arábigos orientales (٠-٩) se traducen a 0-9, los
// separadores de miles (coma, U+066C, espacios, guión bajo) se descartan, se
// conserva un único signo inicial y un único punto decimal (٫ se traduce a punto).
// Una entrada que no pueda interpretarse como número se normaliza a "0".
// La función es idempotente: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	s := width.Fold.String(strings.TrimSpace(raw))
	var b strings.Builder
	seenDigit := false
	seenPoint := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			seenDigit = true
		case r >= '۰' && r <= '۹': // dígitos persas
			b.WriteRune('0' + (r - '۰'))
			seenDigit = true
		case r >= '٠' && r <= '٩': // dígitos arábigos orientales
			b.WriteRune('0' + (r - '٠'))
			seenDigit = true
		case r == '-' || r == '+':
			if i != 0 {
				return "0"
			}
			if r == '-' {
				b.WriteRune('-')
			}
		case r == '.' || r == '٫': // punto decimal (٫ incluido)
			if seenPoint {
				return "0"
			}
			b.WriteRune('.')
			seenPoint = true
		case r == ',' || r == '٬' || r == ' ' || r == ' ' || r == ' ' || r == '_':
			// separador de miles: se descarta
		default:
			return "0"
		}
	}
	if !seenDigit {
		return "0"
	}
	out := b.String()
	out = strings.TrimSuffix(out, ".")
	if strings.HasPrefix(out, ".") {
		out = "0" + out
	} else if strings.HasPrefix(out, "-.") {
		out = "-0" + out[1:]
	}
	return out
}

// Decimal normaliza y parsea la entrada; si no es interpretable devuelve cero.
func Decimal(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(Normalize(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// PercentOrAmount interpreta un campo "porcentaje o monto": un sufijo % (o ٪)
// marca el valor como porcentaje; sin sufijo es un monto absoluto.
func PercentOrAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(width.Fold.String(raw))
	isPercent := false
	for _, suffix := range []string{"%", "٪"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			isPercent = true
		}
	}
	return Decimal(s), isPercent
}
