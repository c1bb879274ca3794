package numeric_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conciliador-api/internal/domain/numeric"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests Normalize
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalize_DigitosPersasYSeparadores(t *testing.T) {
	// ۱۲٬۳۴۰٫۵ = dígitos persas, separador de miles U+066C y coma decimal U+066B
	assert.Equal(t, "12340.5", numeric.Normalize("۱۲٬۳۴۰٫۵"))
}

func TestNormalize_DigitosArabigosOrientales(t *testing.T) {
	assert.Equal(t, "543", numeric.Normalize("٥٤٣"))
}

func TestNormalize_SeparadoresDeMiles(t *testing.T) {
	assert.Equal(t, "1234.56", numeric.Normalize("1,234.56"))
	assert.Equal(t, "1000000", numeric.Normalize("1_000_000"))
	assert.Equal(t, "1234", numeric.Normalize("1 234")) // NBSP como separador
}

func TestNormalize_AnchoCompleto(t *testing.T) {
	assert.Equal(t, "123", numeric.Normalize("１２３"))
}

func TestNormalize_Signos(t *testing.T) {
	assert.Equal(t, "-12", numeric.Normalize("-12"))
	assert.Equal(t, "12", numeric.Normalize("+12"))
	// signo en posición no inicial no es un número
	assert.Equal(t, "0", numeric.Normalize("12-3"))
}

func TestNormalize_PuntoDecimal(t *testing.T) {
	assert.Equal(t, "0.5", numeric.Normalize(".5"))
	assert.Equal(t, "-0.5", numeric.Normalize("-.5"))
	assert.Equal(t, "12", numeric.Normalize("12."))
	// dos puntos decimales no son un número
	assert.Equal(t, "0", numeric.Normalize("1.2.3"))
}

func TestNormalize_EntradaNoInterpretable(t *testing.T) {
	assert.Equal(t, "0", numeric.Normalize("abc"))
	assert.Equal(t, "0", numeric.Normalize(""))
	assert.Equal(t, "0", numeric.Normalize("  "))
	assert.Equal(t, "0", numeric.Normalize("-"))
}

func TestNormalize_Idempotencia(t *testing.T) {
	entradas := []string{"۱۲٬۳۴۰٫۵", "1,234.56", "٥٤٣", "-.5", "abc", "", "12.", "+7"}
	for _, in := range entradas {
		once := numeric.Normalize(in)
		assert.Equal(t, once, numeric.Normalize(once), "Normalize debe ser idempotente para %q", in)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Decimal y PercentOrAmount
// ──────────────────────────────────────────────────────────────────────────────

func TestDecimal_EntradaInvalidaEsCero(t *testing.T) {
	assert.True(t, numeric.Decimal("no-numero").IsZero())
	assert.True(t, numeric.Decimal("").IsZero())
}

func TestDecimal_ParseaNormalizado(t *testing.T) {
	d := numeric.Decimal("۲٫۵")
	require.True(t, d.Equal(decimal.RequireFromString("2.5")), "esperaba 2.5, obtuve %s", d)
}

func TestPercentOrAmount_SufijoPorcentaje(t *testing.T) {
	v, esPct := numeric.PercentOrAmount("10%")
	assert.True(t, esPct)
	assert.True(t, v.Equal(decimal.NewFromInt(10)))

	// sufijo ٪ (porcentaje arábigo)
	v, esPct = numeric.PercentOrAmount("٥٪")
	assert.True(t, esPct)
	assert.True(t, v.Equal(decimal.NewFromInt(5)))
}

func TestPercentOrAmount_SinSufijoEsMonto(t *testing.T) {
	v, esPct := numeric.PercentOrAmount("15")
	assert.False(t, esPct)
	assert.True(t, v.Equal(decimal.NewFromInt(15)))
}
