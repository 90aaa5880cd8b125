package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "CREDITO", NormalizeName("Crédito"))
	assert.Equal(t, "CREDITO", NormalizeName("  credito "))
	assert.Equal(t, "TRANSFERENCIA", NormalizeName("transferencia"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestParseTipoMovimiento(t *testing.T) {
	casos := map[string]TipoMovimiento{
		"INGRESO": TipoIngreso,
		"ingreso": TipoIngreso,
		"Egreso":  TipoEgreso,
		"AJUSTE":  TipoAjuste,
		"reverso": TipoReverso,
	}
	for entrada, esperado := range casos {
		got, err := ParseTipoMovimiento(entrada)
		require.NoError(t, err, entrada)
		assert.Equal(t, esperado, got)
	}

	_, err := ParseTipoMovimiento("RETIRO")
	assert.ErrorContains(t, err, "tipo de movimiento desconocido")
}

func TestParseMetodoPago_Aliases(t *testing.T) {
	casos := map[string]MetodoPago{
		"EFECTIVO": MetodoEfectivo,
		"cash":     MetodoEfectivo,
		"EF":       MetodoEfectivo,
		"CARD":     MetodoTarjeta,
		"debito":   MetodoTarjeta,
		"TRANSF":   MetodoTransferencia,
		"transfer": MetodoTransferencia,
		"Crédito":  MetodoCredito,
		"CREDIT":   MetodoCredito,
		"other":    MetodoOtro,
	}
	for entrada, esperado := range casos {
		got, err := ParseMetodoPago(entrada)
		require.NoError(t, err, entrada)
		assert.Equal(t, esperado, got, entrada)
	}

	_, err := ParseMetodoPago("BITCOIN")
	assert.ErrorContains(t, err, "metodo de pago desconocido")
}

func TestParseTipoDescuento(t *testing.T) {
	got, err := ParseTipoDescuento("")
	require.NoError(t, err)
	assert.Equal(t, DescuentoNone, got)

	got, err = ParseTipoDescuento("percent")
	require.NoError(t, err)
	assert.Equal(t, DescuentoPercent, got)

	got, err = ParseTipoDescuento("FIXED")
	require.NoError(t, err)
	assert.Equal(t, DescuentoFixed, got)

	_, err = ParseTipoDescuento("COMBO")
	assert.Error(t, err)
}
