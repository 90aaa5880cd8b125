package model

import (
	"strings"
	"unicode"

	"almapos/internal/apierror"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Historical clients spell movement types and payment methods several ways
// (English aliases, abbreviations, accented forms). All input is parsed ONCE
// at the boundary into these closed types; unknown values are rejected with a
// typed validation error instead of threading raw strings through the core.

// TipoMovimiento is the movement type of a ledger entry.
type TipoMovimiento string

const (
	TipoIngreso TipoMovimiento = "INGRESO"
	TipoEgreso  TipoMovimiento = "EGRESO"
	TipoAjuste  TipoMovimiento = "AJUSTE"
	TipoReverso TipoMovimiento = "REVERSO"
)

// MetodoPago is one of the five canonical payment channels.
type MetodoPago string

const (
	MetodoEfectivo      MetodoPago = "EFECTIVO"
	MetodoTarjeta       MetodoPago = "TARJETA"
	MetodoTransferencia MetodoPago = "TRANSFERENCIA"
	MetodoCredito       MetodoPago = "CREDITO"
	MetodoOtro          MetodoPago = "OTRO"
)

// MetodosPago lists the canonical methods in reporting order.
var MetodosPago = []MetodoPago{
	MetodoEfectivo, MetodoTarjeta, MetodoTransferencia, MetodoCredito, MetodoOtro,
}

// TipoDescuento is the lot discount mode. Names are fixed by the wire contract.
type TipoDescuento string

const (
	DescuentoNone    TipoDescuento = "NONE"
	DescuentoPercent TipoDescuento = "PERCENT"
	DescuentoFixed   TipoDescuento = "FIXED"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName uppercases and strips accents so that "Crédito", "credito"
// and "CREDITO" all compare equal. Used for enum aliases and catalog keys.
func NormalizeName(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

var tipoMovimientoAliases = map[string]TipoMovimiento{
	"INGRESO": TipoIngreso,
	"EGRESO":  TipoEgreso,
	"AJUSTE":  TipoAjuste,
	"REVERSO": TipoReverso,
}

// ParseTipoMovimiento matches case- and accent-insensitively against the
// allowed set.
func ParseTipoMovimiento(s string) (TipoMovimiento, error) {
	if t, ok := tipoMovimientoAliases[NormalizeName(s)]; ok {
		return t, nil
	}
	return "", apierror.Validationf("tipo de movimiento desconocido: %q", s)
}

var metodoPagoAliases = map[string]MetodoPago{
	"EFECTIVO":      MetodoEfectivo,
	"EF":            MetodoEfectivo,
	"CASH":          MetodoEfectivo,
	"TARJETA":       MetodoTarjeta,
	"CARD":          MetodoTarjeta,
	"DEBITO":        MetodoTarjeta,
	"TRANSFERENCIA": MetodoTransferencia,
	"TRANSFER":      MetodoTransferencia,
	"TRANSF":        MetodoTransferencia,
	"CREDITO":       MetodoCredito,
	"CREDIT":        MetodoCredito,
	"OTRO":          MetodoOtro,
	"OTHER":         MetodoOtro,
}

// ParseMetodoPago normalizes historical spellings to one of the canonical
// five methods.
func ParseMetodoPago(s string) (MetodoPago, error) {
	if m, ok := metodoPagoAliases[NormalizeName(s)]; ok {
		return m, nil
	}
	return "", apierror.Validationf("metodo de pago desconocido: %q", s)
}

// ParseTipoDescuento accepts the contract names plus the empty string, which
// means no discount.
func ParseTipoDescuento(s string) (TipoDescuento, error) {
	switch NormalizeName(s) {
	case "", "NONE":
		return DescuentoNone, nil
	case "PERCENT":
		return DescuentoPercent, nil
	case "FIXED":
		return DescuentoFixed, nil
	}
	return "", apierror.Validationf("tipo de descuento desconocido: %q", s)
}
