package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarMovimientoRequest struct {
	// SesionCajaID is optional: when empty the handler resolves the
	// operator's open session.
	SesionCajaID string `json:"sesion_caja_id" validate:"omitempty,uuid"`
	// Tipo accepts the canonical names case-insensitively.
	Tipo string `json:"tipo" validate:"required"`
	// MetodoPago accepts historical aliases (CASH, EF, CARD, TRANSF, …).
	MetodoPago string `json:"metodo_pago" validate:"required"`
	// Monto is an unsigned magnitude for INGRESO/EGRESO. For AJUSTE/REVERSO
	// without an explicit Signo the sign of the raw value is preserved.
	Monto      decimal.Decimal `json:"monto" validate:"required"`
	Referencia string          `json:"referencia" validate:"required,min=3"`
	// Signo forces the direction of AJUSTE/REVERSO entries: 1 or -1.
	//
	// Deprecated: omitting Signo falls back to the sign of Monto. That legacy
	// rule is kept for old clients; new callers must always send Signo for
	// AJUSTE and REVERSO.
	Signo *int `json:"signo" validate:"omitempty,oneof=-1 1"`
}

type ReversoRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID           string          `json:"id"`
	SesionCajaID string          `json:"sesion_caja_id"`
	Tipo         string          `json:"tipo"`
	MetodoPago   string          `json:"metodo_pago"`
	Monto        decimal.Decimal `json:"monto"`
	Referencia   string          `json:"referencia"`
	ReversoDe    *string         `json:"reverso_de,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

// MetodoResumen is the per-method breakdown of a session's ledger.
type MetodoResumen struct {
	Ingresos decimal.Decimal `json:"ingresos"`
	Egresos  decimal.Decimal `json:"egresos"`
	Neto     decimal.Decimal `json:"neto"`
}

type ResumenSesionResponse struct {
	SesionCajaID string `json:"sesion_caja_id"`
	// SaldoEfectivo sums signed amounts over EFECTIVO entries only; the
	// session's opening amount is reported separately and is not an entry.
	SaldoEfectivo decimal.Decimal `json:"saldo_efectivo"`
	// SaldoTotal adds the electronic net, which may be negative.
	SaldoTotal decimal.Decimal          `json:"saldo_total"`
	PorMetodo  map[string]MetodoResumen `json:"por_metodo"`
}
