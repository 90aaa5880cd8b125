package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	MontoApertura decimal.Decimal `json:"monto_apertura" validate:"min=0"`
}

type CerrarCajaRequest struct {
	MontoContado decimal.Decimal `json:"monto_contado" validate:"min=0"`
	Notas        *string         `json:"notas"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SesionCajaResponse struct {
	SesionCajaID  string          `json:"sesion_caja_id"`
	OperadorID    string          `json:"operador_id"`
	MontoApertura decimal.Decimal `json:"monto_apertura"`
	Estado        string          `json:"estado"`
	OpenedAt      string          `json:"opened_at"`
	ClosedAt      *string         `json:"closed_at,omitempty"`
}

// SesionAbiertaResponse mirrors the legacy "session/open" shape: callers
// check Open before touching the rest.
type SesionAbiertaResponse struct {
	Open   bool                `json:"open"`
	Sesion *SesionCajaResponse `json:"sesion,omitempty"`
	// Server-computed running balances for the open session.
	SaldoEfectivo *decimal.Decimal `json:"saldo_efectivo,omitempty"`
	SaldoTotal    *decimal.Decimal `json:"saldo_total,omitempty"`
}

type CierreCajaResponse struct {
	SesionCajaID  string          `json:"sesion_caja_id"`
	MontoEsperado decimal.Decimal `json:"monto_esperado"`
	MontoContado  decimal.Decimal `json:"monto_contado"`
	// Desvio = contado − esperado. Recorded as data, never a rejection.
	Desvio   decimal.Decimal `json:"desvio"`
	Estado   string          `json:"estado"`
	Notas    *string         `json:"notas,omitempty"`
	ClosedAt string          `json:"closed_at"`
}

type ReporteCajaResponse struct {
	SesionCajaID  string           `json:"sesion_caja_id"`
	OperadorID    string           `json:"operador_id"`
	MontoApertura decimal.Decimal  `json:"monto_apertura"`
	MontoEsperado *decimal.Decimal `json:"monto_esperado,omitempty"`
	MontoCierre   *decimal.Decimal `json:"monto_cierre,omitempty"`
	Desvio        *decimal.Decimal `json:"desvio,omitempty"`
	Estado        string           `json:"estado"`
	NotasCierre   *string          `json:"notas_cierre,omitempty"`
	OpenedAt      string           `json:"opened_at"`
	ClosedAt      *string          `json:"closed_at,omitempty"`
}
