package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CompraLineaRequest struct {
	ProductoID             string          `json:"producto_id" validate:"required,uuid"`
	Cantidad               int             `json:"cantidad" validate:"required,gt=0"`
	PrecioUnitario         decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	NumeroLote             string          `json:"numero_lote" validate:"required"`
	NumeroLoteConfirmacion string          `json:"numero_lote_confirmacion" validate:"required"`
	TipoDescuento          string          `json:"tipo_descuento" validate:"omitempty,oneof=NONE PERCENT FIXED"`
	ValorDescuento         decimal.Decimal `json:"valor_descuento" validate:"min=0"`
	Notas                  string          `json:"notas"`
}

type RegistrarCompraRequest struct {
	ProveedorID string               `json:"proveedor_id" validate:"required,uuid"`
	MetodoPago  string               `json:"metodo_pago" validate:"required"`
	Nota        string               `json:"nota"`
	Lineas      []CompraLineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CompraLineaResponse struct {
	ProductoID     string          `json:"producto_id"`
	LoteID         string          `json:"lote_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	MontoNeto      decimal.Decimal `json:"monto_neto"`
}

type CompraResponse struct {
	ID           string                `json:"id"`
	Fecha        string                `json:"fecha"`
	ProveedorID  string                `json:"proveedor_id"`
	OperadorID   string                `json:"operador_id"`
	MetodoPago   string                `json:"metodo_pago"`
	MontoTotal   decimal.Decimal       `json:"monto_total"`
	MovimientoID string                `json:"movimiento_id"`
	Lineas       []CompraLineaResponse `json:"lineas"`
}
