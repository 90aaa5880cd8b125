package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearLoteRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	NumeroLote string `json:"numero_lote" validate:"required"`
	// NumeroLoteConfirmacion must repeat NumeroLote exactly (double-entry
	// integrity check at the boundary).
	NumeroLoteConfirmacion string          `json:"numero_lote_confirmacion" validate:"required"`
	Cantidad               int             `json:"cantidad" validate:"required,gt=0"`
	CostoUnitario          decimal.Decimal `json:"costo_unitario" validate:"required,gt=0"`
	TipoDescuento          string          `json:"tipo_descuento" validate:"omitempty,oneof=NONE PERCENT FIXED"`
	ValorDescuento         decimal.Decimal `json:"valor_descuento" validate:"min=0"`
	ProveedorID            *string         `json:"proveedor_id" validate:"omitempty,uuid"`
	FechaCompra            *string         `json:"fecha_compra"` // RFC 3339; defaults to now
	Notas                  string          `json:"notas"`
}

type CorregirDisponibleRequest struct {
	CantidadDisponible int `json:"cantidad_disponible" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoteResponse struct {
	ID                 string          `json:"id"`
	ProductoID         string          `json:"producto_id"`
	NumeroLote         string          `json:"numero_lote"`
	CantidadInicial    int             `json:"cantidad_inicial"`
	CantidadDisponible int             `json:"cantidad_disponible"`
	CostoUnitario      decimal.Decimal `json:"costo_unitario"`
	TipoDescuento      string          `json:"tipo_descuento"`
	ValorDescuento     decimal.Decimal `json:"valor_descuento"`
	CostoFinalUnitario decimal.Decimal `json:"costo_final_unitario"`
	ProveedorID        *string         `json:"proveedor_id,omitempty"`
	FechaCompra        string          `json:"fecha_compra"`
	Notas              string          `json:"notas,omitempty"`
}

type CostoPromedioResponse struct {
	ProductoID    string          `json:"producto_id"`
	CostoPromedio decimal.Decimal `json:"costo_promedio"`
	// LotesActivos counts lots with remaining quantity that entered the blend.
	LotesActivos int `json:"lotes_activos"`
}
