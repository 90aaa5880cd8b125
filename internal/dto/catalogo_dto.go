package dto

// CatalogoResponse maps canonical (and accent-stripped) names to the numeric
// ids legacy consumers key on. Both maps may be empty when the catalog could
// not be fetched — callers treat that as degraded mode, not an error.
type CatalogoResponse struct {
	TiposMovimiento map[string]int `json:"tipos_movimiento"`
	MetodosPago     map[string]int `json:"metodos_pago"`
}
