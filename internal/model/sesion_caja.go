package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SesionCaja represents the lifecycle of an operator's cash drawer.
// Estado: "abierta" | "cerrada". At most one session per operator may be
// abierta at a time; the only mutation after creation is the terminal
// abierta → cerrada transition. Sessions are never reopened or deleted.
type SesionCaja struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OperadorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MontoApertura decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MontoEsperado is computed on close: MontoApertura + SUM(movimientos EFECTIVO)
	MontoEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// MontoCierre is the operator's counted amount. It may differ from
	// MontoEsperado: the close is never blocked, the gap is kept as Desvio.
	MontoCierre *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Desvio      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado      string           `gorm:"type:varchar(20);not null;default:'abierta'"`
	NotasCierre *string
	OpenedAt    time.Time
	ClosedAt    *time.Time

	Movimientos []Movimiento `gorm:"foreignKey:SesionCajaID"`
}

const (
	EstadoAbierta = "abierta"
	EstadoCerrada = "cerrada"
)

// TableName overrides GORM's pluralization (sesion_cajas → sesiones_caja).
func (SesionCaja) TableName() string { return "sesiones_caja" }

// Movimiento is an immutable, signed entry in the cash ledger.
// Movements are NEVER modified or deleted — corrections create new REVERSO
// entries pointing at the original through ReversoDe.
type Movimiento struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID      `gorm:"type:uuid;index;not null"`
	Tipo         TipoMovimiento `gorm:"type:varchar(20);not null"`
	MetodoPago   MetodoPago     `gorm:"type:varchar(20);not null"`
	// Catalog ids are resolved best-effort at creation time; a missing
	// mapping never blocks the append.
	TipoMovimientoID *int `gorm:"type:int"`
	MetodoPagoID     *int `gorm:"type:int"`
	// Monto carries the sign: egresos negative, ingresos positive.
	Monto decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Referencia links the originating venta, compra or manual operation.
	Referencia string     `gorm:"not null"`
	ReversoDe  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time
}

// TableName overrides GORM's pluralization (movimientoes → movimientos).
func (Movimiento) TableName() string { return "movimientos" }
