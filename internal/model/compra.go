package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra is the persisted receipt of a purchase registration: N lots created
// plus exactly one EGRESO movement, all inside one transaction.
type Compra struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProveedorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OperadorID  uuid.UUID       `gorm:"type:uuid;not null"`
	MetodoPago  MetodoPago      `gorm:"type:varchar(20);not null"`
	MontoTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Nota        string
	CreatedAt   time.Time

	Lineas []CompraLinea `gorm:"foreignKey:CompraID"`
}

// CompraLinea records one purchase line and the lot it produced.
type CompraLinea struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	LoteID         uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MontoNeto = cantidad × precio − descuento, clamped to ≥ 0.
	MontoNeto decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName overrides GORM's pluralization (compra_lineas is already right,
// but keep it explicit next to the parent).
func (CompraLinea) TableName() string { return "compra_lineas" }
