package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lote is a depletable batch of stock for one product, received at a given
// unit cost and discount. NumeroLote is operator-entered and confirmed twice
// at entry time. Invariant: 0 <= CantidadDisponible <= CantidadInicial.
type Lote struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	NumeroLote string    `gorm:"not null"`
	// CantidadInicial is fixed at creation; only CantidadDisponible may be
	// corrected afterwards (e.g. to void part of a lot).
	CantidadInicial    int             `gorm:"not null"`
	CantidadDisponible int             `gorm:"not null"`
	CostoUnitario      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TipoDescuento      TipoDescuento   `gorm:"type:varchar(10);not null;default:'NONE'"`
	// ValorDescuento: percentage in [0,100] for PERCENT, lump sum for the
	// whole lot for FIXED.
	ValorDescuento decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ProveedorID    *uuid.UUID      `gorm:"type:uuid;index"`
	FechaCompra    time.Time
	Notas          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CostoFinalUnitario blends the discount into the unit cost:
//
//	NONE    → costo
//	PERCENT → costo × (1 − v/100)
//	FIXED   → costo − v/cantidadInicial  (lump sum spread over original units)
func (l *Lote) CostoFinalUnitario() decimal.Decimal {
	switch l.TipoDescuento {
	case DescuentoPercent:
		factor := decimal.NewFromInt(1).Sub(l.ValorDescuento.Div(decimal.NewFromInt(100)))
		return l.CostoUnitario.Mul(factor)
	case DescuentoFixed:
		if l.CantidadInicial <= 0 {
			return l.CostoUnitario
		}
		return l.CostoUnitario.Sub(l.ValorDescuento.Div(decimal.NewFromInt(int64(l.CantidadInicial))))
	default:
		return l.CostoUnitario
	}
}

// CostoPromedio is the blended valuation used wherever a single "current
// cost" figure is needed: the CostoFinalUnitario of each lot that still has
// remaining quantity, weighted by CantidadDisponible. Zero when nothing
// remains.
func CostoPromedio(lotes []Lote) decimal.Decimal {
	totalQty := decimal.Zero
	totalCost := decimal.Zero
	for i := range lotes {
		if lotes[i].CantidadDisponible <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(lotes[i].CantidadDisponible))
		totalQty = totalQty.Add(qty)
		totalCost = totalCost.Add(qty.Mul(lotes[i].CostoFinalUnitario()))
	}
	if totalQty.IsZero() {
		return decimal.Zero
	}
	return totalCost.Div(totalQty)
}
