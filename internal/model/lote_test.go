package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCostoFinalUnitario_SinDescuento(t *testing.T) {
	l := Lote{CostoUnitario: decimal.NewFromInt(100), TipoDescuento: DescuentoNone}
	assert.Equal(t, "100", l.CostoFinalUnitario().String())
}

func TestCostoFinalUnitario_Porcentual(t *testing.T) {
	// 100 con 10% → 90
	l := Lote{
		CostoUnitario:  decimal.NewFromInt(100),
		TipoDescuento:  DescuentoPercent,
		ValorDescuento: decimal.NewFromInt(10),
	}
	assert.Equal(t, "90", l.CostoFinalUnitario().String())
}

func TestCostoFinalUnitario_Fijo(t *testing.T) {
	// Descuento global de 50 sobre 10 unidades a 20 → 20 − 5 = 15
	l := Lote{
		CostoUnitario:   decimal.NewFromInt(20),
		CantidadInicial: 10,
		TipoDescuento:   DescuentoFixed,
		ValorDescuento:  decimal.NewFromInt(50),
	}
	assert.Equal(t, "15", l.CostoFinalUnitario().String())
}

func TestCostoPromedio_Ponderado(t *testing.T) {
	// (5×10 + 5×20) / 10 = 15
	lotes := []Lote{
		{CantidadDisponible: 5, CostoUnitario: decimal.NewFromInt(10), TipoDescuento: DescuentoNone},
		{CantidadDisponible: 5, CostoUnitario: decimal.NewFromInt(20), TipoDescuento: DescuentoNone},
	}
	assert.Equal(t, "15", CostoPromedio(lotes).String())
}

func TestCostoPromedio_IgnoraAgotados(t *testing.T) {
	lotes := []Lote{
		{CantidadDisponible: 0, CostoUnitario: decimal.NewFromInt(999), TipoDescuento: DescuentoNone},
		{CantidadDisponible: 4, CostoUnitario: decimal.NewFromInt(25), TipoDescuento: DescuentoNone},
	}
	assert.Equal(t, "25", CostoPromedio(lotes).String())
}

func TestCostoPromedio_SinStock(t *testing.T) {
	assert.True(t, CostoPromedio(nil).IsZero())
	assert.True(t, CostoPromedio([]Lote{{CantidadDisponible: 0}}).IsZero())
}

func TestCostoPromedio_ConDescuentos(t *testing.T) {
	// Lote A: 10 unidades a 100 con 10% → 90; Lote B: 10 a 80 sin descuento
	// Promedio = (10×90 + 10×80) / 20 = 85
	lotes := []Lote{
		{
			CantidadDisponible: 10,
			CostoUnitario:      decimal.NewFromInt(100),
			TipoDescuento:      DescuentoPercent,
			ValorDescuento:     decimal.NewFromInt(10),
		},
		{CantidadDisponible: 10, CostoUnitario: decimal.NewFromInt(80), TipoDescuento: DescuentoNone},
	}
	assert.Equal(t, "85", CostoPromedio(lotes).String())
}
