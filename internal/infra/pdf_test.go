package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"almapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCierrePDF(t *testing.T) {
	dir := t.TempDir()

	esperado := decimal.NewFromInt(15000)
	contado := decimal.NewFromInt(14800)
	desvio := decimal.NewFromInt(-200)
	notas := "faltante declarado en turno noche"
	now := time.Now()

	sesion := &model.SesionCaja{
		ID:            uuid.New(),
		OperadorID:    uuid.New(),
		MontoApertura: decimal.NewFromInt(5000),
		MontoEsperado: &esperado,
		MontoCierre:   &contado,
		Desvio:        &desvio,
		Estado:        model.EstadoCerrada,
		NotasCierre:   &notas,
		OpenedAt:      now.Add(-8 * time.Hour),
		ClosedAt:      &now,
	}
	movs := []model.Movimiento{
		{SesionCajaID: sesion.ID, Tipo: model.TipoIngreso, MetodoPago: model.MetodoEfectivo,
			Monto: decimal.NewFromInt(10000), Referencia: "venta 1"},
		{SesionCajaID: sesion.ID, Tipo: model.TipoEgreso, MetodoPago: model.MetodoTarjeta,
			Monto: decimal.NewFromInt(-500), Referencia: "pago proveedor"},
	}

	path, err := GenerateCierrePDF(sesion, movs, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cierre_"+sesion.ID.String()+".pdf"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500))

	// Regeneration over the same path is idempotent
	_, err = GenerateCierrePDF(sesion, movs, dir)
	assert.NoError(t, err)
}
