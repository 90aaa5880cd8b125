package service

import (
	"context"
	"testing"

	"almapos/internal/dto"
	"almapos/internal/model"
	"almapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory LoteRepository ─────────────────────────────────────────────────

type fakeLoteRepo struct {
	lotes     map[uuid.UUID]*model.Lote
	createErr error
}

func newFakeLoteRepo() *fakeLoteRepo {
	return &fakeLoteRepo{lotes: make(map[uuid.UUID]*model.Lote)}
}

func (r *fakeLoteRepo) Create(_ context.Context, l *model.Lote) error {
	return r.guardar(l)
}

func (r *fakeLoteRepo) CreateTx(_ *gorm.DB, l *model.Lote) error {
	return r.guardar(l)
}

func (r *fakeLoteRepo) guardar(l *model.Lote) error {
	if r.createErr != nil {
		return r.createErr
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lotes[l.ID] = l
	return nil
}

func (r *fakeLoteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Lote, error) {
	l, ok := r.lotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *fakeLoteRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.Lote, error) {
	var result []model.Lote
	for _, l := range r.lotes {
		if l.ProductoID == productoID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (r *fakeLoteRepo) UpdateDisponible(_ context.Context, id uuid.UUID, cantidad int) error {
	l, ok := r.lotes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.CantidadDisponible = cantidad
	return nil
}

func (r *fakeLoteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.lotes, id)
	return nil
}

var _ repository.LoteRepository = (*fakeLoteRepo)(nil)

func loteValido(productoID uuid.UUID) dto.CrearLoteRequest {
	return dto.CrearLoteRequest{
		ProductoID:             productoID.String(),
		NumeroLote:             "L-2026-001",
		NumeroLoteConfirmacion: "L-2026-001",
		Cantidad:               10,
		CostoUnitario:          decimal.NewFromInt(20),
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCrearLote(t *testing.T) {
	repo := newFakeLoteRepo()
	svc := NewLoteService(repo)

	resp, err := svc.Crear(context.Background(), loteValido(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, 10, resp.CantidadInicial)
	assert.Equal(t, 10, resp.CantidadDisponible)
	assert.Equal(t, "NONE", resp.TipoDescuento)
	assert.Equal(t, "20", resp.CostoFinalUnitario.String())
}

func TestCrearLote_ConfirmacionNoCoincide(t *testing.T) {
	svc := NewLoteService(newFakeLoteRepo())

	req := loteValido(uuid.New())
	req.NumeroLoteConfirmacion = "L-2026-002"
	_, err := svc.Crear(context.Background(), req)
	assert.ErrorContains(t, err, "no coinciden")
}

func TestCrearLote_DescuentoPorcentualFueraDeRango(t *testing.T) {
	svc := NewLoteService(newFakeLoteRepo())

	req := loteValido(uuid.New())
	req.TipoDescuento = "PERCENT"
	req.ValorDescuento = decimal.NewFromInt(110)
	_, err := svc.Crear(context.Background(), req)
	assert.ErrorContains(t, err, "entre 0 y 100")
}

func TestCrearLote_CostoCero(t *testing.T) {
	svc := NewLoteService(newFakeLoteRepo())

	req := loteValido(uuid.New())
	req.CostoUnitario = decimal.Zero
	_, err := svc.Crear(context.Background(), req)
	assert.ErrorContains(t, err, "mayor a cero")
}

func TestCrearLote_FechaCompraInvalida(t *testing.T) {
	svc := NewLoteService(newFakeLoteRepo())

	fecha := "29/08/2026"
	req := loteValido(uuid.New())
	req.FechaCompra = &fecha
	_, err := svc.Crear(context.Background(), req)
	assert.ErrorContains(t, err, "fecha_compra invalida")
}

func TestCorregirDisponible(t *testing.T) {
	repo := newFakeLoteRepo()
	svc := NewLoteService(repo)

	creado, err := svc.Crear(context.Background(), loteValido(uuid.New()))
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	resp, err := svc.CorregirDisponible(context.Background(), id, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.CantidadDisponible)
	assert.Equal(t, 10, resp.CantidadInicial)

	// Fuera de rango: nunca por encima de la cantidad inicial ni negativo
	_, err = svc.CorregirDisponible(context.Background(), id, 11)
	assert.ErrorContains(t, err, "entre 0 y 10")
	_, err = svc.CorregirDisponible(context.Background(), id, -1)
	assert.ErrorContains(t, err, "entre 0 y 10")

	// Cero es valido: lote agotado
	resp, err = svc.CorregirDisponible(context.Background(), id, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CantidadDisponible)
}

func TestEliminarLote(t *testing.T) {
	repo := newFakeLoteRepo()
	svc := NewLoteService(repo)

	creado, err := svc.Crear(context.Background(), loteValido(uuid.New()))
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	require.NoError(t, svc.Eliminar(context.Background(), id))
	_, err = svc.Obtener(context.Background(), id)
	assert.ErrorContains(t, err, "no encontrado")

	// Doble eliminacion
	assert.ErrorContains(t, svc.Eliminar(context.Background(), id), "no encontrado")
}

func TestCostoPromedioDeProducto(t *testing.T) {
	repo := newFakeLoteRepo()
	svc := NewLoteService(repo)
	producto := uuid.New()

	// Lote 1: 5 disponibles a 10; Lote 2: 5 disponibles a 20 → promedio 15
	req := loteValido(producto)
	req.Cantidad = 5
	req.CostoUnitario = decimal.NewFromInt(10)
	_, err := svc.Crear(context.Background(), req)
	require.NoError(t, err)

	req = loteValido(producto)
	req.NumeroLote, req.NumeroLoteConfirmacion = "L-2026-002", "L-2026-002"
	req.Cantidad = 5
	req.CostoUnitario = decimal.NewFromInt(20)
	_, err = svc.Crear(context.Background(), req)
	require.NoError(t, err)

	resp, err := svc.CostoPromedio(context.Background(), producto)
	require.NoError(t, err)
	assert.Equal(t, "15", resp.CostoPromedio.String())
	assert.Equal(t, 2, resp.LotesActivos)

	// Producto sin lotes → costo cero
	resp, err = svc.CostoPromedio(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, resp.CostoPromedio.IsZero())
	assert.Equal(t, 0, resp.LotesActivos)
}
