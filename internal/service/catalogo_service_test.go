package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"almapos/internal/model"
	"almapos/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeCache struct {
	data    map[string][]byte
	lastTTL time.Duration
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string][]byte)} }

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	return c.data[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	c.lastTTL = ttl
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

type fakeCatalogoRepo struct {
	tipos   []model.CatalogoTipoMovimiento
	metodos []model.CatalogoMetodoPago
	err     error
	calls   int
}

func (r *fakeCatalogoRepo) ListTiposMovimiento(context.Context) ([]model.CatalogoTipoMovimiento, error) {
	r.calls++
	return r.tipos, r.err
}

func (r *fakeCatalogoRepo) ListMetodosPago(context.Context) ([]model.CatalogoMetodoPago, error) {
	return r.metodos, r.err
}

var _ repository.CatalogoRepository = (*fakeCatalogoRepo)(nil)

func catalogoSembrado() *fakeCatalogoRepo {
	return &fakeCatalogoRepo{
		tipos: []model.CatalogoTipoMovimiento{
			{ID: 1, Nombre: "INGRESO"}, {ID: 2, Nombre: "EGRESO"},
			{ID: 3, Nombre: "AJUSTE"}, {ID: 4, Nombre: "REVERSO"},
		},
		metodos: []model.CatalogoMetodoPago{
			{ID: 1, Nombre: "EFECTIVO"}, {ID: 2, Nombre: "TARJETA"},
			{ID: 3, Nombre: "TRANSFERENCIA"}, {ID: 4, Nombre: "CRÉDITO"}, {ID: 5, Nombre: "OTRO"},
		},
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCatalogoResolver(t *testing.T) {
	repo := catalogoSembrado()
	svc := NewCatalogoService(repo, newFakeCache(), 10*time.Minute)

	resp := svc.Resolver(context.Background())
	assert.Equal(t, 2, resp.TiposMovimiento["EGRESO"])
	assert.Equal(t, 1, resp.MetodosPago["EFECTIVO"])
}

func TestCatalogoResolver_VariantesDeAcentos(t *testing.T) {
	// "CRÉDITO" sembrado con acento debe resolver tambien como "CREDITO"
	svc := NewCatalogoService(catalogoSembrado(), newFakeCache(), 10*time.Minute)

	resp := svc.Resolver(context.Background())
	assert.Equal(t, 4, resp.MetodosPago["CRÉDITO"])
	assert.Equal(t, 4, resp.MetodosPago["CREDITO"])
}

func TestCatalogoResolver_UsaCache(t *testing.T) {
	repo := catalogoSembrado()
	cache := newFakeCache()
	svc := NewCatalogoService(repo, cache, 10*time.Minute)

	svc.Resolver(context.Background())
	svc.Resolver(context.Background())
	svc.Resolver(context.Background())

	// Una sola lectura a la base; el resto sale del cache con el TTL configurado
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 10*time.Minute, cache.lastTTL)
}

func TestCatalogoInvalidar(t *testing.T) {
	repo := catalogoSembrado()
	svc := NewCatalogoService(repo, newFakeCache(), 10*time.Minute)

	svc.Resolver(context.Background())
	require.NoError(t, svc.Invalidar(context.Background()))
	svc.Resolver(context.Background())

	// La invalidacion fuerza una relectura
	assert.Equal(t, 2, repo.calls)
}

func TestCatalogoResolver_ModoDegradado(t *testing.T) {
	// Base caida: mapas vacios, nunca un error hacia el caller
	repo := &fakeCatalogoRepo{err: errors.New("conexion rechazada")}
	svc := NewCatalogoService(repo, newFakeCache(), 10*time.Minute)

	resp := svc.Resolver(context.Background())
	require.NotNil(t, resp)
	assert.Empty(t, resp.TiposMovimiento)
	assert.Empty(t, resp.MetodosPago)
}
