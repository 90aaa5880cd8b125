//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"almapos/internal/config"
	"almapos/internal/infra"
	"almapos/internal/middleware"
	"almapos/internal/router"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const testSecret = "test-secret-key"

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// mintToken issues an operator JWT the way the identity service would.
func mintToken(t *testing.T, operadorID, rol string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		OperadorID: operadorID,
		Nombre:     "Operador E2E",
		Rol:        rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("almapos_test"),
		tcPostgres.WithUsername("almapos"),
		tcPostgres.WithPassword("almapos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                   8000,
		Env:                    "test",
		JWTSecret:              testSecret,
		DatabaseURL:            pgURL,
		RedisURL:               rdURL,
		WorkerPoolSize:         1,
		CatalogCacheTTLMinutes: 10,
		PDFStoragePath:         t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{
		server: srv,
		token:  mintToken(t, uuid.NewString(), "administrador"),
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full drawer cycle: abrir → movimientos → compra → cerrar con desvio.
func TestE2E_CicloCompletoDeCaja(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Abrir caja
	abrirResp := do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"monto_apertura": "5000"}), env.token)
	require.Equal(t, http.StatusCreated, abrirResp.StatusCode)
	var sesion struct {
		SesionCajaID string `json:"sesion_caja_id"`
	}
	decodeJSON(t, abrirResp, &sesion)

	// Reapertura para el mismo operador → 409
	dupResp := do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"monto_apertura": "1000"}), env.token)
	defer dupResp.Body.Close()
	assert.Equal(t, http.StatusConflict, dupResp.StatusCode)

	// 2. Ingreso en efectivo
	movResp := do(t, env.server, "POST", "/v1/movimientos",
		jsonBody(t, map[string]any{
			"tipo": "INGRESO", "metodo_pago": "cash",
			"monto": "10000", "referencia": "venta mostrador",
		}), env.token)
	require.Equal(t, http.StatusCreated, movResp.StatusCode)
	var mov struct {
		Monto      string `json:"monto"`
		MetodoPago string `json:"metodo_pago"`
	}
	decodeJSON(t, movResp, &mov)
	assert.Equal(t, "EFECTIVO", mov.MetodoPago)

	// 3. Compra: un lote + un egreso por el total
	compraResp := do(t, env.server, "POST", "/v1/compras",
		jsonBody(t, map[string]any{
			"proveedor_id": uuid.NewString(),
			"metodo_pago":  "EFECTIVO",
			"lineas": []map[string]any{{
				"producto_id": uuid.NewString(), "cantidad": 10,
				"precio_unitario": "20",
				"numero_lote":     "L-001", "numero_lote_confirmacion": "L-001",
			}},
		}), env.token)
	require.Equal(t, http.StatusCreated, compraResp.StatusCode)
	var compra struct {
		MontoTotal   string `json:"monto_total"`
		MovimientoID string `json:"movimiento_id"`
	}
	decodeJSON(t, compraResp, &compra)
	assert.Equal(t, "200", compra.MontoTotal)
	assert.NotEmpty(t, compra.MovimientoID)

	// 4. Saldos de la sesion abierta: 5000 + 10000 − 200
	abiertaResp := do(t, env.server, "GET", "/v1/caja/abierta", nil, env.token)
	require.Equal(t, http.StatusOK, abiertaResp.StatusCode)
	var abierta struct {
		Open          bool   `json:"open"`
		SaldoEfectivo string `json:"saldo_efectivo"`
	}
	decodeJSON(t, abiertaResp, &abierta)
	assert.True(t, abierta.Open)
	assert.Equal(t, "14800", abierta.SaldoEfectivo)

	// 5. Cerrar declarando 14500 → desvio −300, siempre acepta
	cerrarResp := do(t, env.server, "POST", "/v1/caja/cerrar",
		jsonBody(t, map[string]any{"monto_contado": "14500"}), env.token)
	require.Equal(t, http.StatusOK, cerrarResp.StatusCode)
	var cierre struct {
		MontoEsperado string `json:"monto_esperado"`
		Desvio        string `json:"desvio"`
		Estado        string `json:"estado"`
	}
	decodeJSON(t, cerrarResp, &cierre)
	assert.Equal(t, "14800", cierre.MontoEsperado)
	assert.Equal(t, "-300", cierre.Desvio)
	assert.Equal(t, "cerrada", cierre.Estado)

	// 6. El reporte queda consultable
	reporteResp := do(t, env.server, "GET", "/v1/caja/"+sesion.SesionCajaID+"/reporte", nil, env.token)
	require.Equal(t, http.StatusOK, reporteResp.StatusCode)
	var reporte struct {
		Desvio string `json:"desvio"`
	}
	decodeJSON(t, reporteResp, &reporte)
	assert.Equal(t, "-300", reporte.Desvio)
}

// The seeded catalog resolves canonical and accent-stripped names.
func TestE2E_CatalogoSembrado(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/catalogo", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var catalogo struct {
		TiposMovimiento map[string]int `json:"tipos_movimiento"`
		MetodosPago     map[string]int `json:"metodos_pago"`
	}
	decodeJSON(t, resp, &catalogo)
	assert.NotZero(t, catalogo.TiposMovimiento["EGRESO"])
	assert.NotZero(t, catalogo.MetodosPago["CREDITO"])
	assert.Equal(t, catalogo.MetodosPago["CRÉDITO"], catalogo.MetodosPago["CREDITO"])

	// Invalidation is admin-only and returns 204
	invResp := do(t, env.server, "POST", "/v1/catalogo/invalidar", nil, env.token)
	defer invResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, invResp.StatusCode)
}

// Auth: no token → 401, wrong role → 403.
func TestE2E_AutorizacionPorRol(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/catalogo", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cajero := mintToken(t, uuid.NewString(), "cajero")
	resp = do(t, env.server, "POST", "/v1/compras",
		jsonBody(t, map[string]any{}), cajero)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
