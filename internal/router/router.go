package router

import (
	"time"

	"almapos/internal/config"
	"almapos/internal/handler"
	"almapos/internal/middleware"
	"almapos/internal/repository"
	"almapos/internal/service"
	"almapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler(cfg.DebugErrors))
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	cajaRepo := repository.NewCajaRepository(db)
	loteRepo := repository.NewLoteRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogoSvc := service.NewCatalogoService(catalogoRepo, service.NewRedisCatalogoCache(rdb), cfg.CatalogCacheTTL())

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	cajaSvc := service.NewCajaService(cajaRepo, dispatcher)
	movimientoSvc := service.NewMovimientoService(cajaRepo, catalogoSvc)
	loteSvc := service.NewLoteService(loteRepo)
	compraSvc := service.NewCompraService(compraRepo, loteRepo, cajaRepo, catalogoSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	cajaH := handler.NewCajaHandler(cajaSvc, movimientoSvc, cajaRepo, cfg.PDFStoragePath)
	movimientosH := handler.NewMovimientoHandler(movimientoSvc, cajaSvc)
	lotesH := handler.NewLoteHandler(loteSvc)
	comprasH := handler.NewCompraHandler(compraSvc, cajaSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, supervisor, administrador — declared per-endpoint
		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Abrir)
			caja.POST("/cerrar", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Cerrar)
			caja.GET("/abierta", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Abierta)
			caja.GET("/historial", middleware.RequireRole("supervisor", "administrador"), cajaH.Historial)
			caja.GET("/:id/reporte", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Reporte)
			caja.GET("/:id/reporte/pdf", middleware.RequireRole("supervisor", "administrador"), cajaH.ReportePDF)
			caja.GET("/:id/resumen", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Resumen)
		}

		movs := v1.Group("/movimientos")
		{
			movs.POST("", middleware.RequireRole("cajero", "supervisor", "administrador"), movimientosH.Registrar)
			movs.GET("", middleware.RequireRole("cajero", "supervisor", "administrador"), movimientosH.Listar)
			// Corrections are supervised; the original entry is never touched
			movs.POST("/:id/reverso", middleware.RequireRole("supervisor", "administrador"), movimientosH.Reverso)
		}

		v1.GET("/catalogo", middleware.RequireRole("cajero", "supervisor", "administrador"), catalogoH.Resolver)
		v1.POST("/catalogo/invalidar", middleware.RequireRole("administrador"), catalogoH.Invalidar)

		v1.GET("/lotes", middleware.RequireRole("cajero", "supervisor", "administrador"), lotesH.Listar)
		v1.GET("/lotes/costo-promedio", middleware.RequireRole("cajero", "supervisor", "administrador"), lotesH.CostoPromedio)
		v1.GET("/lotes/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), lotesH.Obtener)
		lotes := v1.Group("/lotes", middleware.RequireRole("supervisor", "administrador"))
		{
			lotes.POST("", lotesH.Crear)
			lotes.PATCH("/:id/disponible", lotesH.CorregirDisponible)
			lotes.DELETE("/:id", lotesH.Eliminar)
		}

		compras := v1.Group("/compras", middleware.RequireRole("supervisor", "administrador"))
		{
			compras.POST("", comprasH.Registrar)
			compras.GET("/:id", comprasH.Obtener)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
