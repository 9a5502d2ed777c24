package router

import (
	"time"

	"comoencasa/internal/config"
	"comoencasa/internal/handler"
	"comoencasa/internal/middleware"
	"comoencasa/internal/repository"
	"comoencasa/internal/service"
	"comoencasa/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	insumoRepo := repository.NewInsumoRepository(db)
	recetaRepo := repository.NewRecetaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	movimientoRepo := repository.NewMovimientoInsumoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	insumoSvc := service.NewInsumoService(insumoRepo, movimientoRepo)
	recetaSvc := service.NewRecetaService(recetaRepo, insumoRepo, cfg.PDFStoragePath)
	productoSvc := service.NewProductoService(productoRepo, recetaRepo, categoriaRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	ventaSvc := service.NewVentaService(productoRepo, insumoRepo, recetaRepo, movimientoRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	insumosH := handler.NewInsumosHandler(insumoSvc)
	recetasH := handler.NewRecetasHandler(recetaSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		v1.POST("/ventas/confirmar", ventasH.Confirmar)

		insumos := v1.Group("/insumos")
		{
			insumos.POST("", insumosH.Crear)
			insumos.GET("", insumosH.Listar)
			// Static segments before the :id wildcard
			insumos.GET("/alertas", insumosH.Alertas)
			insumos.GET("/movimientos", insumosH.Movimientos)
			insumos.GET("/:id", insumosH.ObtenerPorID)
			insumos.PUT("/:id", insumosH.Actualizar)
			insumos.DELETE("/:id", insumosH.Desactivar)
			insumos.PATCH("/:id/stock", insumosH.AjustarStock)
		}

		recetas := v1.Group("/recetas")
		{
			recetas.POST("", recetasH.Crear)
			recetas.GET("", recetasH.Buscar)
			recetas.GET("/:id", recetasH.ObtenerPorID)
			recetas.PUT("/:id", recetasH.Actualizar)
			recetas.DELETE("/:id", recetasH.Eliminar)
			recetas.GET("/:id/costo", recetasH.Costo)
			recetas.GET("/:id/costo/pdf", recetasH.CostoPDF)
		}

		productos := v1.Group("/productos")
		{
			productos.POST("", productosH.Crear)
			productos.GET("", productosH.Listar)
			productos.GET("/:id", productosH.ObtenerPorID)
			productos.PUT("/:id", productosH.Actualizar)
			productos.DELETE("/:id", productosH.Eliminar)
		}

		categorias := v1.Group("/categorias")
		{
			categorias.POST("", categoriasH.Crear)
			categorias.GET("", categoriasH.Listar)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Desactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
