package router

import (
	"time"

	"github.com/driman-systems/fondue/internal/config"
	"github.com/driman-systems/fondue/internal/handler"
	"github.com/driman-systems/fondue/internal/middleware"
	"github.com/driman-systems/fondue/internal/model"
	"github.com/driman-systems/fondue/internal/repository"
	"github.com/driman-systems/fondue/internal/service"
	"github.com/driman-systems/fondue/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-contrib/cors"
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
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000)) // per IP, per minute

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	acompRepo := repository.NewAcompanhamentoRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	produtoSvc := service.NewProdutoService(produtoRepo, acompRepo, rdb,
		time.Duration(cfg.CatalogCacheSeconds)*time.Second)
	acompSvc := service.NewAcompanhamentoService(acompRepo)
	caixaSvc := service.NewCaixaService(caixaRepo, dispatcher, cfg.ReportEmail)
	checkoutSvc := service.NewCheckoutService(pedidoRepo, produtoRepo, caixaRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, caixaRepo)
	exportSvc := service.NewExportService(pedidoRepo, caixaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	acompH := handler.NewAcompanhamentosHandler(acompSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	exportH := handler.NewExportHandler(exportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	operador := middleware.RequireRole(model.RoleAdmin, model.RoleUser)
	admin := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/checkout", operador, checkoutH.Checkout)

		v1.GET("/pedidos", operador, pedidosH.Listar)
		v1.GET("/pedidos/:id", operador, pedidosH.Obter)
		v1.GET("/pedidos/:id/comanda", operador, pedidosH.Comanda)

		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", operador, caixaH.Abrir)
			caixa.POST("/fechar", operador, caixaH.Fechar)
			caixa.GET("/status", operador, caixaH.Status)
			caixa.GET("/resumo", operador, caixaH.Resumo)
			caixa.GET("/historico", admin, caixaH.Historico)
			caixa.GET("/:id", operador, caixaH.Detalhe)
		}

		// Catalog — every operator reads, only admin writes
		v1.GET("/produtos/catalogo", operador, produtosH.Catalogo)
		v1.GET("/produtos", operador, produtosH.Listar)
		v1.GET("/produtos/:id", operador, produtosH.Obter)
		prods := v1.Group("/produtos", admin)
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Desativar)
		}

		v1.GET("/acompanhamentos", operador, acompH.Listar)
		acomps := v1.Group("/acompanhamentos", admin)
		{
			acomps.POST("", acompH.Criar)
			acomps.PUT("/:id", acompH.Atualizar)
			acomps.DELETE("/:id", acompH.Desativar)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.POST("", usuariosH.Criar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
		}

		export := v1.Group("/export", admin)
		{
			export.GET("/pagamentos", exportH.PagamentosCSV)
			export.GET("/caixas.xlsx", exportH.CaixasXLSX)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
