package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/mrp/backend/internal/application/catalog"
	identityapp "github.com/mrp/backend/internal/application/identity"
	ordersapp "github.com/mrp/backend/internal/application/orders"
	planningapp "github.com/mrp/backend/internal/application/planning"
	"github.com/mrp/backend/internal/infrastructure/auth"
	"github.com/mrp/backend/internal/infrastructure/config"
	"github.com/mrp/backend/internal/infrastructure/event"
	"github.com/mrp/backend/internal/infrastructure/lock"
	"github.com/mrp/backend/internal/infrastructure/logger"
	"github.com/mrp/backend/internal/infrastructure/persistence"
	"github.com/mrp/backend/internal/interfaces/http/handler"
	"github.com/mrp/backend/internal/interfaces/http/middleware"
	"github.com/mrp/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			MRP Backend API
//	@version		1.0
//	@description	Material requirements planning backend - BOM explosion, demand netting and order planning

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting MRP Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	bomRepo := persistence.NewGormBOMRepository(db.DB)
	orderRepo := persistence.NewGormProductionOrderRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Plan calculation lock. Redis backs the lock so concurrent replicas
	// cannot calculate the same plan twice; a single-node deployment falls
	// back to the in-process lock when Redis is unreachable.
	var planLocker planningapp.PlanLocker
	redisLocker, err := lock.NewRedisPlanLocker(cfg.Redis, cfg.PlanLock.TTL, log)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory plan lock", zap.Error(err))
		planLocker = lock.NewInMemoryPlanLocker()
	} else {
		planLocker = redisLocker
		log.Info("Redis plan lock initialized", zap.Duration("ttl", cfg.PlanLock.TTL))
	}

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, bomRepo)
	bomService := catalogapp.NewBOMService(bomRepo, productRepo)
	orderService := ordersapp.NewOrderService(orderRepo, productRepo)
	planService := planningapp.NewPlanService(planRepo, orderRepo, txScope, planLocker, log)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	userService := identityapp.NewUserService(userRepo)

	// Event bus with the audit subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditHandler(log))

	productService.SetEventPublisher(eventBus)
	bomService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	planService.SetEventPublisher(eventBus)
	userService.SetEventPublisher(eventBus)

	// Initialize handlers
	productHandler := handler.NewProductHandler(productService)
	bomHandler := handler.NewBOMHandler(bomService)
	orderHandler := handler.NewOrderHandler(orderService)
	planHandler := handler.NewPlanHandler(planService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth routes (login and refresh are public via skip paths)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Catalog domain (products and bills of materials)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", middleware.RequireRole("admin", "planner"), productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/code/:code", productHandler.GetByCode)
	catalogRoutes.PUT("/products/:id", middleware.RequireRole("admin", "planner"), productHandler.Update)
	catalogRoutes.POST("/products/:id/activate", middleware.RequireRole("admin", "planner"), productHandler.Activate)
	catalogRoutes.POST("/products/:id/deactivate", middleware.RequireRole("admin", "planner"), productHandler.Deactivate)
	catalogRoutes.DELETE("/products/:id", middleware.RequireRole("admin"), productHandler.Delete)
	catalogRoutes.GET("/products/:id/boms", bomHandler.ListByProduct)
	catalogRoutes.GET("/products/:id/boms/active", bomHandler.GetActiveByProduct)
	catalogRoutes.POST("/boms", middleware.RequireRole("admin", "planner"), bomHandler.Create)
	catalogRoutes.GET("/boms/:id", bomHandler.GetByID)
	catalogRoutes.POST("/boms/:id/lines", middleware.RequireRole("admin", "planner"), bomHandler.AddLine)
	catalogRoutes.PUT("/boms/:id/lines/:line_id", middleware.RequireRole("admin", "planner"), bomHandler.UpdateLineQuantity)
	catalogRoutes.DELETE("/boms/:id/lines/:line_id", middleware.RequireRole("admin", "planner"), bomHandler.RemoveLine)
	catalogRoutes.POST("/boms/:id/activate", middleware.RequireRole("admin", "planner"), bomHandler.Activate)
	catalogRoutes.POST("/boms/:id/deactivate", middleware.RequireRole("admin", "planner"), bomHandler.Deactivate)
	catalogRoutes.DELETE("/boms/:id", middleware.RequireRole("admin"), bomHandler.Delete)

	// Orders domain (production orders feeding the plans)
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", middleware.RequireRole("admin", "planner"), orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.PUT("/:id", middleware.RequireRole("admin", "planner"), orderHandler.Update)
	orderRoutes.POST("/:id/lines", middleware.RequireRole("admin", "planner"), orderHandler.AddLine)
	orderRoutes.PUT("/:id/lines/:line_id", middleware.RequireRole("admin", "planner"), orderHandler.UpdateLineQuantity)
	orderRoutes.DELETE("/:id/lines/:line_id", middleware.RequireRole("admin", "planner"), orderHandler.RemoveLine)
	orderRoutes.POST("/:id/submit", middleware.RequireRole("admin", "planner"), orderHandler.Submit)
	orderRoutes.POST("/:id/confirm", middleware.RequireRole("admin", "planner"), orderHandler.Confirm)
	orderRoutes.POST("/:id/start", middleware.RequireRole("admin", "planner"), orderHandler.StartProduction)
	orderRoutes.POST("/:id/complete", middleware.RequireRole("admin", "planner"), orderHandler.Complete)
	orderRoutes.POST("/:id/cancel", middleware.RequireRole("admin", "planner"), orderHandler.Cancel)
	orderRoutes.DELETE("/:id", middleware.RequireRole("admin"), orderHandler.Delete)

	// Planning domain (requirement plans and calculation runs)
	planningRoutes := router.NewDomainGroup("planning", "/planning")
	planningRoutes.POST("/plans", middleware.RequireRole("admin", "planner"), planHandler.Create)
	planningRoutes.GET("/plans", planHandler.List)
	planningRoutes.GET("/plans/:id", planHandler.GetByID)
	planningRoutes.PUT("/plans/:id", middleware.RequireRole("admin", "planner"), planHandler.Update)
	planningRoutes.POST("/plans/:id/orders", middleware.RequireRole("admin", "planner"), planHandler.LinkOrders)
	planningRoutes.DELETE("/plans/:id/orders/:order_id", middleware.RequireRole("admin", "planner"), planHandler.UnlinkOrder)
	planningRoutes.POST("/plans/:id/calculate", middleware.RequireRole("admin", "planner"), planHandler.Calculate)
	planningRoutes.POST("/plans/:id/start", middleware.RequireRole("admin", "planner"), planHandler.StartProcessing)
	planningRoutes.POST("/plans/:id/complete", middleware.RequireRole("admin", "planner"), planHandler.Complete)
	planningRoutes.POST("/plans/:id/cancel", middleware.RequireRole("admin", "planner"), planHandler.Cancel)
	planningRoutes.DELETE("/plans/:id", middleware.RequireRole("admin"), planHandler.Delete)

	// Identity domain (user administration)
	identityRoutes := router.NewDomainGroup("identity", "/identity")
	identityRoutes.Use(middleware.RequireRole("admin"))
	identityRoutes.POST("/users", userHandler.Create)
	identityRoutes.GET("/users", userHandler.List)
	identityRoutes.GET("/users/:id", userHandler.GetByID)
	identityRoutes.PUT("/users/:id", userHandler.Update)
	identityRoutes.PUT("/users/:id/password", userHandler.ResetPassword)
	identityRoutes.POST("/users/:id/activate", userHandler.Activate)
	identityRoutes.POST("/users/:id/deactivate", userHandler.Deactivate)
	identityRoutes.DELETE("/users/:id", userHandler.Delete)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(authRoutes).
		Register(catalogRoutes).
		Register(orderRoutes).
		Register(planningRoutes).
		Register(identityRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
