package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"

	"github.com/avergara/mantencion-api/internal/config"
	"github.com/avergara/mantencion-api/internal/database"
	"github.com/avergara/mantencion-api/internal/handlers"
	"github.com/avergara/mantencion-api/internal/middleware"
	"github.com/avergara/mantencion-api/internal/repository"
	"github.com/avergara/mantencion-api/internal/services"
	"github.com/avergara/mantencion-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database", "path", cfg.DatabasePath)

	// Initialize repositories, services and handlers
	repos := repository.NewRepositories(db)
	svcs := services.NewServices(repos, db)
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Index)

		// Catalog
		v1.GET("/jardines", h.Catalog.ListGardens)
		v1.POST("/jardines", h.Catalog.CreateGarden)
		v1.GET("/jardines/:codigo/recintos", h.Catalog.ListGardenSites)
		v1.GET("/partidas", h.Catalog.ListLineItems)
		v1.POST("/partidas", h.Catalog.CreateLineItem)
		v1.GET("/recintos", h.Catalog.ListSites)
		v1.POST("/recintos", h.Catalog.CreateSite)

		// Requirements
		requirements := v1.Group("/requerimientos")
		{
			requirements.GET("", h.Requirement.Index)
			requirements.POST("", h.Requirement.Create)
			requirements.GET("/export/csv", h.Requirement.ExportCSV)
			requirements.GET("/:id", h.Requirement.Show)
			requirements.PATCH("/:id", h.Requirement.Update)
			requirements.DELETE("/:id", h.Requirement.Delete)
			requirements.PUT("/:id/recepcion", h.Requirement.SetReception)
			requirements.DELETE("/:id/recepcion", h.Requirement.ClearReception)
		}

		// Work orders
		workOrders := v1.Group("/ordenes-trabajo")
		{
			workOrders.GET("", h.WorkOrder.Index)
			workOrders.POST("", h.WorkOrder.Create)
			workOrders.GET("/:id", h.WorkOrder.Show)
			workOrders.PATCH("/:id", h.WorkOrder.Update)
			workOrders.DELETE("/:id", h.WorkOrder.Delete)
		}

		// Payment reports
		reports := v1.Group("/informes-pago")
		{
			reports.GET("", h.PaymentReport.Index)
			reports.POST("", h.PaymentReport.Create)
			reports.GET("/candidatos", h.PaymentReport.Candidates)
			reports.GET("/:id", h.PaymentReport.Show)
			reports.PATCH("/:id", h.PaymentReport.Update)
			reports.DELETE("/:id", h.PaymentReport.Delete)
			reports.GET("/:id/pdf", h.PaymentReport.PDF)
		}

		// Contract configuration
		v1.GET("/configuracion", h.Config.Show)
		v1.PATCH("/configuracion", h.Config.Update)
		v1.GET("/configuracion/firma", h.Config.GetSignature)
		v1.PUT("/configuracion/firma", h.Config.SetSignature)

		// Imports and data management
		v1.POST("/importar/base-datos", h.Import.Database)
		v1.POST("/importar/catalogo", h.Import.CatalogJSON)
		v1.POST("/importar/catalogo/csv", h.Import.CatalogCSV)
		v1.POST("/importar/catalogo/xlsx", h.Import.CatalogXLSX)
		v1.DELETE("/datos", h.Import.ClearAll)
	}

	return router
}
