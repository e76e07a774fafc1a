package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/agri-gov-api/api/swagger"
	"github.com/noah-isme/agri-gov-api/internal/handler"
	"github.com/noah-isme/agri-gov-api/internal/middleware"
	"github.com/noah-isme/agri-gov-api/internal/rbac"
	"github.com/noah-isme/agri-gov-api/internal/repository"
	"github.com/noah-isme/agri-gov-api/internal/service"
	"github.com/noah-isme/agri-gov-api/pkg/cache"
	"github.com/noah-isme/agri-gov-api/pkg/config"
	"github.com/noah-isme/agri-gov-api/pkg/database"
	"github.com/noah-isme/agri-gov-api/pkg/jobs"
	"github.com/noah-isme/agri-gov-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/agri-gov-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/agri-gov-api/pkg/middleware/requestid"
)

// @title Agri Governance API
// @version 1.0.0
// @description Admin governance engine for the agricultural marketplace
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, stock summary caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories.
	adminRepo := repository.NewAdminRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	sellerRepo := repository.NewSellerRepository(db)
	procurementRepo := repository.NewProcurementRepository(db)
	priceCaseRepo := repository.NewPriceCaseRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	escalationRepo := repository.NewEscalationRepository(db)

	// Notification queue runs post-commit, fire and forget.
	notifyQueue := jobs.NewQueue("notifications", jobs.QueueConfig{
		Workers:    cfg.Notify.Workers,
		BufferSize: cfg.Notify.BufferSize,
		MaxRetries: cfg.Notify.MaxRetries,
		RetryDelay: cfg.Notify.RetryDelay,
		Logger:     logr,
	})
	notifier := service.NewQueueNotifier(notifyQueue, logr)
	notifyQueue.Start(ctx)
	defer notifyQueue.Stop()

	// Services.
	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(adminRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshExpiration, logr)
	adminService := service.NewAdminService(adminRepo, logr)
	sellerService := service.NewSellerService(sellerRepo, notifier, metricsService, logr)
	procurementService := service.NewProcurementService(procurementRepo, notifier, metricsService, logr)
	priceCaseService := service.NewPriceCaseService(priceCaseRepo, notifier, metricsService, logr)
	inventoryService := service.NewInventoryService(inventoryRepo, redisClient, cfg.Inventory.CacheTTL, logr)
	escalationService := service.NewEscalationService(escalationRepo, validator.New(), notifier, metricsService, logr)
	auditService := service.NewAuditService(auditRepo, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(adminService)
	sellerHandler := handler.NewSellerHandler(sellerService)
	procurementHandler := handler.NewProcurementHandler(procurementService)
	priceCaseHandler := handler.NewPriceCaseHandler(priceCaseService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	escalationHandler := handler.NewEscalationHandler(escalationService)
	auditHandler := handler.NewAuditHandler(auditService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.JWT(authService), authHandler.Me)
		}

		protected := api.Group("")
		protected.Use(middleware.JWT(authService))
		{
			admins := protected.Group("/admins", middleware.RequirePermission(rbac.PermAdminManage))
			{
				admins.POST("", adminHandler.Create)
				admins.GET("", adminHandler.List)
				admins.GET("/:id", adminHandler.Get)
				admins.PATCH("/:id/deactivate", adminHandler.Deactivate)
			}

			sellers := protected.Group("/sellers")
			{
				sellers.POST("", sellerHandler.Create)
				sellers.GET("", sellerHandler.List)
				sellers.GET("/:id", sellerHandler.Get)
				sellers.POST("/:id/approve", sellerHandler.Approve)
				sellers.POST("/:id/reject", sellerHandler.Reject)
				sellers.POST("/:id/suspend", sellerHandler.Suspend)
				sellers.POST("/:id/reactivate", sellerHandler.Reactivate)
			}

			procurements := protected.Group("/procurements")
			{
				procurements.POST("", procurementHandler.Create)
				procurements.GET("", procurementHandler.List)
				procurements.GET("/:id", procurementHandler.Get)
				procurements.POST("/:id/approve", procurementHandler.Approve)
				procurements.POST("/:id/reject", procurementHandler.Reject)
			}

			priceCases := protected.Group("/price-cases")
			{
				priceCases.POST("", priceCaseHandler.Open)
				priceCases.GET("", priceCaseHandler.List)
				priceCases.GET("/:id", priceCaseHandler.Get)
				priceCases.POST("/:id/warn", priceCaseHandler.Warn)
				priceCases.POST("/:id/force-adjust", priceCaseHandler.ForceAdjust)
				priceCases.POST("/:id/suspend-seller", priceCaseHandler.SuspendSeller)
			}

			inventory := protected.Group("/inventory")
			{
				inventory.POST("/receive", middleware.RequirePermission(rbac.PermInventoryReceive), inventoryHandler.Receive)
				inventory.POST("/consume", middleware.RequirePermission(rbac.PermInventoryConsume), inventoryHandler.Consume)
				view := middleware.RequirePermission(rbac.PermInventoryView)
				inventory.GET("/stock/:product_code", view, inventoryHandler.Stock)
				inventory.GET("/lots", view, inventoryHandler.ListLots)
				inventory.GET("/transactions", view, inventoryHandler.ListTransactions)
			}

			escalations := protected.Group("/escalations")
			{
				escalations.POST("", escalationHandler.Create)
				escalations.GET("", escalationHandler.List)
				escalations.GET("/:id", escalationHandler.Get)
				escalations.POST("/:id/assign", escalationHandler.Assign)
				escalations.POST("/:id/escalate", escalationHandler.Escalate)
				escalations.POST("/:id/resolve", escalationHandler.Resolve)
				escalations.POST("/:id/reject", escalationHandler.Reject)
			}

			audit := protected.Group("/audit", middleware.RequirePermission(rbac.PermAuditView))
			{
				audit.GET("/actors/:actor_id", auditHandler.ByActor)
				audit.GET("/:entity_type/:entity_id", auditHandler.Trail)
				audit.GET("/:entity_type/:entity_id/export", auditHandler.Export)
			}
		}
	}

	if cfg.Escalations.SweepEnabled {
		go runSweep(ctx, escalationService, cfg.Escalations.SweepInterval, logr)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// runSweep periodically expires escalations past their due date.
func runSweep(ctx context.Context, escalations *service.EscalationService, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := escalations.ExpireOverdue(ctx); err != nil {
				logr.Sugar().Errorw("escalation sweep failed", "error", err)
			}
		}
	}
}
