package main

import (
	"context"
	"fmt"
	"log"
	"mixMatchBundles/app/echo-server/metrics"
	"mixMatchBundles/app/echo-server/router"
	"mixMatchBundles/business/admin"
	"mixMatchBundles/business/bundle"
	"mixMatchBundles/business/cart"
	"mixMatchBundles/business/coupon"
	"mixMatchBundles/business/orders"
	"mixMatchBundles/business/pricing"
	"mixMatchBundles/business/product"
	"mixMatchBundles/internal/middleware"
	psqlRepo "mixMatchBundles/internal/repository/postgres"
	redisRepo "mixMatchBundles/internal/repository/redis"
	"mixMatchBundles/internal/rest"
	"mixMatchBundles/pkg/config"
	"mixMatchBundles/pkg/database"
	redisdb "mixMatchBundles/pkg/database/redis"
	"mixMatchBundles/pkg/logger"
	bundleMetrics "mixMatchBundles/pkg/metrics"
	"mixMatchBundles/pkg/utils"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version)

	utils.SetJWTSecret(cfg.JWT.SecretKey)
	metrics.Init()
	bundleMetrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	logger.Info("Redis connected successfully")

	// Init repo
	bundleRepo := psqlRepo.NewBundleRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	couponRepo := psqlRepo.NewCouponRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Bundle.SessionTTL)
	sweepCache := redisRepo.NewSweepCache(redisClient)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)

	// Init service
	bundleService := bundle.NewBundleService(bundleRepo)
	productService := product.NewProductService(productRepo)
	pricingService := pricing.NewPricingService(bundleRepo, productService, cfg.Bundle.CurrencyPrecision)
	cartService := cart.NewCartService(sessionRepo, couponRepo, bundleRepo, pricingService, productService, cart.Options{
		CouponPrefix: cfg.Bundle.CouponPrefix,
		Precision:    cfg.Bundle.CurrencyPrecision,
	})
	ordersService := orders.NewOrdersService(ordersRepo, couponRepo, cartService, sessionRepo, cfg.Bundle.CurrencyPrecision)
	janitor := coupon.NewJanitorService(couponRepo, bundleRepo, sweepCache, coupon.JanitorOptions{
		Prefix:   cfg.Bundle.CouponPrefix,
		MaxAge:   cfg.Bundle.CouponMaxAge,
		CacheTTL: cfg.Bundle.JanitorCacheTTL,
	})
	adminService := admin.NewAdminService(admin.Credentials{
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
	}, tokenRepo, cfg.JWT.TTL)

	// Init handler
	bundleHandler := rest.NewBundleHandler(bundleService)
	productHandler := rest.NewProductHandler(productService)
	cartHandler := rest.NewCartHandler(pricingService, cartService)
	ordersHandler := rest.NewOrdersHandler(ordersService)
	couponHandler := rest.NewCouponHandler(janitor)
	adminHandler := rest.NewAdminHandler(adminService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler(cfg.App.Debug)

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.App.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authRequired := middleware.AuthMiddlewareWithRedis(tokenRepo)
	adminOnly := middleware.AdminOnly()
	session := middleware.Session(middleware.SessionConfig{
		CookieName: cfg.Bundle.SessionCookieName,
		Key:        cfg.App.SessionKey,
		Secure:     cfg.Bundle.SessionCookieSecure,
		MaxAge:     cfg.Bundle.SessionCookieMaxAge,
	})

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupAdminRoutes(api, adminHandler, authRequired)
	router.SetupBundleRoutes(api, bundleHandler, authRequired, adminOnly)
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly)
	router.SetupCartRoutes(api, cartHandler, ordersHandler, session)
	router.SetupOrdersRoutes(api, ordersHandler, authRequired, adminOnly)
	router.SetupCouponRoutes(api, couponHandler, authRequired, adminOnly)

	// Coupon janitor
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		janitor.Run(janitorCtx, cfg.Bundle.JanitorInterval)
	}()

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	stopJanitor()
	<-janitorDone

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
