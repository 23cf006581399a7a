package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"herbarium/internal/config"
	"herbarium/internal/features/api_keys"
	"herbarium/internal/features/gateway"
	"herbarium/internal/features/herbs"
	"herbarium/internal/features/plans"
	system_healthcheck "herbarium/internal/features/system/healthcheck"
	"herbarium/internal/features/usage"
	"herbarium/internal/features/users"
	"herbarium/internal/storage"
	cache_utils "herbarium/internal/util/cache"
	env_utils "herbarium/internal/util/env"
	"herbarium/internal/util/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func main() {
	log := logger.GetLogger()

	cache_utils.TestCacheConnection()

	runMigrations(log)
	seedDefaultPlans(log)

	gin.SetMode(gin.ReleaseMode)
	ginApp := gin.Default()

	ginApp.Use(gzip.Gzip(gzip.DefaultCompression))

	enableCors(ginApp)
	setUpRoutes(ginApp)

	startServerWithGracefulShutdown(log, ginApp)
}

func startServerWithGracefulShutdown(log *slog.Logger, app *gin.Engine) {
	host := ""
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		// for dev we use localhost to avoid firewall
		// requests on each run for Windows
		host = "127.0.0.1"
	}

	srv := &http.Server{
		Addr:    host + ":" + config.GetEnv().Port,
		Handler: app,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen:", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	// The context is used to inform the server it has 10 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown:", "error", err)
	}

	log.Info("Server gracefully stopped")
}

func setUpRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// Public routes: auth, plan catalog, health probe, and the
	// API-key-authenticated data gateway (it validates keys itself)
	userController := users.GetUserController()
	userController.RegisterRoutes(v1)
	plans.GetPlanController().RegisterRoutes(v1)
	system_healthcheck.GetHealthcheckController().RegisterRoutes(v1)
	gateway.GetGatewayController().RegisterRoutes(v1)

	authMiddleware := users.AuthMiddleware(users.GetUserService())

	// Protected routes
	protected := v1.Group("")
	protected.Use(authMiddleware)

	userController.RegisterProtectedRoutes(protected)
	api_keys.GetApiKeyController().RegisterRoutes(protected)
	usage.GetUsageController().RegisterRoutes(protected)
}

func runMigrations(log *slog.Logger) {
	log.Info("Running database migrations...")

	err := storage.GetDb().AutoMigrate(
		&users.User{},
		&plans.Plan{},
		&api_keys.ApiKey{},
		&usage.UsageRecord{},
		&herbs.Herb{},
	)
	if err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	log.Info("Database migrations completed successfully")
}

func seedDefaultPlans(log *slog.Logger) {
	if err := plans.GetPlanService().SeedDefaultPlans(); err != nil {
		log.Error("Failed to seed default plans", "error", err)
		os.Exit(1)
	}
}

func enableCors(ginApp *gin.Engine) {
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		// Setup CORS
		ginApp.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders: []string{
				"Origin",
				"Content-Length",
				"Content-Type",
				"Authorization",
				"Accept",
				"Accept-Language",
				"Accept-Encoding",
				"Access-Control-Request-Method",
				"Access-Control-Request-Headers",
				"Access-Control-Allow-Methods",
				"Access-Control-Allow-Headers",
				"Access-Control-Allow-Origin",
				"x-api-key",
			},
			AllowCredentials: true,
		}))
	}
}
