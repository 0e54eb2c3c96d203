package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"spendtable/internal/config"
	"spendtable/internal/database"
	"spendtable/internal/logger"
	"spendtable/internal/middleware"
	"spendtable/internal/router"
	"spendtable/internal/validator"
)

// @title           Spendtable API
// @version         1.0
// @description     Expense tracking per project with a monthly overview pivoted over the category tree.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	dbConfig, err := database.NewConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	tokens, err := middleware.NewTokenManager(appConfig.JWTSecret, appConfig.JWTExpirationDur)
	if err != nil {
		return fmt.Errorf("failed to configure tokens: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	var limiter *middleware.RateLimiter
	if appConfig.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(appConfig.RateLimitRPS, appConfig.RateLimitBurst)
		g.Go(func() error {
			limiter.Run(ctx)
			return nil
		})
	}

	engine := router.New(router.Dependencies{
		Config:  appConfig,
		DB:      dbManager.DB(),
		Health:  dbManager,
		Tokens:  tokens,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Infof("Starting Spendtable server on port %s (db driver %s)", appConfig.Port, dbConfig.Driver)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
