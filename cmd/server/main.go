package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gpwebpay-gateway/internal/clients/redis"
	"gpwebpay-gateway/internal/config"
	"gpwebpay-gateway/internal/gateway"
	paymenthandlers "gpwebpay-gateway/internal/handlers/payment"
	"gpwebpay-gateway/internal/middleware"
	auditrepo "gpwebpay-gateway/internal/repository/audit"
	orderrepo "gpwebpay-gateway/internal/repository/order"
	auditservice "gpwebpay-gateway/internal/services/audit"
	"gpwebpay-gateway/internal/services/idempotency"
	"gpwebpay-gateway/internal/services/metrics"
	paymentservice "gpwebpay-gateway/internal/services/payment"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	signer, err := gateway.NewSignerFromConfig(cfg.Gateway)
	if err != nil {
		logger.Fatal("failed to load merchant key material", zap.Error(err))
	}

	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	db, err := openPostgres(cfg.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	orderRepository := orderrepo.NewRepository(redisClient, *cfg, logger)
	auditRepository := auditrepo.NewRepository(db, *cfg, logger)

	metricsService := metrics.NewService()
	auditService := auditservice.NewService(auditRepository, logger)
	idempotencyService := idempotency.NewService(redisClient, *cfg, logger)

	requestBuilder := gateway.NewRequestBuilder(cfg.Gateway, signer, logger)
	validator := gateway.NewValidator(cfg.Gateway.MerchantNumber, signer, logger)

	paymentService := paymentservice.NewService(
		orderRepository,
		idempotencyService,
		auditService,
		requestBuilder,
		validator,
		metricsService,
		logger,
	)

	createHandler := paymenthandlers.NewCreateHandler(paymentService, logger)
	returnHandler := paymenthandlers.NewReturnHandler(paymentService, cfg.Gateway.UseRedirect, logger)

	router, err := newRouter(cfg, logger, metricsService, redisClient, db, createHandler, returnHandler)
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("gateway starting",
			zap.String("addr", server.Addr),
			zap.Bool("sandbox", cfg.Gateway.Sandbox),
			zap.Bool("redirect_mode", cfg.Gateway.UseRedirect),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newRouter(
	cfg *config.Config,
	logger *zap.Logger,
	metricsService *metrics.Service,
	redisClient *redis.Client,
	db *sql.DB,
	createHandler *paymenthandlers.CreateHandler,
	returnHandler *paymenthandlers.ReturnHandler,
) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	if len(cfg.Server.TrustedProxies) > 0 {
		proxies, err := middleware.NewTrustedProxyList(cfg.Server.TrustedProxies)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy list: %w", err)
		}
		router.Use(middleware.ProxyHeaderFilter(proxies))
		if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
			return nil, err
		}
	}

	router.Use(middleware.MetricsMiddleware(metricsService))

	router.POST("/payments", createHandler.HandleCreate)
	router.GET("/payments/return/:order_id", returnHandler.HandleReturn)
	router.POST("/payments/return/:order_id", returnHandler.HandleReturn)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Encoding == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

func openPostgres(cfg config.PostgresConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DB, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnectionMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
