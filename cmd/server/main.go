package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/acmeshop/storefront/internal/admin"
	admindomain "github.com/acmeshop/storefront/internal/admin/domain"
	adminrepo "github.com/acmeshop/storefront/internal/admin/repository"
	"github.com/acmeshop/storefront/internal/catalog"
	catalogdomain "github.com/acmeshop/storefront/internal/catalog/domain"
	"github.com/acmeshop/storefront/internal/config"
	"github.com/acmeshop/storefront/internal/notification"
	"github.com/acmeshop/storefront/internal/order"
	orderdomain "github.com/acmeshop/storefront/internal/order/domain"
	"github.com/acmeshop/storefront/internal/payment/dedup"
	"github.com/acmeshop/storefront/internal/payment/provider"
	"github.com/acmeshop/storefront/kafka"
	"github.com/acmeshop/storefront/pkg/auth"
	"github.com/acmeshop/storefront/pkg/database"
	"github.com/acmeshop/storefront/pkg/logger"
	"github.com/acmeshop/storefront/pkg/tracing"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting storefront server")

	// Initialize tracing
	tp, err := tracing.InitTracer(cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Warn().Err(err).Msg("Failed to shut down tracer")
			}
		}()
	}

	// Connect to database
	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&catalogdomain.Product{},
		&catalogdomain.InventoryRecord{},
		&orderdomain.Order{},
		&orderdomain.OrderLine{},
		&admindomain.AdminUser{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	seedAdminUser(db)

	// Redis backs the webhook dedup fast path. An unreachable Redis
	// degrades to pass-through instead of blocking startup.
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable, webhook dedup disabled")
		redisClient = nil
	}
	cancel()

	// Kafka carries the notification handoff
	publisher, err := kafka.NewPublisher(cfg.KafkaBrokers)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
	}
	defer publisher.Close()

	notifier := notification.NewKafkaNotifier(publisher)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	verifiers := provider.NewRegistry(
		provider.NewStripeVerifier(cfg.StripeWebhookSecret),
		provider.NewPayPalVerifier(cfg.PayPalWebhookSecret),
	)
	events := dedup.NewStore(redisClient)

	// Initialize handlers with Wire DI
	catalogHandler, err := catalog.InitializeHTTPHandler(db, tokens)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize catalog handler")
	}

	orderHandler, err := order.InitializeHTTPHandler(db, tokens, notifier, cfg.ShippingCostCAD)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize order handler")
	}

	webhookHandler, err := order.InitializeWebhookHandler(db, verifiers, events, notifier)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize webhook handler")
	}

	adminHandler, err := admin.InitializeHTTPHandler(db, tokens)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize admin handler")
	}

	// Setup router
	router := mux.NewRouter()
	catalogHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router)
	webhookHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router)
	catalogHandler.RegisterHealthCheck(router, sqlDB)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(c.Handler(router), "http.server"),
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}

// seedAdminUser creates the initial console operator when ADMIN_USERNAME and
// ADMIN_PASSWORD are set and the account does not exist yet.
func seedAdminUser(db *gorm.DB) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}

	repo := adminrepo.NewGormAdminRepository(db)
	if _, err := repo.FindByUsername(username); err == nil {
		return
	} else if !errors.Is(err, admindomain.ErrAdminNotFound) {
		logger.Logger.Warn().Err(err).Msg("Admin seed lookup failed")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to hash admin seed password")
		return
	}

	if err := repo.Create(&admindomain.AdminUser{
		Username:       username,
		Email:          os.Getenv("ADMIN_EMAIL"),
		HashedPassword: string(hashed),
		IsActive:       true,
	}); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to seed admin user")
		return
	}

	logger.Logger.Info().Str("username", username).Msg("Seeded admin user")
}
