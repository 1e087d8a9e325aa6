package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/luckyfood/stockpilot/internal/catalog"
	cataloghttp "github.com/luckyfood/stockpilot/internal/catalog/delivery/http"
	catalogcommand "github.com/luckyfood/stockpilot/internal/catalog/usecase/command"
	"github.com/luckyfood/stockpilot/internal/docstore"
	"github.com/luckyfood/stockpilot/internal/inventory"
	inventoryhttp "github.com/luckyfood/stockpilot/internal/inventory/delivery/http"
	inventorycommand "github.com/luckyfood/stockpilot/internal/inventory/usecase/command"
	recommendhttp "github.com/luckyfood/stockpilot/internal/recommend/delivery/http"
	"github.com/luckyfood/stockpilot/internal/report"
	reporthttp "github.com/luckyfood/stockpilot/internal/report/delivery/http"
	"github.com/luckyfood/stockpilot/kafka"
	"github.com/luckyfood/stockpilot/pkg/database"
	"github.com/luckyfood/stockpilot/pkg/logger"
	"github.com/luckyfood/stockpilot/pkg/tracing"
)

func main() {
	_ = godotenv.Load()

	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "stockpilot")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting StockPilot service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "stockpilotdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	gormStore := docstore.NewGormStore(db)
	if err := gormStore.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Snapshot hub and change feed
	tracedStore := docstore.NewStoreWithTracing(gormStore)
	hub := docstore.NewHub(tracedStore.List)

	var feed docstore.ChangeFeed
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		redisFeed := docstore.NewRedisFeed(redisClient, hub)
		redisFeed.Start(ctx)
		feed = redisFeed
		defer redisClient.Close()
	} else {
		logger.Logger.Info().Msg("REDIS_ADDR not set, using in-process change feed")
		feed = docstore.NewLocalFeed(hub)
	}

	store := docstore.NewNotifyingStore(tracedStore, feed)

	// Kafka publisher and sales-feed consumer
	var productEvents catalogcommand.ProductEventPublisher
	var inventoryEvents inventorycommand.InventoryEventPublisher
	if brokerList := os.Getenv("KAFKA_BROKERS"); brokerList != "" {
		brokers := strings.Split(brokerList, ",")

		publisher, err := kafka.NewPublisher(brokers)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer publisher.Close()
		productEvents = publisher
		inventoryEvents = publisher

		startSalesConsumer(ctx, brokers, store, hub)
	} else {
		logger.Logger.Info().Msg("KAFKA_BROKERS not set, event publishing disabled")
	}

	// Initialize handlers with Wire DI
	catalogHandler, err := catalog.InitializeHTTPHandler(store, hub, productEvents)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize catalog handler")
	}
	catalogRepo := catalog.ProvideCatalogRepository(store, hub)
	inventoryHandler, err := inventory.InitializeHTTPHandler(store, hub, catalogRepo, inventoryEvents)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize inventory handler")
	}
	reportHandler, err := report.InitializeHTTPHandler(store, hub)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize report handler")
	}
	recommendHandler, err := recommendhttp.InitializeHTTPHandler(store, hub)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize recommendation handler")
	}

	logger.Logger.Info().Msg("Handlers initialized")

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	go startHTTPServer(catalogHandler, inventoryHandler, reportHandler, recommendHandler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
	stop()
}

func startHTTPServer(
	catalogHandler *cataloghttp.ProductHandler,
	inventoryHandler *inventoryhttp.InventoryHandler,
	reportHandler *reporthttp.ReportHandler,
	recommendHandler *recommendhttp.RecommendHandler,
	db *sql.DB,
	port string,
) {
	// Setup router
	router := mux.NewRouter()

	// Register routes
	catalogHandler.RegisterRoutes(router)
	inventoryHandler.RegisterRoutes(router)
	reportHandler.RegisterRoutes(router)
	recommendHandler.RegisterRoutes(router)

	// Health check endpoint
	inventoryHandler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	// Server-side spans for every route
	handler := otelhttp.NewHandler(c.Handler(router), "stockpilot-http")

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

// startSalesConsumer applies sale.recorded events to totalSales.
func startSalesConsumer(ctx context.Context, brokers []string, store docstore.Store, hub *docstore.Hub) {
	recordSale, err := inventory.InitializeRecordSaleHandler(store, hub)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize sales handler")
	}

	consumer, err := kafka.NewConsumer(brokers, "stockpilot-sales-feed", []string{kafka.TopicSales})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}

	consumer.RegisterHandler(kafka.EventTypeSaleRecorded, func(ctx context.Context, event kafka.SaleRecordedEvent) error {
		return recordSale.Handle(ctx, inventorycommand.RecordSaleCommand{
			OrgID:    event.OrgID,
			ItemID:   event.ItemID,
			Quantity: event.Quantity,
		})
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}

	go func() {
		<-ctx.Done()
		consumer.Close()
	}()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
