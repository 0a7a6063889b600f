package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"localoffice/cmd"
	"localoffice/internal/adapters/in/queue"
	"localoffice/internal/adapters/out/postgres/batchrepo"
	"localoffice/internal/adapters/out/postgres/deliveryrepo"
	"localoffice/internal/adapters/out/postgres/orderrepo"
	"localoffice/internal/adapters/out/postgres/slotrepo"
	"localoffice/internal/adapters/out/rabbitmq"
	"localoffice/internal/core/ports"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	rabbit, err := rabbitmq.Dial(configs.AMQPURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbit.Close()

	for _, queueName := range []string{ports.QueueBatchLock, ports.QueueDeliveryUpdates} {
		if err = rabbit.DeclareQueue(queueName); err != nil {
			log.Fatalf("Failed to declare queue %s: %v", queueName, err)
		}
	}

	root := cmd.NewCompositionRoot(configs, gormDB, rabbit, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startWorkers(ctx, &root, logger)

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, &root, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:   envOrDefault("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),
		AMQPURL:    os.Getenv("AMQP_URL"),

		DispatchAPIKey:        os.Getenv("DISPATCH_API_KEY"),
		DispatchBaseURL:       os.Getenv("DISPATCH_BASE_URL"),
		DispatchWebhookSecret: os.Getenv("DISPATCH_WEBHOOK_SECRET"),

		OloAPIKey:        os.Getenv("OLO_API_KEY"),
		OloBaseURL:       os.Getenv("OLO_BASE_URL"),
		OloWebhookSecret: os.Getenv("OLO_WEBHOOK_SECRET"),

		UberClientID:      os.Getenv("UBER_CLIENT_ID"),
		UberClientSecret:  os.Getenv("UBER_CLIENT_SECRET"),
		UberWebhookSecret: os.Getenv("UBER_WEBHOOK_SECRET"),
		UberBaseURL:       os.Getenv("UBER_BASE_URL"),
		UberAuthURL:       os.Getenv("UBER_AUTH_URL"),
		UberScope:         os.Getenv("UBER_SCOPE"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		configs.DBHost, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBPort, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&slotrepo.ProgramSlotDTO{},
		&batchrepo.BatchDTO{},
		&deliveryrepo.DeliveryJobDTO{},
		&deliveryrepo.ProofDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func startWorkers(ctx context.Context, root *cmd.CompositionRoot, logger *slog.Logger) {
	consumers := []*queue.Consumer{
		root.CreateDeliveryUpdateConsumer(),
		root.CreateBatchLockConsumer(),
	}

	for _, consumer := range consumers {
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("consumer stopped", "error", err)
			}
		}()
	}
}

func startWebServer(ctx context.Context, root *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	root.CreateHTTPServer().RegisterRoutes(e)

	go func() {
		<-ctx.Done()
		if err := e.Shutdown(context.Background()); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && err != http.ErrServerClosed {
		e.Logger.Fatal(err)
	}
}
