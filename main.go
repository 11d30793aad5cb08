package main

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"leadboard/config"
	"leadboard/middleware"
	"leadboard/routes"
	"leadboard/utils"
	"leadboard/worker"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	if config.AppConfig.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		})
		if err != nil {
			logger.Fatalf("Failed to initialize Sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := config.ConnectRedis()
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	cache := utils.NewCache(redisClient, time.Duration(config.AppConfig.CacheTTL)*time.Second)

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	app.Use(middleware.CORS())

	// Start the stats reconciler
	statsWorker := worker.NewStatsWorker(config.DB, time.Duration(config.AppConfig.StatsInterval)*time.Second, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go statsWorker.Start(ctx)

	// Setup routes
	routes.SetupRoutes(app, config.DB, cache, logger)

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "running",
			"version": "1.0.0",
		})
	})

	// Start server
	logger.Printf("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
