package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"debo-loans/internal/adapters/cache"
	"debo-loans/internal/adapters/http/middleware"
	"debo-loans/internal/adapters/http/routes"
	"debo-loans/internal/adapters/mail"
	"debo-loans/internal/adapters/messaging"
	"debo-loans/internal/adapters/persistence/models"
	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/adapters/storage"
	"debo-loans/internal/config"
	"debo-loans/internal/core/services"
	"debo-loans/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"

	_ "debo-loans/docs" // Swagger docs
)

// @title Debo Loans API
// @version 1.0
// @description Microfinance loan management API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@debo-loans.example

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	metrics.Init()

	// Rate limiter storage; nil keeps counters in memory
	var limiterStorage fiber.Storage
	if client := cache.NewRedisClient(cfg.Redis); client != nil {
		limiterStorage = cache.NewRedisStorage(client, "debo:limiter:")
	}

	var publisher interface {
		services.EventPublisher
		io.Closer
	} = messaging.NoopPublisher{}
	if cfg.AMQP.URL != "" {
		publisher = messaging.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
		log.Printf("✅ Notifications published to queue %s", cfg.AMQP.Queue)
	}

	var receipts services.ReceiptStore = storage.PlaceholderReceiptStore{}
	if cfg.MinIO.Endpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := storage.NewMinIOReceiptStore(ctx, cfg.MinIO)
		cancel()
		if err != nil {
			log.Printf("⚠️ Warning: MinIO unavailable, using placeholder receipts: %v", err)
		} else {
			receipts = store
		}
	}

	bg := services.NewBackground(30 * time.Second)
	store := repositories.NewStore(db)

	cronService := services.NewCronService(store, cfg.Scheduler.CleanupSpec, time.Now)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Debo Loans API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg, limiterStorage)

	routes.Setup(app, routes.Dependencies{
		Store:      store,
		Config:     cfg,
		Storage:    limiterStorage,
		Mailer:     mail.New(cfg.Mail),
		Publisher:  publisher,
		Receipts:   receipts,
		Background: bg,
		Now:        time.Now,
	})

	go gracefulShutdown(app)

	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}

	// Listen has returned after Shutdown; drain background work before closing adapters
	cronService.Stop()
	bg.Wait()
	if err := publisher.Close(); err != nil {
		log.Printf("❌ Error closing publisher: %v", err)
	}
	if limiterStorage != nil {
		_ = limiterStorage.Close()
	}
	log.Println("✅ Server stopped gracefully")
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
}
