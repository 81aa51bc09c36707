package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"afrikticket_backend/internals/configs"
	database "afrikticket_backend/internals/databases"
	"afrikticket_backend/internals/features/events/tickets/credential"
	scheduler "afrikticket_backend/internals/features/users/auth/scheduler"
	helper "afrikticket_backend/internals/helpers"
	"afrikticket_backend/internals/helpers/storage"
	middlewares "afrikticket_backend/internals/middlewares"
	routes "afrikticket_backend/internals/route"
	routeDetails "afrikticket_backend/internals/route/details"
	adminSeed "afrikticket_backend/internals/seeds/users/admin"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		BodyLimit:               configs.GetInt("BODY_LIMIT_MB", 25) * 1024 * 1024,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	middlewares.SetupMiddlewares(app)

	// DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()
	if configs.GetEnv("AUTO_MIGRATE") == "true" {
		if err := database.AutoMigrate(database.DB); err != nil {
			log.Fatalf("❌ migrate: %v", err)
		}
		if err := adminSeed.SeedSuperAdmin(context.Background(), database.DB); err != nil {
			log.Printf("[WARN] super admin seed: %v", err)
		}
	}

	store, err := storage.NewFromEnv()
	if err != nil {
		log.Fatalf("❌ storage: %v", err)
	}
	signer, err := credential.NewSigner(configs.TicketSecret)
	if err != nil {
		log.Fatalf("❌ ticket signer: %v", err)
	}

	bg, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	scheduler.StartBlacklistCleanupScheduler(bg, database.DB)

	routes.SetupRoutes(app, routeDetails.Deps{
		DB:        database.DB,
		Validator: validator.New(),
		Store:     store,
		Signer:    signer,
	})

	// Keep-Alive & server timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("✅ Listening on :%s (storage=%s)", port, configs.StorageDriver)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown, then close the DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
