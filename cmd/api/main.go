package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"retailsage/internal/ai"
	"retailsage/internal/backend"
	"retailsage/internal/catalog"
	"retailsage/internal/checkout"
	"retailsage/internal/config"
	"retailsage/internal/database"
	"retailsage/internal/logger"
	"retailsage/internal/receipt"
	"retailsage/internal/repository"
	"retailsage/internal/server"
	"retailsage/internal/session"
	"retailsage/internal/transport"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.CloseResources(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	done <- true
}

func main() {
	// .env is optional; viper falls back to the environment
	godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting RetailSage POS service",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	// Sale journal database
	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to sale journal database", zap.Error(err))
	}

	if err := database.RunMigrations(db, "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully")

	// Redis backs the session store and print-route rate limiting
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}

	sessions := session.NewService(session.NewRedisStore(redisClient, "retailsage"))
	backendClient := backend.NewClient(cfg.Backend, sessions, log)

	journal := repository.NewSaleJournalRepository(db)

	catalogCache := catalog.NewCache(backendClient, log)
	if err := catalogCache.Refresh(context.Background()); err != nil {
		// The cache refills on the next successful refresh; an empty
		// catalog at boot only delays checkout, it does not break it.
		log.Warn("Initial catalog refresh failed", zap.Error(err))
	}

	checkoutService := checkout.NewService(backendClient, catalogCache, journal, log)

	sink, err := receipt.NewSink(cfg.Print)
	if err != nil {
		log.Fatal("Invalid print configuration", zap.Error(err))
	}

	handlers := []server.RouteRegistrar{
		transport.NewPrintHandler(backendClient, sink, log),
		transport.NewCheckoutHandler(catalogCache, checkoutService, sessions, sink, cfg.Sales.TaxRate, log),
		transport.NewReconcileHandler(checkoutService, log),
	}

	if cfg.AI.APIKey != "" {
		advisor, err := ai.NewAdvisor(context.Background(), cfg.AI)
		if err != nil {
			log.Fatal("Failed to initialize AI advisor", zap.Error(err))
		}
		handlers = append(handlers, transport.NewAIHandler(advisor, log))
	} else {
		log.Info("GEMINI_API_KEY not set, AI routes disabled")
	}

	srv := server.NewServer(cfg, log, db, redisClient, handlers...)

	done := make(chan bool, 1)

	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
