package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongoadapter "github.com/isuprotikroy/Sonciv/internal/adapters/mongo"
	redisadapter "github.com/isuprotikroy/Sonciv/internal/adapters/redis"
	"github.com/isuprotikroy/Sonciv/internal/auth"
	"github.com/isuprotikroy/Sonciv/internal/booking"
	"github.com/isuprotikroy/Sonciv/internal/config"
	httphandler "github.com/isuprotikroy/Sonciv/internal/http"
	"github.com/isuprotikroy/Sonciv/internal/idempotency"
	"github.com/isuprotikroy/Sonciv/internal/observability"
	"github.com/isuprotikroy/Sonciv/internal/payments"
	"github.com/isuprotikroy/Sonciv/internal/rateLimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database("sonciv")

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	redisCache := redisadapter.NewCache(redisClient)
	redisIdemp := redisadapter.NewIdempotency(redisClient)
	idemp := idempotency.NewIdempotency(redisIdemp, time.Hour)
	rl := rateLimit.NewRateLimiter(redisCache)

	bookingsRepo := mongoadapter.NewBookingRepository(db, logger)
	catalogRepo := mongoadapter.NewCatalogRepository(db, redisCache, logger)
	outboxRepo := mongoadapter.NewOutboxRepository(db)
	audit := mongoadapter.NewAuditLogger(db, logger)

	if err := catalogRepo.Seed(context.Background(), mongoadapter.DefaultRateCards()); err != nil {
		log.Fatalf("failed to seed rate cards: %v", err)
	}

	guard := auth.NewGuard(cfg.JWTSecret)
	service := booking.NewService(bookingsRepo, catalogRepo, outboxRepo, audit, logger)

	provider := payments.NewStripeClient(cfg.StripeSecretKey)
	orch := payments.NewOrchestrator(bookingsRepo, provider, cfg.Currency, outboxRepo, audit, logger)

	handlers := httphandler.NewHandlers(cfg, service, orch, catalogRepo, idemp)
	r := httphandler.SetupRouter(handlers, guard, logger, rl, idemp)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	logger.Info("Server exiting")
}
