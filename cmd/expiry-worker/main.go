package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongoadapter "github.com/isuprotikroy/Sonciv/internal/adapters/mongo"
	"github.com/isuprotikroy/Sonciv/internal/adapters/rabbit"
	"github.com/isuprotikroy/Sonciv/internal/config"
	"github.com/isuprotikroy/Sonciv/internal/domain"
	"github.com/isuprotikroy/Sonciv/internal/observability"
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
	repo := mongoadapter.NewBookingRepository(mongoClient.Database("sonciv"), logger)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()
	rabbitPub, err := rabbit.NewPublisher(conn)
	if err != nil {
		log.Fatalf("failed to create publisher: %v", err)
	}

	worker := NewExpiryWorker(repo, rabbitPub, cfg.PendingTTL, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Run(ctx, time.Minute)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutdown expiry worker")
}

// ExpiryWorker sweeps bookings that sat unpaid past the pending TTL and
// cancels them. A booking whose payment lands mid-sweep is left alone.
type ExpiryWorker struct {
	repo       *mongoadapter.BookingRepository
	rabbitPub  *rabbit.Publisher
	pendingTTL time.Duration
	logger     observability.Logger
}

func NewExpiryWorker(repo *mongoadapter.BookingRepository, rabbitPub *rabbit.Publisher, pendingTTL time.Duration, logger observability.Logger) *ExpiryWorker {
	return &ExpiryWorker{repo: repo, rabbitPub: rabbitPub, pendingTTL: pendingTTL, logger: logger}
}

func (w *ExpiryWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			stale, err := w.repo.FindStalePending(ctx, now.Add(-w.pendingTTL), 50)
			if err != nil {
				w.logger.Error("failed to find stale pending bookings", err)
				continue
			}
			for _, b := range stale {
				if err := w.expireWithRetry(ctx, b); err != nil {
					w.logger.Error("failed to expire booking after retries", err)
				}
			}
		}
	}
}

func (w *ExpiryWorker) expireWithRetry(ctx context.Context, b domain.Booking) error {
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		cancelled, err := w.repo.CancelByID(ctx, b.ID)
		if errors.Is(err, domain.ErrNotFound) {
			// no longer pending, a payment won the race
			return nil
		}
		if err != nil {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}

		w.logger.WithField("booking_id", cancelled.ID.String()).Info("expired stale pending booking")

		payload, _ := json.Marshal(map[string]interface{}{
			"booking_id": cancelled.ID,
			"user_id":    cancelled.UserID,
			"type":       cancelled.Type,
		})
		msg := amqp.Publishing{
			MessageId:   "expired:" + cancelled.ID.String(),
			ContentType: "application/json",
			Body:        payload,
		}
		return w.rabbitPub.Publish(ctx, "booking.expired", msg)
	}
	return fmt.Errorf("failed after %d retries", maxRetries)
}
