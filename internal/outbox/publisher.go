package outbox

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	mongoadapter "github.com/isuprotikroy/Sonciv/internal/adapters/mongo"
	"github.com/isuprotikroy/Sonciv/internal/adapters/rabbit"
	"github.com/isuprotikroy/Sonciv/internal/observability"
)

// Publisher drains staged booking events to the broker. Records are marked
// published only after the broker accepts them, so a crash mid-batch means
// redelivery, never loss. Consumers dedupe on MessageId.
type Publisher struct {
	repo      *mongoadapter.OutboxRepository
	rabbitPub *rabbit.Publisher
	logger    observability.Logger
}

func NewPublisher(repo *mongoadapter.OutboxRepository, rabbitPub *rabbit.Publisher, logger observability.Logger) *Publisher {
	return &Publisher{repo: repo, rabbitPub: rabbitPub, logger: logger}
}

func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.drain(ctx)
		}
	}
}

func (p *Publisher) drain(ctx context.Context) {
	records, err := p.repo.FetchUnpublished(ctx, 10)
	if err != nil {
		p.logger.Error("failed to fetch unpublished outbox records", err)
		return
	}
	for _, rec := range records {
		msg := amqp.Publishing{
			MessageId:   rec.DedupeKey,
			ContentType: "application/json",
			Body:        rec.Payload,
		}
		if err := p.rabbitPub.Publish(ctx, rec.EventType, msg); err != nil {
			p.logger.WithField("record_id", rec.ID.String()).Error("failed to publish outbox record", err)
			continue
		}
		if err := p.repo.MarkPublished(ctx, rec.ID, time.Now()); err != nil {
			p.logger.WithField("record_id", rec.ID.String()).Error("failed to mark outbox record published", err)
		}
	}
}
