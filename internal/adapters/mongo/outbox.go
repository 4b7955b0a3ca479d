package mongo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/isuprotikroy/Sonciv/internal/domain"
)

type OutboxRecord struct {
	ID            uuid.UUID  `bson:"_id"`
	AggregateType string     `bson:"aggregate_type"`
	AggregateID   uuid.UUID  `bson:"aggregate_id"`
	EventType     string     `bson:"event_type"`
	Payload       []byte     `bson:"payload"`
	CreatedAt     time.Time  `bson:"created_at"`
	PublishedAt   *time.Time `bson:"published_at,omitempty"`
	Status        string     `bson:"status"` // NEW, PUBLISHED
	DedupeKey     string     `bson:"dedupe_key"`
}

type OutboxRepository struct {
	coll *mongo.Collection
}

func NewOutboxRepository(db *mongo.Database) *OutboxRepository {
	return &OutboxRepository{coll: db.Collection("outbox")}
}

func (o *OutboxRepository) Insert(ctx context.Context, rec OutboxRecord) error {
	rec.CreatedAt = time.Now()
	rec.Status = "NEW"
	if _, err := o.coll.InsertOne(ctx, rec); err != nil {
		return errors.Wrap(err, "insert outbox record")
	}
	return nil
}

// BookingEvent records a lifecycle event (booking.created, booking.confirmed,
// booking.cancelled, booking.expired) for the outbox publisher to drain.
func (o *OutboxRepository) BookingEvent(ctx context.Context, eventType string, b domain.Booking) error {
	payload, err := json.Marshal(map[string]interface{}{
		"booking_id":     b.ID,
		"user_id":        b.UserID,
		"type":           b.Type,
		"status":         b.Status,
		"payment_status": b.PaymentStatus,
		"total_amount":   b.TotalAmount,
	})
	if err != nil {
		return errors.Wrap(err, "marshal booking event")
	}
	return o.Insert(ctx, OutboxRecord{
		ID:            uuid.New(),
		AggregateType: "booking",
		AggregateID:   b.ID,
		EventType:     eventType,
		Payload:       payload,
		DedupeKey:     uuid.New().String(),
	})
}

func (o *OutboxRepository) FetchUnpublished(ctx context.Context, limit int64) ([]OutboxRecord, error) {
	cur, err := o.coll.Find(
		ctx,
		bson.M{"status": "NEW"},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, errors.Wrap(err, "fetch outbox records")
	}
	defer cur.Close(ctx)

	var records []OutboxRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, errors.Wrap(err, "decode outbox records")
	}
	return records, nil
}

func (o *OutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID, publishedAt time.Time) error {
	_, err := o.coll.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": "PUBLISHED", "published_at": publishedAt}},
	)
	return errors.Wrap(err, "mark outbox record published")
}
