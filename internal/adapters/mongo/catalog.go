package mongo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	redisadapter "github.com/isuprotikroy/Sonciv/internal/adapters/redis"
	"github.com/isuprotikroy/Sonciv/internal/domain"
	"github.com/isuprotikroy/Sonciv/internal/observability"
)

const rateCacheTTL = 10 * time.Minute

type CatalogRepository struct {
	coll   *mongo.Collection
	cache  *redisadapter.Cache
	logger observability.Logger
}

// NewCatalogRepository wires the rate-card collection with an optional
// read-through cache.
func NewCatalogRepository(db *mongo.Database, cache *redisadapter.Cache, logger observability.Logger) *CatalogRepository {
	return &CatalogRepository{
		coll:   db.Collection("rate_cards"),
		cache:  cache,
		logger: logger,
	}
}

func (c *CatalogRepository) GetRate(ctx context.Context, vertical domain.BookingType, key string) (*domain.RateCard, error) {
	if c.cache != nil {
		if data, err := c.cache.GetRateCard(ctx, string(vertical), key); err == nil && data != nil {
			var card domain.RateCard
			if err := json.Unmarshal(data, &card); err == nil {
				return &card, nil
			}
		}
	}

	var card domain.RateCard
	err := c.coll.FindOne(ctx, bson.M{"vertical": vertical, "key": key}).Decode(&card)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrapf(domain.ErrValidation, "no rate card for %s %q", vertical, key)
	}
	if err != nil {
		return nil, errors.Wrap(err, "find rate card")
	}

	if c.cache != nil {
		if data, err := json.Marshal(card); err == nil {
			if err := c.cache.SetRateCard(ctx, string(vertical), key, data, rateCacheTTL); err != nil {
				c.logger.Warn("failed to cache rate card", err)
			}
		}
	}
	return &card, nil
}

func (c *CatalogRepository) ListByVertical(ctx context.Context, vertical domain.BookingType) ([]domain.RateCard, error) {
	cur, err := c.coll.Find(ctx, bson.M{"vertical": vertical})
	if err != nil {
		return nil, errors.Wrap(err, "list rate cards")
	}
	defer cur.Close(ctx)

	var cards []domain.RateCard
	if err := cur.All(ctx, &cards); err != nil {
		return nil, errors.Wrap(err, "decode rate cards")
	}
	return cards, nil
}

// Seed upserts the given rate cards concurrently. Safe to run on every start.
func (c *CatalogRepository) Seed(ctx context.Context, cards []domain.RateCard) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, card := range cards {
		card := card
		g.Go(func() error {
			_, err := c.coll.UpdateOne(
				gctx,
				bson.M{"vertical": card.Vertical, "key": card.Key},
				bson.M{"$set": card},
				options.Update().SetUpsert(true),
			)
			return err
		})
	}
	return g.Wait()
}

// DefaultRateCards returns the launch catalog.
func DefaultRateCards() []domain.RateCard {
	return []domain.RateCard{
		{Vertical: domain.TypeHotel, Key: "Luxury Palace Hotel", PricePerNight: 15000},
		{Vertical: domain.TypeHotel, Key: "Sonciv Grand Resort", PricePerNight: 12000},
		{Vertical: domain.TypeHotel, Key: "Royal Heritage Hotel", PricePerNight: 18000},

		{Vertical: domain.TypeRide, Key: string(domain.RideCab), BasePrice: 500, PricePerKm: 25},
		{Vertical: domain.TypeRide, Key: string(domain.RideBike), BasePrice: 300, PricePerKm: 15},

		{Vertical: domain.TypeEvent, Key: "Wedding", BasePrice: 200000, PricePerGuest: 2500},
		{Vertical: domain.TypeEvent, Key: "Corporate Event", BasePrice: 150000, PricePerGuest: 2000},
		{Vertical: domain.TypeEvent, Key: "Birthday Party", BasePrice: 75000, PricePerGuest: 1500},
		{Vertical: domain.TypeEvent, Key: "Private Party", BasePrice: 100000, PricePerGuest: 2000},

		{Vertical: domain.TypeLuxury, Key: string(domain.LuxuryJet), PricePerHour: 150000},
		{Vertical: domain.TypeLuxury, Key: string(domain.LuxuryHelicopter), PricePerHour: 80000},
		{Vertical: domain.TypeLuxury, Key: string(domain.LuxuryCar), PricePerHour: 25000},
		{Vertical: domain.TypeLuxury, Key: string(domain.LuxuryYacht), PricePerHour: 100000},
	}
}
