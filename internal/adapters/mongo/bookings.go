package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/isuprotikroy/Sonciv/internal/domain"
	"github.com/isuprotikroy/Sonciv/internal/observability"
)

// BookingRepository persists bookings as single documents. Every read and
// write that acts on behalf of a user carries the user id in the filter, so
// a booking is only ever visible to its owner; a document that exists but
// belongs to someone else is indistinguishable from one that does not exist.
type BookingRepository struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewBookingRepository(db *mongo.Database, logger observability.Logger) *BookingRepository {
	return &BookingRepository{
		coll:   db.Collection("bookings"),
		logger: logger,
	}
}

func (r *BookingRepository) Insert(ctx context.Context, b *domain.Booking) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		r.logger.Error("failed to insert booking", err)
		return errors.Wrap(err, "insert booking")
	}
	return nil
}

func (r *BookingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, errors.Wrap(err, "find bookings")
	}
	defer cur.Close(ctx)

	var bookings []domain.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, errors.Wrap(err, "decode bookings")
	}
	return bookings, nil
}

func (r *BookingRepository) FindOne(ctx context.Context, userID, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find booking")
	}
	return &b, nil
}

func (r *BookingRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b domain.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "update booking")
	}
	return &b, nil
}

// ApplyPatch merges the restricted patch into the booking, scoped by
// ownership. The update is a single-document $set, applied atomically.
func (r *BookingRepository) ApplyPatch(ctx context.Context, userID, id uuid.UUID, patch domain.Patch) (*domain.Booking, error) {
	set := bson.M{"updated_at": time.Now()}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Details != nil {
		set["details"] = *patch.Details
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id, "user_id": userID}, bson.M{"$set": set})
}

// Cancel sets status=cancelled regardless of the current status. Calling it
// on an already cancelled booking succeeds and leaves it cancelled.
func (r *BookingRepository) Cancel(ctx context.Context, userID, id uuid.UUID) (*domain.Booking, error) {
	return r.findOneAndUpdate(
		ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"status": domain.StatusCancelled, "updated_at": time.Now()}},
	)
}

// ConfirmPayment links the provider intent and moves the booking to
// confirmed/paid in one atomic update. Cancelled bookings are excluded by
// the filter; they are never resurrected by a late confirmation.
func (r *BookingRepository) ConfirmPayment(ctx context.Context, userID, id uuid.UUID, paymentID string) (*domain.Booking, error) {
	b, err := r.findOneAndUpdate(
		ctx,
		bson.M{"_id": id, "user_id": userID, "status": bson.M{"$ne": domain.StatusCancelled}},
		bson.M{"$set": bson.M{
			"payment_status": domain.PaymentCompleted,
			"status":         domain.StatusConfirmed,
			"payment_id":     paymentID,
			"updated_at":     time.Now(),
		}},
	)
	if errors.Is(err, domain.ErrNotFound) {
		// Distinguish a cancelled booking from one the caller cannot see.
		if _, lookupErr := r.FindOne(ctx, userID, id); lookupErr == nil {
			return nil, domain.ErrBookingCancelled
		}
		return nil, domain.ErrNotFound
	}
	return b, err
}

// FindStalePending returns pending, unpaid bookings created before cutoff.
func (r *BookingRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int64) ([]domain.Booking, error) {
	cur, err := r.coll.Find(ctx, bson.M{
		"status":         domain.StatusPending,
		"payment_status": domain.PaymentPending,
		"created_at":     bson.M{"$lte": cutoff},
	}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "find stale bookings")
	}
	defer cur.Close(ctx)

	var bookings []domain.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, errors.Wrap(err, "decode stale bookings")
	}
	return bookings, nil
}

// CancelByID is the system-scoped cancel used by the expiry worker. The
// filter still requires the booking to be pending so a payment that lands
// between scan and cancel wins.
func (r *BookingRepository) CancelByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.findOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": domain.StatusPending},
		bson.M{"$set": bson.M{"status": domain.StatusCancelled, "updated_at": time.Now()}},
	)
}
