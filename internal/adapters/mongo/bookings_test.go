package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongoadapter "github.com/isuprotikroy/Sonciv/internal/adapters/mongo"
	"github.com/isuprotikroy/Sonciv/internal/domain"
	"github.com/isuprotikroy/Sonciv/internal/observability"
)

func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForExec([]string{"mongosh", "--eval", "db.runCommand('ping').ok"}),
		},
		Started: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatal(err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://"+host+":"+port.Port()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Disconnect(ctx) })

	return client.Database("sonciv_test")
}

func rideBooking(t *testing.T, userID uuid.UUID) domain.Booking {
	t.Helper()
	b, err := domain.NewBooking(userID, domain.TypeRide, domain.Details{
		Ride: &domain.RideDetails{
			RideType:       domain.RideCab,
			PickupLocation: "Airport",
			DropLocation:   "City Centre",
			RideDate:       time.Now().AddDate(0, 0, 1),
		},
	}, 750)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBookingRepository_OwnershipScoping(t *testing.T) {
	ctx := context.Background()
	repo := mongoadapter.NewBookingRepository(startMongo(t), observability.NewLogger())

	userID := uuid.New()
	b := rideBooking(t, userID)
	if err := repo.Insert(ctx, &b); err != nil {
		t.Fatal(err)
	}

	got, err := repo.FindOne(ctx, userID, b.ID)
	if err != nil {
		t.Fatalf("find own booking: %v", err)
	}
	if got.Details.Ride == nil || got.Details.Ride.PickupLocation != "Airport" {
		t.Errorf("details did not round-trip: %+v", got.Details)
	}

	if _, err := repo.FindOne(ctx, uuid.New(), b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign find err = %v, want ErrNotFound", err)
	}
	if _, err := repo.Cancel(ctx, uuid.New(), b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign cancel err = %v, want ErrNotFound", err)
	}

	mine, err := repo.FindByUser(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 {
		t.Fatalf("len = %d, want 1", len(mine))
	}
	theirs, err := repo.FindByUser(ctx, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(theirs) != 0 {
		t.Fatalf("len = %d, want 0", len(theirs))
	}
}

func TestBookingRepository_ConfirmPayment(t *testing.T) {
	ctx := context.Background()
	repo := mongoadapter.NewBookingRepository(startMongo(t), observability.NewLogger())

	userID := uuid.New()
	b := rideBooking(t, userID)
	if err := repo.Insert(ctx, &b); err != nil {
		t.Fatal(err)
	}

	confirmed, err := repo.ConfirmPayment(ctx, userID, b.ID, "pi_123")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != domain.StatusConfirmed {
		t.Errorf("status = %v, want confirmed", confirmed.Status)
	}
	if confirmed.PaymentStatus != domain.PaymentCompleted {
		t.Errorf("payment status = %v, want completed", confirmed.PaymentStatus)
	}
	if confirmed.PaymentID != "pi_123" {
		t.Errorf("payment id = %q, want pi_123", confirmed.PaymentID)
	}
}

func TestBookingRepository_ConfirmPayment_CancelledStaysCancelled(t *testing.T) {
	ctx := context.Background()
	repo := mongoadapter.NewBookingRepository(startMongo(t), observability.NewLogger())

	userID := uuid.New()
	b := rideBooking(t, userID)
	if err := repo.Insert(ctx, &b); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Cancel(ctx, userID, b.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.ConfirmPayment(ctx, userID, b.ID, "pi_late"); !errors.Is(err, domain.ErrBookingCancelled) {
		t.Fatalf("err = %v, want ErrBookingCancelled", err)
	}

	got, err := repo.FindOne(ctx, userID, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusCancelled {
		t.Errorf("status = %v, want cancelled", got.Status)
	}
	if got.PaymentID != "" {
		t.Errorf("payment id = %q, want empty", got.PaymentID)
	}
}

func TestBookingRepository_CancelIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := mongoadapter.NewBookingRepository(startMongo(t), observability.NewLogger())

	userID := uuid.New()
	b := rideBooking(t, userID)
	if err := repo.Insert(ctx, &b); err != nil {
		t.Fatal(err)
	}

	first, err := repo.Cancel(ctx, userID, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := repo.Cancel(ctx, userID, b.ID)
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if first.Status != domain.StatusCancelled || second.Status != domain.StatusCancelled {
		t.Errorf("statuses = %v/%v, want cancelled", first.Status, second.Status)
	}
}

func TestBookingRepository_StalePendingSweep(t *testing.T) {
	ctx := context.Background()
	repo := mongoadapter.NewBookingRepository(startMongo(t), observability.NewLogger())

	userID := uuid.New()
	b := rideBooking(t, userID)
	if err := repo.Insert(ctx, &b); err != nil {
		t.Fatal(err)
	}
	paid := rideBooking(t, userID)
	if err := repo.Insert(ctx, &paid); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.ConfirmPayment(ctx, userID, paid.ID, "pi_paid"); err != nil {
		t.Fatal(err)
	}

	stale, err := repo.FindStalePending(ctx, time.Now().Add(time.Minute), 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(stale) != 1 || stale[0].ID != b.ID {
		t.Fatalf("stale = %v, want only the unpaid booking", stale)
	}

	cancelled, err := repo.CancelByID(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Errorf("status = %v, want cancelled", cancelled.Status)
	}

	// A second sweep pass finds nothing to do.
	if _, err := repo.CancelByID(ctx, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
