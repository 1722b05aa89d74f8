package pricing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/types"
)

func setupTestStore(t *testing.T) (*Store, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("COMPASS_TEST_DSN")
	if dsn == "" {
		t.Skip("COMPASS_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "connect db")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, applyMigration(ctx, db), "apply migration")
	_, err = db.Exec(ctx, "TRUNCATE TABLE trips")
	require.NoError(t, err, "truncate trips")

	return NewStore(db), db
}

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(filepath.Join(root, "migrations", "0001_trip_pricing.sql"))
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(content))
	return err
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		dir = filepath.Dir(dir)
	}
	return "", errors.New("go.mod not found")
}

func TestStore_SaveAndGetPricing(t *testing.T) {
	store, db := setupTestStore(t)
	ctx := context.Background()

	_, err := db.Exec(ctx, `INSERT INTO trips (id, pickup_address, destination_address) VALUES ($1, $2, $3)`,
		"trip-1", "Lancaster, OH", "Columbus, OH")
	require.NoError(t, err)

	_, err = store.GetPricing(ctx, "trip-1")
	assert.ErrorIs(t, err, ErrNotFound, "unpriced trip")

	b := Breakdown{BaseFare: 50, DistanceCharge: 40, ZoneSurcharge: 50, DeadMileageCharge: 102, Total: 242, HasDeadMileage: true}
	require.NoError(t, store.SavePricing(ctx, "trip-1", b))

	got, err := store.GetPricing(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, b, got)

	var price float64
	require.NoError(t, db.QueryRow(ctx, `SELECT price::float8 FROM trips WHERE id = $1`, "trip-1").Scan(&price))
	assert.Equal(t, 242.0, price)

	// re-pricing an edited trip replaces the frozen breakdown
	b.Total = 250
	require.NoError(t, store.SavePricing(ctx, "trip-1", b))
	got, err = store.GetPricing(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, types.Money(250), got.Total)
}

func TestStore_UnknownTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.SavePricing(ctx, "missing", Breakdown{Total: 1}), ErrNotFound)
	_, err := store.GetPricing(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_TripPricingRoundTrip(t *testing.T) {
	store, db := setupTestStore(t)
	ctx := context.Background()
	_, err := db.Exec(ctx, `INSERT INTO trips (id) VALUES ('trip-2')`)
	require.NoError(t, err)

	svc := NewService(ServiceDeps{Rates: DefaultRates(), Store: store})
	res := svc.Estimate(ctx, Request{DistanceMiles: 10, PickupAddress: "Dublin, OH", DestinationAddress: "Columbus, OH"})
	require.True(t, res.Success)

	require.NoError(t, svc.SaveTripPricing(ctx, "trip-2", *res.Pricing))
	got, err := svc.TripPricing(ctx, "trip-2")
	require.NoError(t, err)
	assert.Equal(t, *res.Pricing, got)
}
