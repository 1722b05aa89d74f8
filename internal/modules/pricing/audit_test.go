package pricing

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/modules/calendar"
	"compass/internal/modules/distance"
	"compass/internal/modules/jurisdiction"
)

func TestNewQuoteRecord(t *testing.T) {
	name := "Christmas Day"
	res := Result{
		Success:      true,
		QuoteID:      "q-1",
		Pricing:      &Breakdown{Total: 180},
		Jurisdiction: &jurisdiction.Info{ZonesCrossed: 2, Basis: jurisdiction.BasisOutsideOverride},
		DeadMileage:  &distance.DeadMileage{Miles: 12.5, Status: distance.StatusResolved},
		Holiday:      &calendar.HolidayInfo{IsHoliday: true, Name: &name},
	}
	q := NewQuoteRecord(Request{IsRoundTrip: true, DistanceMiles: 9.75}, res)

	assert.Equal(t, "q-1", q.QuoteID)
	assert.Equal(t, "$180.00", q.Total)
	assert.Equal(t, "outside_override", q.ZoneBasis)
	assert.Equal(t, 2, q.ZonesCrossed)
	assert.Equal(t, "resolved", q.DeadMileageStatus)
	assert.Equal(t, "Christmas Day", q.Holiday)
	assert.WithinDuration(t, time.Now(), q.QuotedAt, time.Minute)

	v := q.values()
	assert.Equal(t, "true", v["round_trip"])
	assert.Equal(t, "9.75", v["distance_miles"])
	assert.Equal(t, "12.50", v["dead_mileage_miles"])
}

func TestNewQuoteRecord_Failure(t *testing.T) {
	q := NewQuoteRecord(Request{}, Result{QuoteID: "q-2", Error: "bad request"})
	assert.False(t, q.Success)
	assert.Empty(t, q.Total)
	assert.Empty(t, q.ZoneBasis)
	assert.Equal(t, "bad request", q.Error)
}

func TestRedisAuditor_RecordAndRecent(t *testing.T) {
	addr := os.Getenv("COMPASS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("COMPASS_TEST_REDIS_ADDR not set; skipping redis-backed tests")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Del(ctx, quoteStreamKey).Err())

	a := NewRedisAuditor(client)
	require.NoError(t, a.Record(ctx, QuoteRecord{QuoteID: "first", Success: true}))
	require.NoError(t, a.Record(ctx, QuoteRecord{QuoteID: "second", Success: false, Error: "bad request"}))

	recent, err := a.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "second", recent[0]["quote_id"])
	assert.Equal(t, "false", recent[0]["success"])
	assert.Equal(t, "first", recent[1]["quote_id"])
}
