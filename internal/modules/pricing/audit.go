// README: Quote audit trail backed by a capped Redis stream.
package pricing

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	quoteStreamKey = "pricing:quotes"
	// quoteStreamMaxLen caps the stream; trimming is approximate.
	quoteStreamMaxLen = 100_000
)

// Auditor records every quote so billing disputes can be traced to the
// inputs and fallbacks that produced a price.
type Auditor interface {
	Record(ctx context.Context, q QuoteRecord) error
}

// QuoteRecord is the flattened audit entry for one Estimate call.
type QuoteRecord struct {
	QuoteID           string
	Success           bool
	Error             string
	Total             string
	IsRoundTrip       bool
	DistanceMiles     float64
	ZoneBasis         string
	ZonesCrossed      int
	DeadMileageStatus string
	DeadMileageMiles  float64
	Holiday           string
	QuotedAt          time.Time
}

func NewQuoteRecord(req Request, res Result) QuoteRecord {
	q := QuoteRecord{
		QuoteID:       res.QuoteID,
		Success:       res.Success,
		Error:         res.Error,
		IsRoundTrip:   req.IsRoundTrip,
		DistanceMiles: req.DistanceMiles,
		QuotedAt:      time.Now().UTC(),
	}
	if res.Pricing != nil {
		q.Total = res.Pricing.Total.String()
	}
	if res.Jurisdiction != nil {
		q.ZoneBasis = string(res.Jurisdiction.Basis)
		q.ZonesCrossed = res.Jurisdiction.ZonesCrossed
	}
	if res.DeadMileage != nil {
		q.DeadMileageStatus = string(res.DeadMileage.Status)
		q.DeadMileageMiles = res.DeadMileage.Miles
	}
	if res.Holiday != nil && res.Holiday.Name != nil {
		q.Holiday = *res.Holiday.Name
	}
	return q
}

func (q QuoteRecord) values() map[string]interface{} {
	return map[string]interface{}{
		"quote_id":            q.QuoteID,
		"success":             strconv.FormatBool(q.Success),
		"error":               q.Error,
		"total":               q.Total,
		"round_trip":          strconv.FormatBool(q.IsRoundTrip),
		"distance_miles":      strconv.FormatFloat(q.DistanceMiles, 'f', 2, 64),
		"zone_basis":          q.ZoneBasis,
		"zones_crossed":       q.ZonesCrossed,
		"dead_mileage_status": q.DeadMileageStatus,
		"dead_mileage_miles":  strconv.FormatFloat(q.DeadMileageMiles, 'f', 2, 64),
		"holiday":             q.Holiday,
		"quoted_at":           q.QuotedAt.Format(time.RFC3339),
	}
}

type RedisAuditor struct {
	redis *redis.Client
}

func NewRedisAuditor(redis *redis.Client) *RedisAuditor {
	return &RedisAuditor{redis: redis}
}

func (a *RedisAuditor) Record(ctx context.Context, q QuoteRecord) error {
	return a.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: quoteStreamKey,
		MaxLen: quoteStreamMaxLen,
		Approx: true,
		Values: q.values(),
	}).Err()
}

// Recent returns up to n of the newest audit entries, newest first.
func (a *RedisAuditor) Recent(ctx context.Context, n int64) ([]map[string]interface{}, error) {
	msgs, err := a.redis.XRevRangeN(ctx, quoteStreamKey, "+", "-", n).Result()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, len(msgs))
	for i, m := range msgs {
		out[i] = m.Values
	}
	return out, nil
}
