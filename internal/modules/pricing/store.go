// README: Trip pricing store backed by PostgreSQL; holds the frozen breakdown per trip.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"compass/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// SavePricing writes b verbatim onto the trip. Re-saving replaces the
// previous breakdown, which is how an edited trip gets its new price.
func (s *Store) SavePricing(ctx context.Context, tripID types.ID, b Breakdown) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode breakdown: %w", err)
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET pricing_breakdown = $2,
		    price = $3,
		    pricing_updated_at = NOW()
		WHERE id = $1`,
		string(tripID),
		raw,
		float64(b.Total),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetPricing(ctx context.Context, tripID types.ID) (Breakdown, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `
		SELECT pricing_breakdown
		FROM trips
		WHERE id = $1`, string(tripID),
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Breakdown{}, ErrNotFound
	}
	if err != nil {
		return Breakdown{}, err
	}
	if raw == nil {
		return Breakdown{}, ErrNotFound
	}
	var b Breakdown
	if err := json.Unmarshal(raw, &b); err != nil {
		return Breakdown{}, fmt.Errorf("decode breakdown for trip %s: %w", tripID, err)
	}
	return b, nil
}
