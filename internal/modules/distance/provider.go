// README: Dead-mileage provider: depot legs over a routing Source, bounded and never failing.
package distance

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"compass/internal/types"
)

// Provider computes depot distances. It holds no per-request state.
type Provider struct {
	source  Source
	depot   string
	timeout time.Duration
	log     *zap.Logger
}

func NewProvider(source Source, depotAddress string, timeout time.Duration, log *zap.Logger) *Provider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{source: source, depot: depotAddress, timeout: timeout, log: log}
}

// DeadMileage returns depot→pickup plus destination→depot for a one-way trip,
// or depot→pickup doubled for a round trip (the vehicle goes back from the
// pickup point once the return leg ends). A failed leg yields an estimated zero;
// calls are never retried.
func (p *Provider) DeadMileage(ctx context.Context, pickup, destination string, roundTrip bool) DeadMileage {
	if p.source == nil || p.depot == "" {
		p.log.Warn("dead mileage unavailable", zap.Error(ErrNotConfigured))
		return failed(ErrNotConfigured)
	}

	toPickup, err := p.legMiles(ctx, p.depot, pickup)
	if err != nil {
		p.log.Warn("depot to pickup distance failed", zap.Error(err))
		return failed(err)
	}
	if roundTrip {
		return DeadMileage{Miles: types.Round2(toPickup * 2), Status: StatusResolved}
	}

	fromDestination, err := p.legMiles(ctx, destination, p.depot)
	if err != nil {
		p.log.Warn("destination to depot distance failed", zap.Error(err))
		return failed(err)
	}
	return DeadMileage{Miles: types.Round2(toPickup + fromDestination), Status: StatusResolved}
}

func (p *Provider) legMiles(ctx context.Context, origin, destination string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	meters, err := p.source.DistanceMeters(ctx, origin, destination)
	if err != nil {
		return 0, fmt.Errorf("distance %q -> %q: %w", origin, destination, err)
	}
	if meters < 0 {
		return 0, fmt.Errorf("distance %q -> %q: negative distance %d: %w", origin, destination, meters, ErrUpstream)
	}
	return MetersToMilesRounded(meters), nil
}

// MetersToMilesRounded converts meters to miles rounded to 2 decimals.
func MetersToMilesRounded(meters int) float64 {
	return types.Round2(float64(meters) * MetersToMiles)
}
