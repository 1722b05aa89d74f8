package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"compass/internal/modules/distance"
)

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client  *maps.Client
	timeout time.Duration
}

// NewRouteService creates a new RouteService with the given API Key. Extra
// options (for example maps.WithBaseURL) are passed to the maps client.
func NewRouteService(apiKey string, opts ...maps.ClientOption) (*RouteService, error) {
	client, err := newClient(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &RouteService{client: client, timeout: distance.DefaultTimeout}, nil
}

// WithTimeout sets the bound applied to each maps call. Non-positive values
// keep the current bound.
func (s *RouteService) WithTimeout(d time.Duration) *RouteService {
	if d > 0 {
		s.timeout = d
	}
	return s
}

func newClient(apiKey string, opts ...maps.ClientOption) (*maps.Client, error) {
	if apiKey == "" {
		return nil, distance.ErrNotConfigured
	}
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return client, nil
}

// DistanceMeters returns the driving distance of the default route between
// two addresses. It satisfies distance.Source.
func (s *RouteService) DistanceMeters(ctx context.Context, origin, destination string) (int, error) {
	r := &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsImperial,
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.DistanceMatrix(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("maps api error: %v: %w", err, distance.ErrUpstream)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, distance.ErrNoRoute
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return 0, fmt.Errorf("element status %s: %w", el.Status, distance.ErrNoRoute)
	}
	return el.Distance.Meters, nil
}

// Leg is the route the booking screen bills against.
type Leg struct {
	Miles    float64       `json:"miles"`
	Meters   int           `json:"meters"`
	Duration time.Duration `json:"-"`
	Minutes  float64       `json:"minutes"`
	Summary  string        `json:"summary"`
}

// FastestLegMiles asks for driving alternatives and returns the one with the
// shortest duration, which is not always the shortest distance.
func (s *RouteService) FastestLegMiles(ctx context.Context, origin, destination string) (Leg, error) {
	r := &maps.DirectionsRequest{
		Origin:       origin,
		Destination:  destination,
		Mode:         maps.TravelModeDriving,
		Alternatives: true,
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return Leg{}, fmt.Errorf("maps api error: %v: %w", err, distance.ErrUpstream)
	}

	var best *maps.Route
	var bestDuration time.Duration
	for i := range routes {
		if len(routes[i].Legs) == 0 {
			continue
		}
		d := routeDuration(routes[i])
		if best == nil || d < bestDuration {
			best, bestDuration = &routes[i], d
		}
	}
	if best == nil {
		return Leg{}, distance.ErrNoRoute
	}

	meters := 0
	for _, leg := range best.Legs {
		meters += leg.Distance.Meters
	}
	return Leg{
		Miles:    distance.MetersToMilesRounded(meters),
		Meters:   meters,
		Duration: bestDuration,
		Minutes:  bestDuration.Minutes(),
		Summary:  best.Summary,
	}, nil
}

func routeDuration(r maps.Route) time.Duration {
	var d time.Duration
	for _, leg := range r.Legs {
		d += leg.Duration
	}
	return d
}
