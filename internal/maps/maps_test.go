package maps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"compass/internal/modules/distance"
	"compass/internal/modules/jurisdiction"
)

// fakeMaps serves canned Google Maps responses keyed by request path.
func fakeMaps(t *testing.T, bodies map[string]string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == "/maps/api/directions/json" && r.URL.Query().Get("alternatives") != "true" {
			http.Error(w, "alternatives not requested", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		fmt.Fprintln(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestNewRouteService_RequiresKey(t *testing.T) {
	_, err := NewRouteService("")
	assert.ErrorIs(t, err, distance.ErrNotConfigured)
	_, err = NewGeocodeService("")
	assert.ErrorIs(t, err, distance.ErrNotConfigured)
}

func TestRouteService_DistanceMeters(t *testing.T) {
	base := fakeMaps(t, map[string]string{
		"/maps/api/distancematrix/json": `{
			"status": "OK",
			"rows": [{"elements": [{"status": "OK", "distance": {"text": "10 mi", "value": 16093}, "duration": {"text": "15 mins", "value": 900}}]}]
		}`,
	})
	svc, err := NewRouteService("test-key", maps.WithBaseURL(base))
	require.NoError(t, err)

	meters, err := svc.DistanceMeters(context.Background(), "5050 Blazer Pkwy, Dublin, OH", "Columbus, OH")
	require.NoError(t, err)
	assert.Equal(t, 16093, meters)
	assert.Equal(t, 10.0, distance.MetersToMilesRounded(meters))
}

func TestRouteService_DistanceMetersNoRoute(t *testing.T) {
	base := fakeMaps(t, map[string]string{
		"/maps/api/distancematrix/json": `{"status": "OK", "rows": [{"elements": [{"status": "ZERO_RESULTS"}]}]}`,
	})
	svc, err := NewRouteService("test-key", maps.WithBaseURL(base))
	require.NoError(t, err)

	_, err = svc.DistanceMeters(context.Background(), "Dublin, OH", "Honolulu, HI")
	assert.ErrorIs(t, err, distance.ErrNoRoute)
}

func TestRouteService_DistanceMetersUpstreamError(t *testing.T) {
	base := fakeMaps(t, map[string]string{
		"/maps/api/distancematrix/json": `{"status": "REQUEST_DENIED", "error_message": "bad key"}`,
	})
	svc, err := NewRouteService("test-key", maps.WithBaseURL(base))
	require.NoError(t, err)

	_, err = svc.DistanceMeters(context.Background(), "a", "b")
	assert.True(t, errors.Is(err, distance.ErrUpstream))
}

func TestRouteService_FeedsDeadMileageProvider(t *testing.T) {
	base := fakeMaps(t, map[string]string{
		"/maps/api/distancematrix/json": `{
			"status": "OK",
			"rows": [{"elements": [{"status": "OK", "distance": {"value": 16093}, "duration": {"value": 900}}]}]
		}`,
	})
	svc, err := NewRouteService("test-key", maps.WithBaseURL(base))
	require.NoError(t, err)

	p := distance.NewProvider(svc, "5050 Blazer Pkwy # 100, Dublin, OH 43017", 0, nil)
	got := p.DeadMileage(context.Background(), "Lancaster, OH", "Columbus, OH", false)
	assert.Equal(t, distance.DeadMileage{Miles: 20, Status: distance.StatusResolved}, got)
}

func TestRouteService_FastestLegMiles(t *testing.T) {
	base := fakeMaps(t, map[string]string{
		"/maps/api/directions/json": `{
			"status": "OK",
			"routes": [
				{"summary": "US-33", "legs": [{"distance": {"value": 24140}, "duration": {"value": 1500}}]},
				{"summary": "I-70 W", "legs": [{"distance": {"value": 20500}, "duration": {"value": 1200}}]},
				{"summary": "empty", "legs": []}
			]
		}`,
	})
	svc, err := NewRouteService("test-key", maps.WithBaseURL(base))
	require.NoError(t, err)

	leg, err := svc.FastestLegMiles(context.Background(), "Lancaster, OH", "Columbus, OH")
	require.NoError(t, err)
	assert.Equal(t, "I-70 W", leg.Summary)
	assert.Equal(t, 20500, leg.Meters)
	assert.Equal(t, 12.74, leg.Miles)
	assert.Equal(t, 20.0, leg.Minutes)
}

func TestRouteService_FastestLegMilesNoRoute(t *testing.T) {
	base := fakeMaps(t, map[string]string{
		"/maps/api/directions/json": `{"status": "ZERO_RESULTS", "routes": []}`,
	})
	svc, err := NewRouteService("test-key", maps.WithBaseURL(base))
	require.NoError(t, err)

	_, err = svc.FastestLegMiles(context.Background(), "Dublin, OH", "Honolulu, HI")
	assert.Error(t, err)
}

func TestRouteService_CallsAreBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	svc, err := NewRouteService("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, distance.DefaultTimeout, svc.timeout)
	svc.WithTimeout(50 * time.Millisecond)

	start := time.Now()
	_, err = svc.FastestLegMiles(context.Background(), "a", "b")
	assert.ErrorIs(t, err, distance.ErrUpstream)
	assert.Less(t, time.Since(start), 2*time.Second)

	start = time.Now()
	_, err = svc.DistanceMeters(context.Background(), "a", "b")
	assert.ErrorIs(t, err, distance.ErrUpstream)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGeocodeService_AdminArea(t *testing.T) {
	base := fakeMaps(t, map[string]string{
		"/maps/api/geocode/json": `{
			"status": "OK",
			"results": [{
				"formatted_address": "Lancaster, OH 43130, USA",
				"address_components": [
					{"long_name": "Lancaster", "short_name": "Lancaster", "types": ["locality", "political"]},
					{"long_name": "Fairfield County", "short_name": "Fairfield County", "types": ["administrative_area_level_2", "political"]},
					{"long_name": "Ohio", "short_name": "OH", "types": ["administrative_area_level_1", "political"]},
					{"long_name": "United States", "short_name": "US", "types": ["country", "political"]}
				]
			}]
		}`,
	})
	svc, err := NewGeocodeService("test-key", maps.WithBaseURL(base))
	require.NoError(t, err)

	area, err := svc.AdminArea(context.Background(), "Lancaster, OH")
	require.NoError(t, err)
	assert.Equal(t, jurisdiction.AdminArea{County: "Fairfield County", State: "OH", Locality: "Lancaster"}, area)
}

func TestGeocodeService_NoResults(t *testing.T) {
	base := fakeMaps(t, map[string]string{
		"/maps/api/geocode/json": `{"status": "ZERO_RESULTS", "results": []}`,
	})
	svc, err := NewGeocodeService("test-key", maps.WithBaseURL(base))
	require.NoError(t, err)

	_, err = svc.AdminArea(context.Background(), "nowhere at all")
	assert.Error(t, err)
}
