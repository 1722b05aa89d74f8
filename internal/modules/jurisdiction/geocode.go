// README: Optional geocoder-backed refinement of the pattern classifier.
package jurisdiction

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AdminArea holds the administrative components of a geocoded address.
type AdminArea struct {
	County   string // administrative_area_level_2
	State    string // administrative_area_level_1 short name
	Locality string
}

// Geocoder resolves a free-text address to its administrative area.
type Geocoder interface {
	AdminArea(ctx context.Context, address string) (AdminArea, error)
}

// GeocodingClassifier consults a Geocoder only when the pattern table could
// not decide. Any lookup failure keeps the pattern result.
type GeocodingClassifier struct {
	patterns *PatternClassifier
	geocoder Geocoder
	timeout  time.Duration
	log      *zap.Logger
}

func NewGeocodingClassifier(patterns *PatternClassifier, geocoder Geocoder, timeout time.Duration, log *zap.Logger) *GeocodingClassifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &GeocodingClassifier{patterns: patterns, geocoder: geocoder, timeout: timeout, log: log}
}

func (c *GeocodingClassifier) Classify(ctx context.Context, pickup, destination string) Info {
	info := c.patterns.Classify(ctx, pickup, destination)
	if info.Basis != BasisDefault || c.geocoder == nil {
		return info
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	pickupCounty, ok := c.county(ctx, pickup)
	if !ok {
		return info
	}
	destCounty, ok := c.county(ctx, destination)
	if !ok {
		return info
	}

	home := c.patterns.patterns.HomeZone
	outside := map[string]struct{}{}
	for _, county := range []string{pickupCounty, destCounty} {
		if !strings.EqualFold(county, home) {
			outside[strings.ToLower(county)] = struct{}{}
		}
	}
	if len(outside) == 0 {
		return homeDefault(c.patterns.patterns, BasisGeocoded)
	}
	return Info{
		InHomeZone:      false,
		ZonesCrossed:    1 + len(outside),
		PickupZone:      pickupCounty,
		DestinationZone: destCounty,
		Basis:           BasisGeocoded,
	}
}

func (c *GeocodingClassifier) county(ctx context.Context, address string) (string, bool) {
	area, err := c.geocoder.AdminArea(ctx, address)
	if err != nil {
		c.log.Warn("geocode lookup failed, keeping pattern result", zap.Error(err))
		return "", false
	}
	if area.County != "" {
		return area.County, true
	}
	p := c.patterns.patterns
	if strings.EqualFold(area.State, p.HomeState) && containsAny(strings.ToLower(area.Locality), p.HomeCities) {
		return p.HomeZone, true
	}
	return "", false
}
