package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"compass/internal/modules/distance"
	"compass/internal/modules/jurisdiction"
)

// GeocodeService resolves addresses to administrative areas.
type GeocodeService struct {
	client *maps.Client
	region string
}

// NewGeocodeService creates a GeocodeService biased to the US.
func NewGeocodeService(apiKey string, opts ...maps.ClientOption) (*GeocodeService, error) {
	client, err := newClient(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return &GeocodeService{client: client, region: "us"}, nil
}

// AdminArea returns the county, state and locality of the best match for
// address. It satisfies jurisdiction.Geocoder.
func (s *GeocodeService) AdminArea(ctx context.Context, address string) (jurisdiction.AdminArea, error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
		Region:  s.region,
	})
	if err != nil {
		return jurisdiction.AdminArea{}, fmt.Errorf("geocode api error: %v: %w", err, distance.ErrUpstream)
	}
	if len(results) == 0 {
		return jurisdiction.AdminArea{}, fmt.Errorf("geocode %q: no results", address)
	}

	var area jurisdiction.AdminArea
	for _, c := range results[0].AddressComponents {
		for _, t := range c.Types {
			switch t {
			case "administrative_area_level_2":
				area.County = c.LongName
			case "administrative_area_level_1":
				area.State = c.ShortName
			case "locality":
				area.Locality = c.LongName
			}
		}
	}
	return area, nil
}
