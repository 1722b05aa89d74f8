// README: Jurisdiction (rate zone) classification results and pattern configuration.
package jurisdiction

import (
	"context"
	"strings"
)

// Basis names the rule that produced a classification.
type Basis string

const (
	BasisOutsideOverride Basis = "outside_override"
	BasisInsideMatch     Basis = "inside_match"
	BasisGeocoded        Basis = "geocoded"
	BasisDefault         Basis = "default"
	BasisErrorDefault    Basis = "error_default"
)

// Info describes which rate zone a pickup/destination pair falls into.
// ZonesCrossed == 0 implies InHomeZone.
type Info struct {
	InHomeZone      bool   `json:"inHomeZone"`
	ZonesCrossed    int    `json:"zonesCrossed"`
	PickupZone      string `json:"pickup"`
	DestinationZone string `json:"destination"`
	Basis           Basis  `json:"basis"`
}

// Classifier maps two free-text addresses to a rate zone. Implementations
// must not fail: ambiguity and internal errors resolve to the home zone.
type Classifier interface {
	Classify(ctx context.Context, pickup, destination string) Info
}

// OutsideZone is a named zone that is always billed as out of the home zone.
type OutsideZone struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// Patterns is the curated address-pattern table. Matching is a
// case-insensitive substring test; see Normalized.
type Patterns struct {
	HomeZone string        `yaml:"home_zone"`
	Inside   []string      `yaml:"inside"`
	Outside  []OutsideZone `yaml:"outside"`
	// HomeCities are locality names a geocoder may return without a county.
	HomeCities []string `yaml:"home_cities"`
	HomeState  string   `yaml:"home_state"`
}

// Normalized returns a copy with every pattern and home city lowercased and
// trimmed, which is the form the substring matcher compares against.
func (p Patterns) Normalized() Patterns {
	out := p
	out.Inside = lowerAll(p.Inside)
	out.HomeCities = lowerAll(p.HomeCities)
	out.Outside = make([]OutsideZone, len(p.Outside))
	for i, z := range p.Outside {
		out.Outside[i] = OutsideZone{Name: z.Name, Patterns: lowerAll(z.Patterns)}
	}
	return out
}

func lowerAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// outsideZonesCrossed is what an explicit outside-pattern match is billed as.
const outsideZonesCrossed = 2

// DefaultPatterns is the table used by the Columbus, OH deployment.
func DefaultPatterns() Patterns {
	return Patterns{
		HomeZone: "Franklin County",
		Inside: []string{
			"westerville",
			"columbus",
			"dublin",
			"gahanna",
			"reynoldsburg",
			"grove city",
			"hilliard",
			"upper arlington",
			"bexley",
			"whitehall",
			"worthington",
			"grandview heights",
			"43082",
			"43228",
			"executive campus dr",
			"franshire",
			"groveport",
			"new albany",
			"pickerington",
			"canal winchester",
			"lockbourne",
		},
		Outside: []OutsideZone{{
			Name: "Fairfield County (Lancaster)",
			Patterns: []string{
				"lancaster, oh",
				"lancaster,oh",
				"lancaster ohio",
				"43130",
				"fairfield county",
				"fairfield co",
			},
		}},
		HomeCities: []string{
			"columbus", "dublin", "westerville", "gahanna", "reynoldsburg",
			"grove city", "hilliard", "upper arlington", "bexley", "whitehall",
			"worthington", "grandview heights",
		},
		HomeState: "OH",
	}
}

func homeDefault(p Patterns, basis Basis) Info {
	return Info{
		InHomeZone:      true,
		ZonesCrossed:    0,
		PickupZone:      p.HomeZone,
		DestinationZone: p.HomeZone,
		Basis:           basis,
	}
}
