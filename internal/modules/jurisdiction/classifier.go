// README: Address-pattern jurisdiction classifier (no network I/O).
package jurisdiction

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// PatternClassifier is the default fast path. It is a heuristic over curated
// substrings, not a geocoder: when neither list is conclusive it bills the trip
// as home zone so a customer is never overcharged on a guess.
type PatternClassifier struct {
	patterns Patterns
	contains func(s string, patterns []string) bool
	log      *zap.Logger
}

func NewPatternClassifier(patterns Patterns, log *zap.Logger) *PatternClassifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &PatternClassifier{patterns: patterns.Normalized(), contains: containsAny, log: log}
}

func (c *PatternClassifier) Classify(ctx context.Context, pickup, destination string) (info Info) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("jurisdiction classification panicked, using home zone",
				zap.Any("panic", r))
			info = homeDefault(c.patterns, BasisErrorDefault)
		}
	}()
	return c.classify(pickup, destination)
}

func (c *PatternClassifier) classify(pickup, destination string) Info {
	p := strings.ToLower(pickup)
	d := strings.ToLower(destination)

	pickupOut, pickupOutside := c.outsideZone(p)
	destOut, destOutside := c.outsideZone(d)
	if pickupOutside || destOutside {
		info := Info{
			InHomeZone:      false,
			ZonesCrossed:    outsideZonesCrossed,
			PickupZone:      c.patterns.HomeZone,
			DestinationZone: c.patterns.HomeZone,
			Basis:           BasisOutsideOverride,
		}
		if pickupOutside {
			info.PickupZone = pickupOut
		}
		if destOutside {
			info.DestinationZone = destOut
		}
		c.log.Debug("outside-zone pattern matched",
			zap.String("pickup_zone", info.PickupZone),
			zap.String("destination_zone", info.DestinationZone))
		return info
	}

	if c.contains(p, c.patterns.Inside) && c.contains(d, c.patterns.Inside) {
		return homeDefault(c.patterns, BasisInsideMatch)
	}

	c.log.Debug("no zone pattern matched, defaulting to home zone")
	return homeDefault(c.patterns, BasisDefault)
}

func (c *PatternClassifier) outsideZone(addr string) (string, bool) {
	for _, z := range c.patterns.Outside {
		if c.contains(addr, z.Patterns) {
			return z.Name, true
		}
	}
	return "", false
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}
