// README: Default rate table and YAML overrides.
package pricing

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"compass/internal/modules/calendar"
	"compass/internal/modules/jurisdiction"
)

// DefaultRates is the single source of the deployment's rate constants.
func DefaultRates() Rates {
	return Rates{
		StandardPerLeg:        50,
		BariatricPerLeg:       150,
		BariatricThresholdLbs: 300,
		CapacityLimitLbs:      400,

		InZonePerMile:      3,
		OutOfZonePerMile:   4,
		DeadMileagePerMile: 4,

		AfterHoursFee:    40,
		EmergencyFee:     40,
		ZoneSurcharge:    50,
		HolidaySurcharge: 100,

		// Rental and veteran pricing are kept for stored invoices but are not
		// charged in this deployment.
		WheelchairRental: FeeRule{Enabled: false, Amount: 25},
		VeteranDiscount:  DiscountRule{Enabled: false, Rate: 0.20},

		Timezone: calendar.DefaultTimezone,
		Calendar: calendar.DefaultRules(),
		Depot: Depot{
			Address: "5050 Blazer Pkwy # 100, Dublin, OH 43017",
			Lat:     40.0994,
			Lng:     -83.1508,
		},
		Zones: jurisdiction.DefaultPatterns(),
	}
}

// LoadRates overlays the YAML file at path onto DefaultRates. Keys missing
// from the file keep their defaults; lists present in the file replace the
// default list. An empty path returns the defaults.
func LoadRates(path string) (Rates, error) {
	rates := DefaultRates()
	if path == "" {
		return rates, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Rates{}, fmt.Errorf("read rates file: %w", err)
	}
	return ParseRates(raw)
}

// ParseRates overlays a YAML document onto DefaultRates.
func ParseRates(raw []byte) (Rates, error) {
	rates := DefaultRates()
	if err := yaml.Unmarshal(raw, &rates); err != nil {
		return Rates{}, fmt.Errorf("parse rates: %w", err)
	}
	loc, err := time.LoadLocation(rates.Timezone)
	if err != nil {
		return Rates{}, fmt.Errorf("rates timezone %q: %w", rates.Timezone, err)
	}
	rates.Calendar.Location = loc
	rates.Zones = rates.Zones.Normalized()
	if err := rates.Validate(); err != nil {
		return Rates{}, err
	}
	return rates, nil
}

// Validate rejects tables that would produce nonsensical prices.
func (r Rates) Validate() error {
	var errs []error
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"standard_per_leg", float64(r.StandardPerLeg)},
		{"bariatric_per_leg", float64(r.BariatricPerLeg)},
		{"in_zone_per_mile", float64(r.InZonePerMile)},
		{"out_of_zone_per_mile", float64(r.OutOfZonePerMile)},
		{"dead_mileage_per_mile", float64(r.DeadMileagePerMile)},
		{"after_hours_fee", float64(r.AfterHoursFee)},
		{"emergency_fee", float64(r.EmergencyFee)},
		{"zone_surcharge", float64(r.ZoneSurcharge)},
		{"holiday_surcharge", float64(r.HolidaySurcharge)},
	} {
		if f.v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", f.name))
		}
	}
	if r.BariatricThresholdLbs <= 0 {
		errs = append(errs, errors.New("bariatric_threshold_lbs must be positive"))
	}
	if r.VeteranDiscount.Rate < 0 || r.VeteranDiscount.Rate > 1 {
		errs = append(errs, errors.New("veteran_discount.rate must be within [0, 1]"))
	}
	c := r.Calendar
	if c.AfterHoursEnd < 0 || c.AfterHoursStart > 24 || c.AfterHoursEnd > c.AfterHoursStart {
		errs = append(errs, fmt.Errorf("after-hours window %d..%d is invalid", c.AfterHoursEnd, c.AfterHoursStart))
	}
	return errors.Join(errs...)
}

// IsBariatric reports whether weight bills at the bariatric per-leg rate.
func (r Rates) IsBariatric(weightLbs *float64) bool {
	return weightLbs != nil && *weightLbs >= r.BariatricThresholdLbs
}

// ExceedsCapacity reports whether weight is over what the fleet can carry.
// The engine still quotes such trips; rejecting them is up to the caller.
func (r Rates) ExceedsCapacity(weightLbs *float64) bool {
	return weightLbs != nil && r.CapacityLimitLbs > 0 && *weightLbs >= r.CapacityLimitLbs
}
