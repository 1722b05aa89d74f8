// README: Pricing request, itemized breakdown, rate table and quote result.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"compass/internal/modules/calendar"
	"compass/internal/modules/distance"
	"compass/internal/modules/jurisdiction"
	"compass/internal/types"
)

var (
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("trip pricing not found")
	ErrStoreUnavailable = errors.New("trip pricing store not configured")
)

type WheelchairType string

const (
	WheelchairNone     WheelchairType = "none"
	WheelchairManual   WheelchairType = "manual"
	WheelchairPower    WheelchairType = "power"
	WheelchairProvided WheelchairType = "provided"
)

// normalize maps the empty value and the legacy "no_wheelchair" to none.
func (w WheelchairType) normalize() (WheelchairType, bool) {
	switch w {
	case "", "no_wheelchair", WheelchairNone:
		return WheelchairNone, true
	case WheelchairManual, WheelchairPower, WheelchairProvided:
		return w, true
	}
	return w, false
}

// Request is a proposed trip. DistanceMiles is the one-way leg distance the
// booking screen already resolved, rounded to 2 decimals.
type Request struct {
	IsRoundTrip          bool           `json:"isRoundTrip"`
	DistanceMiles        float64        `json:"distance"`
	PickupTime           *time.Time     `json:"pickupDateTime"`
	Wheelchair           WheelchairType `json:"wheelchairType"`
	ClientWeightLbs      *float64       `json:"clientWeight"`
	AdditionalPassengers int            `json:"additionalPassengers"`
	IsEmergency          bool           `json:"isEmergency"`
	IsVeteran            bool           `json:"isVeteran"`
	PickupAddress        string         `json:"pickupAddress"`
	DestinationAddress   string         `json:"destinationAddress"`
}

// Breakdown is the itemized price. JSON keys match invoices already stored on
// trip records, so they must not be renamed.
type Breakdown struct {
	BaseFare            types.Money `json:"basePrice"`
	RoundTripFare       types.Money `json:"roundTripPrice"`
	DistanceCharge      types.Money `json:"distancePrice"`
	ZoneSurcharge       types.Money `json:"countyPrice"`
	DeadMileageCharge   types.Money `json:"deadMileagePrice"`
	AfterHoursSurcharge types.Money `json:"weekendAfterHoursSurcharge"`
	EmergencyFee        types.Money `json:"emergencyFee"`
	HolidaySurcharge    types.Money `json:"holidaySurcharge"`
	WheelchairFee       types.Money `json:"wheelchairPrice"`
	Discount            types.Money `json:"veteranDiscount"`
	Total               types.Money `json:"total"`
	IsBariatric         bool        `json:"isBariatric"`
	HasHolidaySurcharge bool        `json:"hasHolidaySurcharge"`
	HasDeadMileage      bool        `json:"hasDeadMileage"`
}

// Charges returns the nine charge fields in billing order.
func (b Breakdown) Charges() []types.Money {
	return []types.Money{
		b.BaseFare,
		b.RoundTripFare,
		b.DistanceCharge,
		b.ZoneSurcharge,
		b.DeadMileageCharge,
		b.AfterHoursSurcharge,
		b.EmergencyFee,
		b.HolidaySurcharge,
		b.WheelchairFee,
	}
}

// Validate checks that b is an invoice the calculator could have produced:
// no negative line items and a total equal to the charges minus the discount,
// to the cent.
func (b Breakdown) Validate() error {
	var sum float64
	for _, c := range b.Charges() {
		if c < 0 {
			return fmt.Errorf("negative charge %v: %w", c, ErrBadRequest)
		}
		sum += float64(c)
	}
	if b.Discount < 0 || float64(b.Discount) > sum {
		return fmt.Errorf("discount %v: %w", b.Discount, ErrBadRequest)
	}
	if math.Abs(sum-float64(b.Discount)-float64(b.Total)) >= 0.005 {
		return fmt.Errorf("total %v does not match charges %.2f less discount %v: %w",
			b.Total, sum, b.Discount, ErrBadRequest)
	}
	return nil
}

// Summary is the display block shown next to a live quote.
type Summary struct {
	TripType            string `json:"tripType"`
	Distance            string `json:"distance"`
	EstimatedTotal      string `json:"estimatedTotal"`
	IsBariatric         bool   `json:"isBariatric"`
	HasHolidaySurcharge bool   `json:"hasHolidaySurcharge"`
	HasDeadMileage      bool   `json:"hasDeadMileage"`
}

// Result is returned to booking and edit screens. On failure only Success,
// QuoteID and Error are set.
type Result struct {
	Success      bool                  `json:"success"`
	QuoteID      string                `json:"quoteId"`
	Pricing      *Breakdown            `json:"pricing"`
	Jurisdiction *jurisdiction.Info    `json:"jurisdiction"`
	DeadMileage  *distance.DeadMileage `json:"deadMileage"`
	Holiday      *calendar.HolidayInfo `json:"holiday"`
	Summary      *Summary              `json:"summary"`
	Error        string                `json:"error,omitempty"`
}

// FeeRule is a flat fee that can be switched off without dropping it from
// the rate table or from stored breakdowns.
type FeeRule struct {
	Enabled bool        `yaml:"enabled"`
	Amount  types.Money `yaml:"amount"`
}

// DiscountRule is a fractional discount on the subtotal.
type DiscountRule struct {
	Enabled bool    `yaml:"enabled"`
	Rate    float64 `yaml:"rate"`
}

// Depot is where vehicles start and end dead-mileage legs.
type Depot struct {
	Address string  `yaml:"address"`
	Lat     float64 `yaml:"lat"`
	Lng     float64 `yaml:"lng"`
}

// Rates is the complete rate table. It is built once and passed by value;
// nothing mutates it after construction.
type Rates struct {
	StandardPerLeg        types.Money `yaml:"standard_per_leg"`
	BariatricPerLeg       types.Money `yaml:"bariatric_per_leg"`
	BariatricThresholdLbs float64     `yaml:"bariatric_threshold_lbs"`
	CapacityLimitLbs      float64     `yaml:"capacity_limit_lbs"`

	InZonePerMile      types.Money `yaml:"in_zone_per_mile"`
	OutOfZonePerMile   types.Money `yaml:"out_of_zone_per_mile"`
	DeadMileagePerMile types.Money `yaml:"dead_mileage_per_mile"`

	AfterHoursFee    types.Money `yaml:"after_hours_fee"`
	EmergencyFee     types.Money `yaml:"emergency_fee"`
	ZoneSurcharge    types.Money `yaml:"zone_surcharge"`
	HolidaySurcharge types.Money `yaml:"holiday_surcharge"`

	WheelchairRental FeeRule      `yaml:"wheelchair_rental"`
	VeteranDiscount  DiscountRule `yaml:"veteran_discount"`

	Timezone string                `yaml:"timezone"`
	Calendar calendar.Rules        `yaml:"calendar"`
	Depot    Depot                 `yaml:"depot"`
	Zones    jurisdiction.Patterns `yaml:"zones"`
}
