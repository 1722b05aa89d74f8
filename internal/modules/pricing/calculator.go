// README: Deterministic price calculator; each line item is rounded to cents before summing.
package pricing

import (
	"fmt"
	"math"

	"compass/internal/modules/calendar"
	"compass/internal/modules/distance"
	"compass/internal/modules/jurisdiction"
	"compass/internal/types"
)

// Compute prices req. It has no side effects: the same inputs always produce
// the same Breakdown. zone is nil when the addresses were not classified,
// which bills distance at the out-of-zone rate; holiday is nil when no pickup
// time was given.
func Compute(rates Rates, req Request, zone *jurisdiction.Info, holiday *calendar.HolidayInfo, dead distance.DeadMileage) (Breakdown, error) {
	if err := validate(req, dead); err != nil {
		return Breakdown{}, err
	}
	var b Breakdown

	perLeg := rates.StandardPerLeg
	if rates.IsBariatric(req.ClientWeightLbs) {
		perLeg = rates.BariatricPerLeg
		b.IsBariatric = true
	}
	b.BaseFare = perLeg.Cents()
	if req.IsRoundTrip {
		b.RoundTripFare = perLeg.Cents()
	}

	if req.DistanceMiles > 0 {
		miles := req.DistanceMiles
		if req.IsRoundTrip {
			miles *= 2
		}
		rate := rates.OutOfZonePerMile
		if zone != nil && zone.InHomeZone {
			rate = rates.InZonePerMile
		}
		b.DistanceCharge = types.Money(miles * float64(rate)).Cents()
	}

	if zone != nil && zone.ZonesCrossed >= 2 {
		b.ZoneSurcharge = types.Money(float64(zone.ZonesCrossed-1) * float64(rates.ZoneSurcharge)).Cents()
		// Dead mileage is only billed two or more zones out, never for one.
		if dead.Miles > 0 {
			b.DeadMileageCharge = types.Money(dead.Miles * float64(rates.DeadMileagePerMile)).Cents()
			b.HasDeadMileage = true
		}
	}

	if req.PickupTime != nil {
		if rates.Calendar.IsAfterHours(*req.PickupTime) || rates.Calendar.IsWeekend(*req.PickupTime) {
			b.AfterHoursSurcharge = rates.AfterHoursFee.Cents()
		}
	}

	if req.IsEmergency {
		b.EmergencyFee = rates.EmergencyFee.Cents()
	}

	if holiday != nil && holiday.IsHoliday {
		b.HolidaySurcharge = rates.HolidaySurcharge.Cents()
		b.HasHolidaySurcharge = true
	}

	if rates.WheelchairRental.Enabled && req.Wheelchair == WheelchairProvided {
		b.WheelchairFee = rates.WheelchairRental.Amount.Cents()
	}

	var subtotal types.Money
	for _, c := range b.Charges() {
		subtotal += c
	}
	if rates.VeteranDiscount.Enabled && req.IsVeteran {
		b.Discount = types.Money(float64(subtotal) * rates.VeteranDiscount.Rate).Cents()
	}
	b.Total = subtotal - b.Discount

	return b.rounded(), nil
}

// rounded re-rounds every money field so stored breakdowns never carry
// float noise from the subtraction.
func (b Breakdown) rounded() Breakdown {
	for _, f := range []*types.Money{
		&b.BaseFare, &b.RoundTripFare, &b.DistanceCharge, &b.ZoneSurcharge,
		&b.DeadMileageCharge, &b.AfterHoursSurcharge, &b.EmergencyFee,
		&b.HolidaySurcharge, &b.WheelchairFee, &b.Discount, &b.Total,
	} {
		*f = f.Cents()
	}
	return b
}

func validate(req Request, dead distance.DeadMileage) error {
	switch {
	case math.IsNaN(req.DistanceMiles) || math.IsInf(req.DistanceMiles, 0) || req.DistanceMiles < 0:
		return fmt.Errorf("distance %v: %w", req.DistanceMiles, ErrBadRequest)
	case req.ClientWeightLbs != nil && (math.IsNaN(*req.ClientWeightLbs) || *req.ClientWeightLbs < 0):
		return fmt.Errorf("client weight %v: %w", *req.ClientWeightLbs, ErrBadRequest)
	case req.AdditionalPassengers < 0:
		return fmt.Errorf("additional passengers %d: %w", req.AdditionalPassengers, ErrBadRequest)
	case math.IsNaN(dead.Miles) || dead.Miles < 0:
		return fmt.Errorf("dead mileage %v: %w", dead.Miles, ErrBadRequest)
	}
	if _, ok := req.Wheelchair.normalize(); !ok {
		return fmt.Errorf("wheelchair type %q: %w", req.Wheelchair, ErrBadRequest)
	}
	return nil
}
