// README: Pricing service: orchestrates classification, dead mileage and holidays into a quote.
package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"compass/internal/modules/calendar"
	"compass/internal/modules/distance"
	"compass/internal/modules/jurisdiction"
	"compass/internal/types"
)

// DeadMileageProvider resolves depot distances; see distance.Provider.
type DeadMileageProvider interface {
	DeadMileage(ctx context.Context, pickup, destination string, roundTrip bool) distance.DeadMileage
}

type ServiceDeps struct {
	Rates      Rates
	Classifier jurisdiction.Classifier
	Distance   DeadMileageProvider
	Store      *Store
	Auditor    Auditor
	Logger     *zap.Logger
}

// Service is stateless per request: every Estimate recomputes from scratch.
type Service struct {
	rates      Rates
	classifier jurisdiction.Classifier
	distance   DeadMileageProvider
	store      *Store
	auditor    Auditor
	log        *zap.Logger
}

func NewService(deps ServiceDeps) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	classifier := deps.Classifier
	if classifier == nil {
		classifier = jurisdiction.NewPatternClassifier(deps.Rates.Zones, log)
	}
	return &Service{
		rates:      deps.Rates,
		classifier: classifier,
		distance:   deps.Distance,
		store:      deps.Store,
		auditor:    deps.Auditor,
		log:        log,
	}
}

// Rates returns the rate table the service quotes with.
func (s *Service) Rates() Rates {
	return s.rates
}

// Estimate quotes req. It never panics or returns an error: anything that
// goes wrong yields Result{Success: false} so the booking flow can show
// "price unavailable" instead of a $0 quote.
func (s *Service) Estimate(ctx context.Context, req Request) (res Result) {
	quoteID := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("pricing estimate panicked", zap.String("quote_id", quoteID), zap.Any("panic", r))
			res = failure(quoteID, fmt.Errorf("internal pricing error: %v", r))
		}
		s.audit(ctx, req, res)
	}()

	res, err := s.estimate(ctx, req)
	if err != nil {
		s.log.Warn("pricing estimate failed", zap.String("quote_id", quoteID), zap.Error(err))
		return failure(quoteID, err)
	}
	res.QuoteID = quoteID
	return res
}

func (s *Service) estimate(ctx context.Context, req Request) (Result, error) {
	var zone *jurisdiction.Info
	if req.PickupAddress != "" && req.DestinationAddress != "" {
		info := s.classifier.Classify(ctx, req.PickupAddress, req.DestinationAddress)
		zone = &info
	}

	dead := distance.Skipped()
	if zone != nil && zone.ZonesCrossed >= 2 {
		if s.distance != nil {
			dead = s.distance.DeadMileage(ctx, req.PickupAddress, req.DestinationAddress, req.IsRoundTrip)
		} else {
			s.log.Warn("dead mileage provider not configured")
			dead = distance.DeadMileage{IsEstimated: true, Status: distance.StatusFailed, Reason: distance.ErrNotConfigured.Error()}
		}
	}

	var holiday *calendar.HolidayInfo
	if req.PickupTime != nil {
		h := s.rates.Calendar.ResolveHoliday(*req.PickupTime, s.rates.HolidaySurcharge)
		holiday = &h
	}

	b, err := Compute(s.rates, req, zone, holiday, dead)
	if err != nil {
		return Result{}, err
	}
	summary := summarize(req, b)
	return Result{
		Success:      true,
		Pricing:      &b,
		Jurisdiction: zone,
		DeadMileage:  &dead,
		Holiday:      holiday,
		Summary:      &summary,
	}, nil
}

func summarize(req Request, b Breakdown) Summary {
	tripType := "One Way"
	miles := req.DistanceMiles
	if req.IsRoundTrip {
		tripType = "Round Trip"
		miles *= 2
	}
	dist := "Distance not calculated"
	if req.DistanceMiles > 0 {
		dist = fmt.Sprintf("%.1f miles", miles)
	}
	return Summary{
		TripType:            tripType,
		Distance:            dist,
		EstimatedTotal:      b.Total.String(),
		IsBariatric:         b.IsBariatric,
		HasHolidaySurcharge: b.HasHolidaySurcharge,
		HasDeadMileage:      b.HasDeadMileage,
	}
}

func failure(quoteID string, err error) Result {
	return Result{Success: false, QuoteID: quoteID, Error: err.Error()}
}

func (s *Service) audit(ctx context.Context, req Request, res Result) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, NewQuoteRecord(req, res)); err != nil {
		s.log.Warn("quote audit failed", zap.String("quote_id", res.QuoteID), zap.Error(err))
	}
}

// SaveTripPricing freezes b onto the trip record verbatim once it passes
// Validate. Later views of the trip must read it back with TripPricing rather
// than re-quote.
func (s *Service) SaveTripPricing(ctx context.Context, tripID types.ID, b Breakdown) error {
	if tripID == "" {
		return ErrBadRequest
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if s.store == nil {
		return ErrStoreUnavailable
	}
	return s.store.SavePricing(ctx, tripID, b)
}

// TripPricing returns the breakdown persisted for tripID.
func (s *Service) TripPricing(ctx context.Context, tripID types.ID) (Breakdown, error) {
	if tripID == "" {
		return Breakdown{}, ErrBadRequest
	}
	if s.store == nil {
		return Breakdown{}, ErrStoreUnavailable
	}
	return s.store.GetPricing(ctx, tripID)
}
