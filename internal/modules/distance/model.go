// README: Distance types: dead-mileage outcome and the routing source contract.
package distance

import (
	"context"
	"errors"
	"time"
)

// MetersToMiles converts routing-service meters to statute miles.
const MetersToMiles = 0.000621371

// DefaultTimeout bounds every routing call.
const DefaultTimeout = 10 * time.Second

var (
	ErrNotConfigured = errors.New("routing service not configured")
	ErrNoRoute       = errors.New("no route found")
	ErrUpstream      = errors.New("routing service error")
)

// Status tells a confidently computed distance apart from a defaulted one.
type Status string

const (
	StatusResolved Status = "resolved"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// DeadMileage is the unpaid depot distance for a trip. IsEstimated is true
// whenever the routing call failed, timed out, or was skipped; Miles is then 0.
type DeadMileage struct {
	Miles       float64 `json:"miles"`
	IsEstimated bool    `json:"isEstimated"`
	Status      Status  `json:"status"`
	Reason      string  `json:"reason,omitempty"`
}

// Skipped is the result for trips that are not charged dead mileage.
func Skipped() DeadMileage {
	return DeadMileage{IsEstimated: true, Status: StatusSkipped}
}

func failed(err error) DeadMileage {
	return DeadMileage{IsEstimated: true, Status: StatusFailed, Reason: err.Error()}
}

// Source returns the driving distance between two free-text addresses.
type Source interface {
	DistanceMeters(ctx context.Context, origin, destination string) (int, error)
}
