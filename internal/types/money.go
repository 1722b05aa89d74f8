// README: Common money value object used across modules.
package types

import (
	"fmt"
	"math"
)

// Money is a USD amount in dollars. Invoice fields carry cent precision.
type Money float64

// Round2 rounds half-up to two decimal places, the rule stored invoices use.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Cents returns m rounded to whole cents.
func (m Money) Cents() Money {
	return Money(Round2(float64(m)))
}

// String formats m for display, e.g. "$80.00".
func (m Money) String() string {
	return fmt.Sprintf("$%.2f", float64(m))
}
