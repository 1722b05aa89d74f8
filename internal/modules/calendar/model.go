// README: Calendar rule configuration and holiday results.
package calendar

import (
	"time"

	"compass/internal/types"
)

const (
	// DefaultAfterHoursStart is the first evening hour billed as after-hours (18:00).
	DefaultAfterHoursStart = 18
	// DefaultAfterHoursEnd is the first morning hour billed as regular (08:00).
	DefaultAfterHoursEnd = 8
	// DefaultTimezone is the service area's local zone.
	DefaultTimezone = "America/New_York"
)

// FixedHoliday is a holiday that falls on the same month and day every year.
type FixedHoliday struct {
	Month time.Month `yaml:"month" json:"month"`
	Day   int        `yaml:"day" json:"day"`
	Name  string     `yaml:"name" json:"name"`
}

// DefaultFixedHolidays is the deployment's fixed-date holiday calendar.
var DefaultFixedHolidays = []FixedHoliday{
	{Month: time.January, Day: 1, Name: "New Year's Day"},
	{Month: time.December, Day: 31, Name: "New Year's Eve"},
	{Month: time.July, Day: 4, Name: "Independence Day"},
	{Month: time.December, Day: 24, Name: "Christmas Eve"},
	{Month: time.December, Day: 25, Name: "Christmas Day"},
}

// Rules holds the time-of-day window and holiday calendar. A zero Location
// means instants are evaluated in their own zone.
type Rules struct {
	AfterHoursStart int            `yaml:"after_hours_start"`
	AfterHoursEnd   int            `yaml:"after_hours_end"`
	Location        *time.Location `yaml:"-"`
	FixedHolidays   []FixedHoliday `yaml:"holidays"`
}

// HolidayInfo is the result of a holiday lookup for one calendar date.
type HolidayInfo struct {
	IsHoliday bool        `json:"isHoliday"`
	Name      *string     `json:"holidayName"`
	Surcharge types.Money `json:"surcharge"`
}

// Date is a civil date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
