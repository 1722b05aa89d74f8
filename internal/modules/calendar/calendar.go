// README: Pure calendar rules: after-hours window, weekends, fixed and floating holidays.
package calendar

import (
	"time"
	_ "time/tzdata"

	"compass/internal/types"
)

// DefaultRules returns the deployment rules evaluated in DefaultTimezone.
func DefaultRules() Rules {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	holidays := make([]FixedHoliday, len(DefaultFixedHolidays))
	copy(holidays, DefaultFixedHolidays)
	return Rules{
		AfterHoursStart: DefaultAfterHoursStart,
		AfterHoursEnd:   DefaultAfterHoursEnd,
		Location:        loc,
		FixedHolidays:   holidays,
	}
}

func (r Rules) local(t time.Time) time.Time {
	if r.Location == nil {
		return t
	}
	return t.In(r.Location)
}

// IsAfterHours reports whether t falls before AfterHoursEnd or at/after
// AfterHoursStart, local time.
func (r Rules) IsAfterHours(t time.Time) bool {
	hour := r.local(t).Hour()
	return hour < r.AfterHoursEnd || hour >= r.AfterHoursStart
}

// IsWeekend reports whether t is a Saturday or Sunday, local time.
func (r Rules) IsWeekend(t time.Time) bool {
	switch r.local(t).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// ResolveHoliday returns the first holiday matching t's local date. Fixed
// dates are checked before floating ones.
func (r Rules) ResolveHoliday(t time.Time, surcharge types.Money) HolidayInfo {
	lt := r.local(t)
	today := Date{Year: lt.Year(), Month: lt.Month(), Day: lt.Day()}

	for _, h := range r.FixedHolidays {
		if h.Month == today.Month && h.Day == today.Day {
			return holiday(h.Name, surcharge)
		}
	}

	floating := []struct {
		name string
		date Date
	}{
		{"Easter Sunday", Easter(today.Year)},
		{"Memorial Day", MemorialDay(today.Year)},
		{"Labor Day", LaborDay(today.Year)},
		{"Thanksgiving", Thanksgiving(today.Year)},
	}
	for _, f := range floating {
		if f.date == today {
			return holiday(f.name, surcharge)
		}
	}
	return HolidayInfo{}
}

func holiday(name string, surcharge types.Money) HolidayInfo {
	return HolidayInfo{IsHoliday: true, Name: &name, Surcharge: surcharge}
}

// Easter returns Easter Sunday for year using the anonymous Gregorian algorithm.
func Easter(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	n := h + l - 7*m + 114
	return Date{Year: year, Month: time.Month(n / 31), Day: n%31 + 1}
}

// MemorialDay returns the last Monday of May.
func MemorialDay(year int) Date {
	last := time.Date(year, time.May, 31, 0, 0, 0, 0, time.UTC)
	back := (int(last.Weekday()) - int(time.Monday) + 7) % 7
	return toDate(last.AddDate(0, 0, -back))
}

// LaborDay returns the first Monday of September.
func LaborDay(year int) Date {
	return nthWeekday(year, time.September, time.Monday, 1)
}

// Thanksgiving returns the fourth Thursday of November.
func Thanksgiving(year int) Date {
	return nthWeekday(year, time.November, time.Thursday, 4)
}

func nthWeekday(year int, month time.Month, wd time.Weekday, n int) Date {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	ahead := (int(wd) - int(first.Weekday()) + 7) % 7
	return toDate(first.AddDate(0, 0, ahead+7*(n-1)))
}

func toDate(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}
