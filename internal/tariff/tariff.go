package tariff

import (
	"time"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

// Calendar holds the regulatory calendar for tier classification. It is
// immutable after construction so regional calendars can be swapped without
// touching the classification logic.
type Calendar struct {
	holidays map[int]struct{} // month*100 + day
}

// SpanishHolidaysMD is the fixed national holiday set, encoded month*100+day.
var SpanishHolidaysMD = []int{101, 106, 501, 815, 1012, 1101, 1206, 1208, 1225}

// NewCalendar builds a Calendar from a month*100+day holiday set.
func NewCalendar(holidaysMD []int) *Calendar {
	h := make(map[int]struct{}, len(holidaysMD))
	for _, md := range holidaysMD {
		h[md] = struct{}{}
	}
	return &Calendar{holidays: h}
}

// SpanishCalendar returns the default PVPC calendar.
func SpanishCalendar() *Calendar {
	return NewCalendar(SpanishHolidaysMD)
}

// IsHoliday reports whether t falls on a configured holiday.
func (c *Calendar) IsHoliday(t time.Time) bool {
	md := int(t.Month())*100 + t.Day()
	_, ok := c.holidays[md]
	return ok
}

// Assigner classifies hourly readings into tariff tiers.
// SSOT: tier classification happens here and nowhere else
type Assigner struct {
	cal *Calendar
}

// NewAssigner creates an Assigner with the given calendar.
func NewAssigner(cal *Calendar) *Assigner {
	return &Assigner{cal: cal}
}

// Tier classifies a single local timestamp. Pure function of the timestamp;
// no state is carried across readings.
//
// Weekday, non-holiday:
//
//	[10,14) and [18,22)        → peak
//	[8,10), [14,18), [22,24)   → standard
//	everything else            → off-peak
//
// All weekend and holiday hours are off-peak.
func (a *Assigner) Tier(t time.Time) contracts.Tier {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday || a.cal.IsHoliday(t) {
		return contracts.TierOffPeak
	}

	h := t.Hour()
	switch {
	case (h >= 10 && h < 14) || (h >= 18 && h < 22):
		return contracts.TierPeak
	case (h >= 8 && h < 10) || (h >= 14 && h < 18) || h >= 22:
		return contracts.TierStandard
	default:
		return contracts.TierOffPeak
	}
}

// Annotate returns a copy of readings with Tier set on every element.
func (a *Assigner) Annotate(readings []contracts.Reading) []contracts.Reading {
	out := make([]contracts.Reading, len(readings))
	for i, r := range readings {
		r.Tier = a.Tier(r.Timestamp)
		out[i] = r
	}
	return out
}
