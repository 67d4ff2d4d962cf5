package tariff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

// 2024-01-10 is a Wednesday and not a Spanish holiday.
func weekday(hour int) time.Time {
	return time.Date(2024, 1, 10, hour, 0, 0, 0, time.UTC)
}

func TestTierWeekdayBands(t *testing.T) {
	a := NewAssigner(SpanishCalendar())

	tests := []struct {
		hour int
		want contracts.Tier
	}{
		{0, contracts.TierOffPeak},
		{7, contracts.TierOffPeak},
		{8, contracts.TierStandard},  // boundary: standard starts at 8
		{9, contracts.TierStandard},
		{10, contracts.TierPeak},     // boundary: peak starts at 10
		{13, contracts.TierPeak},
		{14, contracts.TierStandard}, // boundary: peak ends at 14
		{17, contracts.TierStandard},
		{18, contracts.TierPeak},
		{21, contracts.TierPeak},
		{22, contracts.TierStandard}, // boundary: peak ends at 22
		{23, contracts.TierStandard},
	}

	for _, tt := range tests {
		got := a.Tier(weekday(tt.hour))
		assert.Equalf(t, tt.want, got, "hour %d", tt.hour)
	}
}

func TestTierWeekendAlwaysOffPeak(t *testing.T) {
	a := NewAssigner(SpanishCalendar())

	// 2024-01-13 is a Saturday, 2024-01-14 a Sunday.
	for day := 13; day <= 14; day++ {
		for hour := 0; hour < 24; hour++ {
			ts := time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
			assert.Equalf(t, contracts.TierOffPeak, a.Tier(ts), "day %d hour %d", day, hour)
		}
	}
}

func TestTierHolidayAlwaysOffPeak(t *testing.T) {
	a := NewAssigner(SpanishCalendar())

	// 2024-05-01 (Labour Day) falls on a Wednesday.
	for hour := 0; hour < 24; hour++ {
		ts := time.Date(2024, 5, 1, hour, 0, 0, 0, time.UTC)
		assert.Equalf(t, contracts.TierOffPeak, a.Tier(ts), "hour %d", hour)
	}
}

func TestTierIsTotal(t *testing.T) {
	a := NewAssigner(SpanishCalendar())

	valid := map[contracts.Tier]bool{
		contracts.TierPeak:     true,
		contracts.TierStandard: true,
		contracts.TierOffPeak:  true,
	}

	// Every hour of a full year maps to exactly one of the three tiers, and
	// weekend/holiday hours are never peak or standard.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for ts := start; ts.Year() == 2024; ts = ts.Add(time.Hour) {
		tier := a.Tier(ts)
		assert.True(t, valid[tier])

		wd := ts.Weekday()
		if wd == time.Saturday || wd == time.Sunday || a.cal.IsHoliday(ts) {
			assert.Equal(t, contracts.TierOffPeak, tier)
		}
	}
}

func TestCustomCalendar(t *testing.T) {
	// A calendar with no holidays treats Jan 1st (Monday in 2024) as a
	// regular weekday.
	a := NewAssigner(NewCalendar(nil))
	ts := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
	assert.Equal(t, contracts.TierPeak, a.Tier(ts))

	// The default calendar keeps it off-peak.
	def := NewAssigner(SpanishCalendar())
	assert.Equal(t, contracts.TierOffPeak, def.Tier(ts))
}

func TestAnnotate(t *testing.T) {
	a := NewAssigner(SpanishCalendar())

	in := []contracts.Reading{
		{CustomerID: "C1", Timestamp: weekday(11), ElecKWh: 1.5},
		{CustomerID: "C1", Timestamp: weekday(3), ElecKWh: 0.2},
	}
	out := a.Annotate(in)

	assert.Equal(t, contracts.TierPeak, out[0].Tier)
	assert.Equal(t, contracts.TierOffPeak, out[1].Tier)
	// Input is untouched.
	assert.Empty(t, in[0].Tier)
}
