package contracts

import (
	"fmt"
	"time"
)

// Tier is a Spanish time-of-use tariff band.
type Tier string

const (
	TierPeak     Tier = "tier_1_peak"
	TierStandard Tier = "tier_2_standard"
	TierOffPeak  Tier = "tier_3_offpeak"
)

// Tiers lists the bands in price order.
var Tiers = []Tier{TierPeak, TierStandard, TierOffPeak}

// Reading is a single hourly consumption reading as delivered by the raw
// loader. Tier is empty until the tariff assigner has run.
type Reading struct {
	CustomerID string
	Timestamp  time.Time
	ElecKWh    float64
	GasM3      float64
	Tier       Tier
}

// Month is a calendar month in "YYYY-MM" form. The string form sorts
// chronologically, which the imputation and trend code relies on.
type Month string

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month(t.Format("2006-01"))
}

// ParseMonth validates and normalizes a raw month string. Accepts "YYYY-MM"
// or any longer date string with that prefix (e.g. "2024-03-15").
func ParseMonth(s string) (Month, error) {
	if len(s) < 7 {
		return "", fmt.Errorf("invalid month %q", s)
	}
	t, err := time.Parse("2006-01", s[:7])
	if err != nil {
		return "", fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	t, err := time.Parse("2006-01", string(m))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Before reports whether m precedes other.
func (m Month) Before(other Month) bool {
	return string(m) < string(other)
}
