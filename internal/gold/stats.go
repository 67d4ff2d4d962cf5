package gold

import (
	"math"
	"sort"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

// DaysPerMonth converts day spans to fractional months.
const DaysPerMonth = 30.44

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stddev is the sample standard deviation; fewer than two observations
// yield zero, never NaN.
func stddev(vals []float64) float64 {
	n := len(vals)
	if n < 2 {
		return 0
	}
	m := mean(vals)
	ss := 0.0
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// relTrend is (last-first)/first, defined as zero when the first value is
// zero or the series is empty.
func relTrend(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	first := series[0]
	if first == 0 {
		return 0
	}
	return (series[len(series)-1] - first) / first
}

func round0(v float64) float64 {
	return math.Round(v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// monthsByCustomer groups customer-month rows per customer, chronological.
func monthsByCustomer(rows []contracts.CustomerMonth) map[string][]contracts.CustomerMonth {
	out := make(map[string][]contracts.CustomerMonth)
	for _, r := range rows {
		out[r.CustomerID] = append(out[r.CustomerID], r)
	}
	for _, series := range out {
		sort.Slice(series, func(i, j int) bool { return series[i].Month.Before(series[j].Month) })
	}
	return out
}

// observed collects the non-nil values of a nullable column over a series,
// in order.
func observed(series []contracts.CustomerMonth, get func(*contracts.CustomerMonth) *float64) []float64 {
	var vals []float64
	for i := range series {
		if v := get(&series[i]); v != nil {
			vals = append(vals, *v)
		}
	}
	return vals
}

func boolFlag(b bool) *int64 {
	if b {
		return contracts.I64(1)
	}
	return contracts.I64(0)
}
