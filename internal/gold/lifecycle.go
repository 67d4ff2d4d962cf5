package gold

import (
	"time"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/internal/silver"
)

// Renewal proximity buckets, from contract expiry outwards.
const (
	RenewalExpired = "expired"
	Renewal0To3M   = "0-3m"
	Renewal3To6M   = "3-6m"
	Renewal6To12M  = "6-12m"
	Renewal12MPlus = "12m+"
)

// Tenure buckets, from newest relationships outwards.
const (
	Tenure0To6M  = "0-6m"
	Tenure6To12M = "6-12m"
	Tenure1To2Y  = "1-2y"
	Tenure2To5Y  = "2-5y"
	Tenure5YPlus = "5y+"
)

// RenewalBucket maps fractional months-to-renewal onto its proximity
// bucket. Zero or negative means the contract already expired.
func RenewalBucket(monthsToRenewal float64) string {
	switch {
	case monthsToRenewal <= 0:
		return RenewalExpired
	case monthsToRenewal <= 3:
		return Renewal0To3M
	case monthsToRenewal <= 6:
		return Renewal3To6M
	case monthsToRenewal <= 12:
		return Renewal6To12M
	default:
		return Renewal12MPlus
	}
}

// TenureBucket maps tenure in months onto its seniority bucket.
func TenureBucket(tenureMonths float64) string {
	switch {
	case tenureMonths <= 6:
		return Tenure0To6M
	case tenureMonths <= 12:
		return Tenure6To12M
	case tenureMonths <= 24:
		return Tenure1To2Y
	case tenureMonths <= 60:
		return Tenure2To5Y
	default:
		return Tenure5YPlus
	}
}

// LifecycleCalculator derives the contract-lifecycle tier: tenure and
// renewal timing, their buckets, fuel coverage, and acquisition-channel
// flags. It forms the backbone every other tier is merged onto.
type LifecycleCalculator struct{}

func NewLifecycleCalculator() *LifecycleCalculator { return &LifecycleCalculator{} }

func (c *LifecycleCalculator) Build(customers []contracts.Customer, months []contracts.CustomerMonth, asOf time.Time) map[string]*contracts.LifecycleFeatures {
	byCustomer := monthsByCustomer(months)

	out := make(map[string]*contracts.LifecycleFeatures, len(customers))
	for i := range customers {
		cust := &customers[i]
		f := &contracts.LifecycleFeatures{}

		if cust.FirstActivationDate != nil {
			days := asOf.Sub(*cust.FirstActivationDate).Hours() / 24
			tenure := round0(days / DaysPerMonth)
			f.TenureMonths = contracts.F64(tenure)
			f.TenureBucket = contracts.Str(TenureBucket(tenure))
		}

		if cust.NextRenewalDate != nil {
			days := cust.NextRenewalDate.Sub(asOf).Hours() / 24
			m := round1(days / DaysPerMonth)
			f.MonthsToRenewal = contracts.F64(m)
			f.RenewalBucket = contracts.Str(RenewalBucket(m))
			f.IsWithin3MOfRenewal = boolFlag(m <= 3)
			f.IsExpiredContract = boolFlag(m <= 0)
		} else {
			f.IsWithin3MOfRenewal = contracts.I64(0)
			f.IsExpiredContract = contracts.I64(0)
		}

		f.Segment = cust.Segment
		f.SalesChannel = cust.SalesChannel
		f.IsSecondResidence = boolFlag(cust.ResidentialType != nil && *cust.ResidentialType == contracts.ResidentialSecond)

		channel := ""
		if cust.SalesChannel != nil {
			channel = *cust.SalesChannel
		}
		f.IsComparisonChannel = boolFlag(channel == silver.ChannelComparisonWebsite)
		f.IsOwnWebsiteChannel = boolFlag(channel == silver.ChannelOwnWebsite)

		var elec, gas float64
		for _, row := range byCustomer[cust.CustomerID] {
			elec += row.ElecKWh
			gas += row.GasM3
		}
		f.IsDualFuel = boolFlag(elec > 0 && gas > 0)

		out[cust.CustomerID] = f
	}
	return out
}
