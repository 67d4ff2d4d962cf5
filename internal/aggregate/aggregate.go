package aggregate

import (
	"sort"

	"github.com/spanishgas/churnpipe/internal/contracts"
	"github.com/spanishgas/churnpipe/internal/tariff"
)

// GasKWhPerM3 converts gas volume to energy-equivalent kWh.
const GasKWhPerM3 = 11.0

type key struct {
	customer string
	month    contracts.Month
}

// Aggregator reduces hourly readings to customer×month totals split by
// tariff tier. It is built for bounded-memory chunked execution: feed any
// contiguous chunks through Add, or aggregate chunks separately and Merge
// the partials — combine(agg(a), agg(b)) == agg(a+b) because every column
// is a plain sum. Memory is proportional to distinct (customer, month)
// keys, not readings.
type Aggregator struct {
	assigner *tariff.Assigner
	acc      map[key]*contracts.CustomerMonth
}

// New creates an empty Aggregator using the given tier assigner.
func New(assigner *tariff.Assigner) *Aggregator {
	return &Aggregator{
		assigner: assigner,
		acc:      make(map[key]*contracts.CustomerMonth),
	}
}

// Add folds a chunk of readings into the running aggregate. Negative
// consumption values are a data-quality artifact and clamp to zero before
// any summing. Readings without a tier get one assigned here.
func (a *Aggregator) Add(readings []contracts.Reading) {
	for _, r := range readings {
		elec := r.ElecKWh
		if elec < 0 {
			elec = 0
		}
		gas := r.GasM3
		if gas < 0 {
			gas = 0
		}
		gasKWh := gas * GasKWhPerM3

		tier := r.Tier
		if tier == "" {
			tier = a.assigner.Tier(r.Timestamp)
		}

		k := key{customer: r.CustomerID, month: contracts.MonthOf(r.Timestamp)}
		row, ok := a.acc[k]
		if !ok {
			row = &contracts.CustomerMonth{CustomerID: k.customer, Month: k.month}
			a.acc[k] = row
		}

		row.ElecKWh += elec
		row.GasM3 += gas
		row.GasKWh += gasKWh

		switch tier {
		case contracts.TierPeak:
			row.ElecKWhPeak += elec
			row.GasM3Peak += gas
			row.GasKWhPeak += gasKWh
		case contracts.TierStandard:
			row.ElecKWhStandard += elec
			row.GasM3Standard += gas
			row.GasKWhStandard += gasKWh
		default:
			row.ElecKWhOffPeak += elec
			row.GasM3OffPeak += gas
			row.GasKWhOffPeak += gasKWh
		}
	}
}

// Merge combines another aggregator's partial state into this one by
// re-summation. The other aggregator is left untouched.
func (a *Aggregator) Merge(other *Aggregator) {
	for k, src := range other.acc {
		dst, ok := a.acc[k]
		if !ok {
			clone := src.Clone()
			a.acc[k] = &clone
			continue
		}

		dst.ElecKWh += src.ElecKWh
		dst.GasM3 += src.GasM3
		dst.GasKWh += src.GasKWh
		dst.ElecKWhPeak += src.ElecKWhPeak
		dst.ElecKWhStandard += src.ElecKWhStandard
		dst.ElecKWhOffPeak += src.ElecKWhOffPeak
		dst.GasM3Peak += src.GasM3Peak
		dst.GasM3Standard += src.GasM3Standard
		dst.GasM3OffPeak += src.GasM3OffPeak
		dst.GasKWhPeak += src.GasKWhPeak
		dst.GasKWhStandard += src.GasKWhStandard
		dst.GasKWhOffPeak += src.GasKWhOffPeak
	}
}

// Rows returns the aggregated customer-month rows sorted by customer id
// then month.
func (a *Aggregator) Rows() []contracts.CustomerMonth {
	rows := make([]contracts.CustomerMonth, 0, len(a.acc))
	for _, row := range a.acc {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CustomerID != rows[j].CustomerID {
			return rows[i].CustomerID < rows[j].CustomerID
		}
		return rows[i].Month.Before(rows[j].Month)
	})
	return rows
}

// Len returns the number of distinct (customer, month) keys seen.
func (a *Aggregator) Len() int {
	return len(a.acc)
}
