package gold

import (
	"time"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

// Interaction-to-renewal proximity windows, in days.
const (
	nearRenewalDays     = 91 // ~3 months
	veryNearRenewalDays = 30
)

// BehavioralCalculator derives interaction recency, intent flags and
// renewal-proximity interactions. Intent and recency features are omitted
// for a run when their source column never appears in the input.
type BehavioralCalculator struct{}

func NewBehavioralCalculator() *BehavioralCalculator { return &BehavioralCalculator{} }

func (c *BehavioralCalculator) Build(customers []contracts.Customer, asOf time.Time) map[string]*contracts.BehavioralFeatures {
	var hasIntent, hasDates, hasProductChange bool
	for i := range customers {
		if customers[i].CustomerIntent != nil {
			hasIntent = true
		}
		if customers[i].LastInteractionDate != nil {
			hasDates = true
		}
		if customers[i].LastProductChangeDate != nil {
			hasProductChange = true
		}
	}

	out := make(map[string]*contracts.BehavioralFeatures, len(customers))
	for i := range customers {
		cust := &customers[i]
		f := &contracts.BehavioralFeatures{}
		out[cust.CustomerID] = f

		f.HasInteraction = boolFlag(cust.HasInteraction)
		f.CustomerIntent = cust.CustomerIntent

		if hasIntent {
			intent := ""
			if cust.CustomerIntent != nil {
				intent = *cust.CustomerIntent
			}
			f.IntentToCancel = boolFlag(intent == contracts.IntentCancellation)
			f.HasComplaint = boolFlag(intent == contracts.IntentComplaint)
			f.IntentSeverity = contracts.I64(contracts.IntentSeverity(intent))
		}

		if hasDates {
			if cust.LastInteractionDate != nil {
				days := int64(asOf.Sub(*cust.LastInteractionDate).Hours() / 24)
				f.LastInteractionDaysAgo = contracts.I64(days)
			}

			near, veryNear := false, false
			if cust.LastInteractionDate != nil && cust.NextRenewalDate != nil {
				gap := cust.NextRenewalDate.Sub(*cust.LastInteractionDate).Hours() / 24
				near = gap >= 0 && gap <= nearRenewalDays
				veryNear = gap >= 0 && gap <= veryNearRenewalDays
			}
			f.InteractionNearRenewal = boolFlag(near)
			f.InteractionWithin30Days = boolFlag(veryNear)
			if hasIntent {
				f.ComplaintNearRenewal = boolFlag(near && flagSet(f.HasComplaint))
			}
		}

		if hasProductChange && cust.LastProductChangeDate != nil {
			days := asOf.Sub(*cust.LastProductChangeDate).Hours() / 24
			f.MonthsSinceProductChange = contracts.F64(round1(days / DaysPerMonth))
		}
	}
	return out
}

// flagSet reports whether a nullable binary flag is present and raised.
func flagSet(v *int64) bool {
	return v != nil && *v == 1
}
