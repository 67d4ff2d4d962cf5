package gold

import (
	"strconv"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

// unknownLabel stands in for a null side of a string cross.
const unknownLabel = "Unknown"

// ComputeCompounds fills the cross-tier interaction features in place.
// A compound is built only when both of its source columns appear somewhere
// in the table; within the table, null string inputs become "Unknown" and
// null binary inputs count as not-raised.
func ComputeCompounds(rows []contracts.GoldRow) {
	p := compoundPresence(rows)

	for i := range rows {
		r := &rows[i]

		if p.intent && p.renewalBucket {
			r.IntentXRenewalBucket = contracts.Str(cross(r.CustomerIntent, r.RenewalBucket))
		}
		if p.intent && p.tenureBucket {
			r.IntentXTenureBucket = contracts.Str(cross(r.CustomerIntent, r.TenureBucket))
		}
		if p.sentiment && p.renewalBucket {
			r.SentimentXRenewalBucket = contracts.Str(cross(r.SentimentLabel, r.RenewalBucket))
		}
		if p.intent && p.sentiment {
			r.IntentXSentiment = contracts.Str(cross(r.CustomerIntent, r.SentimentLabel))
		}
		if p.tenureBucket && p.renewalBucket {
			r.TenureXRenewalBucket = contracts.Str(cross(r.TenureBucket, r.RenewalBucket))
		}
		if p.salesChannel && p.renewalBucket {
			r.SalesChannelXRenewalBucket = contracts.Str(cross(r.SalesChannel, r.RenewalBucket))
		}
		if p.hasInteraction && p.renewalBucket {
			r.HasInteractionXRenewalBucket = contracts.Str(cross(flagLabel(r.HasInteraction), r.RenewalBucket))
		}

		if p.within3M && p.complaint {
			r.RenewalXComplaint = boolFlag(flagSet(r.IsWithin3MOfRenewal) && flagSet(r.HasComplaint))
		}
		if p.within3M && p.negSentiment {
			r.HighRiskXNegativeSentiment = boolFlag(flagSet(r.IsWithin3MOfRenewal) && flagSet(r.HasNegativeSentiment))
		}
		if p.intent {
			intent := ""
			if r.CustomerIntent != nil {
				intent = *r.CustomerIntent
			}
			r.IsPriceSensitive = boolFlag(intent == contracts.IntentPricing)
		}
	}
}

type presence struct {
	intent, sentiment, renewalBucket, tenureBucket bool
	salesChannel, hasInteraction                   bool
	within3M, complaint, negSentiment              bool
}

func compoundPresence(rows []contracts.GoldRow) presence {
	var p presence
	for i := range rows {
		r := &rows[i]
		p.intent = p.intent || r.CustomerIntent != nil
		p.sentiment = p.sentiment || r.SentimentLabel != nil
		p.renewalBucket = p.renewalBucket || r.RenewalBucket != nil
		p.tenureBucket = p.tenureBucket || r.TenureBucket != nil
		p.salesChannel = p.salesChannel || r.SalesChannel != nil
		p.hasInteraction = p.hasInteraction || r.HasInteraction != nil
		p.within3M = p.within3M || r.IsWithin3MOfRenewal != nil
		p.complaint = p.complaint || r.HasComplaint != nil
		p.negSentiment = p.negSentiment || r.HasNegativeSentiment != nil
	}
	return p
}

func cross(a, b *string) string {
	return orUnknown(a) + "_x_" + orUnknown(b)
}

func orUnknown(v *string) string {
	if v == nil {
		return unknownLabel
	}
	return *v
}

func flagLabel(v *int64) *string {
	if v == nil {
		return nil
	}
	return contracts.Str(strconv.FormatInt(*v, 10))
}
