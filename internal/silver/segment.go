package silver

import (
	"github.com/spanishgas/churnpipe/internal/contracts"
)

// DeriveSegments returns a copy of the customer table with Segment and
// ResidentialType filled in.
//
// Precedence: not industrial → Residential; industrial with contracted
// power exactly 10 → SME; industrial with power above 10 → Corporate.
// Rows with incomplete inputs keep a nil segment.
func DeriveSegments(customers []contracts.Customer) []contracts.Customer {
	out := make([]contracts.Customer, len(customers))
	for i, c := range customers {
		c = c.Clone()
		c.Segment = nil
		c.ResidentialType = nil

		if c.IsIndustrial != nil {
			switch {
			case !*c.IsIndustrial:
				c.Segment = contracts.Str(contracts.SegmentResidential)
			case c.ContractedPowerKW != nil && *c.ContractedPowerKW == 10:
				c.Segment = contracts.Str(contracts.SegmentSME)
			case c.ContractedPowerKW != nil && *c.ContractedPowerKW > 10:
				c.Segment = contracts.Str(contracts.SegmentCorporate)
			}
		}

		// Residential sub-type only applies to the Residential segment.
		if c.Segment != nil && *c.Segment == contracts.SegmentResidential && c.IsSecondResidence != nil {
			if *c.IsSecondResidence {
				c.ResidentialType = contracts.Str(contracts.ResidentialSecond)
			} else {
				c.ResidentialType = contracts.Str(contracts.ResidentialPrimary)
			}
		}

		out[i] = c
	}
	return out
}
