package contracts

// Intent categories produced by the interaction classifier, from most to
// least churn-relevant. The severity scale keys off these exact strings.
const (
	IntentCancellation = "Cancellation / Switch"
	IntentComplaint    = "Complaint / Escalation"
	IntentBilling      = "Billing / Payment"
	IntentRenewal      = "Contract Renewal"
	IntentPricing      = "Pricing Offers"
	IntentProduct      = "Plan / Product Inquiry"
	IntentAccount      = "Account / Service Inquiry"
	IntentGeneral      = "General / Operational Contact"
	IntentOther        = "Other / Unclassified"
)

// IntentSeverity ranks an intent by churn risk: cancellation highest,
// complaint next, pricing pressure after that, everything else neutral.
func IntentSeverity(intent string) int64 {
	switch intent {
	case IntentCancellation:
		return 3
	case IntentComplaint:
		return 2
	case IntentPricing:
		return 1
	default:
		return 0
	}
}
