package nlp

import (
	"regexp"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

// category pairs an intent label with its match pattern. Order matters:
// categories are tried from most to least churn-relevant and the first
// match wins.
type category struct {
	label   string
	pattern *regexp.Regexp
}

var categories = []category{
	{contracts.IntentCancellation, regexp.MustCompile(
		`(?i)\bcancel(l?ed|lation)?\b|\bterminate\b|\bswitch(ing)?\b|\bleave\b|\baccount clos(e|ure)\b|\bclosing account\b`)},
	{contracts.IntentComplaint, regexp.MustCompile(
		`(?i)\bcomplain(t|ing)?\b|\bfrustrat(ed|ion)\b|\bescalat(ed|ion)\b|\bnot satisfied\b|\bunsatisfied\b|\bupset\b|\bdissatisf(ied|action)\b|\bunhappy\b|\bdiscontent\b`)},
	{contracts.IntentBilling, regexp.MustCompile(
		`(?i)\bbill(ing)?\b|\bcharge(s|d)?\b|\bpayment\b|\boverdue\b|\bpast due\b`)},
	{contracts.IntentRenewal, regexp.MustCompile(
		`(?i)\brenew(al|als|ing)?\b|\bexpir(e|y|ation)\b|\bnext renewal\b|\brenewals discussed\b|\brenewed\b|\brenewed contract\b`)},
	{contracts.IntentPricing, regexp.MustCompile(
		`(?i)\bprice(s|d)?\b|\brate(s)?\b|\bpricing\b|\bincrease\b|\bhike\b|\bdiscount(s)?\b|\bsavings?\b|\bcompetitive\b|\bbetter (deal|rate|offer)\b|\bcompetitiveness\b|\bcompetition\b|\balternatives?\b|\bseeking alternatives?\b|\blooking around\b`)},
	{contracts.IntentProduct, regexp.MustCompile(
		`(?i)\bplan(s)?\b|\bplan options?\b|\bnew plan\b|\bfuture plans?\b|\boptions?\b|\bexploring options?\b`)},
	{contracts.IntentAccount, regexp.MustCompile(
		`(?i)\baccount details?\b|\baccount questions?\b|\bservices?\b|\binquir(y|ed|ies)\b|\binfo\b|\bclarified\b|\bprovided info\b|\breviewed options\b|\bdiscussed options\b|\baccount update(s)?\b|\baccount setup\b|\bsetup details?\b|\baccount issues?\b|\baccount\b.*\bno issues\b|\bno issues found\b|\ball good\b`)},
	{contracts.IntentGeneral, regexp.MustCompile(
		`(?i)\bgeneral\b|\bfollow[- ]?up\b|\broutine\b|\binbound call\b|\bno action required\b|\bissue resolved\b|\bresolved\b|\bnormal process\b|\bstandard interaction\b|\bcustomer contacted\b`)},
}

// Classifier assigns one of the eight intent categories to a free-text
// interaction summary.
type Classifier struct{}

func NewClassifier() *Classifier { return &Classifier{} }

// Classify returns the first matching category, or "Other / Unclassified"
// when no pattern fires. Empty text always falls through to the default.
func (c *Classifier) Classify(text string) string {
	for _, cat := range categories {
		if cat.pattern.MatchString(text) {
			return cat.label
		}
	}
	return contracts.IntentOther
}
