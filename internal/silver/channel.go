package silver

import (
	"strings"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

// Channel display names referenced by downstream features.
const (
	ChannelComparisonWebsite = "Comparison Website"
	ChannelOwnWebsite        = "Own Website"
)

// DefaultChannelMap translates the retailer's raw Spanish sales-channel
// codes to English display names. Lookup is case-insensitive on the
// trimmed code.
var DefaultChannelMap = map[string]string{
	"presencial_comercial": "In-Person Commercial",
	"comparador":           ChannelComparisonWebsite,
	"oficina":              "Office",
	"telemarketing":        "Telemarketing",
	"web_propia":           ChannelOwnWebsite,
	"desconocido":          "Unknown",
	"unknown":              "Unknown",
}

// ChannelNormalizer maps raw sales-channel codes to display names. The
// mapping is injected so locale variants can be swapped without touching
// the logic; unknown codes pass through unchanged.
type ChannelNormalizer struct {
	mapping map[string]string
}

// NewChannelNormalizer builds a normalizer from a raw-code → name map.
// Keys are normalized to trimmed lower case.
func NewChannelNormalizer(mapping map[string]string) *ChannelNormalizer {
	m := make(map[string]string, len(mapping))
	for k, v := range mapping {
		m[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &ChannelNormalizer{mapping: m}
}

// Normalize translates one raw channel code. Unknown codes come back
// unchanged: no data loss, no failure.
func (n *ChannelNormalizer) Normalize(raw string) string {
	if name, ok := n.mapping[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return name
	}
	return raw
}

// NormalizeCustomers returns a copy of the customer table with
// SalesChannel translated.
func (n *ChannelNormalizer) NormalizeCustomers(customers []contracts.Customer) []contracts.Customer {
	out := make([]contracts.Customer, len(customers))
	for i, c := range customers {
		c = c.Clone()
		if c.SalesChannel != nil {
			c.SalesChannel = contracts.Str(n.Normalize(*c.SalesChannel))
		}
		out[i] = c
	}
	return out
}
