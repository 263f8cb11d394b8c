package bank

import (
	"fmt"
	"sort"
	"strings"
)

// Lookup result sources.
const (
	SourceDirectMatch  = "direct_match"
	SourcePatternMatch = "pattern_match"
	SourceRegionOnly   = "region_only"
)

const unknownRegion = "Unknown Region"

// maxSuggestions caps the suggestion list.
const maxSuggestions = 10

// LookupResult describes the outcome of a routing number lookup.
type LookupResult struct {
	Valid         bool   `json:"valid"`
	BankName      string `json:"bank_name,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`
	Region        string `json:"region,omitempty"`
	Source        string `json:"source,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Suggestion is one directory entry matching a partial routing number.
type Suggestion struct {
	RoutingNumber    string `json:"routing_number"`
	BankName         string `json:"bank_name"`
	FormattedRouting string `json:"formatted_routing"`
}

// Lookup identifies a bank from its routing number. The input is
// normalized before validation; a checksum failure short-circuits.
// A valid number outside the directory still returns Valid=true with
// a prefix-based guess or "Unknown Bank".
func Lookup(routing string) LookupResult {
	routing = NormalizeRoutingNumber(routing)

	if !ValidRoutingNumber(routing) {
		return LookupResult{
			Valid: false,
			Error: "Invalid routing number format or checksum",
		}
	}

	region, ok := routingRegions[routing[:4]]
	if !ok {
		region = unknownRegion
	}

	if name, ok := routingDirectory[routing]; ok {
		return LookupResult{
			Valid:         true,
			BankName:      name,
			RoutingNumber: routing,
			Region:        region,
			Source:        SourceDirectMatch,
		}
	}

	for _, p := range bankPatterns {
		for _, prefix := range p.prefixes {
			if strings.HasPrefix(routing, prefix) {
				return LookupResult{
					Valid:         true,
					BankName:      p.name + " (likely)",
					RoutingNumber: routing,
					Region:        region,
					Source:        SourcePatternMatch,
				}
			}
		}
	}

	return LookupResult{
		Valid:         true,
		BankName:      "Unknown Bank",
		RoutingNumber: routing,
		Region:        region,
		Source:        SourceRegionOnly,
	}
}

// Suggestions returns directory entries whose routing number starts
// with the partial input, sorted by bank name, at most ten. Inputs
// shorter than three characters match too broadly and return nothing.
func Suggestions(partial string) []Suggestion {
	partial = NormalizeRoutingNumber(partial)
	if len(partial) < 3 {
		return nil
	}

	var out []Suggestion
	for routing, name := range routingDirectory {
		if strings.HasPrefix(routing, partial) {
			out = append(out, Suggestion{
				RoutingNumber:    routing,
				BankName:         name,
				FormattedRouting: fmt.Sprintf("%s-%s-%s", routing[:3], routing[3:6], routing[6:]),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].BankName != out[j].BankName {
			return out[i].BankName < out[j].BankName
		}
		return out[i].RoutingNumber < out[j].RoutingNumber
	})

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
