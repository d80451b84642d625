package pipeline

import (
	"strings"

	"github.com/saha-group/leads-cli/internal/geo"
	"github.com/saha-group/leads-cli/internal/model"
)

// Filter applies the geographic gate, attribute predicates, and
// deduplication to the normalized lead list.
type Filter struct {
	registry *geo.Registry
}

// NewFilter creates a filter over the shared province registry.
func NewFilter(registry *geo.Registry) *Filter {
	return &Filter{registry: registry}
}

// Apply runs the fixed stage order: geographic gate, attribute predicates
// (composed with AND), then dedupe. The output is an order-preserving
// subsequence of the input.
func (f *Filter) Apply(leads []model.Lead, query model.Query, filters model.Filters) []model.Lead {
	declared := f.registry.ProvinceFromLocationText(query.LocationText)

	passed := make([]model.Lead, 0, len(leads))
	for _, lead := range leads {
		if declared != "" && !f.passesGeographicGate(lead, declared) {
			continue
		}
		if !passesAttributes(lead, filters) {
			continue
		}
		passed = append(passed, lead)
	}

	return dedupe(passed, filters.DedupeBy)
}

// passesGeographicGate rejects leads whose address cannot be reconciled
// with the declared province. The radius-based upstream search routinely
// returns results from neighboring provinces; this gate is what keeps them
// out of the output.
func (f *Filter) passesGeographicGate(lead model.Lead, declared string) bool {
	address := lead.FormattedAddress
	if address == "" {
		return true
	}

	declaredNorm := f.registry.Normalize(declared)

	// Postal code is the most trusted signal. A postal code that maps to no
	// known province is treated as untrustworthy, not as "no signal".
	if code := geo.PostalCode(address); code != "" {
		postalProvince, ok := f.registry.ProvinceForPostalCode(code)
		if !ok {
			return false
		}
		return declaredNorm == f.registry.Normalize(postalProvince)
	}

	// No postal code: parse the province from the address alone.
	if parsed := f.registry.ProvinceFromAddress(address); parsed != "" {
		return declaredNorm == f.registry.Normalize(parsed)
	}

	// Parsing failed: fall back to a folded substring check over the whole
	// address text. Absence is a rejection.
	folded := f.registry.Normalize(address)
	return strings.Contains(folded, declaredNorm)
}

func passesAttributes(lead model.Lead, filters model.Filters) bool {
	if filters.MinRating != nil && lead.Rating < *filters.MinRating {
		return false
	}
	if filters.MinUserRatingsTotal != nil && lead.UserRatingsTotal < *filters.MinUserRatingsTotal {
		return false
	}
	if len(filters.TypesInclude) > 0 && !typesOverlap(lead.Types, filters.TypesInclude) {
		return false
	}
	if len(filters.TypesExclude) > 0 && typesOverlap(lead.Types, filters.TypesExclude) {
		return false
	}
	if filters.RequirePhoneOrWebsite && !lead.HasContact() {
		return false
	}
	if filters.OnlyOpenNow != nil && *filters.OnlyOpenNow {
		if lead.OpenNow == nil || !*lead.OpenNow {
			return false
		}
	}
	if len(filters.BusinessStatusIn) > 0 {
		status := strings.ToUpper(lead.BusinessStatus)
		allowed := false
		for _, s := range filters.BusinessStatusIn {
			if status == strings.ToUpper(s) {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}
	return true
}

// typesOverlap reports whether any lead type matches any filter type,
// case-insensitively.
func typesOverlap(leadTypes, filterTypes []string) bool {
	set := make(map[string]struct{}, len(filterTypes))
	for _, t := range filterTypes {
		set[strings.ToLower(t)] = struct{}{}
	}
	for _, t := range leadTypes {
		if _, ok := set[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

// dedupe drops later duplicates, keyed by place ID or by the normalized
// (name, address) pair. First occurrence in input order wins.
func dedupe(leads []model.Lead, key model.DedupeKey) []model.Lead {
	seen := make(map[string]struct{}, len(leads))
	out := make([]model.Lead, 0, len(leads))
	for _, lead := range leads {
		var k string
		if key == model.DedupeByNameAddress {
			k = strings.ToLower(strings.TrimSpace(lead.Name)) + "\x00" + strings.ToLower(strings.TrimSpace(lead.FormattedAddress))
		} else {
			k = lead.PlaceID
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, lead)
	}
	return out
}
