package geo

import (
	"regexp"
	"strings"
)

// Source identifies which signal produced a resolved province.
type Source string

// Provenance sources, ordered from most to least trusted.
const (
	SourcePostalCode   Source = "postal_code"
	SourceAddressParse Source = "address_parse"
	SourceLocationText Source = "location_text"
)

// Provenance is the resolved (province, district, source) triple for a
// single result address. The resolver produces a best-effort pair; strict
// rejection of mismatched results belongs to the filter stage.
type Provenance struct {
	Province string
	District string
	Source   Source
}

var postalCodeRe = regexp.MustCompile(`\b(\d{5})\b`)

// PostalCode extracts a standalone 5-digit postal code from an address,
// or "" when none is present.
func PostalCode(address string) string {
	m := postalCodeRe.FindStringSubmatch(address)
	if m == nil {
		return ""
	}
	return m[1]
}

// stripCountry removes the country qualifier in both spellings.
func stripCountry(s string) string {
	s = strings.ReplaceAll(s, "Türkiye", "")
	s = strings.ReplaceAll(s, "turkey", "")
	return strings.TrimSpace(s)
}

// ProvinceFromLocationText derives the declared province from the query's
// location text: strip the country name, split on commas, take the
// trailing segment.
func (r *Registry) ProvinceFromLocationText(locationText string) string {
	if locationText == "" {
		return ""
	}
	cleaned := stripCountry(locationText)
	parts := strings.Split(cleaned, ",")
	if len(parts) > 0 {
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return cleaned
}

// ProvinceFromAddress resolves the province from the address alone, with
// no location-text involvement. Postal code first; when absent, the
// trailing comma segment is parsed, honoring the District/Province slash
// form. Used by the strict geographic filter.
func (r *Registry) ProvinceFromAddress(address string) string {
	if address == "" {
		return ""
	}

	if code := PostalCode(address); code != "" {
		if province, ok := r.ProvinceForPostalCode(code); ok {
			return province
		}
	}

	parts := strings.Split(address, ",")
	last := stripCountry(strings.TrimSpace(parts[len(parts)-1]))
	last = strings.TrimSpace(postalCodeRe.ReplaceAllString(last, ""))

	if last == "" && len(parts) >= 2 {
		secondLast := strings.TrimSpace(parts[len(parts)-2])
		if !postalCodeRe.MatchString(secondLast) && len(strings.Fields(secondLast)) <= 3 {
			last = secondLast
		}
	}

	parsed := last
	if strings.Contains(last, "/") {
		segs := strings.Split(last, "/")
		if len(segs) >= 2 {
			parsed = strings.TrimSpace(segs[1])
		} else {
			parsed = strings.TrimSpace(segs[0])
		}
	}

	parsed = strings.TrimSpace(parsed)
	if parsed == "" {
		return ""
	}
	// Prefer the canonical registry spelling when the parse matches a
	// known province; otherwise return the raw parse.
	if canonical, ok := r.Known(parsed); ok {
		return canonical
	}
	return parsed
}

// Resolve extracts the province and district from a formatted address and
// cross-validates them against the query's declared location.
//
// Precedence: a postal-code-derived province is authoritative over any
// textual parse of the same address. Without a postal code, the trailing
// comma segment is parsed (District/Province slash form supported). The
// declared province from locationText wins over a conflicting parse, and a
// province conflict always discards the district.
func (r *Registry) Resolve(address, locationText string) Provenance {
	declared := ""
	if locationText != "" {
		declared = r.ProvinceFromLocationText(locationText)
	}

	if address == "" {
		return Provenance{Province: declared, Source: SourceLocationText}
	}

	postalProvince := ""
	if code := PostalCode(address); code != "" {
		if p, ok := r.ProvinceForPostalCode(code); ok {
			postalProvince = p
		}
	}

	parsedProvince, parsedDistrict := parseAddressSegments(address)

	// The postal-derived province overrides the textual parse outright.
	province := parsedProvince
	district := parsedDistrict
	source := SourceAddressParse
	if postalProvince != "" {
		province = postalProvince
		source = SourcePostalCode
	}

	if declared != "" {
		declaredNorm := r.Normalize(declared)

		if postalProvince != "" {
			if declaredNorm != r.Normalize(postalProvince) {
				// Postal evidence contradicts the declared province; the
				// declared province wins and the district is untrustworthy.
				province = declared
				district = ""
				source = SourceLocationText
			}
		} else if parsedProvince != "" {
			parsedNorm := r.Normalize(parsedProvince)
			if !strings.Contains(parsedNorm, declaredNorm) && !strings.Contains(declaredNorm, parsedNorm) {
				province = declared
				district = ""
				source = SourceLocationText
			}
		} else {
			province = declared
			source = SourceLocationText
		}
	}

	// A district is only accepted when the address's own postal code agrees
	// with the resolved province. An inconsistent postal code invalidates
	// the district even when the province came from location text.
	if province != "" && district != "" && postalProvince != "" {
		if r.Normalize(province) != r.Normalize(postalProvince) {
			district = ""
		}
	}

	return Provenance{Province: province, District: district, Source: source}
}

// parseAddressSegments splits a formatted address on commas and extracts
// (province, district) candidates from the trailing segments.
func parseAddressSegments(address string) (province, district string) {
	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	last := parts[len(parts)-1]

	if strings.Contains(last, "/") {
		segs := strings.Split(last, "/")
		for i := range segs {
			segs[i] = strings.TrimSpace(segs[i])
		}
		if len(segs) >= 2 {
			province = segs[1]
			district = strings.TrimSpace(strings.TrimLeft(postalCodeRe.ReplaceAllString(segs[0], ""), " "))
		} else if len(segs) == 1 {
			province = segs[0]
		}
	} else {
		province = last
	}

	// Districts commonly appear as the second-to-last segment in the
	// "District, 55020 Samsun" form: short, digit-free.
	if district == "" && len(parts) >= 2 {
		secondLast := parts[len(parts)-2]
		if !postalCodeRe.MatchString(secondLast) && len(strings.Fields(secondLast)) <= 3 {
			district = secondLast
		}
	}

	return province, district
}
