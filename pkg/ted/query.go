package ted

import (
	"strings"
	"time"
	"unicode"
)

// iso2to3 maps the EU member-state ISO2 codes to the ISO3 codes the
// place-of-performance filter expects.
var iso2to3 = map[string]string{
	"DE": "DEU", "FR": "FRA", "IT": "ITA", "ES": "ESP", "PL": "POL",
	"RO": "ROU", "NL": "NLD", "BE": "BEL", "GR": "GRC", "CZ": "CZE",
	"PT": "PRT", "HU": "HUN", "SE": "SWE", "AT": "AUT", "BG": "BGR",
	"DK": "DNK", "FI": "FIN", "SK": "SVK", "IE": "IRL", "HR": "HRV",
	"LT": "LTU", "SI": "SVN", "LV": "LVA", "EE": "EST", "CY": "CYP",
	"LU": "LUX", "MT": "MLT",
}

func toISO3(code string) string {
	upper := strings.ToUpper(strings.TrimSpace(code))
	if iso3, ok := iso2to3[upper]; ok {
		return iso3
	}
	return upper
}

// uavKeywords trigger synonym expansion for unmanned-aircraft queries.
var uavKeywords = []string{"drone", "uav", "uas", "rpas", "unmanned"}

// uavSynonyms are appended when any trigger matches.
var uavSynonyms = []string{"drone", "UAV", "UAS", "RPAS", "unmanned"}

// expandTerms returns the search term plus synonyms for UAV-like queries,
// deduplicated case-insensitively with order preserved.
func expandTerms(searchText string) []string {
	s := strings.TrimSpace(searchText)
	if s == "" {
		return nil
	}

	terms := []string{s}
	low := strings.ToLower(s)
	for _, k := range uavKeywords {
		if strings.Contains(low, k) {
			terms = append(terms, uavSynonyms...)
			break
		}
	}

	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ftOrClause renders terms as FT~ full-text matches joined with OR.
// Multi-word terms are quoted as phrases.
func ftOrClause(terms []string) string {
	if len(terms) == 0 {
		return ""
	}

	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if strings.IndexFunc(t, unicode.IsSpace) >= 0 {
			t = `"` + t + `"`
		}
		parts = append(parts, "FT~("+t+")")
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// parseISODate parses ISO timestamps and bare dates, returning nil on
// anything unparseable.
func parseISODate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return &t
		}
	}
	return nil
}

// preferred keys probed first when hunting for a date in nested structures
var dateKeys = []string{
	"deadline", "deadline-date", "deadlineDate",
	"time-limit", "time-limit-receipt-tenders", "timeLimitReceiptTenders",
	"date", "value",
}

// findFirstDate walks an arbitrarily nested decoded JSON value and returns
// the first parseable date. Dict values are probed by the well-known
// deadline key names before falling back to every value.
func findFirstDate(v any) *time.Time {
	switch val := v.(type) {
	case string:
		return parseISODate(val)
	case []any:
		for _, item := range val {
			if d := findFirstDate(item); d != nil {
				return d
			}
		}
	case map[string]any:
		for _, key := range dateKeys {
			if inner, ok := val[key]; ok {
				if d := findFirstDate(inner); d != nil {
					return d
				}
			}
		}
		for _, inner := range val {
			if d := findFirstDate(inner); d != nil {
				return d
			}
		}
	}
	return nil
}

// langKeys are probed in order when a field is a language-keyed map.
var langKeys = []string{"eng", "en", "EN"}

// firstText extracts a usable string from the API's multilingual fields,
// which may be a bare string, a language-keyed map of strings or string
// lists, or a list of any of those.
func firstText(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		for _, lk := range langKeys {
			if inner, ok := val[lk]; ok {
				if s := innerText(inner); s != "" {
					return s
				}
			}
		}
		for _, inner := range val {
			if s := innerText(inner); s != "" {
				return s
			}
		}
	case []any:
		if len(val) > 0 {
			return firstText(val[0])
		}
	}
	return ""
}

func innerText(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// pickCountryCode scans a place-of-performance value for a three-letter
// country code, falling back to the first value uppercased.
func pickCountryCode(v any) string {
	var vals []string
	switch val := v.(type) {
	case string:
		vals = []string{val}
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				vals = append(vals, s)
			}
		}
	case map[string]any:
		for _, inner := range val {
			switch iv := inner.(type) {
			case string:
				vals = append(vals, iv)
			case []any:
				for _, item := range iv {
					if s, ok := item.(string); ok {
						vals = append(vals, s)
					}
				}
			}
		}
	}

	for _, v := range vals {
		v = strings.TrimSpace(v)
		if len(v) == 3 && isAlpha(v) {
			return strings.ToUpper(v)
		}
	}
	if len(vals) > 0 {
		return strings.ToUpper(vals[0])
	}
	return "N/A"
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
