package export

import (
	"regexp"
	"strings"
)

// Missing marks an empty cell in sheet exports.
const Missing = "-----"

var phoneStripRe = regexp.MustCompile(`[\s\-()]`)

// mobile prefixes allocated to Turkish carriers (05XX)
var mobilePrefixes = map[string]struct{}{
	"0505": {}, "0506": {}, "0507": {},
	"0530": {}, "0531": {}, "0532": {}, "0533": {}, "0534": {},
	"0535": {}, "0536": {}, "0537": {}, "0538": {}, "0539": {},
	"0541": {}, "0542": {}, "0543": {}, "0544": {}, "0545": {}, "0546": {},
	"0549": {},
	"0551": {}, "0552": {}, "0553": {}, "0554": {}, "0555": {},
}

// NormalizePhone strips spacing, separators and the +90 country prefix,
// leaving bare digits in national form.
func NormalizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, "+90", "")
	phone = strings.ReplaceAll(phone, "+ 90", "")
	phone = strings.TrimSpace(phone)
	return phoneStripRe.ReplaceAllString(phone, "")
}

// IsTurkishMobile reports whether a normalized number is a Turkish mobile
// line: 11 digits in the 05XX national form with a carrier prefix.
func IsTurkishMobile(normalized string) bool {
	if len(normalized) != 11 || !strings.HasPrefix(normalized, "05") {
		return false
	}
	_, ok := mobilePrefixes[normalized[:4]]
	return ok
}

// SplitPhone classifies the national and international numbers of a lead
// into a mobile and a landline column, preserving the original formatting.
// The international number is preferred; absent values become the Missing
// sentinel.
func SplitPhone(phone, phoneIntl string) (mobile, landline string) {
	if phoneIntl != "" {
		if IsTurkishMobile(NormalizePhone(phoneIntl)) {
			mobile = phoneIntl
		} else {
			landline = phoneIntl
		}
	}

	if phone != "" && mobile == "" {
		if IsTurkishMobile(NormalizePhone(phone)) {
			mobile = phone
		} else {
			landline = phone
		}
	}

	if mobile == "" {
		mobile = Missing
	}
	if landline == "" {
		landline = Missing
	}
	return mobile, landline
}
