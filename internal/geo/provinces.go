// Package geo resolves the authoritative province and district for noisy
// free-text Turkish addresses and validates them against a requested location.
package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// postalPrefixToProvince maps the first two digits of a Turkish postal code
// to the province name. Postal codes are assigned per province (55xxx =
// Samsun, 54xxx = Sakarya), which makes this the most trusted locality
// signal in a formatted address.
var postalPrefixToProvince = map[string]string{
	"01": "adana", "02": "adiyaman", "03": "afyonkarahisar", "04": "agri", "05": "amasya",
	"06": "ankara", "07": "antalya", "08": "artvin", "09": "aydin", "10": "balikesir",
	"11": "bilecik", "12": "bingol", "13": "bitlis", "14": "bolu", "15": "burdur",
	"16": "bursa", "17": "canakkale", "18": "cankiri", "19": "corum", "20": "denizli",
	"21": "diyarbakir", "22": "edirne", "23": "elazig", "24": "erzincan", "25": "erzurum",
	"26": "eskisehir", "27": "gaziantep", "28": "giresun", "29": "gumushane", "30": "hakkari",
	"31": "hatay", "32": "isparta", "33": "mersin", "34": "istanbul", "35": "izmir",
	"36": "kars", "37": "kastamonu", "38": "kayseri", "39": "kirklareli", "40": "kirsehir",
	"41": "kocaeli", "42": "konya", "43": "kutahya", "44": "malatya", "45": "manisa",
	"46": "kahramanmaras", "47": "mardin", "48": "mugla", "49": "mus", "50": "nevsehir",
	"51": "nigde", "52": "ordu", "53": "rize", "54": "sakarya", "55": "samsun",
	"56": "siirt", "57": "sinop", "58": "sivas", "59": "tekirdag", "60": "tokat",
	"61": "trabzon", "62": "tunceli", "63": "sanliurfa", "64": "usak", "65": "van",
	"66": "yozgat", "67": "zonguldak", "68": "aksaray", "69": "bayburt", "70": "karaman",
	"71": "kirikkale", "72": "batman", "73": "sirnak", "74": "bartin", "75": "ardahan",
	"76": "igdir", "77": "yalova", "78": "karabuk", "79": "kilis", "80": "osmaniye",
	"81": "duzce",
}

// provinceToPlate maps normalized province names to vehicle plate numbers,
// which the EKAP endpoints use as province identifiers.
var provinceToPlate = map[string]int{
	"adana": 1, "adiyaman": 2, "afyonkarahisar": 3, "agri": 4, "amasya": 5,
	"ankara": 6, "antalya": 7, "artvin": 8, "aydin": 9, "balikesir": 10,
	"bilecik": 11, "bingol": 12, "bitlis": 13, "bolu": 14, "burdur": 15,
	"bursa": 16, "canakkale": 17, "cankiri": 18, "corum": 19, "denizli": 20,
	"diyarbakir": 21, "edirne": 22, "elazig": 23, "erzincan": 24, "erzurum": 25,
	"eskisehir": 26, "gaziantep": 27, "giresun": 28, "gumushane": 29, "hakkari": 30,
	"hatay": 31, "isparta": 32, "mersin": 33, "istanbul": 34, "izmir": 35,
	"kars": 36, "kastamonu": 37, "kayseri": 38, "kirklareli": 39, "kirsehir": 40,
	"kocaeli": 41, "konya": 42, "kutahya": 43, "malatya": 44, "manisa": 45,
	"kahramanmaras": 46, "mardin": 47, "mugla": 48, "mus": 49, "nevsehir": 50,
	"nigde": 51, "ordu": 52, "rize": 53, "sakarya": 54, "samsun": 55,
	"siirt": 56, "sinop": 57, "sivas": 58, "tekirdag": 59, "tokat": 60,
	"trabzon": 61, "tunceli": 62, "sanliurfa": 63, "usak": 64, "van": 65,
	"yozgat": 66, "zonguldak": 67, "aksaray": 68, "bayburt": 69, "karaman": 70,
	"kirikkale": 71, "batman": 72, "sirnak": 73, "bartin": 74, "ardahan": 75,
	"igdir": 76, "yalova": 77, "karabuk": 78, "kilis": 79, "osmaniye": 80,
	"duzce": 81,
}

// Registry is the read-only province lookup table shared across pipeline
// runs. Construct once with NewRegistry and pass by reference.
type Registry struct {
	byPrefix map[string]string
	byName   map[string]int
}

// NewRegistry builds the registry from the static postal and plate tables.
func NewRegistry() *Registry {
	return &Registry{
		byPrefix: postalPrefixToProvince,
		byName:   provinceToPlate,
	}
}

// newFolder builds a transformer that strips combining marks after NFD
// decomposition and maps dotless ı to i, so "Çorum" and "corum" compare
// equal. The dotless ı has no decomposition and needs the explicit map.
// Transformers carry state, so each normalization gets a fresh chain.
func newFolder() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if r == 'ı' {
				return 'i'
			}
			return r
		}),
		norm.NFC,
	)
}

// Normalize lowercases a province name and folds Turkish-specific letters
// to their closest unaccented Latin forms for comparison.
func (r *Registry) Normalize(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	folded, _, err := transform.String(newFolder(), lowered)
	if err != nil {
		return lowered
	}
	return folded
}

// ProvinceForPostalCode returns the province for a 5-digit postal code,
// keyed on its first two digits. The second return is false when the
// prefix maps to no known province.
func (r *Registry) ProvinceForPostalCode(postalCode string) (string, bool) {
	if len(postalCode) < 2 {
		return "", false
	}
	province, ok := r.byPrefix[postalCode[:2]]
	return province, ok
}

// Known reports whether name matches a province in the registry after
// normalization, returning the canonical normalized form on a hit.
func (r *Registry) Known(name string) (string, bool) {
	normalized := r.Normalize(name)
	if _, ok := r.byName[normalized]; ok {
		return normalized, true
	}
	return "", false
}

// PlateNumber returns the vehicle plate number for a province name, or 0
// when the province is unknown.
func (r *Registry) PlateNumber(name string) int {
	return r.byName[r.Normalize(name)]
}
