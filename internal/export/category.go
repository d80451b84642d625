package export

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultCategory is used when no keyword substring matches.
const DefaultCategory = "Genel Tarım"

// builtinCategories maps keyword substrings to sheet category names. Both
// the dotted and dotless Turkish spellings are listed so that matching
// works on raw user input.
var builtinCategories = map[string]string{
	"tarım makina":       "Tarım Makina",
	"tarim makina":       "Tarım Makina",
	"tarım makine":       "Tarım Makina",
	"tarim makine":       "Tarım Makina",
	"makina":             "Tarım Makina",
	"makine":             "Tarım Makina",
	"ilaç bayi":          "İlaç Bayi",
	"ilac bayi":          "İlaç Bayi",
	"ilaç":               "İlaç Bayi",
	"ilac":               "İlaç Bayi",
	"ziraat odası":       "Ziraat Odaları",
	"ziraat odasi":       "Ziraat Odaları",
	"ziraat odaları":     "Ziraat Odaları",
	"ziraat odalari":     "Ziraat Odaları",
	"çiftçi kooperatifi": "Çiftçi Kooperatifi",
	"ciftci kooperatifi": "Çiftçi Kooperatifi",
	"kooperatif":         "Çiftçi Kooperatifi",
	"kooparatif":         "Çiftçi Kooperatifi",
}

// Categorizer resolves a keyword to a sheet category by longest substring
// match over the built-in table plus optional user overrides.
type Categorizer struct {
	entries map[string]string
	ordered []string
}

// NewCategorizer builds a categorizer from the built-in table.
func NewCategorizer() *Categorizer {
	c := &Categorizer{entries: make(map[string]string, len(builtinCategories))}
	for k, v := range builtinCategories {
		c.entries[k] = v
	}
	c.reorder()
	return c
}

// LoadOverrides merges a yaml file of keyword->category pairs over the
// built-in table. A missing path is not an error.
func (c *Categorizer) LoadOverrides(path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrap(err, "export: read category file")
	}

	overrides := map[string]string{}
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return eris.Wrap(err, "export: parse category file")
	}

	for k, v := range overrides {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		c.entries[k] = v
	}
	c.reorder()
	return nil
}

// Pick returns the category for a search keyword. Longer substrings win so
// that "tarım makina" beats the bare "makina" entry.
func (c *Categorizer) Pick(keyword string) string {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return DefaultCategory
	}
	for _, sub := range c.ordered {
		if strings.Contains(k, sub) {
			return c.entries[sub]
		}
	}
	return DefaultCategory
}

func (c *Categorizer) reorder() {
	c.ordered = c.ordered[:0]
	for k := range c.entries {
		c.ordered = append(c.ordered, k)
	}
	sort.Slice(c.ordered, func(i, j int) bool {
		if len(c.ordered[i]) != len(c.ordered[j]) {
			return len(c.ordered[i]) > len(c.ordered[j])
		}
		return c.ordered[i] < c.ordered[j]
	})
}
