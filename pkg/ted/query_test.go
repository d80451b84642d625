package ted

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTerms(t *testing.T) {
	assert.Nil(t, expandTerms("  "))
	assert.Equal(t, []string{"tractor parts"}, expandTerms("tractor parts"))
	assert.Equal(t,
		[]string{"drone survey", "drone", "UAV", "UAS", "RPAS", "unmanned"},
		expandTerms("drone survey"))
	// Synonyms already present in the term are not duplicated.
	assert.Equal(t,
		[]string{"UAV", "drone", "UAS", "RPAS", "unmanned"},
		expandTerms("UAV"))
}

func TestFTOrClause(t *testing.T) {
	assert.Equal(t, "", ftOrClause(nil))
	assert.Equal(t, "FT~(tractor)", ftOrClause([]string{"tractor"}))
	assert.Equal(t, `FT~("tractor parts")`, ftOrClause([]string{"tractor parts"}))
	assert.Equal(t,
		`(FT~(drone) OR FT~(UAV))`,
		ftOrClause([]string{"drone", "UAV"}))
}

func TestToISO3(t *testing.T) {
	assert.Equal(t, "DEU", toISO3("de"))
	assert.Equal(t, "POL", toISO3("PL"))
	assert.Equal(t, "TUR", toISO3("TUR"))
	assert.Equal(t, "XX", toISO3("xx"))
}

func TestBuildQuery(t *testing.T) {
	fixed := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	c := NewClient("", WithNow(func() time.Time { return fixed }))

	query := c.buildQuery(NoticeQuery{
		SearchText:   "tractor",
		CountryCodes: []string{"DE", "FR"},
		DaysBack:     30,
	})

	assert.Equal(t,
		"FT~(tractor) AND (place-of-performance IN (DEU FRA)) AND (PD>=20260725) SORT BY publication-date DESC",
		query)
}

func TestBuildQuery_NoSearchText(t *testing.T) {
	fixed := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	c := NewClient("", WithNow(func() time.Time { return fixed }))

	query := c.buildQuery(NoticeQuery{DaysBack: 7})

	assert.Equal(t, "(PD>=20260817) SORT BY publication-date DESC", query)
}

func TestParseISODate(t *testing.T) {
	d := parseISODate("2026-09-15")
	require.NotNil(t, d)
	assert.Equal(t, 15, d.Day())

	d = parseISODate("2026-09-15T14:30:00Z")
	require.NotNil(t, d)
	assert.Equal(t, 14, d.Hour())

	d = parseISODate("2026-09-15+02:00")
	require.NotNil(t, d)
	assert.Equal(t, time.September, d.Month())

	assert.Nil(t, parseISODate(""))
	assert.Nil(t, parseISODate("soon"))
}

func TestFindFirstDate(t *testing.T) {
	assert.Nil(t, findFirstDate(nil))
	assert.Nil(t, findFirstDate(42.0))

	d := findFirstDate("2026-09-15")
	require.NotNil(t, d)

	// Preferred keys are probed before arbitrary values.
	d = findFirstDate(map[string]any{
		"note":     "garbage",
		"deadline": "2026-10-01",
	})
	require.NotNil(t, d)
	assert.Equal(t, time.October, d.Month())

	d = findFirstDate([]any{
		map[string]any{"value": []any{"2026-11-02T09:00:00Z"}},
	})
	require.NotNil(t, d)
	assert.Equal(t, time.November, d.Month())
}

func TestFirstText(t *testing.T) {
	assert.Equal(t, "plain", firstText(" plain "))
	assert.Equal(t, "english", firstText(map[string]any{"eng": "english", "fra": "french"}))
	assert.Equal(t, "first", firstText(map[string]any{"en": []any{"first", "second"}}))
	assert.Equal(t, "nested", firstText([]any{map[string]any{"eng": "nested"}}))
	assert.Equal(t, "", firstText(nil))
	assert.Equal(t, "", firstText(map[string]any{}))
}

func TestPickCountryCode(t *testing.T) {
	assert.Equal(t, "DEU", pickCountryCode("DEU"))
	assert.Equal(t, "FRA", pickCountryCode([]any{"anywhere", "fra"}))
	assert.Equal(t, "POL", pickCountryCode(map[string]any{"lot": []any{"POL"}}))
	assert.Equal(t, "ANYWHERE", pickCountryCode([]any{"anywhere"}))
	assert.Equal(t, "N/A", pickCountryCode(nil))
}
