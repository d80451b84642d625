package ted

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key",
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithNow(fixedNow),
	)
}

func TestSearch(t *testing.T) {
	var gotPayload searchPayload
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"totalNoticeCount": 42,
			"notices": [
				{
					"publication-number": "123456-2026",
					"notice-title": {"eng": ["Agricultural machinery supply"], "pol": ["Dostawa maszyn"]},
					"publication-date": "2026-08-20T00:00:00Z",
					"place-of-performance": ["POL"],
					"buyer-name": {"pol": "Gmina Przykład"},
					"deadline-date-lot": [{"deadline": "2026-09-30"}]
				},
				{
					"notice-title": "missing publication number, skipped"
				},
				{
					"publication-number": "123457-2026"
				}
			]
		}`))
	})

	result, err := client.Search(context.Background(), NoticeQuery{
		SearchText:   "agricultural machinery",
		CountryCodes: []string{"PL"},
		Limit:        20,
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result.TotalFound)
	assert.Equal(t, 1, result.Page)
	require.Len(t, result.Notices, 2)

	first := result.Notices[0]
	assert.Equal(t, "123456-2026", first.ID)
	assert.Equal(t, "Agricultural machinery supply", first.Title)
	assert.Equal(t, "POL", first.CountryCode)
	assert.Equal(t, "Gmina Przykład", first.BuyerName)
	assert.Equal(t, "https://ted.europa.eu/en/notice/-/detail/123456-2026", first.URL)
	assert.Equal(t, 20, first.PublicationDate.Day())
	require.NotNil(t, first.Deadline)
	assert.Equal(t, 30, first.Deadline.Day())

	// Sparse notice gets fallbacks.
	second := result.Notices[1]
	assert.Equal(t, "No Title Found", second.Title)
	assert.Equal(t, "Not specified", second.BuyerName)
	assert.Equal(t, "N/A", second.CountryCode)
	assert.Equal(t, fixedNow(), second.PublicationDate)
	assert.Nil(t, second.Deadline)

	// Payload shape
	assert.Equal(t,
		`FT~("agricultural machinery") AND (place-of-performance IN (POL)) AND (PD>=20260725) SORT BY publication-date DESC`,
		gotPayload.Query)
	assert.Equal(t, 20, gotPayload.Limit)
	assert.Equal(t, 1, gotPayload.Page)
	assert.Equal(t, ScopeActive, gotPayload.Scope)
	assert.Equal(t, "PAGE_NUMBER", gotPayload.PaginationMode)
	assert.False(t, gotPayload.CheckQuerySyntax)
	assert.Contains(t, gotPayload.Fields, "deadline-date-lot")
}

func TestSearch_LimitClamped(t *testing.T) {
	var gotPayload searchPayload
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [], "total": 0}`))
	})

	_, err := client.Search(context.Background(), NoticeQuery{Limit: 9999})
	require.NoError(t, err)
	assert.Equal(t, 250, gotPayload.Limit)

	_, err = client.Search(context.Background(), NoticeQuery{})
	require.NoError(t, err)
	assert.Equal(t, 10, gotPayload.Limit)
}

func TestSearch_HTTPError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := client.Search(context.Background(), NoticeQuery{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
