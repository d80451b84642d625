// Package ted searches the EU Tenders Electronic Daily notices API with
// expert-syntax queries.
package ted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.ted.europa.eu/v3/notices/search"

// Notice scopes accepted by the search API.
const (
	ScopeActive = "ACTIVE"
	ScopeLatest = "LATEST"
	ScopeAll    = "ALL"
)

// noticeFields is the field selection for every search, including the
// deadline fields scattered across lot and part levels.
var noticeFields = []string{
	"publication-number",
	"notice-title",
	"publication-date",
	"place-of-performance",
	"buyer-name",
	"deadline-receipt-tender-date-lot",
	"deadline-date-lot",
	"deadline-date-part",
	"deadline-time-lot",
	"deadline-time-part",
	"public-opening-date-lot",
}

// Client queries the TED notices search API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	now     func() time.Time
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBaseURL overrides the search endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithNow overrides the clock used for the publication-date window.
func WithNow(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a TED client. The API key is optional; anonymous
// queries are rate-limited harder by the provider.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NoticeQuery holds the search parameters.
type NoticeQuery struct {
	SearchText   string
	CountryCodes []string // ISO2 or ISO3; ISO2 is mapped to ISO3
	Limit        int      // clamped to [1,250], default 10
	Page         int      // 1-based
	DaysBack     int      // publication-date window, default 30
	Scope        string   // ScopeActive (default), ScopeLatest, ScopeAll
}

// Notice is one search hit.
type Notice struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	PublicationDate time.Time  `json:"publication_date"`
	CountryCode     string     `json:"country_code"`
	BuyerName       string     `json:"buyer_name"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	URL             string     `json:"url"`
}

// SearchResult is a page of notices.
type SearchResult struct {
	TotalFound int      `json:"total_found"`
	Notices    []Notice `json:"tenders"`
	Page       int      `json:"page"`
}

// searchPayload is the POST body for the notices search.
type searchPayload struct {
	Query            string   `json:"query"`
	Fields           []string `json:"fields"`
	Page             int      `json:"page"`
	Limit            int      `json:"limit"`
	Scope            string   `json:"scope"`
	CheckQuerySyntax bool     `json:"checkQuerySyntax"`
	PaginationMode   string   `json:"paginationMode"`
}

// rawResponse tolerates both response shapes the API has used.
type rawResponse struct {
	Notices          []map[string]any `json:"notices"`
	Items            []map[string]any `json:"items"`
	TotalNoticeCount int              `json:"totalNoticeCount"`
	Total            int              `json:"total"`
}

// Search runs one expert-query search page.
func (c *Client) Search(ctx context.Context, q NoticeQuery) (*SearchResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.DaysBack <= 0 {
		q.DaysBack = 30
	}
	if q.Scope == "" {
		q.Scope = ScopeActive
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > 250 {
		limit = 250
	}

	payload := searchPayload{
		Query:          c.buildQuery(q),
		Fields:         noticeFields,
		Page:           q.Page,
		Limit:          limit,
		Scope:          q.Scope,
		PaginationMode: "PAGE_NUMBER",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "ted: marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "ted: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ted: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ted: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("ted: unexpected status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded rawResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, eris.Wrap(err, "ted: unmarshal response")
	}

	items := decoded.Notices
	if len(items) == 0 {
		items = decoded.Items
	}

	result := &SearchResult{Page: q.Page, Notices: make([]Notice, 0, len(items))}
	for _, n := range items {
		notice, ok := c.decodeNotice(n)
		if !ok {
			continue
		}
		result.Notices = append(result.Notices, notice)
	}

	result.TotalFound = decoded.TotalNoticeCount
	if result.TotalFound == 0 {
		result.TotalFound = decoded.Total
	}
	if result.TotalFound == 0 {
		result.TotalFound = len(result.Notices)
	}
	return result, nil
}

// buildQuery assembles the expert query: full-text OR clause, optional
// place-of-performance IN filter, publication-date window, newest first.
func (c *Client) buildQuery(q NoticeQuery) string {
	var parts []string

	if ft := ftOrClause(expandTerms(q.SearchText)); ft != "" {
		parts = append(parts, ft)
	}

	if len(q.CountryCodes) > 0 {
		iso3 := make([]string, 0, len(q.CountryCodes))
		for _, code := range q.CountryCodes {
			iso3 = append(iso3, toISO3(code))
		}
		parts = append(parts, fmt.Sprintf("(place-of-performance IN (%s))", strings.Join(iso3, " ")))
	}

	from := c.now().AddDate(0, 0, -q.DaysBack).Format("20060102")
	parts = append(parts, fmt.Sprintf("(PD>=%s)", from))

	return strings.Join(parts, " AND ") + " SORT BY publication-date DESC"
}

func (c *Client) decodeNotice(n map[string]any) (Notice, bool) {
	pubNo := firstText(pick(n, "publication-number", "ND"))
	if pubNo == "" {
		return Notice{}, false
	}

	title := firstText(pick(n, "notice-title", "TI"))
	if title == "" {
		title = "No Title Found"
	}

	pubDate := parseISODate(firstText(pick(n, "publication-date", "PD")))
	if pubDate == nil {
		now := c.now()
		pubDate = &now
	}

	buyer := firstText(n["buyer-name"])
	if buyer == "" {
		buyer = "Not specified"
	}

	notice := Notice{
		ID:              pubNo,
		Title:           title,
		PublicationDate: *pubDate,
		CountryCode:     pickCountryCode(pick(n, "place-of-performance", "CY")),
		BuyerName:       buyer,
		URL:             "https://ted.europa.eu/en/notice/-/detail/" + pubNo,
	}

	for _, key := range []string{
		"deadline-receipt-tender-date-lot",
		"deadline-date-lot",
		"deadline-date-part",
		"deadline-time-lot",
		"deadline-time-part",
		"public-opening-date-lot",
	} {
		if v, ok := n[key]; ok && v != nil {
			if d := findFirstDate(v); d != nil {
				notice.Deadline = d
				break
			}
		}
	}

	return notice, true
}

func pick(n map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := n[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
