// Package places wraps the Google Geocoding, Places Text Search, and Place
// Details web service endpoints used to collect business leads.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Legacy Places web service endpoints. Broadly supported and sufficient for
// text search + details enrichment.
const (
	defaultGeocodeURL    = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultTextSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	defaultDetailsURL    = "https://maps.googleapis.com/maps/api/place/details/json"
)

// Search statuses returned by the Places web service.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

// detailsFields kept modest to reduce quota usage.
const detailsFields = "formatted_phone_number,international_phone_number,website,opening_hours"

// Client performs Google Geocoding and Places API operations.
type Client interface {
	Geocode(ctx context.Context, locationText, language string) (*LatLng, error)
	TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error)
	PlaceDetails(ctx context.Context, placeID, language string) (*DetailsResponse, error)
}

// LatLng is a geographic point.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TextSearchRequest holds the parameters for one Text Search page.
type TextSearchRequest struct {
	Query        string
	Location     *LatLng
	RadiusMeters int
	PageToken    string
	Language     string
}

// TextSearchResponse is the raw Text Search page.
type TextSearchResponse struct {
	Results       []Place `json:"results"`
	Status        string  `json:"status"`
	NextPageToken string  `json:"next_page_token"`
}

// Place is a provider-native search result. Details is attached after
// enrichment and is absent on the raw search response.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
	Types            []string `json:"types"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	BusinessStatus   string   `json:"business_status"`
	Details          *Details `json:"details,omitempty"`
}

// Geometry holds the place location.
type Geometry struct {
	Location LatLng `json:"location"`
}

// Details holds the enrichment fields from Place Details.
type Details struct {
	Phone        string        `json:"formatted_phone_number"`
	PhoneIntl    string        `json:"international_phone_number"`
	Website      string        `json:"website"`
	OpeningHours *OpeningHours `json:"opening_hours,omitempty"`
}

// OpeningHours carries the open-now flag from Place Details.
type OpeningHours struct {
	OpenNow *bool `json:"open_now,omitempty"`
}

// DetailsResponse is the raw Place Details response.
type DetailsResponse struct {
	Status string  `json:"status"`
	Result Details `json:"result"`
}

// geocodeResponse is the raw Geocoding API response.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURLs overrides the geocode, text search, and details endpoints.
func WithBaseURLs(geocode, textSearch, details string) Option {
	return func(c *httpClient) {
		c.geocodeURL = geocode
		c.textSearchURL = textSearch
		c.detailsURL = details
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit applied to all calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

type httpClient struct {
	apiKey        string
	geocodeURL    string
	textSearchURL string
	detailsURL    string
	http          *http.Client
	limiter       *rate.Limiter
}

// NewClient creates a Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:        apiKey,
		geocodeURL:    defaultGeocodeURL,
		textSearchURL: defaultTextSearchURL,
		detailsURL:    defaultDetailsURL,
		http:          &http.Client{Timeout: 20 * time.Second},
		limiter:       rate.NewLimiter(10, 10),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Geocode resolves free-form location text to a point. Returns nil when the
// provider reports no usable result.
func (c *httpClient) Geocode(ctx context.Context, locationText, language string) (*LatLng, error) {
	params := url.Values{
		"address":  {locationText},
		"key":      {c.apiKey},
		"language": {language},
		"region":   {"tr"},
	}

	var resp geocodeResponse
	if err := c.getJSON(ctx, c.geocodeURL, params, &resp); err != nil {
		return nil, eris.Wrap(err, "places: geocode")
	}
	if resp.Status != StatusOK || len(resp.Results) == 0 {
		return nil, nil
	}
	loc := resp.Results[0].Geometry.Location
	return &loc, nil
}

// TextSearch fetches one Text Search page.
func (c *httpClient) TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error) {
	params := url.Values{
		"query":    {req.Query},
		"key":      {c.apiKey},
		"language": {req.Language},
		"region":   {"tr"},
	}
	if req.Location != nil {
		params.Set("location", fmt.Sprintf("%.7f,%.7f", req.Location.Lat, req.Location.Lng))
	}
	if req.RadiusMeters > 0 {
		params.Set("radius", strconv.Itoa(req.RadiusMeters))
	}
	if req.PageToken != "" {
		params.Set("pagetoken", req.PageToken)
	}

	var resp TextSearchResponse
	if err := c.getJSON(ctx, c.textSearchURL, params, &resp); err != nil {
		return nil, eris.Wrap(err, "places: text search")
	}
	return &resp, nil
}

// PlaceDetails fetches phone, website, and opening hours for a place.
func (c *httpClient) PlaceDetails(ctx context.Context, placeID, language string) (*DetailsResponse, error) {
	params := url.Values{
		"place_id": {placeID},
		"key":      {c.apiKey},
		"language": {language},
		"fields":   {detailsFields},
	}

	var resp DetailsResponse
	if err := c.getJSON(ctx, c.detailsURL, params, &resp); err != nil {
		return nil, eris.Wrap(err, "places: place details")
	}
	return &resp, nil
}

func (c *httpClient) getJSON(ctx context.Context, baseURL string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
