package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) Client {
	return NewClient("test-key",
		WithBaseURLs(srv.URL+"/geocode", srv.URL+"/textsearch", srv.URL+"/details"),
		WithRateLimit(1000),
	)
}

func TestGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode", r.URL.Path)
		assert.Equal(t, "Samsun, Türkiye", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "tr", r.URL.Query().Get("language"))
		assert.Equal(t, "tr", r.URL.Query().Get("region"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":41.2867,"lng":36.33}}}]}`))
	}))
	defer srv.Close()

	point, err := newTestClient(srv).Geocode(context.Background(), "Samsun, Türkiye", "tr")

	require.NoError(t, err)
	require.NotNil(t, point)
	assert.InDelta(t, 41.2867, point.Lat, 0.0001)
	assert.InDelta(t, 36.33, point.Lng, 0.0001)
}

func TestGeocode_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer srv.Close()

	point, err := newTestClient(srv).Geocode(context.Background(), "Nowhereville", "tr")

	require.NoError(t, err)
	assert.Nil(t, point)
}

func TestTextSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/textsearch", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "tarım makinaları bayileri", q.Get("query"))
		assert.Equal(t, "41.2867000,36.3300000", q.Get("location"))
		assert.Equal(t, "5000", q.Get("radius"))
		assert.Empty(t, q.Get("pagetoken"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TextSearchResponse{
			Status:        StatusOK,
			NextPageToken: "tok-2",
			Results: []Place{{
				PlaceID:          "ChIJ-1",
				Name:             "Karadeniz Tarım Makinaları",
				FormattedAddress: "Atakum, 55200 Samsun",
				Geometry:         Geometry{Location: LatLng{Lat: 41.3, Lng: 36.3}},
				Types:            []string{"store"},
				Rating:           4.4,
				UserRatingsTotal: 31,
				BusinessStatus:   "OPERATIONAL",
			}},
		})
	}))
	defer srv.Close()

	resp, err := newTestClient(srv).TextSearch(context.Background(), TextSearchRequest{
		Query:        "tarım makinaları bayileri",
		Location:     &LatLng{Lat: 41.2867, Lng: 36.33},
		RadiusMeters: 5000,
		Language:     "tr",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, "tok-2", resp.NextPageToken)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "ChIJ-1", resp.Results[0].PlaceID)
	assert.Nil(t, resp.Results[0].Details)
}

func TestTextSearch_PageTokenForwarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-2", r.URL.Query().Get("pagetoken"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TextSearchResponse{Status: StatusOK})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).TextSearch(context.Background(), TextSearchRequest{
		Query:     "bayiler",
		PageToken: "tok-2",
	})
	require.NoError(t, err)
}

func TestTextSearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"invalid key"}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv).TextSearch(context.Background(), TextSearchRequest{Query: "x"})

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "403")
}

func TestPlaceDetails_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "ChIJ-1", q.Get("place_id"))
		assert.Contains(t, q.Get("fields"), "formatted_phone_number")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status":"OK",
			"result":{
				"formatted_phone_number":"(0362) 233 00 00",
				"international_phone_number":"+90 362 233 00 00",
				"website":"https://example.com.tr",
				"opening_hours":{"open_now":true}
			}
		}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(srv).PlaceDetails(context.Background(), "ChIJ-1", "tr")

	require.NoError(t, err)
	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, "(0362) 233 00 00", resp.Result.Phone)
	assert.Equal(t, "+90 362 233 00 00", resp.Result.PhoneIntl)
	require.NotNil(t, resp.Result.OpeningHours)
	require.NotNil(t, resp.Result.OpeningHours.OpenNow)
	assert.True(t, *resp.Result.OpeningHours.OpenNow)
}

func TestPlaceDetails_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := newTestClient(srv).PlaceDetails(ctx, "ChIJ-1", "tr")

	assert.Error(t, err)
	assert.Nil(t, resp)
}
