package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saha-group/leads-cli/pkg/places"
)

func TestEnrich_AttachesDetailsInPlace(t *testing.T) {
	client := &stubClient{
		placeDetail: func(_ context.Context, placeID, _ string) (*places.DetailsResponse, error) {
			return &places.DetailsResponse{
				Status: places.StatusOK,
				Result: places.Details{Phone: "tel-" + placeID, Website: "https://" + placeID + ".example"},
			}, nil
		},
	}

	results := makePlaces("p", 4)
	report := NewEnricher(client).Enrich(context.Background(), results, "tr")

	assert.Equal(t, EnrichReport{Enriched: 4}, report)
	for i, r := range results {
		require.NotNil(t, r.Details, "result %d", i)
		assert.Equal(t, "tel-"+r.PlaceID, r.Details.Phone)
	}
}

func TestEnrich_BoundedConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	client := &stubClient{
		placeDetail: func(context.Context, string, string) (*places.DetailsResponse, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return &places.DetailsResponse{Status: places.StatusOK}, nil
		},
	}

	results := makePlaces("p", 20)
	NewEnricher(client).Enrich(context.Background(), results, "tr")

	assert.LessOrEqual(t, peak.Load(), int32(maxDetailLookups))
	assert.Greater(t, peak.Load(), int32(1))
}

func TestEnrich_AllFailuresStillReturnAllLeads(t *testing.T) {
	client := &stubClient{
		placeDetail: func(context.Context, string, string) (*places.DetailsResponse, error) {
			return nil, errors.New("timeout")
		},
	}

	results := makePlaces("p", 6)
	report := NewEnricher(client).Enrich(context.Background(), results, "tr")

	assert.Equal(t, EnrichReport{Failed: 6}, report)
	for _, r := range results {
		assert.Nil(t, r.Details)
	}
}

func TestEnrich_NonOKStatusLeavesResultBare(t *testing.T) {
	client := &stubClient{
		placeDetail: func(context.Context, string, string) (*places.DetailsResponse, error) {
			return &places.DetailsResponse{Status: "NOT_FOUND"}, nil
		},
	}

	results := makePlaces("p", 2)
	report := NewEnricher(client).Enrich(context.Background(), results, "tr")

	assert.Equal(t, EnrichReport{Failed: 2}, report)
	assert.Nil(t, results[0].Details)
}

func TestEnrich_SkipsResultsWithoutPlaceID(t *testing.T) {
	var calls atomic.Int32
	client := &stubClient{
		placeDetail: func(context.Context, string, string) (*places.DetailsResponse, error) {
			calls.Add(1)
			return &places.DetailsResponse{Status: places.StatusOK}, nil
		},
	}

	results := makePlaces("p", 3)
	results[1].PlaceID = ""
	report := NewEnricher(client).Enrich(context.Background(), results, "tr")

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, EnrichReport{Enriched: 2, Skipped: 1}, report)
	assert.Nil(t, results[1].Details)
}

func TestEnrich_OrderIndependentOfCompletion(t *testing.T) {
	// Later items finish first; details still land on their own element.
	var mu sync.Mutex
	delays := map[string]time.Duration{"pa": 20 * time.Millisecond, "pb": 1 * time.Millisecond}

	client := &stubClient{
		placeDetail: func(_ context.Context, placeID, _ string) (*places.DetailsResponse, error) {
			mu.Lock()
			d := delays[placeID]
			mu.Unlock()
			time.Sleep(d)
			return &places.DetailsResponse{
				Status: places.StatusOK,
				Result: places.Details{Phone: "tel-" + placeID},
			}, nil
		},
	}

	results := makePlaces("p", 2)
	NewEnricher(client).Enrich(context.Background(), results, "tr")

	require.NotNil(t, results[0].Details)
	require.NotNil(t, results[1].Details)
	assert.Equal(t, "tel-pa", results[0].Details.Phone)
	assert.Equal(t, "tel-pb", results[1].Details.Phone)
}
