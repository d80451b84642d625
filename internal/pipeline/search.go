// Package pipeline drives the paginated lead search, bounded detail
// enrichment, and the geographic filter/dedup stages.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/saha-group/leads-cli/internal/model"
	"github.com/saha-group/leads-cli/pkg/places"
)

// defaultPageDelay is the wait before a just-received continuation token is
// usable. The upstream provider activates next_page_token with a lag of a
// couple of seconds; requesting earlier yields INVALID_REQUEST.
const defaultPageDelay = 2200 * time.Millisecond

// GeocodeError is the single unrecoverable request error: the location text
// could not be resolved to coordinates. The message echoes the original
// input so the caller can refine it.
type GeocodeError struct {
	Input string
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("konum geocode edilemedi: %q. Lütfen daha spesifik bir konum girin (örn: 'Samsun, Türkiye' veya 'Samsun İlkadım')", e.Input)
}

// StatusError reports a non-success, non-zero-results search status.
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("places API hatası: %s", e.Status)
}

// Coordinator geocodes the query location and drives paged text-search
// calls until the requested count is reached or results are exhausted.
type Coordinator struct {
	client    places.Client
	pageDelay time.Duration
}

// CoordinatorOption configures the coordinator.
type CoordinatorOption func(*Coordinator)

// WithPageDelay overrides the inter-page token activation delay.
func WithPageDelay(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.pageDelay = d
	}
}

// NewCoordinator creates a search coordinator over the given client.
func NewCoordinator(client places.Client, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{client: client, pageDelay: defaultPageDelay}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeLocation appends the country qualifier to short city names so
// the geocoder does not wander abroad: applied only when the text has no
// comma, at most three tokens, and no country mention.
func NormalizeLocation(locationText string) string {
	text := strings.TrimSpace(locationText)
	if text == "" {
		return text
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "türkiye") || strings.Contains(lower, "turkey") {
		return text
	}
	if !strings.Contains(text, ",") && len(strings.Fields(text)) <= 3 {
		return text + ", Türkiye"
	}
	return text
}

// Run geocodes the query location and accumulates text-search results up
// to query.Limit. The returned slice preserves provider page order.
func (c *Coordinator) Run(ctx context.Context, query model.Query) ([]places.Place, *places.LatLng, error) {
	point, err := c.client.Geocode(ctx, NormalizeLocation(query.LocationText), query.Language)
	if err != nil {
		return nil, nil, eris.Wrap(err, "search: geocode")
	}
	if point == nil {
		return nil, nil, &GeocodeError{Input: query.LocationText}
	}

	var collected []places.Place
	pageToken := ""

	for len(collected) < query.Limit {
		resp, err := c.client.TextSearch(ctx, places.TextSearchRequest{
			Query:        query.Keyword,
			Location:     point,
			RadiusMeters: query.RadiusMeters,
			PageToken:    pageToken,
			Language:     query.Language,
		})
		if err != nil {
			return nil, nil, eris.Wrap(err, "search: text search")
		}
		if resp.Status != places.StatusOK && resp.Status != places.StatusZeroResults {
			return nil, nil, &StatusError{Status: resp.Status}
		}

		for _, item := range resp.Results {
			if len(collected) >= query.Limit {
				break
			}
			collected = append(collected, item)
		}

		pageToken = resp.NextPageToken
		if pageToken == "" || len(collected) >= query.Limit || resp.Status == places.StatusZeroResults {
			break
		}

		zap.L().Debug("waiting for page token activation",
			zap.Duration("delay", c.pageDelay),
			zap.Int("collected", len(collected)),
		)
		if err := sleepCtx(ctx, c.pageDelay); err != nil {
			return nil, nil, eris.Wrap(err, "search: page delay")
		}
	}

	return collected, point, nil
}

// sleepCtx sleeps for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
