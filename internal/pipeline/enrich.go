package pipeline

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/saha-group/leads-cli/pkg/places"
)

// maxDetailLookups bounds how many detail lookups are in flight at once,
// regardless of result-set size, to stay inside provider throttling.
const maxDetailLookups = 5

// EnrichReport summarizes the per-item outcomes of one enrichment batch.
// Failures are recovered locally; the report lets callers inspect partial
// failure without the batch ever erroring out.
type EnrichReport struct {
	Enriched int
	Skipped  int
	Failed   int
}

// Enricher attaches phone/website/hours details to search results with a
// bounded concurrent fan-out.
type Enricher struct {
	client places.Client
}

// NewEnricher creates a detail enricher over the given client.
func NewEnricher(client places.Client) *Enricher {
	return &Enricher{client: client}
}

// Enrich fetches details for each result and attaches them in place.
// Results without a place ID are skipped without consuming a concurrency
// slot. Every lookup failure leaves the result without a details block;
// enrichment never fails the batch. Ordering of the input slice is
// untouched because each task mutates only its own element.
func (e *Enricher) Enrich(ctx context.Context, results []places.Place, language string) EnrichReport {
	report := EnrichReport{}
	outcomes := make([]int8, len(results)) // 0 skipped, 1 enriched, -1 failed

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDetailLookups)

	for i := range results {
		if results[i].PlaceID == "" {
			continue
		}
		g.Go(func() error {
			resp, err := e.client.PlaceDetails(gctx, results[i].PlaceID, language)
			if err != nil || resp.Status != places.StatusOK {
				outcomes[i] = -1
				zap.L().Debug("detail lookup failed",
					zap.String("place_id", results[i].PlaceID),
					zap.Error(err),
				)
				return nil // best effort: a failed lookup never aborts the batch
			}
			details := resp.Result
			results[i].Details = &details
			outcomes[i] = 1
			return nil
		})
	}

	_ = g.Wait()

	for _, o := range outcomes {
		switch o {
		case 1:
			report.Enriched++
		case -1:
			report.Failed++
		default:
			report.Skipped++
		}
	}
	return report
}
