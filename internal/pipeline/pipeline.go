package pipeline

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saha-group/leads-cli/internal/geo"
	"github.com/saha-group/leads-cli/internal/model"
	"github.com/saha-group/leads-cli/pkg/places"
)

// Limit bounds applied at the facade, matching the upstream paging economy.
const (
	MinLimit = 1
	MaxLimit = 120
)

// Pipeline runs one lead search end to end: geocode, paged search, bounded
// detail enrichment, geographic validation, filtering, and dedup. Each run
// owns its results exclusively; the province registry is the only state
// shared across runs and is read-only.
type Pipeline struct {
	coordinator *Coordinator
	enricher    *Enricher
	filter      *Filter
}

// New wires a pipeline over the places client and province registry.
func New(client places.Client, registry *geo.Registry, opts ...CoordinatorOption) *Pipeline {
	return &Pipeline{
		coordinator: NewCoordinator(client, opts...),
		enricher:    NewEnricher(client),
		filter:      NewFilter(registry),
	}
}

// Run executes the query and returns the filtered, deduplicated lead list.
// Failures before any leads are produced are terminal; enrichment failures
// are recovered per item and never downgrade the result set.
func (p *Pipeline) Run(ctx context.Context, query model.Query, filters model.Filters, includeDetails bool) (*model.Response, error) {
	query.Limit = clampLimit(query.Limit)
	if query.Language == "" {
		query.Language = "tr"
	}

	log := zap.L().With(
		zap.String("run_id", uuid.NewString()),
		zap.String("keyword", query.Keyword),
		zap.String("location", query.LocationText),
	)

	results, point, err := p.coordinator.Run(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Info("search complete", zap.Int("results", len(results)))

	if includeDetails && len(results) > 0 {
		report := p.enricher.Enrich(ctx, results, query.Language)
		log.Info("enrichment complete",
			zap.Int("enriched", report.Enriched),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed),
		)
	}

	leads := make([]model.Lead, 0, len(results))
	for _, r := range results {
		leads = append(leads, model.FromPlace(r))
	}

	filtered := p.filter.Apply(leads, query, filters)
	log.Info("filter complete",
		zap.Int("in", len(leads)),
		zap.Int("out", len(filtered)),
	)

	return &model.Response{
		Leads:    filtered,
		Total:    len(filtered),
		Query:    query,
		Location: point,
		Filters:  &filters,
		Note:     "Kaynak: Google Places Text Search",
	}, nil
}

func clampLimit(limit int) int {
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
