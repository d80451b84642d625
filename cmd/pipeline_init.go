package main

import (
	"github.com/saha-group/leads-cli/internal/geo"
	"github.com/saha-group/leads-cli/internal/pipeline"
	"github.com/saha-group/leads-cli/pkg/places"
)

// appEnv bundles the shared pipeline wiring used by the leads and serve
// commands.
type appEnv struct {
	registry *geo.Registry
	pipeline *pipeline.Pipeline
}

func initPipeline() *appEnv {
	registry := geo.NewRegistry()

	opts := []places.Option{}
	if cfg.Google.RequestsPerSec > 0 {
		opts = append(opts, places.WithRateLimit(cfg.Google.RequestsPerSec))
	}
	client := places.NewClient(cfg.Google.APIKey, opts...)

	return &appEnv{
		registry: registry,
		pipeline: pipeline.New(client, registry),
	}
}
