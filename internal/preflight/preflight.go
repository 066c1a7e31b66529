package preflight

import (
	"context"

	"ytscribe/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Endpoint checks only run for URLs that are configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir))

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	if cfg.Webhook.URL != "" {
		results = append(results, CheckEndpoint(ctx, "Webhook", cfg.Webhook.URL))
	}

	if cfg.Callback.URL != "" {
		results = append(results, CheckEndpoint(ctx, "Callback", cfg.Callback.URL))
	}

	return results
}
