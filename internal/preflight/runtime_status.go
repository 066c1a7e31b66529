package preflight

import (
	"context"

	"ytscribe/internal/config"
)

// CheckWebhookFromConfig evaluates webhook delivery status for status UIs.
// An unset URL is reported as a failure only when dispatch is on by default,
// since every request would then fail its configuration check.
func CheckWebhookFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "Webhook"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if cfg.Webhook.URL == "" {
		if cfg.Webhook.DispatchByDefault {
			return Result{Name: name, Detail: "Missing URL (dispatch enabled by default)"}
		}
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	check := CheckEndpoint(ctx, name, cfg.Webhook.URL)
	if cfg.Webhook.Secret != "" && check.Passed {
		check.Detail += ", signed"
	}
	return check
}
