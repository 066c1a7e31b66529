package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytscribe/internal/config"
	"ytscribe/internal/deps"
	"ytscribe/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dependency and environment health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			report := &statusReport{colorize: isTerminal(out)}

			report.section("Dependencies")
			report.raw(renderDependencyTable(preflight.CheckSystemDeps(cmd.Context(), cfg)))

			report.section("Environment")
			for _, result := range environmentChecks(cmd, cfg) {
				report.check(result)
			}
			report.line("Model", statusInfo,
				fmt.Sprintf("%s (%s, %s)", cfg.Transcriber.ModelSize, cfg.Transcriber.Device, cfg.Transcriber.ComputeType))
			report.line("API auth", statusInfo, yesNo(cfg.Server.APIToken != ""))
			if _, err := report.WriteTo(out); err != nil {
				return err
			}
			return nil
		},
	}
}

func environmentChecks(cmd *cobra.Command, cfg *config.Config) []preflight.Result {
	ctx := cmd.Context()
	results := []preflight.Result{
		preflight.CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, preflight.CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results, preflight.CheckWebhookFromConfig(ctx, cfg))
	if cfg.Callback.URL != "" {
		results = append(results, preflight.CheckEndpoint(ctx, "Callback", cfg.Callback.URL))
	}
	return results
}

func renderDependencyTable(statuses []deps.Status) string {
	rows := make([][]string, 0, len(statuses))
	for _, status := range statuses {
		available := "yes"
		if !status.Available {
			available = "no"
			if status.Optional {
				available = "no (optional)"
			}
		}
		detail := status.Detail
		if detail == "" {
			detail = status.Path
		}
		if detail == "" {
			detail = status.Description
		}
		rows = append(rows, []string{status.Name, status.Command, available, detail})
	}
	return renderTable([]tableColumn{
		{Header: "Dependency"},
		{Header: "Command"},
		{Header: "Available"},
		{Header: "Detail", MaxWidth: 60},
	}, rows)
}
