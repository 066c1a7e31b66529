package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ytscribe/internal/language"
	"ytscribe/internal/pipeline"
	"ytscribe/internal/services"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var (
		langFlag  string
		modelSize string
		send      bool
		metaPairs []string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe <video-url>",
		Short: "Download and transcribe a video in-process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			meta, err := parseMeta(metaPairs)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("send") {
				send = cfg.Webhook.DispatchByDefault
			}

			logger, err := cliLogger(cfg)
			if err != nil {
				return err
			}
			p := pipeline.NewFromConfig(cfg, logger)
			payload, err := p.Process(cmd.Context(), pipeline.Request{
				VideoURL:      args[0],
				Language:      langFlag,
				ModelSize:     modelSize,
				Meta:          meta,
				SendToWebhook: send,
			})
			if err != nil {
				return fmt.Errorf("transcribe (%s): %w", services.Code(err), err)
			}

			if asJSON || !isTerminal(cmd.OutOrStdout()) {
				return writeJSON(cmd, payload)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderPayload(payload))
			return nil
		},
	}

	cmd.Flags().StringVarP(&langFlag, "language", "l", "", "Language hint (ISO code or name); empty auto-detects")
	cmd.Flags().StringVarP(&modelSize, "model-size", "m", "", "Override the configured faster-whisper model")
	cmd.Flags().BoolVar(&send, "send", false, "Deliver the result to the configured webhook (defaults to webhook.dispatch_by_default)")
	cmd.Flags().StringArrayVar(&metaPairs, "meta", nil, "Metadata key=value echoed in the payload (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON even on a terminal")
	return cmd
}

func parseMeta(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --meta %q: expected key=value", pair)
		}
		meta[key] = value
	}
	return meta, nil
}

func renderPayload(payload *pipeline.Payload) string {
	var b strings.Builder
	lang := payload.Language
	if name := language.DisplayName(lang); name != "" && !strings.EqualFold(name, lang) {
		lang = fmt.Sprintf("%s (%s)", name, payload.Language)
	}
	fmt.Fprintf(&b, "Video:     %s\n", payload.VideoURL)
	fmt.Fprintf(&b, "Model:     %s\n", payload.Model)
	fmt.Fprintf(&b, "Language:  %s, p=%.2f\n", lang, payload.LanguageProbability)
	fmt.Fprintf(&b, "Duration:  %s\n", formatSeconds(payload.Duration))
	if payload.MakeStatusCode != nil {
		fmt.Fprintf(&b, "Webhook:   HTTP %d\n", *payload.MakeStatusCode)
	}
	b.WriteString("\n")

	rows := make([][]string, 0, len(payload.Segments))
	for i, seg := range payload.Segments {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatSeconds(seg.Start),
			formatSeconds(seg.End),
			seg.Text,
		})
	}
	b.WriteString(renderTable([]tableColumn{
		{Header: "#", Align: alignRight},
		{Header: "Start", Align: alignRight},
		{Header: "End", Align: alignRight},
		{Header: "Text", MaxWidth: 80},
	}, rows))
	b.WriteString("\n")
	return b.String()
}

// formatSeconds renders seconds as h:mm:ss.mmm, dropping the hour when zero.
func formatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int64(seconds*1000 + 0.5)
	h := totalMillis / 3_600_000
	m := (totalMillis / 60_000) % 60
	s := (totalMillis / 1000) % 60
	ms := totalMillis % 1000
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms)
	}
	return fmt.Sprintf("%02d:%02d.%03d", m, s, ms)
}
