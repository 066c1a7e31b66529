package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ytscribe/internal/config"
	"ytscribe/internal/logging"
	"ytscribe/internal/services/ytdlp"
	"ytscribe/internal/staging"
	"ytscribe/internal/webhook"
)

func newAudioURLCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "audio-url [video-url]",
		Short: "Print a direct, temporary audio URL without downloading",
		Long: "Resolves the best audio stream for a video and prints it as JSON. The URL\n" +
			"falls back to $VIDEO_URL. When callback.url is configured the same JSON is\n" +
			"POSTed there, signed with callback.secret.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoURL := ""
			if len(args) == 1 {
				videoURL = strings.TrimSpace(args[0])
			}
			if videoURL == "" {
				videoURL = strings.TrimSpace(os.Getenv("VIDEO_URL"))
			}
			if videoURL == "" {
				return &exitError{code: 2, msg: "video url missing: pass it as an argument or set VIDEO_URL"}
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cliLogger(cfg)
			if err != nil {
				return err
			}

			info, err := resolveAudioURL(cmd.Context(), cfg, videoURL)
			if err != nil {
				logger.Debug("audio url resolution failed", logging.Error(err))
			}
			if err := writeJSONLine(cmd, info); err != nil {
				return err
			}

			if cfg.Callback.URL != "" {
				if err := sendCallback(cmd.Context(), cfg, info); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "callback failed: %v\n", err)
				}
			}
			return nil
		},
	}
}

// resolveAudioURL writes the configured cookies into a throwaway work
// directory for the duration of the lookup.
func resolveAudioURL(ctx context.Context, cfg *config.Config, videoURL string) (ytdlp.AudioInfo, error) {
	client := ytdlp.New(ytdlp.Config{
		Binary:      cfg.Downloader.Binary,
		AudioFormat: cfg.Downloader.AudioFormat,
		ExtraArgs:   cfg.Downloader.ExtraArgs,
	})

	var cookiesFile string
	if cfg.Downloader.CookiesB64 != "" {
		work, err := staging.CreateWorkDir(cfg.Paths.StagingDir)
		if err != nil {
			info := ytdlp.AudioInfo{VideoURL: videoURL, Error: err.Error()}
			return info, err
		}
		defer func() { _ = work.Remove() }()
		path, err := ytdlp.WriteCookies(work.Root, cfg.Downloader.CookiesB64)
		if err != nil {
			info := ytdlp.AudioInfo{VideoURL: videoURL, Error: err.Error()}
			return info, err
		}
		cookiesFile = path
	}
	return client.ResolveAudioURL(ctx, videoURL, cookiesFile)
}

func sendCallback(ctx context.Context, cfg *config.Config, info ytdlp.AudioInfo) error {
	dispatcher := webhook.New(webhook.Config{
		URL:     cfg.Callback.URL,
		Secret:  cfg.Callback.Secret,
		Timeout: time.Duration(cfg.Callback.TimeoutSeconds) * time.Second,
	})
	resp, err := dispatcher.Dispatch(ctx, info)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("callback answered HTTP %d", resp.StatusCode)
	}
	return nil
}
