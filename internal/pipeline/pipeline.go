package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ytscribe/internal/config"
	"ytscribe/internal/language"
	"ytscribe/internal/logging"
	"ytscribe/internal/services"
	"ytscribe/internal/services/fasterwhisper"
	"ytscribe/internal/services/ytdlp"
	"ytscribe/internal/staging"
	"ytscribe/internal/transcript"
	"ytscribe/internal/webhook"
)

const (
	stageValidate   = "validate"
	stageCookies    = "cookies"
	stageDownload   = "download"
	stageTranscribe = "transcription"
	stageDispatch   = "dispatch"
)

// Options wires a Pipeline.
type Options struct {
	StagingDir  string
	CookiesB64  string
	Fetcher     Fetcher
	Transcriber Transcriber
	// Dispatcher may be nil when webhook delivery is never requested.
	Dispatcher Dispatcher
	Logger     *slog.Logger
}

// Pipeline runs transcription requests. It holds no per-request state and is
// safe for concurrent use.
type Pipeline struct {
	stagingDir  string
	cookiesB64  string
	fetcher     Fetcher
	transcriber Transcriber
	dispatcher  Dispatcher
	logger      *slog.Logger
}

// New constructs a Pipeline from explicit collaborators.
func New(opts Options) *Pipeline {
	return &Pipeline{
		stagingDir:  opts.StagingDir,
		cookiesB64:  opts.CookiesB64,
		fetcher:     opts.Fetcher,
		transcriber: opts.Transcriber,
		dispatcher:  opts.Dispatcher,
		logger:      logging.NewComponentLogger(opts.Logger, "pipeline"),
	}
}

// NewFromConfig wires the yt-dlp fetcher, faster-whisper transcriber, and
// webhook dispatcher described by cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Pipeline {
	return New(Options{
		StagingDir: cfg.Paths.StagingDir,
		CookiesB64: cfg.Downloader.CookiesB64,
		Fetcher: ytdlp.New(ytdlp.Config{
			Binary:      cfg.Downloader.Binary,
			AudioFormat: cfg.Downloader.AudioFormat,
			ExtraArgs:   cfg.Downloader.ExtraArgs,
		}),
		Transcriber: fasterwhisper.NewService(fasterwhisper.Config{
			Python:          cfg.Transcriber.Python,
			ModelSize:       cfg.Transcriber.ModelSize,
			ComputeType:     cfg.Transcriber.ComputeType,
			CPUThreads:      cfg.Transcriber.CPUThreads,
			BeamSize:        cfg.Transcriber.BeamSize,
			Device:          cfg.Transcriber.Device,
			VADMinSilenceMS: cfg.Transcriber.VADMinSilenceMS,
			ModelDir:        cfg.Transcriber.ModelDir,
		}, logger),
		Dispatcher: webhook.New(webhook.Config{
			URL:     cfg.Webhook.URL,
			Secret:  cfg.Webhook.Secret,
			Timeout: time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second,
		}),
		Logger: logger,
	})
}

// Process runs one request end to end. On failure no payload is returned;
// the work directory is gone either way.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Payload, error) {
	logger := logging.WithContext(ctx, p.logger)

	videoURL, lang, err := p.validate(req)
	if err != nil {
		logger.Warn("request rejected",
			logging.String(logging.FieldEventType, "request_rejected"),
			logging.String(logging.FieldErrorHint, errorHint(err)),
			logging.String(logging.FieldImpact, "nothing downloaded"),
			logging.Error(err),
		)
		return nil, err
	}

	work, err := staging.CreateWorkDir(p.stagingDir)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, stageDownload, "create work directory", p.stagingDir, err)
	}
	var cookiesFile string
	defer func() {
		if rmErr := ytdlp.RemoveCookies(cookiesFile); rmErr != nil {
			logging.WarnWithContext(logger, "failed to remove cookie file", "cleanup_failed",
				logging.String("path", cookiesFile),
				logging.Error(rmErr),
				logging.String(logging.FieldErrorHint, "check staging_dir permissions"),
			)
		}
		if rmErr := work.Remove(); rmErr != nil {
			logging.WarnWithContext(logger, "failed to remove work directory", "cleanup_failed",
				logging.String("path", work.Root),
				logging.Error(rmErr),
				logging.String(logging.FieldErrorHint, "check staging_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed until stale cleanup"),
			)
		}
	}()

	logger.Info("processing request",
		logging.String(logging.FieldEventType, "request_start"),
		logging.VideoURL(videoURL),
		logging.String("work_dir", work.Root),
		logging.Bool("send_to_webhook", req.SendToWebhook),
	)

	if p.cookiesB64 != "" {
		if err := p.runStage(ctx, stageCookies, func(context.Context) error {
			path, err := ytdlp.WriteCookies(work.Root, p.cookiesB64)
			cookiesFile = path
			return err
		}); err != nil {
			return nil, err
		}
	}

	var audioPath string
	if err := p.runStage(ctx, stageDownload, func(stageCtx context.Context) error {
		path, err := p.fetcher.Fetch(stageCtx, videoURL, work.AudioDir, cookiesFile)
		audioPath = path
		return err
	}); err != nil {
		return nil, err
	}

	var result transcript.Result
	if err := p.runStage(ctx, stageTranscribe, func(stageCtx context.Context) error {
		r, err := p.transcriber.Transcribe(stageCtx, audioPath, fasterwhisper.Options{
			Language:  lang,
			ModelSize: strings.TrimSpace(req.ModelSize),
		})
		result = r
		return err
	}); err != nil {
		return nil, err
	}

	payload := &Payload{
		Source:   Source,
		VideoURL: videoURL,
		Result:   result,
	}
	if len(req.Meta) > 0 {
		payload.Meta = req.Meta
	}

	if req.SendToWebhook {
		if err := p.runStage(ctx, stageDispatch, func(stageCtx context.Context) error {
			resp, err := p.dispatcher.Dispatch(stageCtx, payload)
			if err != nil {
				return err
			}
			status := resp.StatusCode
			payload.MakeStatusCode = &status
			payload.MakeResponse = resp.Decoded()
			if !resp.OK() {
				logging.WarnWithContext(logging.WithContext(stageCtx, p.logger),
					"webhook answered with non-2xx status", "webhook_rejected",
					logging.Int("status", status),
					logging.String(logging.FieldErrorHint, "inspect make_response for the receiver's reason"),
					logging.String(logging.FieldImpact, "receiver may not have processed the transcript"),
				)
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}

	logger.Info("request complete",
		logging.String(logging.FieldEventType, "request_complete"),
		logging.String("language", result.Language),
		logging.Float64("duration_seconds", result.Duration),
		logging.Int("segments", len(result.Segments)),
	)
	return payload, nil
}

func (p *Pipeline) validate(req Request) (string, string, error) {
	videoURL := strings.TrimSpace(req.VideoURL)
	if videoURL == "" {
		return "", "", services.Wrap(services.ErrValidation, stageValidate, "video_url", "video url required", nil)
	}
	lang, err := language.Normalize(req.Language)
	if err != nil {
		return "", "", services.Wrap(services.ErrValidation, stageValidate, "language", "", err)
	}
	if req.SendToWebhook {
		if p.dispatcher == nil {
			return "", "", services.Wrap(services.ErrConfiguration, stageValidate, "webhook", "webhook dispatcher not configured", nil)
		}
		if err := p.dispatcher.Validate(); err != nil {
			return "", "", err
		}
	}
	return videoURL, lang, nil
}

func (p *Pipeline) runStage(ctx context.Context, name string, fn func(context.Context) error) error {
	stageCtx := services.WithStage(ctx, name)
	logger := logging.WithContext(stageCtx, p.logger)
	started := time.Now()

	logger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	if err := fn(stageCtx); err != nil {
		logger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.String(logging.FieldErrorHint, errorHint(err)),
			logging.Duration("elapsed", time.Since(started)),
			logging.Error(err),
		)
		return err
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func errorHint(err error) string {
	switch services.Code(err) {
	case services.CodeDownload:
		return "check the video URL, the yt-dlp version, and downloader.cookies_b64"
	case services.CodeTranscription:
		return "check the python interpreter has faster_whisper installed and the model can be downloaded"
	case services.CodeConfiguration:
		return "check the config file and environment overrides"
	case services.CodeValidation:
		return "fix the request fields"
	case services.CodeWebhook:
		return "check webhook.url is reachable"
	default:
		return fmt.Sprintf("see error: %v", err)
	}
}
