package fasterwhisper

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"ytscribe/internal/language"
	"ytscribe/internal/logging"
	"ytscribe/internal/media/ffprobe"
	"ytscribe/internal/services"
	"ytscribe/internal/transcript"
)

//go:embed transcribe.py
var helperScript string

const stageTranscription = "transcription"

// CommandRunner executes name with args, feeding stdin, and returns stdout.
// A failing command returns an error that carries the tool's stderr.
type CommandRunner func(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)

// DurationReader reports the length of an audio file in seconds.
type DurationReader func(ctx context.Context, path string) (float64, error)

// Options are per-call overrides.
type Options struct {
	// Language is an ISO 639-1 hint; empty means auto-detection.
	Language string
	// ModelSize overrides Config.ModelSize when set.
	ModelSize string
}

// Service provides faster-whisper transcription.
type Service struct {
	cfg     Config
	logger  *slog.Logger
	run     CommandRunner
	measure DurationReader
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		cfg:     cfg.withDefaults(),
		logger:  logging.NewComponentLogger(logger, "fasterwhisper"),
		run:     runCommand,
		measure: readDuration,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		s.run = runner
	}
}

// WithDurationReader sets a custom duration reader (for testing).
func (s *Service) WithDurationReader(reader DurationReader) {
	if reader != nil {
		s.measure = reader
	}
}

// Model returns the configured default model name for logging.
func (s *Service) Model() string {
	return s.cfg.ModelSize
}

type helperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type helperOutput struct {
	Language            string          `json:"language"`
	LanguageProbability *float64        `json:"language_probability"`
	Duration            *float64        `json:"duration"`
	Segments            []helperSegment `json:"segments"`
}

// Transcribe runs speech recognition on audioPath.
func (s *Service) Transcribe(ctx context.Context, audioPath string, opts Options) (transcript.Result, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return transcript.Result{}, services.Wrap(services.ErrValidation, stageTranscription, "stat audio", audioPath, err)
	}
	if !info.Mode().IsRegular() {
		return transcript.Result{}, services.Wrap(services.ErrValidation, stageTranscription, "stat audio", audioPath+" is not a regular file", nil)
	}

	model := strings.TrimSpace(opts.ModelSize)
	if model == "" {
		model = s.cfg.ModelSize
	}

	args := s.buildArgs(audioPath, model, strings.TrimSpace(opts.Language))
	s.logger.Debug("faster-whisper invocation",
		logging.String("python", s.cfg.Python),
		logging.String("model", model),
		logging.String("language", opts.Language),
		logging.String("args", strings.Join(args, " ")),
	)

	stdout, err := s.run(ctx, strings.NewReader(helperScript), s.cfg.Python, args...)
	if err != nil {
		return transcript.Result{}, services.Wrap(services.ErrTranscription, stageTranscription, "faster-whisper", "helper failed", err)
	}

	parsed, err := decodeHelperOutput(stdout)
	if err != nil {
		return transcript.Result{}, services.Wrap(services.ErrTranscription, stageTranscription, "parse output", truncate(string(stdout), 512), err)
	}

	raw := make([]transcript.Segment, 0, len(parsed.Segments))
	for _, seg := range parsed.Segments {
		raw = append(raw, transcript.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}

	detected := parsed.Language
	if iso := language.ToISO2(detected); iso != "" {
		detected = iso
	}
	duration := derefFloat(parsed.Duration)
	if duration <= 0 {
		duration = s.fallbackDuration(ctx, audioPath)
	}

	return transcript.Assemble(model, detected, derefFloat(parsed.LanguageProbability), duration, raw), nil
}

func (s *Service) buildArgs(audioPath, model, lang string) []string {
	args := []string{
		"-",
		"--audio", audioPath,
		"--model", model,
		"--device", s.cfg.Device,
		"--compute-type", s.cfg.ComputeType,
		"--cpu-threads", strconv.Itoa(s.cfg.CPUThreads),
		"--beam-size", strconv.Itoa(s.cfg.BeamSize),
		"--vad-min-silence-ms", strconv.Itoa(s.cfg.VADMinSilenceMS),
	}
	if lang != "" {
		args = append(args, "--language", lang)
	}
	if s.cfg.ModelDir != "" {
		args = append(args, "--model-dir", s.cfg.ModelDir)
	}
	return args
}

func (s *Service) fallbackDuration(ctx context.Context, audioPath string) float64 {
	duration, err := s.measure(ctx, audioPath)
	if err != nil {
		s.logger.Debug("duration lookup failed",
			logging.String("path", audioPath),
			logging.Error(err),
		)
		return 0
	}
	return duration
}

// decodeHelperOutput parses the last JSON object line of stdout; libraries
// loaded by the helper occasionally print banners before it.
func decodeHelperOutput(stdout []byte) (helperOutput, error) {
	lines := strings.Split(strings.TrimSpace(string(stdout)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var out helperOutput
		if err := json.Unmarshal([]byte(line), &out); err != nil {
			return helperOutput{}, err
		}
		return out, nil
	}
	return helperOutput{}, errors.New("helper produced no JSON output")
}

func runCommand(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdin = stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return stdout.Bytes(), fmt.Errorf("%s: %w: %s", name, err, truncate(detail, 2048))
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

func readDuration(ctx context.Context, path string) (float64, error) {
	result, err := ffprobe.Inspect(ctx, path)
	if err != nil {
		return 0, err
	}
	duration := result.DurationSeconds()
	if math.IsNaN(duration) || duration < 0 {
		return 0, fmt.Errorf("ffprobe reported invalid duration %q", result.Format.Duration)
	}
	return duration, nil
}

func derefFloat(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

// truncate keeps the tail of text, where Python tracebacks put the cause.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return "..." + text[len(text)-limit:]
}
