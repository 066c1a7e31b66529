package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"ytscribe/internal/services"
)

const (
	// DefaultBinary is used when Config.Binary is empty.
	DefaultBinary = "yt-dlp"
	// DefaultAudioFormat is used when Config.AudioFormat is empty.
	DefaultAudioFormat = "mp3"

	stageDownload = "download"
)

// CommandRunner executes name with args and returns its stdout. A failing
// command returns an error that carries the tool's stderr.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Config captures yt-dlp invocation settings.
type Config struct {
	Binary      string
	AudioFormat string
	ExtraArgs   []string
}

// Option configures the client.
type Option func(*Client)

// WithCommandRunner injects a custom command runner (primarily for tests).
func WithCommandRunner(runner CommandRunner) Option {
	return func(c *Client) {
		if runner != nil {
			c.run = runner
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary      string
	audioFormat string
	extraArgs   []string
	run         CommandRunner
}

// New constructs a yt-dlp client.
func New(cfg Config, opts ...Option) *Client {
	binary := strings.TrimSpace(cfg.Binary)
	if binary == "" {
		binary = DefaultBinary
	}
	format := strings.ToLower(strings.TrimSpace(cfg.AudioFormat))
	if format == "" {
		format = DefaultAudioFormat
	}
	client := &Client{
		binary:      binary,
		audioFormat: format,
		extraArgs:   append([]string(nil), cfg.ExtraArgs...),
		run:         runCommand,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Fetch downloads the best audio track of videoURL into outputDir, converting
// it to the configured format, and returns the path of the produced file.
func (c *Client) Fetch(ctx context.Context, videoURL, outputDir, cookiesFile string) (string, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return "", services.Wrap(services.ErrValidation, stageDownload, "fetch", "video url required", nil)
	}
	if strings.TrimSpace(outputDir) == "" {
		return "", services.Wrap(services.ErrValidation, stageDownload, "fetch", "output directory required", nil)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrDownload, stageDownload, "prepare output", outputDir, err)
	}

	output, err := c.run(ctx, c.binary, c.fetchArgs(videoURL, outputDir, cookiesFile)...)
	if err != nil {
		return "", services.Wrap(services.ErrDownload, stageDownload, "yt-dlp", combineOutput(output), err)
	}

	path, err := discoverAudio(outputDir, c.audioFormat, output)
	if err != nil {
		return "", services.Wrap(services.ErrDownload, stageDownload, "locate audio", combineOutput(output), err)
	}
	return path, nil
}

func (c *Client) fetchArgs(videoURL, outputDir, cookiesFile string) []string {
	args := []string{
		"-f", "bestaudio",
		"--no-warnings",
		"--no-progress",
		"--restrict-filenames",
		"-x",
		"--audio-format", c.audioFormat,
		"-o", filepath.Join(outputDir, "audio.%(ext)s"),
		"--no-simulate",
		"--print", "after_move:filepath",
	}
	if cookiesFile != "" {
		args = append(args, "--cookies", cookiesFile)
	}
	args = append(args, c.extraArgs...)
	return append(args, "--", videoURL)
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return stdout.Bytes(), fmt.Errorf("%s: %w: %s", filepath.Base(name), err, detail)
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	return stdout.Bytes(), nil
}

func combineOutput(output []byte) string {
	text := strings.TrimSpace(string(output))
	if text == "" {
		return "no output"
	}
	const limit = 2048
	if len(text) > limit {
		text = "..." + text[len(text)-limit:]
	}
	return text
}
