package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"ytscribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Webhook dispatch is off by default so tests opt in explicitly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Webhook.DispatchByDefault = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithWebhook points webhook delivery at url and enables it by default.
func WithWebhook(url, secret string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Webhook.URL = url
		b.cfg.Webhook.Secret = secret
		b.cfg.Webhook.DispatchByDefault = true
	}
}

// WithStubbedBinaries writes stub executables that exit successfully and
// prepends them to PATH. If names is empty, yt-dlp and python3 are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"yt-dlp", "python3"}
		}
		for _, name := range names {
			writeScript(b, name, "exit 0\n")
		}
	}
}

// WithFakeToolchain installs a yt-dlp stub that writes a small audio file at
// the requested output template and prints its path, plus a python stub that
// drains stdin and prints the given helper JSON line. Both are referenced by
// absolute path in the config.
func WithFakeToolchain(helperJSON string) ConfigOption {
	return func(b *configBuilder) {
		ytdlp := writeScript(b, "yt-dlp", `out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then
    shift
    out="$1"
  fi
  shift
done
path=$(printf '%s' "$out" | sed 's/%(ext)s/mp3/')
printf 'ID3' > "$path"
printf '%s\n' "$path"
`)
		python := writeScript(b, "python3", "cat > /dev/null\nprintf '%s\\n' '"+helperJSON+"'\n")
		b.cfg.Downloader.Binary = ytdlp
		b.cfg.Transcriber.Python = python
	}
}

// WithDownloaderScript replaces the yt-dlp binary with a shell script whose
// body is given.
func WithDownloaderScript(body string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Downloader.Binary = writeScript(b, "yt-dlp", body)
	}
}

func writeScript(b *configBuilder, name, body string) string {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}
	b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
