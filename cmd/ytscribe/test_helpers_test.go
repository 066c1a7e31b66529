package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytscribe/internal/config"
)

var envOverrideKeys = []string{
	"PORT",
	"YTSCRIBE_API_TOKEN",
	"YTDLP_COOKIES_B64",
	"YTSCRIBE_PYTHON",
	"WHISPER_MODEL_SIZE",
	"WHISPER_COMPUTE_TYPE",
	"WHISPER_CPU_THREADS",
	"WHISPER_BEAM_SIZE",
	"MAKE_WEBHOOK_URL",
	"WEBHOOK_SECRET",
	"CALLBACK_URL",
	"CALLBACK_SECRET",
	"VIDEO_URL",
}

// isolateCLI points HOME and the working directory at temp dirs and blanks
// every environment override so only the test config applies.
func isolateCLI(t *testing.T) {
	t.Helper()
	for _, key := range envOverrideKeys {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
