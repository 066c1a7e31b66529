package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ytscribe/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[0].Path != present {
		t.Fatalf("expected resolved path %q, got %q", present, results[0].Path)
	}
	if results[1].Path != "" {
		t.Fatalf("missing binary must not carry a path: %q", results[1].Path)
	}
}

func TestRequirementsFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Downloader.Binary = "/opt/bin/yt-dlp"
	cfg.Transcriber.Python = "/opt/venv/bin/python"

	reqs := Requirements(&cfg)
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requirements, got %d", len(reqs))
	}
	if reqs[0].Command != "/opt/bin/yt-dlp" || reqs[1].Command != "/opt/venv/bin/python" {
		t.Fatalf("unexpected commands: %+v", reqs)
	}
	if reqs[0].Optional || reqs[1].Optional {
		t.Fatal("downloader and python must be required")
	}
	if !reqs[2].Optional || reqs[2].Command != "ffprobe" {
		t.Fatalf("expected optional ffprobe, got %+v", reqs[2])
	}
}

func TestCheckPythonModule(t *testing.T) {
	binDir := t.TempDir()
	ok := filepath.Join(binDir, "python-ok")
	if err := os.WriteFile(ok, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	broken := filepath.Join(binDir, "python-broken")
	stub := "#!/bin/sh\necho 'Traceback (most recent call last):' >&2\necho \"ModuleNotFoundError: No module named 'faster_whisper'\" >&2\nexit 1\n"
	if err := os.WriteFile(broken, []byte(stub), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	status := CheckPythonModule(context.Background(), ok, FasterWhisperModule)
	if !status.Available {
		t.Fatalf("expected module available, got %#v", status)
	}

	status = CheckPythonModule(context.Background(), broken, FasterWhisperModule)
	if status.Available {
		t.Fatal("expected module unavailable")
	}
	if status.Detail != "ModuleNotFoundError: No module named 'faster_whisper'" {
		t.Fatalf("unexpected detail %q", status.Detail)
	}

	status = CheckPythonModule(context.Background(), "clearly-not-present-python", FasterWhisperModule)
	if status.Available || status.Detail == "" {
		t.Fatalf("expected missing interpreter detail, got %#v", status)
	}
}
