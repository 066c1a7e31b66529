package main

import (
	"strings"
	"testing"

	"ytscribe/internal/deps"
	"ytscribe/internal/preflight"
	"ytscribe/internal/testsupport"
)

func TestStatusCommandRendersSections(t *testing.T) {
	isolateCLI(t)
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	path := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"status"}, path)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "yt-dlp")
	requireContains(t, out, "== Environment ==")
	requireContains(t, out, "Staging directory:")
	requireContains(t, out, "read/write ok")
	requireContains(t, out, "Webhook:")
	requireContains(t, out, "Disabled")
	if strings.Contains(out, "\x1b[") {
		t.Fatal("non-terminal output must not be colourised")
	}
}

func TestRenderDependencyTable(t *testing.T) {
	out := renderDependencyTable([]deps.Status{
		{Name: "yt-dlp", Command: "yt-dlp", Available: true, Description: "Downloads audio"},
		{Name: "FFprobe", Command: "ffprobe", Optional: true, Detail: `binary "ffprobe" not found`},
	})
	requireContains(t, out, "Downloads audio")
	requireContains(t, out, "no (optional)")
}

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Webhook", statusOK, "reachable", false)
	if !strings.HasPrefix(line, "  Webhook:") || !strings.HasSuffix(line, "[OK] reachable") {
		t.Fatalf("unexpected line %q", line)
	}
	colored := renderStatusLine("Webhook", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected colour codes in %q", colored)
	}
}

func TestStatusReportSeparatesSections(t *testing.T) {
	report := &statusReport{}
	report.section("Dependencies")
	report.raw("table")
	report.section("Environment")
	report.check(preflight.Result{Name: "Staging directory", Passed: false, Detail: "not writable"})

	var buf strings.Builder
	if _, err := report.WriteTo(&buf); err != nil {
		t.Fatalf("write report: %v", err)
	}
	want := "== Dependencies ==\ntable\n\n== Environment ==\n"
	if !strings.HasPrefix(buf.String(), want) {
		t.Fatalf("unexpected layout %q", buf.String())
	}
	requireContains(t, buf.String(), "[ERROR] not writable")
}
