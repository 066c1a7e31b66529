package preflight

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytscribe/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckEndpoint_Reachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	result := CheckEndpoint(context.Background(), "Webhook", srv.URL+"/hook")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckEndpoint_Unreachable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	address := listener.Addr().String()
	_ = listener.Close()

	result := CheckEndpoint(context.Background(), "Webhook", "http://"+address+"/hook")
	if result.Passed {
		t.Fatal("expected failure for closed port")
	}
	if !strings.Contains(result.Detail, address) {
		t.Fatalf("expected detail to name %s, got %q", address, result.Detail)
	}
}

func TestCheckEndpoint_MissingOrInvalidURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a url"} {
		if result := CheckEndpoint(context.Background(), "Webhook", raw); result.Passed {
			t.Fatalf("expected failure for %q", raw)
		}
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StagingDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()

	results := RunAll(context.Background(), &cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestRunAll_IncludesEndpointsWhenConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Paths.StagingDir = t.TempDir()
	cfg.Paths.LogDir = ""
	cfg.Webhook.URL = srv.URL + "/hook"
	cfg.Callback.URL = srv.URL + "/callback"

	results := RunAll(context.Background(), &cfg)
	names := map[string]bool{}
	for _, r := range results {
		names[r.Name] = r.Passed
	}
	for _, name := range []string{"Webhook", "Callback"} {
		passed, ok := names[name]
		if !ok {
			t.Fatalf("expected %s check in results", name)
		}
		if !passed {
			t.Errorf("%s check failed", name)
		}
	}
}

func TestCheckWebhookFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Webhook.URL = ""

	cfg.Webhook.DispatchByDefault = true
	if result := CheckWebhookFromConfig(context.Background(), &cfg); result.Passed {
		t.Fatal("expected failure when dispatch defaults on without url")
	}

	cfg.Webhook.DispatchByDefault = false
	result := CheckWebhookFromConfig(context.Background(), &cfg)
	if !result.Passed || result.Detail != "Disabled" {
		t.Fatalf("expected disabled pass, got %#v", result)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()
	cfg.Webhook.URL = srv.URL
	cfg.Webhook.Secret = "k"
	result = CheckWebhookFromConfig(context.Background(), &cfg)
	if !result.Passed || !strings.HasSuffix(result.Detail, ", signed") {
		t.Fatalf("expected signed pass, got %#v", result)
	}
}
