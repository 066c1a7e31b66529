package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"ytscribe/internal/config"
	"ytscribe/internal/deps"
)

const endpointTimeout = 5 * time.Second

// CheckEndpoint verifies that the host behind rawURL accepts TCP connections.
// Webhook receivers generally reject anything but POST, so reachability is
// the strongest check that does not trigger a delivery.
func CheckEndpoint(ctx context.Context, name, rawURL string) Result {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return Result{Name: name, Detail: fmt.Sprintf("invalid url %q", rawURL)}
	}
	port := parsed.Port()
	if port == "" {
		port = "443"
		if strings.EqualFold(parsed.Scheme, "http") {
			port = "80"
		}
	}
	address := net.JoinHostPort(parsed.Hostname(), port)

	checkCtx, cancel := context.WithTimeout(ctx, endpointTimeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(checkCtx, "tcp", address)
	if err != nil {
		return Result{Name: name, Detail: summarizeDialError(address, err)}
	}
	_ = conn.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable", address)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries plus the faster-whisper
// Python package. Both the server startup and the CLI status command use
// this to avoid duplicating the requirements list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	for _, status := range statuses {
		if status.Command == cfg.Transcriber.Python && status.Available {
			statuses = append(statuses, deps.CheckPythonModule(ctx, cfg.Transcriber.Python, deps.FasterWhisperModule))
			break
		}
	}
	return statuses
}

func summarizeDialError(address string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s timed out", address)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("%s timed out", address)
	}
	return fmt.Sprintf("%s unreachable (%v)", address, err)
}
