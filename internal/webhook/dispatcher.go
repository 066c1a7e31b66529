package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ytscribe/internal/services"
)

const (
	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "ytscribe/0.1.0"
	// DefaultTimeout bounds a delivery when Config.Timeout is zero.
	DefaultTimeout = 60 * time.Second

	stageDispatch   = "dispatch"
	maxResponseSize = 1 << 20
)

// Config describes a delivery target.
type Config struct {
	URL       string
	Secret    string
	Timeout   time.Duration
	UserAgent string
}

// Response is the receiver's reply.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decoded returns the body as parsed JSON when it is valid JSON, otherwise
// as text.
func (r Response) Decoded() any {
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) > 0 {
		var decoded any
		if err := json.Unmarshal(trimmed, &decoded); err == nil {
			return decoded
		}
	}
	return string(r.Body)
}

// OK reports whether the receiver answered with a 2xx status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Dispatcher posts JSON documents to a configured URL.
type Dispatcher struct {
	url       string
	secret    string
	userAgent string
	client    *http.Client
}

// New builds a Dispatcher. An empty URL is allowed here and reported by
// Validate, so callers can construct one unconditionally.
func New(cfg Config) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Dispatcher{
		url:       strings.TrimSpace(cfg.URL),
		secret:    cfg.Secret,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// Validate reports whether the dispatcher has a destination.
func (d *Dispatcher) Validate() error {
	if d == nil || d.url == "" {
		return services.Wrap(services.ErrConfiguration, stageDispatch, "validate", "webhook url not configured", nil)
	}
	return nil
}

// Dispatch marshals document and POSTs it. The returned Response is valid
// whenever err is nil, regardless of status code.
func (d *Dispatcher) Dispatch(ctx context.Context, document any) (Response, error) {
	if err := d.Validate(); err != nil {
		return Response{}, err
	}
	body, err := Marshal(document)
	if err != nil {
		return Response{}, services.Wrap(services.ErrWebhook, stageDispatch, "marshal", "encode document", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return Response{}, services.Wrap(services.ErrWebhook, stageDispatch, "build request", d.url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", d.userAgent)
	if signature := Sign(d.secret, body); signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return Response{}, services.Wrap(services.ErrWebhook, stageDispatch, "post", "deliver webhook", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Response{}, services.Wrap(services.ErrWebhook, stageDispatch, "read response", fmt.Sprintf("status %d", resp.StatusCode), err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// Marshal encodes document the way Dispatch sends it: compact JSON without
// HTML escaping and without a trailing newline.
func Marshal(document any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(document); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
