package webhook_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ytscribe/internal/services"
	"ytscribe/internal/webhook"
)

type captured struct {
	body    []byte
	headers http.Header
	method  string
}

func newReceiver(t *testing.T, status int, reply string, got *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		got.body = body
		got.headers = r.Header.Clone()
		got.method = r.Method
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDispatchSignsExactBodyBytes(t *testing.T) {
	var got captured
	srv := newReceiver(t, http.StatusOK, `{"accepted":true}`, &got)
	d := webhook.New(webhook.Config{URL: srv.URL, Secret: "topsecret"})

	doc := map[string]any{"text": "<b>Olá</b> & bye", "n": 1}
	resp, err := d.Dispatch(context.Background(), doc)
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if got.method != http.MethodPost {
		t.Fatalf("expected POST, got %s", got.method)
	}
	if ct := got.headers.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if ua := got.headers.Get("User-Agent"); ua != webhook.DefaultUserAgent {
		t.Fatalf("unexpected user agent %q", ua)
	}
	if !strings.Contains(string(got.body), "<b>Olá</b> & bye") {
		t.Fatalf("expected unescaped body, got %s", got.body)
	}

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(got.body)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if sig := got.headers.Get(webhook.SignatureHeader); sig != want {
		t.Fatalf("signature %q does not match independent HMAC %q", sig, want)
	}
	if !webhook.Verify("topsecret", got.body, got.headers.Get(webhook.SignatureHeader)) {
		t.Fatal("Verify rejected a valid signature")
	}

	if resp.StatusCode != http.StatusOK || !resp.OK() {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	decoded, ok := resp.Decoded().(map[string]any)
	if !ok || decoded["accepted"] != true {
		t.Fatalf("unexpected decoded body %#v", resp.Decoded())
	}
}

func TestDispatchWithoutSecretOmitsSignature(t *testing.T) {
	var got captured
	srv := newReceiver(t, http.StatusAccepted, "Accepted", &got)
	d := webhook.New(webhook.Config{URL: srv.URL, UserAgent: "custom/1"})

	resp, err := d.Dispatch(context.Background(), map[string]string{"a": "b"})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if _, present := got.headers[webhook.SignatureHeader]; present {
		t.Fatal("did not expect signature header")
	}
	if got.headers.Get("User-Agent") != "custom/1" {
		t.Fatalf("unexpected user agent %q", got.headers.Get("User-Agent"))
	}
	if resp.Decoded() != "Accepted" {
		t.Fatalf("expected text fallback, got %#v", resp.Decoded())
	}
}

func TestDispatchNon2xxIsNotAnError(t *testing.T) {
	var got captured
	srv := newReceiver(t, http.StatusGone, `{"error":"scenario off"}`, &got)
	d := webhook.New(webhook.Config{URL: srv.URL})

	resp, err := d.Dispatch(context.Background(), map[string]int{"x": 1})
	if err != nil {
		t.Fatalf("expected no error for 410, got %v", err)
	}
	if resp.StatusCode != http.StatusGone || resp.OK() {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestDispatchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := webhook.New(webhook.Config{URL: url}).Dispatch(context.Background(), map[string]int{})
	if !errors.Is(err, services.ErrWebhook) {
		t.Fatalf("expected ErrWebhook, got %v", err)
	}
}

func TestDispatchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	_, err := webhook.New(webhook.Config{URL: srv.URL, Timeout: 50 * time.Millisecond}).Dispatch(context.Background(), map[string]int{})
	if !errors.Is(err, services.ErrWebhook) {
		t.Fatalf("expected ErrWebhook on timeout, got %v", err)
	}
}

func TestValidateRequiresURL(t *testing.T) {
	d := webhook.New(webhook.Config{URL: "  "})
	if err := d.Validate(); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if _, err := d.Dispatch(context.Background(), map[string]int{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration from Dispatch, got %v", err)
	}
}

func TestMarshalMatchesDispatchedBytes(t *testing.T) {
	var got captured
	srv := newReceiver(t, http.StatusOK, "", &got)
	doc := struct {
		Text string `json:"text"`
	}{Text: "a<b"}

	if _, err := webhook.New(webhook.Config{URL: srv.URL}).Dispatch(context.Background(), doc); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	body, err := webhook.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(body) != string(got.body) || string(body) != `{"text":"a<b"}` {
		t.Fatalf("Marshal %s differs from sent %s", body, got.body)
	}
}
