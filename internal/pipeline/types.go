package pipeline

import (
	"bytes"
	"context"
	"encoding/json"

	"ytscribe/internal/services/fasterwhisper"
	"ytscribe/internal/transcript"
	"ytscribe/internal/webhook"
)

// Source identifies this service in every payload.
const Source = "youtube-transcriber"

// Fetcher downloads a video's audio track into outputDir.
type Fetcher interface {
	Fetch(ctx context.Context, videoURL, outputDir, cookiesFile string) (string, error)
}

// Transcriber turns an audio file into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts fasterwhisper.Options) (transcript.Result, error)
}

// Dispatcher delivers the payload to the configured receiver.
type Dispatcher interface {
	Validate() error
	Dispatch(ctx context.Context, document any) (webhook.Response, error)
}

// Request describes one transcription.
type Request struct {
	VideoURL string
	// Language is a hint in any form language.Normalize accepts; empty means
	// auto-detection.
	Language string
	// ModelSize overrides the configured model when set.
	ModelSize     string
	Meta          map[string]any
	SendToWebhook bool
}

// Payload is the result document returned to callers and sent to the webhook.
type Payload struct {
	Source   string `json:"source"`
	VideoURL string `json:"video_url"`
	transcript.Result
	Meta           map[string]any `json:"meta,omitempty"`
	MakeStatusCode *int           `json:"make_status_code,omitempty"`
	MakeResponse   any            `json:"make_response,omitempty"`
}

// MarshalJSON emits make_response whenever a dispatch happened, including a
// receiver that answered with a JSON null.
func (p Payload) MarshalJSON() ([]byte, error) {
	type plain Payload
	if p.MakeStatusCode == nil {
		return marshalNoEscape(plain(p))
	}
	return marshalNoEscape(struct {
		plain
		MakeResponse any `json:"make_response"`
	}{plain(p), p.MakeResponse})
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
