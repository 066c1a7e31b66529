package api

import (
	"context"

	"ytscribe/internal/pipeline"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "youtube-transcriber"

// missingURLMessage is returned when neither the body nor the query string
// names a video.
const missingURLMessage = "provide 'video_url' in the JSON body or query string"

// Processor runs a transcription request end to end.
type Processor interface {
	Process(ctx context.Context, req pipeline.Request) (*pipeline.Payload, error)
}

// TranscribeRequest is the accepted /transcribe body.
type TranscribeRequest struct {
	VideoURL      string         `json:"video_url"`
	Language      string         `json:"language"`
	ModelSize     string         `json:"model_size"`
	Meta          map[string]any `json:"meta"`
	SendToWebhook *bool          `json:"send_to_webhook"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

// TranscribeResponse is the successful /transcribe body.
type TranscribeResponse struct {
	OK     bool              `json:"ok"`
	Result *pipeline.Payload `json:"result"`
}

// FailureResponse is returned when the pipeline fails.
type FailureResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code"`
}
