package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ytscribe/internal/logging"
	"ytscribe/internal/pipeline"
	"ytscribe/internal/services"
)

// RegisterHealthRoutes adds the liveness check.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{OK: true, Service: ServiceName})
	})
}

// RegisterTranscribeRoutes adds the transcription endpoint behind the
// optional bearer-token check.
func (s *Server) RegisterTranscribeRoutes(r *gin.Engine) {
	r.POST("/transcribe", authMiddleware(s.token), s.handleTranscribe)
}

func (s *Server) handleTranscribe(c *gin.Context) {
	body := readTranscribeRequest(c)

	videoURL := strings.TrimSpace(body.VideoURL)
	if videoURL == "" {
		videoURL = strings.TrimSpace(c.Query("video_url"))
	}
	if videoURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingURLMessage})
		return
	}

	send := s.dispatchByDefault
	if body.SendToWebhook != nil {
		send = *body.SendToWebhook
	}

	req := pipeline.Request{
		VideoURL:      videoURL,
		Language:      body.Language,
		ModelSize:     body.ModelSize,
		Meta:          body.Meta,
		SendToWebhook: send,
	}

	ctx := c.Request.Context()
	payload, err := s.processor.Process(ctx, req)
	if err != nil {
		code := services.Code(err)
		logging.WithContext(ctx, s.logger).Error("transcription request failed",
			logging.VideoURL(videoURL),
			logging.String("code", code),
			logging.Error(err),
			logging.String(logging.FieldEventType, "transcribe_failed"),
		)
		c.JSON(http.StatusInternalServerError, FailureResponse{OK: false, Error: err.Error(), Code: code})
		return
	}
	c.JSON(http.StatusOK, TranscribeResponse{OK: true, Result: payload})
}

// readTranscribeRequest decodes the body leniently, one field at a time, so
// a badly typed optional field never hides a valid video_url. A body that is
// not a JSON object yields the zero request. A meta value that is not an
// object is dropped; send_to_webhook also accepts "true"/"false" strings.
func readTranscribeRequest(c *gin.Context) TranscribeRequest {
	var body TranscribeRequest
	raw, err := c.GetRawData()
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return body
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return body
	}
	decodeField(fields, "video_url", &body.VideoURL)
	decodeField(fields, "language", &body.Language)
	decodeField(fields, "model_size", &body.ModelSize)
	decodeField(fields, "meta", &body.Meta)
	body.SendToWebhook = decodeBool(fields["send_to_webhook"])
	return body
}

// decodeField leaves target untouched when the key is absent or mistyped.
func decodeField[T any](fields map[string]json.RawMessage, key string, target *T) {
	value, ok := fields[key]
	if !ok {
		return
	}
	var decoded T
	if err := json.Unmarshal(value, &decoded); err != nil {
		return
	}
	*target = decoded
}

func decodeBool(value json.RawMessage) *bool {
	if len(value) == 0 {
		return nil
	}
	var b bool
	if err := json.Unmarshal(value, &b); err == nil {
		return &b
	}
	var text string
	if err := json.Unmarshal(value, &text); err != nil {
		return nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	return &parsed
}
