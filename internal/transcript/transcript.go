// Package transcript holds the model-independent transcription result and
// the rules for assembling it from raw recognizer segments.
package transcript

import (
	"math"
	"strings"
)

// Segment is one recognized span of speech, in seconds from the start of
// the audio.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is a completed transcription.
type Result struct {
	Model               string    `json:"model"`
	Language            string    `json:"language"`
	LanguageProbability float64   `json:"language_probability"`
	Duration            float64   `json:"duration"`
	Text                string    `json:"text"`
	Segments            []Segment `json:"segments"`
}

// Assemble builds a Result from raw recognizer segments. Each segment text
// is trimmed, segments whose end precedes their start are clamped, and the
// full text is the space-joined trimmed texts. Segments is never nil.
func Assemble(model, language string, probability, duration float64, raw []Segment) Result {
	segments := make([]Segment, 0, len(raw))
	parts := make([]string, 0, len(raw))
	for _, seg := range raw {
		seg.Text = strings.TrimSpace(seg.Text)
		if seg.End < seg.Start {
			seg.End = seg.Start
		}
		segments = append(segments, seg)
		parts = append(parts, seg.Text)
	}
	return Result{
		Model:               model,
		Language:            language,
		LanguageProbability: clampProbability(probability),
		Duration:            max(duration, 0),
		Text:                strings.TrimSpace(strings.Join(parts, " ")),
		Segments:            segments,
	}
}

func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
