package ytdlp

import (
	"context"
	"encoding/json"
	"strings"

	"ytscribe/internal/services"
)

// AudioURLNote accompanies every resolved URL.
const AudioURLNote = "temporary URL (expires within a few hours); use it immediately"

// AudioInfo is the outcome of ResolveAudioURL. Failures are reported in-band
// through OK and Error so the value can be forwarded as-is.
type AudioInfo struct {
	OK       bool   `json:"ok"`
	VideoURL string `json:"video_url"`
	AudioURL string `json:"audio_url,omitempty"`
	Title    string `json:"title,omitempty"`
	ID       string `json:"id,omitempty"`
	Ext      string `json:"ext,omitempty"`
	ACodec   string `json:"acodec,omitempty"`
	Note     string `json:"note,omitempty"`
	Error    string `json:"error,omitempty"`
}

type videoInfo struct {
	URL     string        `json:"url"`
	Title   string        `json:"title"`
	ID      string        `json:"id"`
	Ext     string        `json:"ext"`
	ACodec  string        `json:"acodec"`
	Formats []videoFormat `json:"formats"`
}

type videoFormat struct {
	URL    string `json:"url"`
	ACodec string `json:"acodec"`
}

// ResolveAudioURL asks yt-dlp for the direct URL of the best audio track
// without downloading it. The returned AudioInfo is always populated; on
// failure it carries OK=false and the error text alongside the error.
func (c *Client) ResolveAudioURL(ctx context.Context, videoURL, cookiesFile string) (AudioInfo, error) {
	videoURL = strings.TrimSpace(videoURL)
	info := AudioInfo{VideoURL: videoURL}
	fail := func(err error) (AudioInfo, error) {
		info.Error = err.Error()
		return info, err
	}

	if videoURL == "" {
		return fail(services.Wrap(services.ErrValidation, stageDownload, "resolve audio url", "video url required", nil))
	}

	args := []string{"-f", "bestaudio", "-J", "--no-warnings", "--no-check-certificates"}
	if cookiesFile != "" {
		args = append(args, "--cookies", cookiesFile)
	}
	args = append(args, c.extraArgs...)
	args = append(args, "--", videoURL)

	output, err := c.run(ctx, c.binary, args...)
	if err != nil {
		return fail(services.Wrap(services.ErrDownload, stageDownload, "yt-dlp", "extract info", err))
	}

	var meta videoInfo
	if err := json.Unmarshal(output, &meta); err != nil {
		return fail(services.Wrap(services.ErrDownload, stageDownload, "parse info", "yt-dlp returned invalid JSON", err))
	}

	audioURL := selectAudioURL(meta)
	if audioURL == "" {
		return fail(services.Wrap(services.ErrDownload, stageDownload, "resolve audio url", "could not resolve audio url", nil))
	}

	info.OK = true
	info.AudioURL = audioURL
	info.Title = meta.Title
	info.ID = meta.ID
	info.Ext = meta.Ext
	info.ACodec = meta.ACodec
	info.Note = AudioURLNote
	return info, nil
}

// selectAudioURL prefers the top-level url (set when a single format was
// selected), then the last format carrying an audio codec, then the last
// format of any kind.
func selectAudioURL(meta videoInfo) string {
	if meta.URL != "" {
		return meta.URL
	}
	if len(meta.Formats) == 0 {
		return ""
	}
	for i := len(meta.Formats) - 1; i >= 0; i-- {
		codec := strings.TrimSpace(meta.Formats[i].ACodec)
		if codec != "" && codec != "none" {
			return meta.Formats[i].URL
		}
	}
	return meta.Formats[len(meta.Formats)-1].URL
}
