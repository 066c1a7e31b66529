package ytdlp_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"ytscribe/internal/services"
)

func TestResolveAudioURLSelection(t *testing.T) {
	tests := []struct {
		name string
		info string
		want string
	}{
		{
			name: "top-level url",
			info: `{"url":"https://cdn/top","title":"T","id":"abc","ext":"webm","acodec":"opus","formats":[{"url":"https://cdn/f1","acodec":"opus"}]}`,
			want: "https://cdn/top",
		},
		{
			name: "last audio format",
			info: `{"title":"T","formats":[{"url":"https://cdn/a1","acodec":"mp4a"},{"url":"https://cdn/a2","acodec":"opus"},{"url":"https://cdn/v","acodec":"none"}]}`,
			want: "https://cdn/a2",
		},
		{
			name: "fallback last format",
			info: `{"formats":[{"url":"https://cdn/v1","acodec":"none"},{"url":"https://cdn/v2"}]}`,
			want: "https://cdn/v2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{output: []byte(tt.info)}
			info, err := newClient(runner, "mp3").ResolveAudioURL(context.Background(), "https://youtu.be/abc", "")
			if err != nil {
				t.Fatalf("ResolveAudioURL returned error: %v", err)
			}
			if !info.OK || info.AudioURL != tt.want {
				t.Fatalf("got %+v, want audio url %q", info, tt.want)
			}
			if info.Note == "" || info.VideoURL != "https://youtu.be/abc" {
				t.Fatalf("expected note and video url, got %+v", info)
			}
		})
	}
}

func TestResolveAudioURLArgs(t *testing.T) {
	runner := &stubRunner{output: []byte(`{"url":"https://cdn/top"}`)}
	if _, err := newClient(runner, "mp3").ResolveAudioURL(context.Background(), "https://youtu.be/abc", "/tmp/c.txt"); err != nil {
		t.Fatalf("ResolveAudioURL returned error: %v", err)
	}
	want := []string{"-f", "bestaudio", "-J", "--no-warnings", "--no-check-certificates", "--cookies", "/tmp/c.txt", "--", "https://youtu.be/abc"}
	if !slices.Equal(runner.args, want) {
		t.Fatalf("unexpected args %q", runner.args)
	}
}

func TestResolveAudioURLFailuresReportedInBand(t *testing.T) {
	tests := []struct {
		name   string
		runner *stubRunner
	}{
		{"no formats", &stubRunner{output: []byte(`{"title":"T","formats":[]}`)}},
		{"invalid json", &stubRunner{output: []byte(`not json`)}},
		{"tool failure", &stubRunner{err: errors.New("exit status 1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := newClient(tt.runner, "mp3").ResolveAudioURL(context.Background(), "https://youtu.be/abc", "")
			if !errors.Is(err, services.ErrDownload) {
				t.Fatalf("expected ErrDownload, got %v", err)
			}
			if info.OK || info.Error == "" || info.VideoURL != "https://youtu.be/abc" {
				t.Fatalf("expected in-band failure, got %+v", info)
			}
		})
	}
}
