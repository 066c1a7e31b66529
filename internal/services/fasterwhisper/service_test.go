package fasterwhisper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"ytscribe/internal/services"
)

type recordedCall struct {
	name  string
	args  []string
	stdin string
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.mp3")
	if err := os.WriteFile(path, []byte("ID3"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func stubRunner(t *testing.T, stdout string, err error, calls *[]recordedCall) CommandRunner {
	t.Helper()
	return func(_ context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
		script, readErr := io.ReadAll(stdin)
		if readErr != nil {
			t.Fatalf("read stdin: %v", readErr)
		}
		*calls = append(*calls, recordedCall{name: name, args: append([]string(nil), args...), stdin: string(script)})
		return []byte(stdout), err
	}
}

func TestTranscribeBuildsHelperInvocation(t *testing.T) {
	audio := writeAudio(t)
	var calls []recordedCall
	svc := NewService(Config{
		Python:          "/venv/bin/python",
		ModelSize:       "small",
		ComputeType:     "int8",
		CPUThreads:      4,
		BeamSize:        5,
		Device:          "cpu",
		VADMinSilenceMS: 500,
		ModelDir:        "/models",
	}, nil)
	svc.WithCommandRunner(stubRunner(t, `{"language":"en","language_probability":0.9,"duration":3.5,"segments":[]}`, nil, &calls))

	if _, err := svc.Transcribe(context.Background(), audio, Options{Language: "de", ModelSize: "medium"}); err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("expected one helper call, got %d", len(calls))
	}
	call := calls[0]
	if call.name != "/venv/bin/python" {
		t.Fatalf("unexpected interpreter %q", call.name)
	}
	if call.stdin != helperScript || !strings.Contains(call.stdin, "vad_filter=True") {
		t.Fatal("expected embedded helper script on stdin")
	}
	want := []string{
		"-",
		"--audio", audio,
		"--model", "medium",
		"--device", "cpu",
		"--compute-type", "int8",
		"--cpu-threads", "4",
		"--beam-size", "5",
		"--vad-min-silence-ms", "500",
		"--language", "de",
		"--model-dir", "/models",
	}
	if !slices.Equal(call.args, want) {
		t.Fatalf("unexpected args:\n got %q\nwant %q", call.args, want)
	}
}

func TestTranscribeAutoDetectOmitsLanguage(t *testing.T) {
	audio := writeAudio(t)
	var calls []recordedCall
	svc := NewService(Config{}, nil)
	svc.WithCommandRunner(stubRunner(t, `{"language":"en","language_probability":0.9,"duration":3.5,"segments":[]}`, nil, &calls))

	result, err := svc.Transcribe(context.Background(), audio, Options{})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if slices.Contains(calls[0].args, "--language") {
		t.Fatalf("did not expect --language in %q", calls[0].args)
	}
	if result.Model != DefaultModelSize {
		t.Fatalf("expected default model, got %q", result.Model)
	}
}

func TestTranscribeAssemblesResult(t *testing.T) {
	audio := writeAudio(t)
	stdout := "Downloading model...\n" +
		`{"language":"pt","language_probability":0.87,"duration":12.25,"segments":[` +
		`{"start":0.0,"end":4.2,"text":" Olá a todos. "},` +
		`{"start":4.2,"end":4.0,"text":" Bem-vindos!"}]}` + "\n"
	var calls []recordedCall
	svc := NewService(Config{ModelSize: "small"}, nil)
	svc.WithCommandRunner(stubRunner(t, stdout, nil, &calls))

	result, err := svc.Transcribe(context.Background(), audio, Options{})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if result.Text != "Olá a todos. Bem-vindos!" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if result.Language != "pt" || result.LanguageProbability != 0.87 || result.Duration != 12.25 {
		t.Fatalf("unexpected metadata %+v", result)
	}
	for _, seg := range result.Segments {
		if seg.Start > seg.End {
			t.Fatalf("segment start %v > end %v", seg.Start, seg.End)
		}
	}
}

func TestTranscribeNullFieldsAndDurationFallback(t *testing.T) {
	audio := writeAudio(t)
	var calls []recordedCall
	svc := NewService(Config{}, nil)
	svc.WithCommandRunner(stubRunner(t, `{"language":"en","language_probability":null,"duration":null,"segments":null}`, nil, &calls))

	var measured string
	svc.WithDurationReader(func(_ context.Context, path string) (float64, error) {
		measured = path
		return 42.5, nil
	})

	result, err := svc.Transcribe(context.Background(), audio, Options{})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if result.LanguageProbability != 0 {
		t.Fatalf("expected null probability to become 0, got %v", result.LanguageProbability)
	}
	if measured != audio || result.Duration != 42.5 {
		t.Fatalf("expected measured duration, got %v (measured %q)", result.Duration, measured)
	}
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"segments":[]`) {
		t.Fatalf("expected empty segments array, got %s", data)
	}
}

func TestTranscribeIgnoresDurationFailure(t *testing.T) {
	audio := writeAudio(t)
	var calls []recordedCall
	svc := NewService(Config{}, nil)
	svc.WithCommandRunner(stubRunner(t, `{"language":"en","language_probability":0.5,"duration":0,"segments":[]}`, nil, &calls))
	svc.WithDurationReader(func(context.Context, string) (float64, error) {
		return 0, errors.New("ffprobe missing")
	})

	result, err := svc.Transcribe(context.Background(), audio, Options{})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if result.Duration != 0 {
		t.Fatalf("expected zero duration, got %v", result.Duration)
	}
}

func TestTranscribeErrors(t *testing.T) {
	audio := writeAudio(t)

	t.Run("missing audio", func(t *testing.T) {
		var calls []recordedCall
		svc := NewService(Config{}, nil)
		svc.WithCommandRunner(stubRunner(t, "", nil, &calls))
		_, err := svc.Transcribe(context.Background(), filepath.Join(t.TempDir(), "nope.mp3"), Options{})
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if len(calls) != 0 {
			t.Fatal("helper must not run for missing audio")
		}
	})

	t.Run("directory", func(t *testing.T) {
		svc := NewService(Config{}, nil)
		_, err := svc.Transcribe(context.Background(), t.TempDir(), Options{})
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("helper failure", func(t *testing.T) {
		var calls []recordedCall
		svc := NewService(Config{}, nil)
		svc.WithCommandRunner(stubRunner(t, "", errors.New("python3: exit status 1: ModuleNotFoundError: No module named 'faster_whisper'"), &calls))
		_, err := svc.Transcribe(context.Background(), audio, Options{})
		if !errors.Is(err, services.ErrTranscription) {
			t.Fatalf("expected ErrTranscription, got %v", err)
		}
		if !strings.Contains(err.Error(), "faster_whisper") {
			t.Fatalf("expected stderr detail in error, got %v", err)
		}
	})

	t.Run("unparseable output", func(t *testing.T) {
		var calls []recordedCall
		svc := NewService(Config{}, nil)
		svc.WithCommandRunner(stubRunner(t, "Segmentation fault", nil, &calls))
		_, err := svc.Transcribe(context.Background(), audio, Options{})
		if !errors.Is(err, services.ErrTranscription) {
			t.Fatalf("expected ErrTranscription, got %v", err)
		}
	})
}
