package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"ytscribe/internal/config"
)

// FasterWhisperModule is the Python import the transcriber helper requires.
const FasterWhisperModule = "faster_whisper"

const moduleImportTimeout = 30 * time.Second

// Requirements lists the external binaries the pipeline invokes.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.Downloader.Binary,
			Description: "Downloads and extracts audio",
		},
		{
			Name:        "Python",
			Command:     cfg.Transcriber.Python,
			Description: "Runs the faster-whisper helper",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Measures audio duration when the model omits it",
			Optional:    true,
		},
	}
}

// CheckPythonModule reports whether module can be imported by the python
// interpreter. The interpreter must already be resolvable on PATH.
func CheckPythonModule(ctx context.Context, python, module string) Status {
	status := Status{
		Name:        module,
		Command:     strings.TrimSpace(python),
		Description: "Python package used for transcription",
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	if _, err := exec.LookPath(status.Command); err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}

	importCtx, cancel := context.WithTimeout(ctx, moduleImportTimeout)
	defer cancel()
	output, err := exec.CommandContext(importCtx, status.Command, "-c", "import "+module).CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if idx := strings.LastIndex(detail, "\n"); idx >= 0 {
			detail = detail[idx+1:]
		}
		if detail == "" {
			detail = err.Error()
		}
		status.Detail = detail
		return status
	}
	status.Available = true
	return status
}
