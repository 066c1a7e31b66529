package ytdlp

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// knownExtensions are tried after the configured format when the manifest
// line is missing or unusable.
var knownExtensions = []string{"mp3", "m4a", "webm", "opus"}

var errNoAudio = errors.New("no audio file produced")

// discoverAudio locates the file yt-dlp produced in outputDir. The printed
// after_move filepath wins when it names a regular file inside outputDir;
// otherwise audio.<ext> is checked for the preferred format and the known
// extensions, and finally the first regular file by name is taken.
func discoverAudio(outputDir, preferred string, manifest []byte) (string, error) {
	if path, ok := manifestPath(outputDir, manifest); ok {
		return path, nil
	}

	seen := make(map[string]struct{}, len(knownExtensions)+1)
	for _, ext := range append([]string{preferred}, knownExtensions...) {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		candidate := filepath.Join(outputDir, "audio."+ext)
		if isRegularFile(candidate) {
			return candidate, nil
		}
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			return filepath.Join(outputDir, entry.Name()), nil
		}
	}
	return "", errNoAudio
}

func manifestPath(outputDir string, manifest []byte) (string, bool) {
	var last string
	scanner := bufio.NewScanner(bytes.NewReader(manifest))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	if last == "" {
		return "", false
	}
	if !filepath.IsAbs(last) {
		last = filepath.Join(outputDir, last)
	}
	last = filepath.Clean(last)
	rel, err := filepath.Rel(filepath.Clean(outputDir), last)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	if !isRegularFile(last) {
		return "", false
	}
	return last, true
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
