package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains the HTTP listener configuration.
type Server struct {
	Bind     string `toml:"bind"`
	APIToken string `toml:"api_token"`
}

// Paths contains directory configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
}

// Downloader contains configuration for the yt-dlp audio fetcher.
type Downloader struct {
	Binary      string   `toml:"binary"`
	AudioFormat string   `toml:"audio_format"`
	CookiesB64  string   `toml:"cookies_b64"`
	ExtraArgs   []string `toml:"extra_args"`
}

// Transcriber contains configuration for the faster-whisper helper.
type Transcriber struct {
	Python          string `toml:"python"`
	ModelSize       string `toml:"model_size"`
	ComputeType     string `toml:"compute_type"`
	CPUThreads      int    `toml:"cpu_threads"`
	BeamSize        int    `toml:"beam_size"`
	Device          string `toml:"device"`
	VADMinSilenceMS int    `toml:"vad_min_silence_ms"`
	ModelDir        string `toml:"model_dir"`
}

// Webhook contains configuration for delivering pipeline results.
type Webhook struct {
	URL               string `toml:"url"`
	Secret            string `toml:"secret"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	DispatchByDefault bool   `toml:"dispatch_by_default"`
}

// Callback contains configuration for the audio-url command's callback.
type Callback struct {
	URL            string `toml:"url"`
	Secret         string `toml:"secret"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ytscribe.
//
// Configuration sections by subsystem:
//   - Server: HTTP bind address and optional bearer token
//   - Paths: staging (per-request work directories) and logs
//   - Downloader: yt-dlp binary, output format, cookies, extractor args
//   - Transcriber: faster-whisper model, precision, threads, beam width, VAD
//   - Webhook: pipeline result delivery
//   - Callback: audio-url command delivery
//   - Logging: log format and level
type Config struct {
	Server      Server      `toml:"server"`
	Paths       Paths       `toml:"paths"`
	Downloader  Downloader  `toml:"downloader"`
	Transcriber Transcriber `toml:"transcriber"`
	Webhook     Webhook     `toml:"webhook"`
	Callback    Callback    `toml:"callback"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ytscribe/config.toml")
}

// Load locates, parses, and validates a configuration file. Values from a
// .env file in the working directory are exported first; environment
// variables then override file values. The returned config has all path
// fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	loadDotEnv()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnvironment(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func loadDotEnv() {
	if info, err := os.Stat(".env"); err != nil || info.IsDir() {
		return
	}
	// godotenv never overrides variables that are already exported.
	_ = godotenv.Load(".env")
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ytscribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the staging and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFprobeBinary returns the ffprobe executable name used to measure audio duration.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
