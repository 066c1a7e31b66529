package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// applyEnvironment overlays deployment environment variables onto file values.
// Empty variables are ignored so an exported-but-blank value never erases a
// setting from the config file.
func (c *Config) applyEnvironment() error {
	if port, ok := lookupEnv("PORT"); ok {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("PORT must be numeric, got %q", port)
		}
		c.Server.Bind = net.JoinHostPort("0.0.0.0", port)
	}
	overrideString(&c.Server.APIToken, "YTSCRIBE_API_TOKEN")
	overrideString(&c.Downloader.CookiesB64, "YTDLP_COOKIES_B64")
	overrideString(&c.Transcriber.Python, "YTSCRIBE_PYTHON")
	overrideString(&c.Transcriber.ModelSize, "WHISPER_MODEL_SIZE")
	overrideString(&c.Transcriber.ComputeType, "WHISPER_COMPUTE_TYPE")
	if err := overrideInt(&c.Transcriber.CPUThreads, "WHISPER_CPU_THREADS"); err != nil {
		return err
	}
	if err := overrideInt(&c.Transcriber.BeamSize, "WHISPER_BEAM_SIZE"); err != nil {
		return err
	}
	overrideString(&c.Webhook.URL, "MAKE_WEBHOOK_URL")
	overrideString(&c.Webhook.Secret, "WEBHOOK_SECRET")
	overrideString(&c.Callback.URL, "CALLBACK_URL")
	overrideString(&c.Callback.Secret, "CALLBACK_SECRET")
	return nil
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func overrideString(target *string, key string) {
	if value, ok := lookupEnv(key); ok {
		*target = value
	}
}

func overrideInt(target *int, key string) error {
	value, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	*target = parsed
	return nil
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeDownloader()
	c.normalizeTranscriber()
	c.normalizeWebhook()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Transcriber.ModelDir) != "" {
		if c.Transcriber.ModelDir, err = expandPath(c.Transcriber.ModelDir); err != nil {
			return fmt.Errorf("transcriber.model_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
}

func (c *Config) normalizeDownloader() {
	c.Downloader.Binary = strings.TrimSpace(c.Downloader.Binary)
	if c.Downloader.Binary == "" {
		c.Downloader.Binary = defaultDownloaderBinary
	}
	c.Downloader.AudioFormat = strings.ToLower(strings.TrimSpace(c.Downloader.AudioFormat))
	if c.Downloader.AudioFormat == "" {
		c.Downloader.AudioFormat = defaultAudioFormat
	}
	c.Downloader.CookiesB64 = strings.TrimSpace(c.Downloader.CookiesB64)
	args := c.Downloader.ExtraArgs[:0]
	for _, arg := range c.Downloader.ExtraArgs {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			args = append(args, trimmed)
		}
	}
	c.Downloader.ExtraArgs = args
}

func (c *Config) normalizeTranscriber() {
	c.Transcriber.Python = strings.TrimSpace(c.Transcriber.Python)
	if c.Transcriber.Python == "" {
		c.Transcriber.Python = defaultPython
	}
	c.Transcriber.ModelSize = strings.TrimSpace(c.Transcriber.ModelSize)
	if c.Transcriber.ModelSize == "" {
		c.Transcriber.ModelSize = defaultModelSize
	}
	c.Transcriber.ComputeType = strings.ToLower(strings.TrimSpace(c.Transcriber.ComputeType))
	if c.Transcriber.ComputeType == "" {
		c.Transcriber.ComputeType = defaultComputeType
	}
	c.Transcriber.Device = strings.ToLower(strings.TrimSpace(c.Transcriber.Device))
	if c.Transcriber.Device == "" {
		c.Transcriber.Device = defaultDevice
	}
}

func (c *Config) normalizeWebhook() {
	c.Webhook.URL = strings.TrimSpace(c.Webhook.URL)
	c.Webhook.Secret = strings.TrimSpace(c.Webhook.Secret)
	c.Callback.URL = strings.TrimSpace(c.Callback.URL)
	c.Callback.Secret = strings.TrimSpace(c.Callback.Secret)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
