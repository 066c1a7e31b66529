package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

var computeTypes = map[string]struct{}{
	"default":       {},
	"auto":          {},
	"int8":          {},
	"int8_float16":  {},
	"int8_float32":  {},
	"int8_bfloat16": {},
	"int16":         {},
	"float16":       {},
	"bfloat16":      {},
	"float32":       {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateTranscriber(); err != nil {
		return err
	}
	if err := c.validateDelivery(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind must be host:port, got %q", c.Server.Bind)
	}
	return nil
}

func (c *Config) validateTranscriber() error {
	if err := ensurePositiveMap(map[string]int{
		"transcriber.cpu_threads": c.Transcriber.CPUThreads,
		"transcriber.beam_size":   c.Transcriber.BeamSize,
	}); err != nil {
		return err
	}
	if c.Transcriber.VADMinSilenceMS < 0 {
		return errors.New("transcriber.vad_min_silence_ms must be >= 0")
	}
	if _, ok := computeTypes[c.Transcriber.ComputeType]; !ok {
		return fmt.Errorf("transcriber.compute_type %q is not supported", c.Transcriber.ComputeType)
	}
	switch c.Transcriber.Device {
	case "cpu", "cuda", "auto":
	default:
		return fmt.Errorf("transcriber.device must be cpu, cuda, or auto, got %q", c.Transcriber.Device)
	}
	return nil
}

func (c *Config) validateDelivery() error {
	if err := ensurePositiveMap(map[string]int{
		"webhook.timeout_seconds":  c.Webhook.TimeoutSeconds,
		"callback.timeout_seconds": c.Callback.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if err := validateHTTPURL("webhook.url", c.Webhook.URL); err != nil {
		return err
	}
	return validateHTTPURL("callback.url", c.Callback.URL)
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}

func validateHTTPURL(key, value string) error {
	if value == "" {
		return nil
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if (scheme != "http" && scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", key, value)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
