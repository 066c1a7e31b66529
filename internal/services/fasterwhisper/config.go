package fasterwhisper

// Config captures runtime settings for faster-whisper inference.
type Config struct {
	// Python is the interpreter with faster_whisper installed.
	Python string
	// ModelSize is the default model (e.g., "small", "large-v3").
	ModelSize string
	// ComputeType selects the CTranslate2 precision (e.g., "int8").
	ComputeType string
	CPUThreads  int
	BeamSize    int
	// Device is "cpu", "cuda", or "auto".
	Device string
	// VADMinSilenceMS is the minimum silence that splits speech regions.
	VADMinSilenceMS int
	// ModelDir overrides the model download cache when set.
	ModelDir string
}

// Defaults applied when a Config field is zero.
const (
	DefaultPython          = "python3"
	DefaultModelSize       = "small"
	DefaultComputeType     = "int8"
	DefaultCPUThreads      = 4
	DefaultBeamSize        = 5
	DefaultDevice          = "cpu"
	DefaultVADMinSilenceMS = 500
)

func (c Config) withDefaults() Config {
	if c.Python == "" {
		c.Python = DefaultPython
	}
	if c.ModelSize == "" {
		c.ModelSize = DefaultModelSize
	}
	if c.ComputeType == "" {
		c.ComputeType = DefaultComputeType
	}
	if c.CPUThreads <= 0 {
		c.CPUThreads = DefaultCPUThreads
	}
	if c.BeamSize <= 0 {
		c.BeamSize = DefaultBeamSize
	}
	if c.Device == "" {
		c.Device = DefaultDevice
	}
	if c.VADMinSilenceMS < 0 {
		c.VADMinSilenceMS = DefaultVADMinSilenceMS
	}
	return c
}
