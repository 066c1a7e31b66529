package config

const (
	defaultBind              = "0.0.0.0:8000"
	defaultStagingDir        = "~/.local/share/ytscribe/staging"
	defaultLogDir            = "~/.local/share/ytscribe/logs"
	defaultDownloaderBinary  = "yt-dlp"
	defaultAudioFormat       = "mp3"
	defaultPython            = "python3"
	defaultModelSize         = "small"
	defaultComputeType       = "int8"
	defaultCPUThreads        = 4
	defaultBeamSize          = 5
	defaultDevice            = "cpu"
	defaultVADMinSilenceMS   = 500
	defaultWebhookTimeout    = 60
	defaultCallbackTimeout   = 30
	defaultDispatchByDefault = true
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind: defaultBind,
		},
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Downloader: Downloader{
			Binary:      defaultDownloaderBinary,
			AudioFormat: defaultAudioFormat,
		},
		Transcriber: Transcriber{
			Python:          defaultPython,
			ModelSize:       defaultModelSize,
			ComputeType:     defaultComputeType,
			CPUThreads:      defaultCPUThreads,
			BeamSize:        defaultBeamSize,
			Device:          defaultDevice,
			VADMinSilenceMS: defaultVADMinSilenceMS,
		},
		Webhook: Webhook{
			TimeoutSeconds:    defaultWebhookTimeout,
			DispatchByDefault: defaultDispatchByDefault,
		},
		Callback: Callback{
			TimeoutSeconds: defaultCallbackTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
