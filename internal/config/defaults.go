package config

const (
	defaultOutputDir           = "~/recordings"
	defaultLogDir              = "~/.local/share/aircheck/logs"
	defaultAreaID              = "JP13"
	defaultRadikoTimeout       = 30
	defaultRetryAttempts       = 1
	defaultRetryBaseDelayMS    = 300
	defaultRetryMaxDelayMS     = 2000
	defaultNHKTimeout          = 10
	defaultNHKDurationMinutes  = 60
	defaultFFmpegBinary        = "ffmpeg"
	defaultCaptureLoglevel     = "warning"
	defaultSafetyMarginSeconds = 5
	defaultGenre               = "Radio"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Radiko: Radiko{
			AreaID:           defaultAreaID,
			TimeoutSeconds:   defaultRadikoTimeout,
			RetryAttempts:    defaultRetryAttempts,
			RetryBaseDelayMS: defaultRetryBaseDelayMS,
			RetryMaxDelayMS:  defaultRetryMaxDelayMS,
		},
		NHK: NHK{
			TimeoutSeconds:  defaultNHKTimeout,
			DurationMinutes: defaultNHKDurationMinutes,
		},
		Capture: Capture{
			FFmpegBinary:        defaultFFmpegBinary,
			Loglevel:            defaultCaptureLoglevel,
			SafetyMarginSeconds: defaultSafetyMarginSeconds,
		},
		Tagging: Tagging{
			Genre:    defaultGenre,
			CoverArt: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
