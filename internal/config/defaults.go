package config

const (
	defaultConfigPath          = "~/.config/cdjready/config.toml"
	defaultProfile             = "cdj_2000_nxs"
	defaultProbeTimeoutSeconds = 30
	defaultConvertWorkers      = 2
	maxConvertWorkers          = 4
	defaultConvertTimeout      = 300
	defaultOutputSuffix        = "_CDJ"
	defaultLogFormat           = "console"
	defaultLogLevel            = "warn"
)

// Environment variables that override file settings.
const (
	EnvProfile     = "CDJREADY_PROFILE"
	EnvFFmpegPath  = "CDJREADY_FFMPEG_PATH"
	EnvFFprobePath = "CDJREADY_FFPROBE_PATH"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Check: Check{
			Profile: defaultProfile,
		},
		Probe: Probe{
			TimeoutSeconds: defaultProbeTimeoutSeconds,
		},
		Convert: Convert{
			Workers:        defaultConvertWorkers,
			TimeoutSeconds: defaultConvertTimeout,
			OutputSuffix:   defaultOutputSuffix,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// ClampWorkers bounds a requested worker count to the supported range.
// Zero or negative values select the default.
func ClampWorkers(n int) int {
	switch {
	case n <= 0:
		return defaultConvertWorkers
	case n > maxConvertWorkers:
		return maxConvertWorkers
	default:
		return n
	}
}

// ClampRequestedWorkers bounds an explicitly requested worker count to
// [1, max]. Unlike ClampWorkers, zero is not treated as unset.
func ClampRequestedWorkers(n int) int {
	if n < 1 {
		return 1
	}
	return ClampWorkers(n)
}
