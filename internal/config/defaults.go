package config

const (
	defaultVideoDir      = "video"
	defaultAudioDir      = "audio"
	defaultAudioInputDir = "audio-input"
	defaultLogDir        = "~/.local/share/resound/logs"
	defaultHistoryPath   = "~/.local/share/resound/history.db"
	defaultOutputSuffix  = "_newaudio"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			VideoDir:      defaultVideoDir,
			AudioDir:      defaultAudioDir,
			AudioInputDir: defaultAudioInputDir,
			LogDir:        defaultLogDir,
		},
		Output: Output{
			Suffix: defaultOutputSuffix,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
