package config

const (
	defaultConfigPath     = "~/.config/auxl/config.toml"
	projectConfigName     = "auxl.toml"
	defaultStateDir       = "~/.local/share/auxl"
	defaultLogDir         = "~/.local/share/auxl/logs"
	defaultProgressPolicy = "fields"
	defaultRequestTimeout = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultLogMaxSizeMB   = 10
	defaultLogMaxBackups  = 3
	defaultLogMaxAgeDays  = 30

	envNtfyTopic = "AUXL_NTFY_TOPIC"
	envLogLevel  = "AUXL_LOG_LEVEL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Review: Review{
			ProgressPolicy: defaultProgressPolicy,
		},
		Notifications: Notifications{
			RequestTimeout: defaultRequestTimeout,
			Session:        true,
			Errors:         true,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
