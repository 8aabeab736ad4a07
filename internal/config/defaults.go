package config

const (
	defaultSearchTerm      = "Windows 11"
	defaultAPIBase         = "https://api.uupdump.net"
	defaultDownloadBase    = "https://uupdump.net"
	defaultLanguage        = "en-us"
	defaultArchitecture    = "amd64"
	defaultCheckInterval   = 60
	defaultMaxBuilds       = 30
	defaultRequestTimeout  = 30
	defaultTrackingFile    = "tracked_releases.json"
	defaultOutputFile      = "github_output.txt"
	defaultDataDir         = "~/.local/share/releasewatch"
	defaultLogDir          = "~/.local/share/releasewatch/logs"
	defaultNotifyTimeout   = 10
	defaultHistoryEnabled  = true
	defaultHistoryFilename = "history.db"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Detection: Detection{
			SearchTerm:     defaultSearchTerm,
			APIBase:        defaultAPIBase,
			DownloadBase:   defaultDownloadBase,
			Language:       defaultLanguage,
			Architecture:   defaultArchitecture,
			CheckInterval:  defaultCheckInterval,
			MaxBuilds:      defaultMaxBuilds,
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			TrackingFile: defaultTrackingFile,
			OutputFile:   defaultOutputFile,
			DataDir:      defaultDataDir,
			LogDir:       defaultLogDir,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Detections:     true,
			Errors:         true,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
