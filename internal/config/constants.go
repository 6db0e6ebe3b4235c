package config

import "time"

// Environment keys read by Load.
const (
	KeyBaseURL        = "STATS_URL"
	KeyPollInterval   = "STATS_POLL_INTERVAL"
	KeyRequestTimeout = "STATS_REQUEST_TIMEOUT"
	KeyTimezone       = "STATS_TIMEZONE"
	KeyLogFile        = "STATS_LOG_FILE"
	KeyLogLevel       = "STATS_LOG_LEVEL"
	KeyNotify         = "STATS_NOTIFY"
	KeyTopPaths       = "STATS_TOP_PATHS"
)

// Default values
const (
	defaultBaseURL        = "http://localhost:8080"
	defaultPollInterval   = 5 * time.Second
	defaultRequestTimeout = 10 * time.Second
	defaultLogLevel       = "info"
	defaultNotify         = true
	defaultTopPaths       = 10

	appDirName = "stats-tui"
)
