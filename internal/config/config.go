// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the application configuration.
type Config struct {
	Location       *time.Location
	EnvPath        string // .env file the values came from, empty if none
	BaseURL        string
	Timezone       string
	LogFile        string
	LogLevel       string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	TopPaths       int
	Notify         bool
}

// source looks up a raw configuration value.
type source func(key string) string

// Load reads configuration from the first .env file found and the environment.
func Load() (*Config, error) {
	return Reload(findEnvFile(getEnvPaths()))
}

// Reload reads configuration from the .env file at path and the environment.
// Values set in the process environment win over the file. An empty path
// reads the environment only.
func Reload(path string) (*Config, error) {
	fileValues := map[string]string{}
	if path != "" {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		fileValues = values
	}

	env := source(func(key string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		return fileValues[key]
	})

	cfg := &Config{
		EnvPath:        path,
		BaseURL:        strings.TrimRight(getEnvString(env, KeyBaseURL, defaultBaseURL), "/"),
		PollInterval:   getEnvDuration(env, KeyPollInterval, defaultPollInterval),
		RequestTimeout: getEnvDuration(env, KeyRequestTimeout, defaultRequestTimeout),
		Timezone:       getEnvString(env, KeyTimezone, ""),
		LogFile:        getEnvString(env, KeyLogFile, getDefaultLogPath()),
		LogLevel:       strings.ToLower(getEnvString(env, KeyLogLevel, defaultLogLevel)),
		Notify:         getEnvBool(env, KeyNotify, defaultNotify),
		TopPaths:       getEnvInt(env, KeyTopPaths, defaultTopPaths),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := ensureDir(filepath.Dir(cfg.LogFile)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration and resolves Location.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q", ErrInvalid, KeyBaseURL, c.BaseURL)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyPollInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyRequestTimeout)
	}
	if c.TopPaths <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyTopPaths)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %s must be one of debug, info, warn, error, got %q", ErrInvalid, KeyLogLevel, c.LogLevel)
	}

	loc, err := loadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, KeyTimezone, err)
	}
	c.Location = loc

	return nil
}

// TimezoneName returns the configured zone, or the system zone name.
func (c *Config) TimezoneName() string {
	if c.Timezone != "" {
		return c.Timezone
	}
	return time.Local.String()
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// findEnvFile returns the first existing path, or "".
func findEnvFile(paths []string) string {
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", appDirName, ".env"),
			filepath.Join(home, ".stats", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "stats.log"
	}
	return filepath.Join(home, ".config", appDirName, "stats.log")
}

// getEnvString retrieves a string value or returns the default.
func getEnvString(env source, key, defaultValue string) string {
	if value := strings.TrimSpace(env(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration value or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(env source, key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(env(key)); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean value or returns the default.
func getEnvBool(env source, key string, defaultValue bool) bool {
	if value := strings.TrimSpace(env(key)); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		switch strings.ToLower(value) {
		case "yes", "on":
			return true
		case "no", "off":
			return false
		}
	}
	return defaultValue
}

// getEnvInt retrieves an integer value or returns the default.
func getEnvInt(env source, key string, defaultValue int) int {
	if value := strings.TrimSpace(env(key)); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
