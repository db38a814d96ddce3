package stencil

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all configuration options for the Stencil engine
type Config struct {
	// CacheMaxSize is the maximum number of templates to cache. 0 disables caching.
	CacheMaxSize int `yaml:"cache_max_size"`
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// StrictMode turns unrecognized and malformed lines into render errors
	StrictMode bool `yaml:"strict_mode"`
	// KeepTagLines copies tag lines to the output verbatim instead of dropping them
	KeepTagLines bool `yaml:"keep_tag_lines"`
	// TrimVariableNames lets document rendering resolve "{{ name }}" with the
	// key "name" when the verbatim name is not in the context
	TrimVariableNames bool `yaml:"trim_variable_names"`
}

var (
	// initialized as a package variable so the default engine and cache see it
	globalConfig      = ConfigFromEnvironment()
	globalConfigMutex sync.RWMutex
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize:      100,
		CacheTTL:          0,
		LogLevel:          "info",
		StrictMode:        false,
		KeepTagLines:      false,
		TrimVariableNames: false,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// STENCIL_CACHE_MAX_SIZE
	if val := os.Getenv("STENCIL_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	// STENCIL_CACHE_TTL
	if val := os.Getenv("STENCIL_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	// STENCIL_LOG_LEVEL
	if val := os.Getenv("STENCIL_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// STENCIL_STRICT_MODE
	if val := os.Getenv("STENCIL_STRICT_MODE"); val != "" {
		config.StrictMode = parseBool(val)
	}

	// STENCIL_KEEP_TAG_LINES
	if val := os.Getenv("STENCIL_KEEP_TAG_LINES"); val != "" {
		config.KeepTagLines = parseBool(val)
	}

	// STENCIL_TRIM_VARIABLE_NAMES
	if val := os.Getenv("STENCIL_TRIM_VARIABLE_NAMES"); val != "" {
		config.TrimVariableNames = parseBool(val)
	}

	return config
}

// LoadConfigFile reads a YAML configuration file on top of the environment
// configuration. Keys missing from the file keep their environment or default
// values. An empty path returns the environment configuration.
func LoadConfigFile(path string) (*Config, error) {
	config := ConfigFromEnvironment()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return config, nil
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	return nil
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
