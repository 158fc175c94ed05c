// Package config provides configuration management for the mudforge server.
// It handles environment variable loading, validation, and provides secure
// defaults for production deployment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"mudforge/pkg/retry"

	"github.com/sirupsen/logrus"
)

// Config represents the server configuration with environment variable support.
// All configuration values can be set via environment variables or will use
// secure defaults. Config has no getter methods and does not lock its own
// fields; callers that share one Config across goroutines and mutate it
// coordinate through its unexported mutex or their own.
type Config struct {
	mu sync.RWMutex `json:"-"`

	// ServerPort is the TCP port the telnet listener binds to.
	ServerPort int `json:"server_port"`

	// ServerHost is the interface the listener binds to; empty means all
	// interfaces.
	ServerHost string `json:"server_host"`

	// InactivityTimeout closes a session after this long with no input.
	InactivityTimeout time.Duration `json:"inactivity_timeout"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `json:"log_level"`

	// GameName and GameCreator are displayed in the login greeting.
	GameName    string `json:"game_name"`
	GameCreator string `json:"game_creator"`

	// OptionNegotiationTimeout bounds how long the transport waits for
	// telnet option negotiation to settle before declaring a session ready.
	OptionNegotiationTimeout time.Duration `json:"option_negotiation_timeout"`

	// Retry configuration, consumed by GetRetryConfig.

	RetryEnabled           bool          `json:"retry_enabled"`
	RetryMaxAttempts       int           `json:"retry_max_attempts"`
	RetryInitialDelay      time.Duration `json:"retry_initial_delay"`
	RetryMaxDelay          time.Duration `json:"retry_max_delay"`
	RetryBackoffMultiplier float64       `json:"retry_backoff_multiplier"`
	RetryJitterPercent     int           `json:"retry_jitter_percent"`

	// Persistence configuration.

	DataDir           string        `json:"data_dir"`
	AutoSaveInterval  time.Duration `json:"auto_save_interval"`
	EnablePersistence bool          `json:"enable_persistence"`

	// Tick configuration.

	RegenTickInterval    time.Duration `json:"regen_tick_interval"`
	CombatTickInterval   time.Duration `json:"combat_tick_interval"`
	RestockTickInterval  time.Duration `json:"restock_tick_interval"`
	HoursPerDay          int           `json:"hours_per_day"`
	DaysPerWeek          int           `json:"days_per_week"`
	MonthsPerYear        int           `json:"months_per_year"`

	// Server lifecycle timeouts.

	ShutdownTimeout     time.Duration `json:"shutdown_timeout"`
	ShutdownGracePeriod time.Duration `json:"shutdown_grace_period"`

	// MetricsPort serves /healthz and /metrics for the operator side
	// channel; 0 disables it.
	MetricsPort int `json:"metrics_port"`
}

// Load creates a new Config instance by reading from environment variables
// and applying secure defaults. It validates all configuration values and
// returns an error if any required values are missing or invalid.
func Load() (*Config, error) {
	logrus.WithFields(logrus.Fields{
		"function": "Load",
		"package":  "config",
	}).Debug("entering Load")

	config := &Config{
		ServerPort:               getEnvAsInt("MUD_PORT", 4000),
		ServerHost:                getEnvAsString("MUD_HOST", ""),
		InactivityTimeout:        getEnvAsDuration("MUD_INACTIVITY_TIMEOUT", 30*time.Minute),
		LogLevel:                 getEnvAsString("MUD_LOG_LEVEL", "info"),
		GameName:                 getEnvAsString("MUD_GAME_NAME", "MudForge"),
		GameCreator:              getEnvAsString("MUD_GAME_CREATOR", "the administrators"),
		OptionNegotiationTimeout: getEnvAsDuration("MUD_NEGOTIATION_TIMEOUT", 2*time.Second),

		RetryEnabled:           getEnvAsBool("MUD_RETRY_ENABLED", true),
		RetryMaxAttempts:       getEnvAsInt("MUD_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay:      getEnvAsDuration("MUD_RETRY_INITIAL_DELAY", 100*time.Millisecond),
		RetryMaxDelay:          getEnvAsDuration("MUD_RETRY_MAX_DELAY", 30*time.Second),
		RetryBackoffMultiplier: getEnvAsFloat64("MUD_RETRY_BACKOFF_MULTIPLIER", 2.0),
		RetryJitterPercent:     getEnvAsInt("MUD_RETRY_JITTER_PERCENT", 10),

		DataDir:           getEnvAsString("MUD_DATA_DIR", "./data"),
		AutoSaveInterval:  getEnvAsDuration("MUD_AUTO_SAVE_INTERVAL", 5*time.Minute),
		EnablePersistence: getEnvAsBool("MUD_ENABLE_PERSISTENCE", true),

		RegenTickInterval:   getEnvAsDuration("MUD_REGEN_TICK_INTERVAL", 1*time.Second),
		CombatTickInterval:  getEnvAsDuration("MUD_COMBAT_TICK_INTERVAL", 2*time.Second),
		RestockTickInterval: getEnvAsDuration("MUD_RESTOCK_TICK_INTERVAL", 5*time.Minute),
		HoursPerDay:         getEnvAsInt("MUD_HOURS_PER_DAY", 24),
		DaysPerWeek:         getEnvAsInt("MUD_DAYS_PER_WEEK", 7),
		MonthsPerYear:       getEnvAsInt("MUD_MONTHS_PER_YEAR", 12),

		ShutdownTimeout:     getEnvAsDuration("MUD_SHUTDOWN_TIMEOUT", 30*time.Second),
		ShutdownGracePeriod: getEnvAsDuration("MUD_SHUTDOWN_GRACE_PERIOD", 1*time.Second),

		MetricsPort: getEnvAsInt("MUD_METRICS_PORT", 9090),
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Load",
		"package":     "config",
		"server_port": config.ServerPort,
		"log_level":   config.LogLevel,
	}).Debug("configuration loaded, starting validation")

	if err := config.validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Load",
			"package":  "config",
			"error":    err,
		}).Error("configuration validation failed")
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validate checks that all configuration values are valid and consistent.
func (c *Config) validate() error {
	if err := c.validateServerSettings(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validateCalendar(); err != nil {
		return err
	}
	if err := c.validateRetryConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServerSettings() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.ServerPort)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	found := false
	for _, level := range validLogLevels {
		if strings.ToLower(c.LogLevel) == level {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("log level must be one of %v, got %s", validLogLevels, c.LogLevel)
	}

	return nil
}

func (c *Config) validateTimeouts() error {
	if c.InactivityTimeout < time.Minute {
		return fmt.Errorf("inactivity timeout must be at least 1 minute, got %v", c.InactivityTimeout)
	}
	if c.OptionNegotiationTimeout <= 0 {
		return fmt.Errorf("option negotiation timeout must be positive, got %v", c.OptionNegotiationTimeout)
	}
	return nil
}

func (c *Config) validateCalendar() error {
	if c.HoursPerDay < 1 || c.DaysPerWeek < 1 || c.MonthsPerYear < 1 {
		return fmt.Errorf("calendar configuration must have positive hours-per-day, days-per-week, and months-per-year")
	}
	return nil
}

// validateRetryConfig ensures retry policy parameters are valid when enabled.
func (c *Config) validateRetryConfig() error {
	if c.RetryEnabled {
		if c.RetryMaxAttempts < 1 {
			return fmt.Errorf("retry max attempts must be at least 1 when retry is enabled")
		}
		if c.RetryInitialDelay < 0 {
			return fmt.Errorf("retry initial delay must be non-negative when retry is enabled")
		}
		if c.RetryMaxDelay < c.RetryInitialDelay {
			return fmt.Errorf("retry max delay must be greater than or equal to initial delay when retry is enabled")
		}
		if c.RetryBackoffMultiplier <= 1.0 {
			return fmt.Errorf("retry backoff multiplier must be greater than 1.0 when retry is enabled")
		}
		if c.RetryJitterPercent < 0 || c.RetryJitterPercent > 100 {
			return fmt.Errorf("retry jitter percent must be between 0 and 100 when retry is enabled")
		}
	}
	return nil
}

// GetRetryConfig creates a retry.RetryConfig from the current configuration,
// usable directly with retry.NewRetrier().
func (c *Config) GetRetryConfig() retry.RetryConfig {
	return retry.RetryConfig{
		MaxAttempts:       c.RetryMaxAttempts,
		InitialDelay:      c.RetryInitialDelay,
		MaxDelay:          c.RetryMaxDelay,
		BackoffMultiplier: c.RetryBackoffMultiplier,
		JitterMaxPercent:  c.RetryJitterPercent,
		RetryableErrors:   []error{},
	}
}

// Helper functions for environment variable parsing with type safety and
// defaults.

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
