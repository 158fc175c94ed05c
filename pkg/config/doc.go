// Package config provides configuration management for the mudforge server.
//
// This package handles environment variable loading with type-safe parsing,
// applies secure production defaults, and performs extensive validation of
// all configuration values.
//
// # Loading Configuration
//
// Configuration is loaded from environment variables with the MUD_ prefix:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Environment Variables
//
// Server settings:
//   - MUD_PORT: telnet listener port (default: 4000)
//   - MUD_HOST: listener interface (default: all interfaces)
//   - MUD_LOG_LEVEL: logging verbosity (default: "info")
//   - MUD_GAME_NAME, MUD_GAME_CREATOR: displayed in the login greeting
//
// Timeouts:
//   - MUD_INACTIVITY_TIMEOUT: session idle timeout (default: 30m)
//   - MUD_NEGOTIATION_TIMEOUT: option negotiation deadline (default: 2s)
//
// Retry policy:
//   - MUD_RETRY_MAX_ATTEMPTS: maximum retries (default: 3)
//   - MUD_RETRY_INITIAL_DELAY: first retry delay (default: 100ms)
//   - MUD_RETRY_MAX_DELAY: maximum retry delay (default: 30s)
//   - MUD_RETRY_BACKOFF_MULTIPLIER: backoff factor (default: 2.0)
//
// Persistence:
//   - MUD_DATA_DIR: data storage directory (default: "./data")
//   - MUD_AUTO_SAVE_INTERVAL: auto-save frequency (default: 5m)
//
// Tick/calendar:
//   - MUD_REGEN_TICK_INTERVAL, MUD_COMBAT_TICK_INTERVAL, MUD_RESTOCK_TICK_INTERVAL
//   - MUD_HOURS_PER_DAY, MUD_DAYS_PER_WEEK, MUD_MONTHS_PER_YEAR
//
// # Validation
//
// All configuration values are validated on load: port range, timeout
// minimums, calendar sanity, and retry policy consistency.
//
// # Retry Configuration
//
// GetRetryConfig returns a retry.RetryConfig that can be used directly
// with the retry package:
//
//	retryConfig := cfg.GetRetryConfig()
//	retrier := retry.NewRetrier(retryConfig)
package config
