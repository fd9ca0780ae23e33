package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Data backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendSheets = "sheets"
)

// Default login, matching the placeholder credentials the dashboard has
// always shipped with.
const (
	DefaultUsername = "Banking_Analytics"
	DefaultPassword = "Secure123"
)

type Config struct {
	// HTTP Server
	Port string

	// Dataset
	DataBackend  string
	DatasetPath  string
	SQLiteDBPath string

	// ReloadInterval re-reads the source periodically; zero disables it
	ReloadInterval time.Duration

	// AMQP, optional; empty URL disables snapshot notifications
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleSheetRange    string

	// Login
	DashboardUsername string
	DashboardPassword string
	SessionTTL        time.Duration
	MaxSessions       int

	// LoginAttemptsPerMinute bounds POST /login per client IP
	LoginAttemptsPerMinute int
	// TrustedProxies are extra CIDRs whose forwarding headers are honored
	TrustedProxies []string

	// Section result cache
	ResultCacheSize int
	ResultCacheTTL  time.Duration

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:    getEnv("DATA_BACKEND", BackendCSV),
		DatasetPath:    getEnv("DATASET_PATH", "banking_data.csv"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/bankdash.db"),
		ReloadInterval: getEnvDuration("RELOAD_INTERVAL", 0),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "bankdash"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "dataset_imported"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetRange:    getEnv("GOOGLE_SHEET_RANGE", "A:Z"),

		DashboardUsername:      getEnv("DASHBOARD_USERNAME", DefaultUsername),
		DashboardPassword:      getEnv("DASHBOARD_PASSWORD", DefaultPassword),
		SessionTTL:             getEnvDuration("SESSION_TTL", 8*time.Hour),
		MaxSessions:            getEnvInt("MAX_SESSIONS", 1000),
		LoginAttemptsPerMinute: getEnvInt("LOGIN_ATTEMPTS_PER_MINUTE", 10),
		TrustedProxies:         getEnvList("TRUSTED_PROXIES"),

		ResultCacheSize: getEnvInt("RESULT_CACHE_SIZE", 256),
		ResultCacheTTL:  getEnvDuration("RESULT_CACHE_TTL", 10*time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// AMQPEnabled reports whether snapshot notifications are configured.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{BackendCSV, BackendSQLite, BackendSheets}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendCSV:
		if c.DatasetPath == "" {
			errors = append(errors, "dataset path cannot be empty when using csv backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case BackendSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.DashboardUsername == "" || c.DashboardPassword == "" {
		errors = append(errors, "dashboard username and password cannot be empty")
	}
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.MaxSessions < 1 {
		errors = append(errors, fmt.Sprintf("invalid max sessions %d: must be at least 1", c.MaxSessions))
	}
	if c.LoginAttemptsPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid login attempts per minute %d: must be at least 1", c.LoginAttemptsPerMinute))
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy '%s': must be a CIDR", cidr))
		}
	}
	if c.ReloadInterval != 0 && c.ReloadInterval < 10*time.Second {
		errors = append(errors, fmt.Sprintf("invalid reload interval %v: must be 0 or at least 10 seconds", c.ReloadInterval))
	}

	if c.ResultCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid result cache size %d: must be at least 1", c.ResultCacheSize))
	} else if c.ResultCacheSize > 100000 {
		errors = append(errors, fmt.Sprintf("invalid result cache size %d: must be at most 100000", c.ResultCacheSize))
	}
	if c.ResultCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid result cache TTL %v: must be at least 1 second", c.ResultCacheTTL))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
