package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Backends accepted by DATA_BACKEND.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Preference backends accepted by PREFS_BACKEND.
const (
	PrefsState = "state"
	PrefsRedis = "redis"
)

type Config struct {
	// HTTP Server
	Port     string
	LogLevel string

	// State container
	DataBackend  string
	SQLiteDBPath string
	PrefsBackend string
	RedisAddr    string
	SeedOnStart  bool

	// AMQP alert notifications, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Categorization
	CategoryMapFile string
	NeedsCategories []string
	WantsCategories []string

	// Default budget, dollar strings
	DefaultNeedsBudget   string
	DefaultWantsBudget   string
	DefaultSavingsBudget string

	// Rate limiting on mutating routes
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() *Config {
	cfg := &Config{
		Port:     getEnv("PORT", "8081"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataBackend:  getEnv("DATA_BACKEND", BackendMemory),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finmate.db"),
		PrefsBackend: getEnv("PREFS_BACKEND", PrefsState),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		SeedOnStart:  getEnvBool("SEED_ON_START", false),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finmate"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "budget_alerts"),

		CategoryMapFile: getEnv("CATEGORY_MAP_FILE", ""),
		NeedsCategories: getEnvList("NEEDS_CATEGORIES"),
		WantsCategories: getEnvList("WANTS_CATEGORIES"),

		DefaultNeedsBudget:   getEnv("DEFAULT_NEEDS_BUDGET", "500"),
		DefaultWantsBudget:   getEnv("DEFAULT_WANTS_BUDGET", "200"),
		DefaultSavingsBudget: getEnv("DEFAULT_SAVINGS_BUDGET", "300"),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{BackendMemory, BackendSQLite}
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == BackendSQLite {
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
	}

	validPrefs := []string{PrefsState, PrefsRedis}
	if !slices.Contains(validPrefs, c.PrefsBackend) {
		errors = append(errors, fmt.Sprintf("invalid preferences backend '%s': must be one of %v", c.PrefsBackend, validPrefs))
	}
	if c.PrefsBackend == PrefsRedis && c.RedisAddr == "" {
		errors = append(errors, "REDIS_ADDR is required when using redis preferences backend")
	}

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

	if c.CategoryMapFile != "" {
		if _, err := os.Stat(c.CategoryMapFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("category map file does not exist: %s", c.CategoryMapFile))
		}
	}

	for _, b := range []struct{ key, value string }{
		{"DEFAULT_NEEDS_BUDGET", c.DefaultNeedsBudget},
		{"DEFAULT_WANTS_BUDGET", c.DefaultWantsBudget},
		{"DEFAULT_SAVINGS_BUDGET", c.DefaultSavingsBudget},
	} {
		if _, err := parseBudget(b.value); err != nil {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': %v", b.key, b.value, err))
		}
	}

	if c.RateLimitRPS <= 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %v: must be positive", c.RateLimitRPS))
	}
	if c.RateLimitBurst < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit burst %d: must be at least 1", c.RateLimitBurst))
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks. Nil when unset.
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
