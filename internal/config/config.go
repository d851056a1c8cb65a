package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	// HTTP Server
	Host        string
	Port        string
	CORSOrigins []string

	// Database
	DataBackend  string
	SQLiteDBPath string

	// Output directories
	AssetsDir     string
	ReceiptsDir   string
	BackupsDir    string
	PrintSpoolDir string

	// Rendering
	RenderCommand string
	RenderTimeout time.Duration
	BackupXLSX    bool

	// Printing
	PrintCommand string
	PrintQueue   bool

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Auth
	JWTSecret         string
	TokenTTL          time.Duration
	SeedAdminPassword string
	SeedStaffPassword string

	// Scheduling
	Timezone       string
	BackupSchedule string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	cfg := &Config{
		Host:        getEnv("HOST", "127.0.0.1"),
		Port:        getEnv("PORT", "8081"),
		CORSOrigins: getEnvList("CORS_ORIGINS"),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/temple.db"),

		AssetsDir:     getEnv("ASSETS_DIR", "./assets"),
		ReceiptsDir:   getEnv("RECEIPTS_DIR", "./receipts"),
		BackupsDir:    getEnv("BACKUPS_DIR", "./backups"),
		PrintSpoolDir: getEnv("PRINT_SPOOL_DIR", "./print-spool"),

		RenderCommand: getEnv("RENDER_COMMAND", ""),
		RenderTimeout: getEnvDuration("RENDER_TIMEOUT", 30*time.Second),
		BackupXLSX:    getEnvBool("BACKUP_XLSX", true),

		PrintCommand: getEnv("PRINT_COMMAND", ""),
		PrintQueue:   getEnvBool("PRINT_QUEUE", false),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "temple"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "print_jobs"),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenTTL:          getEnvDuration("TOKEN_TTL", 12*time.Hour),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
		SeedStaffPassword: getEnv("SEED_STAFF_PASSWORD", "staff123"),

		Timezone:       getEnv("TIMEZONE", "Local"),
		BackupSchedule: getEnv("BACKUP_SCHEDULE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return cfg
}

// Location resolves Timezone. Validate reports an unknown zone, so callers
// that validated first can ignore the error.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
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
	validBackends := []string{"memory", "sqlite"}
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

	if c.DataBackend == "sqlite" {
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

	for name, dir := range map[string]string{
		"receipts":    c.ReceiptsDir,
		"backups":     c.BackupsDir,
		"print spool": c.PrintSpoolDir,
	} {
		if dir == "" {
			errors = append(errors, fmt.Sprintf("%s directory cannot be empty", name))
		}
	}
	if c.AssetsDir == "" {
		errors = append(errors, "assets directory cannot be empty")
	}

	if c.RenderTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid render timeout %v: must be at least 1 second", c.RenderTimeout))
	} else if c.RenderTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid render timeout %v: must be at most 5 minutes", c.RenderTimeout))
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.BackupSchedule != "" {
		if _, err := cron.ParseStandard(c.BackupSchedule); err != nil {
			errors = append(errors, fmt.Sprintf("invalid backup schedule '%s': %v", c.BackupSchedule, err))
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
	if c.PrintQueue && c.AMQPURL == "" {
		errors = append(errors, "AMQP URL is required when PRINT_QUEUE is enabled")
	}

	if c.TokenTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid token TTL %v: must be at least 1 minute", c.TokenTTL))
	}
	if c.SeedAdminPassword == "" || c.SeedStaffPassword == "" {
		errors = append(errors, "seed passwords cannot be empty")
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Return combined errors
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
