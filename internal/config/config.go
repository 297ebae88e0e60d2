package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	EventLog EventLogConfig
	Decoy    DecoyConfig
	Alerts   AlertsConfig
	Reporter ReporterConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	TrustedProxies []string
	ServerHeader   string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

type EventLogConfig struct {
	Path string
}

type DecoyConfig struct {
	HoneypotAPIKeys        []string
	StatsAPIKeys           []string
	StatsRequestsPerMinute int
	TarpitBaseDelayMs      int
	TarpitRandomDelayMs    int
}

// AlertsConfig controls brute force alert e-mails. Alerts are only sent when
// EmailTo is set.
type AlertsConfig struct {
	EmailTo            []string
	EmailFrom          string
	AWSRegion          string
	Timeout            time.Duration
	BreakerTimeout     time.Duration
	BreakerMaxFailures int
}

type ReporterConfig struct {
	Interval time.Duration
}

// Enabled reports whether alert e-mails should be sent
func (c AlertsConfig) Enabled() bool {
	return len(c.EmailTo) > 0
}

// devHoneypotKeys are accepted outside production when HONEYPOT_API_KEYS is unset
var devHoneypotKeys = []string{"guvi-secret-key-123", "dev-fallback-key"}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8000"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
			ServerHeader:   getEnv("SERVER_HEADER", "uvicorn"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		},
		EventLog: EventLogConfig{
			Path: getEnv("EVENT_LOG_PATH", "attacks.log"),
		},
		Decoy: DecoyConfig{
			HoneypotAPIKeys:        getEnvAsList("HONEYPOT_API_KEYS"),
			StatsAPIKeys:           getEnvAsList("STATS_API_KEYS"),
			StatsRequestsPerMinute: getEnvAsInt("STATS_REQUESTS_PER_MINUTE", 30),
			TarpitBaseDelayMs:      getEnvAsInt("TARPIT_BASE_DELAY_MS", 300),
			TarpitRandomDelayMs:    getEnvAsInt("TARPIT_RANDOM_DELAY_MS", 200),
		},
		Alerts: AlertsConfig{
			EmailTo:            getEnvAsList("ALERT_EMAIL_TO"),
			EmailFrom:          getEnv("ALERT_EMAIL_FROM", ""),
			AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
			Timeout:            getEnvAsDuration("ALERT_TIMEOUT", 10*time.Second),
			BreakerTimeout:     getEnvAsDuration("ALERT_BREAKER_TIMEOUT", 60*time.Second),
			BreakerMaxFailures: getEnvAsInt("ALERT_BREAKER_MAX_FAILURES", 3),
		},
		Reporter: ReporterConfig{
			Interval: getEnvAsDuration("STATS_REPORT_INTERVAL", 5*time.Minute),
		},
	}

	if len(cfg.Decoy.HoneypotAPIKeys) == 0 {
		if env == "production" {
			return nil, fmt.Errorf("HONEYPOT_API_KEYS is required in production")
		}
		cfg.Decoy.HoneypotAPIKeys = devHoneypotKeys
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.EventLog.Path == "" {
		return fmt.Errorf("EVENT_LOG_PATH cannot be empty")
	}

	if c.Decoy.TarpitBaseDelayMs < 0 || c.Decoy.TarpitRandomDelayMs < 0 {
		return fmt.Errorf("TARPIT_BASE_DELAY_MS and TARPIT_RANDOM_DELAY_MS must not be negative")
	}

	// the tar-pit runs inside the request, so it has to finish before the server gives up on the write
	maxTarpit := time.Duration(c.Decoy.TarpitBaseDelayMs+c.Decoy.TarpitRandomDelayMs) * time.Millisecond
	if maxTarpit >= c.Server.WriteTimeout || maxTarpit >= c.Server.RequestTimeout {
		return fmt.Errorf("tar-pit delay (%s) must be shorter than SERVER_WRITE_TIMEOUT and REQUEST_TIMEOUT", maxTarpit)
	}

	if c.Decoy.StatsRequestsPerMinute <= 0 {
		return fmt.Errorf("STATS_REQUESTS_PER_MINUTE must be positive (got %d)", c.Decoy.StatsRequestsPerMinute)
	}

	if c.Alerts.Enabled() {
		if c.Alerts.EmailFrom == "" {
			return fmt.Errorf("ALERT_EMAIL_FROM is required when ALERT_EMAIL_TO is set")
		}
		if c.Alerts.BreakerMaxFailures <= 0 {
			return fmt.Errorf("ALERT_BREAKER_MAX_FAILURES must be positive (got %d)", c.Alerts.BreakerMaxFailures)
		}
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

// getEnvAsList splits a comma separated variable, dropping blank entries
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
