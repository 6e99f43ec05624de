package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Names of the environment variables required to start.
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

const (
	DefaultEndpoint       = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultRetryPeriod    = 10 * time.Minute
	DefaultRequestTimeout = 30 * time.Second
	DefaultSendRate       = 1
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID string // Parsed with ChatID after CheckTokens succeeded

	Endpoint       string
	RetryPeriod    time.Duration // Pause between two polling cycles
	RequestTimeout time.Duration
	SendRate       int // Telegram messages per second

	LogLevel    string
	Environment string
	LogFile     string // Optional, logs go to stdout as well

	DatabaseURL string // Optional delivery journal
	MetricsAddr string // Optional /metrics and /healthz listener
}

// Load reads configuration from environment variables and .env file (if present).
// Required credentials are not validated here, see CheckTokens.
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{
		PracticumToken: strings.TrimSpace(os.Getenv(EnvPracticumToken)),
		TelegramToken:  strings.TrimSpace(os.Getenv(EnvTelegramToken)),
		TelegramChatID: strings.TrimSpace(os.Getenv(EnvTelegramChatID)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		LogFile:        os.Getenv("LOG_FILE"),
	}
	var err error

	cfg.Endpoint = os.Getenv("PRACTICUM_ENDPOINT")
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	cfg.RetryPeriod, err = durationEnv("RETRY_PERIOD", DefaultRetryPeriod)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", DefaultRequestTimeout)
	if err != nil {
		return nil, err
	}

	cfg.SendRate = DefaultSendRate
	if v := os.Getenv("TELEGRAM_SEND_RATE"); v != "" {
		cfg.SendRate, err = strconv.Atoi(v)
		if err != nil || cfg.SendRate <= 0 {
			return nil, fmt.Errorf("invalid TELEGRAM_SEND_RATE %q: must be a positive integer", v)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %s", name, v)
	}
	return d, nil
}

// CheckTokens reports whether all credentials are present. Variables are
// checked in a fixed order and the last missing one is returned. The failure
// is logged at fatal level without exiting; stopping is up to the caller.
func (c *AppConfig) CheckTokens(logger *logrus.Logger) (string, bool) {
	var missing string
	if c.PracticumToken == "" {
		missing = EnvPracticumToken
	}
	if c.TelegramToken == "" {
		missing = EnvTelegramToken
	}
	if c.TelegramChatID == "" {
		missing = EnvTelegramChatID
	}
	if missing == "" {
		return "", true
	}
	logger.WithField("variable", missing).Log(logrus.FatalLevel, "Missing required environment variable")
	return missing, false
}

// ChatID parses TelegramChatID.
func (c *AppConfig) ChatID() (int64, error) {
	id, err := strconv.ParseInt(c.TelegramChatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", EnvTelegramChatID, err)
	}
	return id, nil
}
