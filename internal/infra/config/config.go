package config

import (
	"fmt"
	"os"
	"strings" // For LogLevel normalization
	"time"

	"homework_status_bot/internal/domain/failure"

	"github.com/joho/godotenv"
)

const (
	DefaultPollInterval   = 600 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogFile        = "program.log"

	opLoad = "load config"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken   string
	TelegramToken    string
	TelegramChatID   string // numeric id or @channelusername, passed through as is
	PracticumURL     string // empty means practicum.DefaultEndpoint
	TelegramAPIURL   string // empty means the public Bot API
	PollInterval     time.Duration
	RequestTimeout   time.Duration
	DatabaseURL      string // optional, enables the delivery journal
	LogLevel         string
	LogFile          string
	Environment      string
	MissingVariables []string // filled only when Load fails on required variables
}

// Load reads configuration from environment variables and the given .env
// files (".env" when none are given). Files never override variables that
// are already set. Every missing credential is reported in one error; the
// returned config still carries the logging settings in that case.
func Load(envFiles ...string) (*AppConfig, error) {
	// Errors are ignored: the files are optional.
	_ = godotenv.Load(envFiles...)

	cfg := &AppConfig{}
	var missing []string

	// Logging settings come first: the caller needs them to report a failed load.
	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	cfg.LogFile = os.Getenv("LOG_FILE")
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.PracticumToken = os.Getenv("PRACTICUM_TOKEN")
	if cfg.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}

	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	if cfg.TelegramChatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}

	if len(missing) > 0 {
		cfg.MissingVariables = missing
		return cfg, failure.New(failure.KindConfig, opLoad,
			fmt.Sprintf("required environment variables are not set: %s", strings.Join(missing, ", ")))
	}

	cfg.PracticumURL = os.Getenv("PRACTICUM_ENDPOINT") // empty means the client default
	cfg.TelegramAPIURL = os.Getenv("TELEGRAM_API_URL")

	var err error
	if cfg.PollInterval, err = durationEnv("POLL_INTERVAL", DefaultPollInterval); err != nil {
		return cfg, err
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", DefaultRequestTimeout); err != nil {
		return cfg, err
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, failure.Wrap(failure.KindConfig, opLoad, err, "invalid "+key)
	}
	if d <= 0 {
		return 0, failure.New(failure.KindConfig, opLoad, key+" must be positive")
	}
	return d, nil
}
