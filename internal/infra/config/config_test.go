package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"homework_status_bot/internal/domain/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PRACTICUM_TOKEN", "p-token")
	t.Setenv("TELEGRAM_TOKEN", "t-token")
	t.Setenv("TELEGRAM_CHAT_ID", "123456")
	for _, key := range []string{"PRACTICUM_ENDPOINT", "POLL_INTERVAL", "REQUEST_TIMEOUT", "LOG_LEVEL", "LOG_FILE", "ENVIRONMENT", "DATABASE_URL", "TELEGRAM_API_URL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "p-token", cfg.PracticumToken)
	assert.Equal(t, "t-token", cfg.TelegramToken)
	assert.Equal(t, "123456", cfg.TelegramChatID)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_MissingCredential(t *testing.T) {
	for _, key := range []string{"PRACTICUM_TOKEN", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
			require.Error(t, err)
			assert.True(t, failure.Is(err, failure.KindConfig))
			assert.Contains(t, err.Error(), key)
			assert.Equal(t, []string{key}, cfg.MissingVariables)
		})
	}
}

func TestLoad_AllMissingReportedTogether(t *testing.T) {
	setRequired(t)
	t.Setenv("PRACTICUM_TOKEN", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.Len(t, cfg.MissingVariables, 3)
}

func TestLoad_ChatIDIsOpaque(t *testing.T) {
	for _, chatID := range []string{"@homework_channel", "-1001234567890", "123456"} {
		t.Run(chatID, func(t *testing.T) {
			setRequired(t)
			t.Setenv("TELEGRAM_CHAT_ID", chatID)

			cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
			require.NoError(t, err)
			assert.Equal(t, chatID, cfg.TelegramChatID)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_INTERVAL", "often")
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.True(t, failure.Is(err, failure.KindConfig))

	setRequired(t)
	t.Setenv("REQUEST_TIMEOUT", "-1s")
	_, err = Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.True(t, failure.Is(err, failure.KindConfig))
}

func TestLoad_EnvFileDoesNotOverride(t *testing.T) {
	setRequired(t)
	// godotenv only fills variables that are absent, not merely empty.
	require.NoError(t, os.Unsetenv("POLL_INTERVAL"))
	envFile := filepath.Join(t.TempDir(), "bot.env")
	require.NoError(t, os.WriteFile(envFile, []byte("POLL_INTERVAL=5m\nPRACTICUM_TOKEN=from-file\n"), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "p-token", cfg.PracticumToken)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
}
