package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is resolved once at startup and handed to every component.
// Business logic never reads the environment directly.
type Config struct {
	SlackBotToken          string
	SlackSigningSecret     string
	SlackVerificationToken string

	ArchiveChannelID     string
	ArchiveLookBackHours int
	ArchiveExportDir     string
	ArchiveDelay         time.Duration

	MailChannelID     string
	MailLookBackHours int

	// APICallInterval paces outbound Slack/Gmail calls. Fixed interval,
	// not adaptive backoff.
	APICallInterval time.Duration

	DBDriver string
	DBPath   string

	ListenSocket string
}

func Load() (*Config, error) {
	// .env is optional, real deployments use the environment as-is
	_ = godotenv.Load()

	c := &Config{
		SlackBotToken:          os.Getenv("SLACK_BOT_TOKEN"),
		SlackSigningSecret:     os.Getenv("SLACK_SIGNING_SECRET"),
		SlackVerificationToken: os.Getenv("SLACK_VERIFICATION_TOKEN"),
		ArchiveChannelID:       os.Getenv("ARCHIVE_CHANNEL_ID"),
		ArchiveExportDir:       os.Getenv("ARCHIVE_EXPORT_DIR"),
		MailChannelID:          os.Getenv("MAIL_CHANNEL_ID"),
		DBDriver:               os.Getenv("DB_DRIVER"),
		DBPath:                 os.Getenv("DB_PATH"),
		ListenSocket:           os.Getenv("LISTEN_SOCKET"),
	}

	if c.SlackBotToken == "" {
		return nil, fmt.Errorf("required environment variable not set: SLACK_BOT_TOKEN")
	}
	if c.SlackSigningSecret == "" && c.SlackVerificationToken == "" {
		return nil, fmt.Errorf("either SLACK_SIGNING_SECRET or SLACK_VERIFICATION_TOKEN must be set")
	}

	var err error
	c.ArchiveLookBackHours, err = intEnv("ARCHIVE_LOOKBACK_HOURS", 24)
	if err != nil {
		return nil, err
	}
	c.MailLookBackHours, err = intEnv("MAIL_LOOKBACK_HOURS", 24)
	if err != nil {
		return nil, err
	}
	c.APICallInterval, err = durationEnv("API_CALL_INTERVAL", time.Second)
	if err != nil {
		return nil, err
	}
	c.ArchiveDelay, err = durationEnv("ARCHIVE_DELAY", 5*time.Second)
	if err != nil {
		return nil, err
	}
	if c.ListenSocket == "" {
		c.ListenSocket = ":3000"
	}
	return c, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %d", key, v)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
