package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// ----------------------------
	// SMTP
	// ----------------------------
	SMTPHost     string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"1025"`
	SMTPUser     string `envconfig:"SMTP_USER" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"noreply@letterforge.io"`
	SenderName   string `envconfig:"SENDER_NAME" default:"LetterForge"`

	// ----------------------------
	// Content provider
	// ----------------------------
	OpenAIKey          string        `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIModel        string        `envconfig:"OPENAI_MODEL" default:"gpt-4"`
	ProviderRetries    int           `envconfig:"PROVIDER_RETRIES" default:"5"`
	ProviderRetryBase  time.Duration `envconfig:"PROVIDER_RETRY_BASE" default:"60s"`
	ImagesEnabled      bool          `envconfig:"IMAGES_ENABLED" default:"true"`
	ImageRateLimit     int           `envconfig:"IMAGE_RATE_LIMIT" default:"15"`
	ImageRateWindow    time.Duration `envconfig:"IMAGE_RATE_WINDOW" default:"60s"`

	// ----------------------------
	// Generation queue
	// ----------------------------
	MaxAttempts          int           `envconfig:"MAX_ATTEMPTS" default:"3"`
	PollInterval         time.Duration `envconfig:"POLL_INTERVAL" default:"1s"`
	WorkerRetryDelay     time.Duration `envconfig:"WORKER_RETRY_DELAY" default:"5s"`
	WorkerMaxRetryDelay  time.Duration `envconfig:"WORKER_MAX_RETRY_DELAY" default:"60s"`
	MaxConsecutiveErrors int           `envconfig:"MAX_CONSECUTIVE_ERRORS" default:"5"`
	ErrorCooldown        time.Duration `envconfig:"ERROR_COOLDOWN" default:"5m"`

	// ----------------------------
	// HTTP API
	// ----------------------------
	APIPort string `envconfig:"API_PORT" default:"8080"`

	// ----------------------------
	// Metrics
	// ----------------------------
	MetricsPort string `envconfig:"METRICS_PORT" default:"9090"`

	// ----------------------------
	// Database
	// ----------------------------
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return &cfg, err
}
