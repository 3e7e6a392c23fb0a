package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort         = "8080"
	defaultAppEnv       = "dev"
	defaultAppURL       = "http://localhost:8080"
	defaultVerifyTTL    = "15m"
	defaultMailFrom     = "noreply@localhost"
	defaultMailQueueLen = "64"
)

// Config carries everything the composition root needs to wire the
// process. All external clients (database, object storage, mailer) are
// constructed from it at startup; nothing reads the environment later.
type Config struct {
	AppEnv string
	Port   string
	AppURL string

	DatabaseURL string

	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string

	EmailVerification bool
	VerifyTokenTTL    time.Duration
	ResendAPIKey      string
	EmailFrom         string
	MailQueueLen      int

	LogFile string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:      strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", defaultAppEnv))),
		Port:        strings.TrimSpace(getEnv("PORT", defaultPort)),
		AppURL:      strings.TrimRight(strings.TrimSpace(getEnv("APP_URL", defaultAppURL)), "/"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		S3Bucket:    strings.TrimSpace(os.Getenv("S3_BUCKET_NAME")),
		S3Region:    strings.TrimSpace(getEnv("AWS_REGION", "us-east-1")),
		S3AccessKey: strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID")),
		S3SecretKey: strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY")),
		S3Endpoint:  strings.TrimSpace(os.Getenv("S3_ENDPOINT")),

		EmailVerification: parseBoolEnv("EMAIL_VERIFICATION", "false"),
		ResendAPIKey:      strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		EmailFrom:         strings.TrimSpace(getEnv("EMAIL_FROM", defaultMailFrom)),

		LogFile: strings.TrimSpace(os.Getenv("LOG_FILE")),
	}

	var err error
	cfg.VerifyTokenTTL, err = parseDurationEnv("VERIFY_TOKEN_TTL", defaultVerifyTTL)
	if err != nil {
		return nil, err
	}
	cfg.MailQueueLen, err = parseIntEnv("MAIL_QUEUE_LEN", defaultMailQueueLen)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.AppEnv != "prod" && c.AppEnv != "production" && c.AppEnv != "release"
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET_NAME is empty")
	}
	if cfg.VerifyTokenTTL <= 0 {
		return fmt.Errorf("VERIFY_TOKEN_TTL must be > 0")
	}
	if cfg.MailQueueLen <= 0 {
		return fmt.Errorf("MAIL_QUEUE_LEN must be > 0")
	}
	if !cfg.IsDev() && cfg.EmailVerification && cfg.ResendAPIKey == "" {
		return fmt.Errorf("in prod RESEND_API_KEY must be set when EMAIL_VERIFICATION is on")
	}
	return nil
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
