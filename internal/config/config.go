package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App     AppConfig
	Baserow BaserowConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Auth    AuthConfig
	SMTP    SMTPConfig
	Links   LinksConfig
	Jobs    JobsConfig
	Notify  NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BaserowConfig holds row-store connection values. Each entity lives in
// its own table, addressed by numeric table ID.
type BaserowConfig struct {
	BaseURL               string
	APIToken              string
	TestersTableID        string
	FeedbackTableID       string
	IncidentsTableID      string
	CommunicationsTableID string
	TemplatesTableID      string
	TimeoutSeconds        int
}

// RedisConfig holds Redis connection values for the rate limiter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines the single-admin authentication parameters.
type AuthConfig struct {
	JWTSecret         string
	TokenTTLHours     int
	AdminEmail        string
	AdminPasswordHash string
}

// SMTPConfig holds mail provider credentials. Email sending is disabled
// when Host is empty.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LinksConfig holds URLs substituted into email templates.
type LinksConfig struct {
	FrontendURL   string
	PlayStoreLink string
}

// JobsConfig holds cron expressions for the nightly sweeps.
type JobsConfig struct {
	Enabled              bool
	DailyEmailSchedule   string
	InactivitySchedule   string
	RateLimitPerMinute   int
	PublicLimitPerMinute int
}

// NotificationConfig controls the optional webhook fired on domain
// events. Disabled when WebhookURL is empty.
type NotificationConfig struct {
	WebhookURL     string
	TimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "beta-manager-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Baserow: BaserowConfig{
			BaseURL:               getEnv("BASEROW_BASE_URL", "https://api.baserow.io/api"),
			APIToken:              os.Getenv("BASEROW_API_TOKEN"),
			TestersTableID:        os.Getenv("BASEROW_TESTERS_TABLE_ID"),
			FeedbackTableID:       os.Getenv("BASEROW_FEEDBACK_TABLE_ID"),
			IncidentsTableID:      os.Getenv("BASEROW_INCIDENTS_TABLE_ID"),
			CommunicationsTableID: os.Getenv("BASEROW_COMMUNICATIONS_TABLE_ID"),
			TemplatesTableID:      os.Getenv("BASEROW_TEMPLATES_TABLE_ID"),
			TimeoutSeconds:        getEnvAsInt("BASEROW_TIMEOUT_SECONDS", 15),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("AUTH_JWT_SECRET", "dev-secret"),
			TokenTTLHours:     getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 24),
			AdminEmail:        os.Getenv("ADMIN_EMAIL"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     getEnv("EMAIL_FROM", "noreply@example.com"),
		},
		Links: LinksConfig{
			FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
			PlayStoreLink: os.Getenv("PLAY_STORE_LINK"),
		},
		Jobs: JobsConfig{
			Enabled:              getEnvAsBool("JOBS_ENABLED", true),
			DailyEmailSchedule:   getEnv("JOBS_DAILY_EMAIL_SCHEDULE", "0 9 * * *"),
			InactivitySchedule:   getEnv("JOBS_INACTIVITY_SCHEDULE", "0 10 * * *"),
			RateLimitPerMinute:   getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			PublicLimitPerMinute: getEnvAsInt("PUBLIC_RATE_LIMIT_PER_MINUTE", 10),
		},
		Notify: NotificationConfig{
			WebhookURL:     os.Getenv("NOTIFY_WEBHOOK_URL"),
			TimeoutSeconds: getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 5),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the row-store request timeout duration.
func (b BaserowConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// Configured reports whether the mail provider credentials are present.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.Username != "" && s.Password != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
