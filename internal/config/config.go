package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Telemetry TelemetryConfig

	InvoiceAPI InvoiceAPIConfig
	Redis      RedisConfig
	Numbering  NumberingConfig
	Store      StoreConfig
	Email      EmailConfig
}

// TelemetryConfig carries logging and OpenTelemetry export settings.
type TelemetryConfig struct {
	LogLevel      string
	LogFormat     string
	OtelEnabled   bool
	OtlpEndpoint  string
	OtlpProtocol  string
	SamplingRatio float64
}

// InvoiceAPIConfig points at the REST backend that persists invoices.
type InvoiceAPIConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

// NumberingConfig bounds the lock that serializes invoice number assignment.
type NumberingConfig struct {
	LockKey  string
	LockTTL  time.Duration
	LockWait time.Duration
}

// EmailConfig is the SMTP relay used to send invoices to customers.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

func (e EmailConfig) Enabled() bool {
	return strings.TrimSpace(e.SMTPHost) != ""
}

// StoreConfig configures the bundled invoice backend.
type StoreConfig struct {
	HTTPAddr string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	SnowflakeNode     int64
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "gembill"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		Telemetry: TelemetryConfig{
			LogLevel:      strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
			LogFormat:     strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
			OtelEnabled:   getenvBool("OTEL_ENABLED", false),
			OtlpEndpoint:  strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")),
			OtlpProtocol:  strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
			SamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		},
		InvoiceAPI: InvoiceAPIConfig{
			BaseURL:    strings.TrimSpace(getenv("INVOICE_API_BASE_URL", "https://invoiceusa.vercel.app/api")),
			Timeout:    getenvDuration("INVOICE_API_TIMEOUT", 10*time.Second),
			MaxRetries: getenvInt("INVOICE_API_MAX_RETRIES", 3),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
		},
		Numbering: NumberingConfig{
			LockKey:  getenv("NUMBERING_LOCK_KEY", "gembill:invoice-number"),
			LockTTL:  getenvDuration("NUMBERING_LOCK_TTL", 15*time.Second),
			LockWait: getenvDuration("NUMBERING_LOCK_WAIT", 5*time.Second),
		},
		Email: EmailConfig{
			SMTPHost:     strings.TrimSpace(getenv("SMTP_HOST", "")),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "billing@starlinkjewels.com"),
		},
		Store: StoreConfig{
			HTTPAddr:          getenv("STORE_HTTP_ADDR", ":8081"),
			DBType:            getenv("DATABASE_TYPE", "sqlite"),
			DBHost:            getenv("DATABASE_HOST", "localhost"),
			DBPort:            getenv("DATABASE_PORT", "5432"),
			DBName:            getenv("DATABASE_NAME", "gembill"),
			DBUser:            getenv("DATABASE_USER", "postgres"),
			DBPassword:        getenv("DATABASE_PASSWORD", ""),
			DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
			DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
			DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
			DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
			DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
			SnowflakeNode:     getenvInt64("SNOWFLAKE_NODE", 1),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

// getenvDuration accepts Go durations ("5s") or plain seconds ("5").
func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
