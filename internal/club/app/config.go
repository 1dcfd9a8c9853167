package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer         string // Required: issuer claim for session tokens
	BootstrapToken string // Optional: token required to perform bootstrap

	SessionTTL     time.Duration // Optional: session token lifetime (default: jwtx.DefaultSessionTTL)
	SigningKeyFile string        // Optional: PEM Ed25519 private key; an ephemeral key is generated when unset
	DatabaseFile   string        // Optional: path to SQLite database file (default: ./club.db)
	PepperFile     string        // Optional: path to file containing pepper for password hashing (default: ./pepper)

	AcceptURLBase string // Required in prod: onboarding form URL embedded in invite emails

	SMTPAddr     string // Optional: host:port of the outbound mail relay; invites are logged only when unset
	SMTPFrom     string // Optional: From address for invite emails
	SMTPUsername string // Optional: PLAIN auth username
	SMTPPassword string // Optional: PLAIN auth password

	MinioEndpoint  string // Optional: S3-compatible endpoint for vehicle photos; in-memory storage when unset
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" || os.Getenv("ENV") == "" {
		godotenv.Load()
	}

	cfg := Config{
		Issuer:         os.Getenv("CLUB_ISSUER"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"),

		SessionTTL:     getEnvDurationOrDefault("CLUB_SESSION_TTL", 0),
		SigningKeyFile: os.Getenv("CLUB_SIGNING_KEY_FILE"),
		DatabaseFile:   getEnvOrDefault("CLUB_DATABASE_FILE", "club.db"),
		PepperFile:     getEnvOrDefault("CLUB_PEPPER_FILE", "pepper"),

		AcceptURLBase: getEnvOrDefault("CLUB_ACCEPT_URL_BASE", "http://localhost:8080/join"),

		SMTPAddr:     os.Getenv("SMTP_ADDR"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "club@topcarsvalley.example"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnvOrDefault("MINIO_BUCKET", "club-photos"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if cfg.Issuer == "" {
		cfg.Issuer = "topcarsvalley-club"
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
