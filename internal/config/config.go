package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort           string
	Env                string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	DBDriver string
	Mongo    MongoConfig
	Postgres PostgresConfig

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret string
	Guest     GuestConfig

	Payment PaymentConfig

	CheckoutResetDelay time.Duration
	SessionIdleTimeout time.Duration

	// StoreLocation decides where the merchant's business day starts.
	StoreLocation *time.Location
}

type MongoConfig struct {
	URI                    string
	Database               string
	MaxPoolSize            uint64
	MinPoolSize            uint64
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
}

type PostgresConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	MigrationsPath string
}

// GuestConfig holds the contact details used when an anonymous visitor checks out.
type GuestConfig struct {
	Name  string
	Email string
	Phone string
}

type PaymentConfig struct {
	SecretKey   string
	BaseURL     string
	WebhookHash string
	RedirectURL string
	Currency    string
}

// Load reads an optional .env file (ENV_FILE, default ".env") and then the
// process environment.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		Env:                getEnv("APP_ENV", "development"),
		MaxRequestBodySize: 1 << 20, // 1MB

		DBDriver: getEnv("DB_DRIVER", "mongo"),
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB_NAME", "engaato"),
		},
		Postgres: PostgresConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "engaato"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./internal/repository/migrations"),
		},

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "transactions"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		Guest: GuestConfig{
			Name:  getEnv("GUEST_NAME", "Guest"),
			Email: getEnv("GUEST_EMAIL", "guest@engaato.com"),
			Phone: getEnv("GUEST_PHONE", "256700000000"),
		},

		Payment: PaymentConfig{
			SecretKey:   getEnv("FLUTTERWAVE_SECRET_KEY", ""),
			BaseURL:     getEnv("FLUTTERWAVE_BASE_URL", "https://api.flutterwave.com"),
			WebhookHash: getEnv("FLUTTERWAVE_WEBHOOK_HASH", ""),
			RedirectURL: getEnv("PAYMENT_REDIRECT_URL", "http://localhost:3000/checkout/complete"),
			Currency:    "UGX",
		},
	}

	var err error
	if cfg.Postgres.Port, err = strconv.Atoi(getEnv("DB_PORT", "5432")); err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CheckoutResetDelay, err = getDuration("CHECKOUT_RESET_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Mongo.MaxPoolSize, err = getUint("MONGO_MAX_POOL_SIZE", 50); err != nil {
		return nil, err
	}
	if cfg.Mongo.MinPoolSize, err = getUint("MONGO_MIN_POOL_SIZE", 5); err != nil {
		return nil, err
	}
	if cfg.Mongo.MinPoolSize > cfg.Mongo.MaxPoolSize {
		return nil, fmt.Errorf("MONGO_MIN_POOL_SIZE %d exceeds MONGO_MAX_POOL_SIZE %d",
			cfg.Mongo.MinPoolSize, cfg.Mongo.MaxPoolSize)
	}
	if cfg.Mongo.ConnectTimeout, err = getDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Mongo.ServerSelectionTimeout, err = getDuration("MONGO_SERVER_SELECTION_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	if cfg.StoreLocation, err = time.LoadLocation(getEnv("STORE_TIMEZONE", "Africa/Kampala")); err != nil {
		return nil, fmt.Errorf("invalid STORE_TIMEZONE: %w", err)
	}

	switch cfg.DBDriver {
	case "mongo", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getUint(key string, defaultValue uint64) (uint64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
