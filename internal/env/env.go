package env

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL = "https://api-m.sandbox.paypal.com"
	DefaultPort    = "8888"
	DefaultTopic   = "checkout.orders"
	DefaultTimeout = 15 * time.Second
)

// Credentials are the PayPal REST app credentials. They are read once and
// never mutated afterwards.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type Config struct {
	Credentials  Credentials
	BaseURL      string
	Timeout      time.Duration
	Port         string
	GrpcAddr     string
	RedisAddr    string
	KafkaBrokers []string
	KafkaTopic   string
	LogLevel     string
	Environment  string
}

// Load reads the optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("[env] failed to load %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup function.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, defaultValue string) string {
		value, ok := lookup(key)
		if !ok || strings.TrimSpace(value) == "" {
			return defaultValue
		}
		return strings.TrimSpace(value)
	}

	cfg := &Config{
		Credentials: Credentials{
			ClientID:     get("PAYPAL_CLIENT_ID", ""),
			ClientSecret: get("PAYPAL_CLIENT_SECRET", ""),
		},
		BaseURL:     strings.TrimRight(get("PAYPAL_BASE_URL", DefaultBaseURL), "/"),
		Port:        get("PORT", DefaultPort),
		GrpcAddr:    get("GRPC_ADDR", ""),
		RedisAddr:   get("REDIS_ADDR", ""),
		KafkaTopic:  get("KAFKA_TOPIC", DefaultTopic),
		LogLevel:    strings.ToLower(get("LOG_LEVEL", "info")),
		Environment: strings.ToLower(get("ENVIRONMENT", "development")),
	}

	if _, err := strconv.ParseUint(cfg.Port, 10, 16); err != nil {
		return nil, fmt.Errorf("[env] invalid PORT %q: %w", cfg.Port, err)
	}

	cfg.Timeout = DefaultTimeout
	if raw := get("PAYPAL_TIMEOUT", ""); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("[env] invalid PAYPAL_TIMEOUT %q: %w", raw, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("[env] PAYPAL_TIMEOUT must be positive, got %s", raw)
		}
		cfg.Timeout = timeout
	}

	for _, broker := range strings.Split(get("KAFKA_BROKERS", ""), ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
		}
	}
	return cfg, nil
}

func (c *Config) HasCredentials() bool {
	return c.Credentials.Complete()
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return !c.IsProduction()
}
