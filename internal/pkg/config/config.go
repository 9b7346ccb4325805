package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// demoSecret signs tokens when DEMO_MODE is on and no JWT_SECRET is set.
const demoSecret = "scm-demo-secret"

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// DemoMode swaps the remote API for the in-memory backend.
	DemoMode bool `env:"DEMO_MODE, default=false"`
	// SystemStatusPoll overrides the system status refresh interval.
	SystemStatusPoll time.Duration `env:"SYSTEM_STATUS_POLL, default=30s"`
	DispatchWorkers  int           `env:"DISPATCH_WORKERS,   default=4"`

	Remote RemoteConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	NATS   NATSConfig
}

type RemoteConfig struct {
	URL     string        `env:"REMOTE_API_URL,     default=http://localhost:8090/api"`
	Timeout time.Duration `env:"REMOTE_API_TIMEOUT, default=10s"`
}

// MongoConfig, RedisConfig and NATSConfig are optional: an empty URI, address
// or URL disables the component.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB,  default=scm_gateway"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type NATSConfig struct {
	URL     string `env:"NATS_URL"`
	Subject string `env:"NATS_SUBJECT, default=scm.events"`
	Queue   string `env:"NATS_QUEUE"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if !c.DemoMode {
			return errors.New("JWT_SECRET is required outside demo mode")
		}
		c.JWTSecret = demoSecret
	}
	if c.DispatchWorkers <= 0 {
		return fmt.Errorf("DISPATCH_WORKERS must be positive, got %d", c.DispatchWorkers)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory, if any, is applied first without
// overriding variables already set.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith is Load over an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
