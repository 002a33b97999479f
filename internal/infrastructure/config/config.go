package config

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Event EventConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL, default=192h"`
	ResetTokenTTL    time.Duration `env:"RESET_TOKEN_TTL,  default=48h"`
	OpenRegistration bool          `env:"USERS_OPEN_REGISTRATION, default=false"`

	FirstSuperuserEmail    string `env:"FIRST_SUPERUSER_EMAIL"`
	FirstSuperuserUsername string `env:"FIRST_SUPERUSER_USERNAME, default=admin"`
	FirstSuperuserName     string `env:"FIRST_SUPERUSER_NAME"`
	FirstSuperuserPassword string `env:"FIRST_SUPERUSER_PASSWORD"`
}

// EventConfig pins the competition window. Both bounds are RFC 3339
// timestamps and may carry any UTC offset; comparisons are instant-based.
type EventConfig struct {
	Start time.Time `env:"EVENT_START_TIME"`
	End   time.Time `env:"EVENT_END_TIME"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=decrypto"`

	// ReadyWait bounds how long startup blocks waiting for the store.
	ReadyWait time.Duration `env:"MONGO_READY_WAIT, default=5m"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the settings a deployment cannot run without. Defaults
// cover everything else.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.Auth.FirstSuperuserEmail == "" {
		return errors.New("config: FIRST_SUPERUSER_EMAIL is required")
	}
	if c.Auth.FirstSuperuserPassword == "" {
		return errors.New("config: FIRST_SUPERUSER_PASSWORD is required")
	}
	if _, err := c.Window(); err != nil {
		return err
	}
	return nil
}

// Window builds the event window from the configured bounds.
func (c *Config) Window() (domain.EventWindow, error) {
	return domain.NewEventWindow(c.Event.Start, c.Event.End)
}
