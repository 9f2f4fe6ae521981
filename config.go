package agentpay

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/goliatone/go-errors"
)

// Config is the full application configuration. Values come from a
// YAML file when one is given and environment variables on top.
type Config struct {
	Env        string       `yaml:"env" env:"APP_ENV" env-default:"development"`
	HTTPServer HTTPServer   `yaml:"http_server"`
	Database   Database     `yaml:"database"`
	Auth       AuthConfig   `yaml:"auth"`
	Method     MethodConfig `yaml:"method"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8000"`
	ReadTimeout time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Database struct {
	DSN string `yaml:"dsn" env:"DATABASE_DSN" env-default:"file::memory:?cache=shared"`
}

// AuthConfig configures token issuance. SigningKey has no default on
// purpose: a process started without JWT_SECRET must refuse to serve.
type AuthConfig struct {
	SigningKey       string        `yaml:"signing_key" env:"JWT_SECRET"`
	TokenTTL         time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"30m"`
	Issuer           string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"agentpay"`
	MaxLoginAttempts int           `yaml:"max_login_attempts" env:"AUTH_MAX_LOGIN_ATTEMPTS" env-default:"5"`
	CoolDownPeriod   time.Duration `yaml:"cooldown_period" env:"AUTH_COOLDOWN_PERIOD" env-default:"10m"`
}

type MethodConfig struct {
	APIKey      string `yaml:"api_key" env:"METHOD_API_KEY"`
	Environment string `yaml:"environment" env:"METHOD_ENV" env-default:"dev"`
}

// LoadConfig reads the optional YAML file at path, then overlays
// environment variables. An empty path reads the environment only.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "config file not found").
				WithMetadata(map[string]any{"path": path})
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to read config file").
				WithMetadata(map[string]any{"path": path})
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to read config from environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the server must not run with.
func (c *Config) Validate() error {
	if c.Auth.SigningKey == "" {
		return errors.New("auth signing key is required, set JWT_SECRET", errors.CategoryBadInput).
			WithTextCode("MISSING_SIGNING_KEY")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("token TTL must be positive", errors.CategoryBadInput).
			WithTextCode("INVALID_TOKEN_TTL")
	}
	switch c.Method.Environment {
	case "dev", "sandbox", "production":
	default:
		return errors.New("method environment must be dev, sandbox, or production", errors.CategoryBadInput).
			WithTextCode("INVALID_METHOD_ENV")
	}
	return nil
}

// IsDevelopment reports whether simulation endpoints may be exposed.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}
