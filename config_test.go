package agentpay_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentpay/agentpay"
)

func validConfig() *agentpay.Config {
	return &agentpay.Config{
		Auth: agentpay.AuthConfig{
			SigningKey: "test-secret",
			TokenTTL:   30 * time.Minute,
		},
		Method: agentpay.MethodConfig{
			Environment: "dev",
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*agentpay.Config)
		textCode string
	}{
		{
			name:   "valid config",
			mutate: func(c *agentpay.Config) {},
		},
		{
			name:     "missing signing key",
			mutate:   func(c *agentpay.Config) { c.Auth.SigningKey = "" },
			textCode: "MISSING_SIGNING_KEY",
		},
		{
			name:     "zero token ttl",
			mutate:   func(c *agentpay.Config) { c.Auth.TokenTTL = 0 },
			textCode: "INVALID_TOKEN_TTL",
		},
		{
			name:     "negative token ttl",
			mutate:   func(c *agentpay.Config) { c.Auth.TokenTTL = -time.Minute },
			textCode: "INVALID_TOKEN_TTL",
		},
		{
			name:     "unknown method environment",
			mutate:   func(c *agentpay.Config) { c.Method.Environment = "staging" },
			textCode: "INVALID_METHOD_ENV",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.textCode == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)

			var e *errors.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.textCode, e.TextCode)
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := agentpay.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8000", cfg.HTTPServer.Address)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "agentpay", cfg.Auth.Issuer)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Auth.CoolDownPeriod)
	assert.Equal(t, "dev", cfg.Method.Environment)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_TOKEN_TTL", "1h")
	t.Setenv("METHOD_ENV", "sandbox")

	cfg, err := agentpay.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "sandbox", cfg.Method.Environment)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadConfigMissingSigningKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := agentpay.LoadConfig("")
	require.Error(t, err)

	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "MISSING_SIGNING_KEY", e.TextCode)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := agentpay.LoadConfig("/does/not/exist.yml")
	assert.Error(t, err)
}
