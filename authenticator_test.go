package agentpay_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentpay/agentpay"
)

func newAuther(t *testing.T) (*agentpay.Auther, agentpay.RepositoryManager) {
	t.Helper()

	repo := setupTestRepo(t)
	tokens := agentpay.NewTokenService(signingKey, 30*time.Minute, "agentpay", &testLogger{})
	provider := agentpay.NewUserProvider(repo.Users())
	auther := agentpay.NewAuthenticator(repo, provider, tokens).WithLogger(&testLogger{})

	return auther, repo
}

func TestRegister(t *testing.T) {
	auther, repo := newAuther(t)
	ctx := context.Background()

	result, err := auther.Register(ctx, agentpay.RegisterPayload{
		Email:       "User@Example.com",
		Password:    "correct-horse",
		FullName:    "Test User",
		PhoneNumber: "+12025550123",
	})
	require.NoError(t, err)

	assert.Equal(t, "bearer", result.TokenType)
	assert.NotEmpty(t, result.AccessToken)

	require.NotNil(t, result.User)
	assert.Equal(t, "user@example.com", result.User.Email)
	assert.Equal(t, "Test User", result.User.FullName)

	t.Run("token resolves back to the user", func(t *testing.T) {
		claims, err := auther.TokenService().Validate(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.String(), claims.UserID())
		assert.Equal(t, "user@example.com", claims.Email())
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		stored, err := repo.Users().GetByEmail(ctx, "user@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, "correct-horse", stored.PasswordHash)
		assert.NoError(t, agentpay.ComparePasswordAndHash("correct-horse", stored.PasswordHash))
	})
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auther, _ := newAuther(t)
	ctx := context.Background()

	payload := agentpay.RegisterPayload{
		Email:       "user@example.com",
		Password:    "correct-horse",
		PhoneNumber: "+12025550123",
	}

	_, err := auther.Register(ctx, payload)
	require.NoError(t, err)

	// same address with different casing is still taken
	payload.Email = "USER@example.com"
	payload.Password = "another-password"

	_, err = auther.Register(ctx, payload)
	assert.Equal(t, agentpay.ErrDuplicateEmail, err)
}

func TestRegisterValidation(t *testing.T) {
	auther, _ := newAuther(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		payload agentpay.RegisterPayload
	}{
		{
			name: "missing email",
			payload: agentpay.RegisterPayload{
				Password: "correct-horse",
			},
		},
		{
			name: "malformed email",
			payload: agentpay.RegisterPayload{
				Email:    "not-an-email",
				Password: "correct-horse",
			},
		},
		{
			name: "short password",
			payload: agentpay.RegisterPayload{
				Email:    "user@example.com",
				Password: "short",
			},
		},
		{
			name: "invalid phone number",
			payload: agentpay.RegisterPayload{
				Email:       "user@example.com",
				Password:    "correct-horse",
				PhoneNumber: "0000000000",
			},
		},
		{
			name: "missing phone number",
			payload: agentpay.RegisterPayload{
				Email:    "user@example.com",
				Password: "correct-horse",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auther.Register(ctx, tt.payload)
			require.Error(t, err)

			var e *errors.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, errors.CategoryValidation, e.Category)
			assert.Equal(t, agentpay.TextCodeValidation, e.TextCode)
			assert.NotEmpty(t, e.Metadata)
		})
	}
}

func TestRegisterStoreFailureIsInternal(t *testing.T) {
	auther, repo := newAuther(t)
	ctx := context.Background()

	// occupy the id the new registration would get, under a different
	// address; the insert fails on the primary key, not on the email
	id, err := hashid.NewUUID("victim@example.com")
	require.NoError(t, err)

	hash, err := agentpay.HashPassword("correct-horse")
	require.NoError(t, err)

	_, err = repo.Users().Register(ctx, &agentpay.User{
		ID:           id,
		Email:        "squatter@example.com",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	_, err = auther.Register(ctx, agentpay.RegisterPayload{
		Email:       "victim@example.com",
		Password:    "correct-horse",
		PhoneNumber: "+12025550123",
	})
	require.Error(t, err)
	assert.NotEqual(t, agentpay.ErrDuplicateEmail, err)

	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errors.CategoryInternal, e.Category)
}

func TestLogin(t *testing.T) {
	auther, _ := newAuther(t)
	ctx := context.Background()

	_, err := auther.Register(ctx, agentpay.RegisterPayload{
		Email:       "user@example.com",
		Password:    "correct-horse",
		PhoneNumber: "+12025550123",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		result, err := auther.Login(ctx, agentpay.LoginPayload{
			Email:    "user@example.com",
			Password: "correct-horse",
		})
		require.NoError(t, err)
		assert.Equal(t, "bearer", result.TokenType)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, "user@example.com", result.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auther.Login(ctx, agentpay.LoginPayload{
			Email:    "user@example.com",
			Password: "battery-staple",
		})
		assert.Equal(t, agentpay.ErrMismatchedHashAndPassword, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := auther.Login(ctx, agentpay.LoginPayload{
			Email:    "nobody@example.com",
			Password: "correct-horse",
		})
		assert.Equal(t, agentpay.ErrMismatchedHashAndPassword, err)
	})

	t.Run("missing password fails validation", func(t *testing.T) {
		_, err := auther.Login(ctx, agentpay.LoginPayload{
			Email: "user@example.com",
		})
		require.Error(t, err)

		var e *errors.Error
		require.True(t, errors.As(err, &e))
		assert.Equal(t, errors.CategoryValidation, e.Category)
	})
}

func TestIdentityFromToken(t *testing.T) {
	auther, _ := newAuther(t)
	ctx := context.Background()

	result, err := auther.Register(ctx, agentpay.RegisterPayload{
		Email:       "user@example.com",
		Password:    "correct-horse",
		PhoneNumber: "+12025550123",
	})
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		identity, err := auther.IdentityFromToken(ctx, result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID.String(), identity.ID())
		assert.Equal(t, "user@example.com", identity.Email())
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := auther.IdentityFromToken(ctx, "not.a.token")
		assert.Equal(t, agentpay.ErrInvalidToken, err)
	})
}
