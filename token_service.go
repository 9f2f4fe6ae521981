package agentpay

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService issues and validates access tokens. The signing key and the
// token lifetime are fixed at construction from the process configuration;
// every issuance path (registration and login) uses the same TTL.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	logger     Logger
}

// NewTokenService creates a new TokenService instance.
func NewTokenService(signingKey []byte, ttl time.Duration, issuer string, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenService{
		signingKey: signingKey,
		ttl:        ttl,
		issuer:     issuer,
		logger:     logger,
	}
}

// TTL reports the configured token lifetime.
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Issue signs an access token for the identity using the configured TTL.
func (ts *TokenService) Issue(identity Identity) (string, error) {
	return ts.IssueWithTTL(identity, ts.ttl)
}

// IssueWithTTL signs an access token with an explicit lifetime. The
// identity id and email must be non-empty and ttl strictly positive.
func (ts *TokenService) IssueWithTTL(identity Identity, ttl time.Duration) (string, error) {
	if identity == nil || identity.ID() == "" || identity.Email() == "" {
		return "", errors.New("token identity requires id and email", errors.CategoryValidation)
	}

	if ttl <= 0 {
		return "", errors.New("token ttl must be positive", errors.CategoryValidation)
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.Email(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID: identity.ID(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Validate parses and validates a token string, returning structured
// claims. Signature, algorithm, and expiry failures all come back as
// ErrInvalidToken; a structurally valid token without a user_id claim is
// rejected the same way.
func (ts *TokenService) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		ts.logger.Debug("token validation failed", "error", err)
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token valid but claims could not be decoded")
		return nil, ErrInvalidToken
	}

	if claims.UID == "" {
		ts.logger.Debug("token missing user_id claim")
		return nil, ErrInvalidToken
	}

	return claims, nil
}
