package agentpay

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the verified claim set handed to request handlers.
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete claim set carried by access tokens.
//
// Tokens are signed, not encrypted: anyone can base64-decode the payload
// and read these fields. The signature only guarantees they were issued by
// us and not altered. Never put secrets in here.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID string `json:"user_id,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim, which carries the account email.
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the stored identity id.
func (c *JWTClaims) UserID() string {
	return c.UID
}

// Email is an alias for Subject kept for readability at call sites.
func (c *JWTClaims) Email() string {
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time.
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time.
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
