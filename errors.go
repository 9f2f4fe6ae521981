package agentpay

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// Text codes surfaced to clients alongside the HTTP status. They are part
// of the API contract; frontends branch on these, never on messages.
const (
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeDuplicateEmail     = "EMAIL_TAKEN"
	TextCodeAuthRequired       = "AUTHENTICATION_REQUIRED"
	TextCodeInvalidToken       = "INVALID_TOKEN"
	TextCodeTooManyAttempts    = "TOO_MANY_LOGIN_ATTEMPTS"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeValidation         = "VALIDATION_ERROR"
)

// IsNotFound reports whether err means a record does not exist. The
// repository layer tags missing records with its own category, so a
// plain errors.IsNotFound check would miss them.
func IsNotFound(err error) bool {
	return repository.IsRecordNotFound(err) || errors.IsNotFound(err)
}

// ErrIdentityNotFound is returned when a user id embedded in a valid token
// no longer maps to a stored identity.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword is the uniform login failure. Unknown email
// and wrong password produce this same value so responses cannot be used to
// enumerate registered addresses.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrDuplicateEmail is the registration conflict.
var ErrDuplicateEmail = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrTooManyLoginAttempts is returned when the login cooldown is active.
var ErrTooManyLoginAttempts = errors.New("too many login attempts, try again later", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrAuthenticationRequired is returned when a protected route is called
// without a bearer token.
var ErrAuthenticationRequired = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeAuthRequired).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidToken covers every token verification failure: bad signature,
// unexpected algorithm, expiry, and missing user id claim. Callers get one
// category on purpose; which check failed is not leaked.
var ErrInvalidToken = errors.New("invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)
