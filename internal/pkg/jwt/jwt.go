package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod is returned when the JWT signing method is not supported.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the HS512 signing key is less than 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrInvalidToken is returned when the token is malformed, expired, fails signature
	// validation, or carries a purpose other than the expected one. Callers cannot
	// distinguish these cases.
	ErrInvalidToken = errors.New("invalid token")
)

// Purpose scopes a token to the single flow that may consume it.
type Purpose string

const (
	// PurposeAccess marks short-lived API access tokens.
	PurposeAccess Purpose = "access"
	// PurposeRefresh marks long-lived rotation tokens backed by a persisted counterpart.
	PurposeRefresh Purpose = "refresh"
	// PurposeResetPassword marks single-flow password reset tokens.
	PurposeResetPassword Purpose = "reset_password"
	// PurposeVerifyEmail marks single-flow email verification tokens.
	PurposeVerifyEmail Purpose = "verify_email"
)

// IsValid reports whether p is one of the closed set of purposes.
func (p Purpose) IsValid() bool {
	switch p {
	case PurposeAccess, PurposeRefresh, PurposeResetPassword, PurposeVerifyEmail:
		return true
	default:
		return false
	}
}

// JWT defines the operations needed by the app: generate and verify a purpose-scoped token.
type JWT interface {
	// Generate creates a signed token for the user, bound to a purpose and TTL.
	Generate(uid int64, email string, purpose Purpose, ttl time.Duration) (string, error)
	// Verify parses and validates the token, requiring it to carry the expected purpose.
	Verify(tokenStr string, expected Purpose) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	// Secret is the HMAC signing key.
	Secret []byte
	// Issuer is the token issuer value.
	Issuer string
	// Audiences are the accepted token audiences.
	Audiences []string
	// Clock provides the current time source.
	Clock clocker
	// UUID generates token IDs.
	UUID generator
}

// Claims is a helper for wrapping registered claims with a payload.
type Claims struct {
	// RegisteredClaims holds the standard JWT claims.
	jwt.RegisteredClaims
	// UserID is the authenticated user identifier.
	UserID int64 `json:"user_id,string"`
	// UserEmail is the authenticated user email.
	UserEmail string `json:"user_email"`
	// Purpose is the flow this token is scoped to.
	Purpose Purpose `json:"purpose"`
}

// GetAuth returns the JWT claims stored in the context, if any.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetAuth stores JWT claims in the context.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
