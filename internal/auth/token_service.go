package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Kind distinguishes the two token uses. A refresh token must never be
// accepted where an access token is required, and vice versa.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Reason classifies why token validation failed. Responses never carry the
// reason; it is for server-side diagnostics only.
type Reason string

const (
	ReasonMalformed    Reason = "malformed"
	ReasonBadSignature Reason = "bad_signature"
	ReasonExpired      Reason = "expired"
	ReasonWrongKind    Reason = "wrong_kind"
)

// TokenError reports a token validation failure with its classified reason.
type TokenError struct {
	Reason Reason
	cause  error
}

func (e *TokenError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("token %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("token %s", e.Reason)
}

func (e *TokenError) Unwrap() error {
	return e.cause
}

// Claims represents the signed token payload. The subject carries the user ID
// and token_type carries the kind claim.
type Claims struct {
	TokenType Kind   `json:"token_type"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a user ID.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse subject: %w", err)
	}
	return uint(id), nil
}

// TokenService issues and validates signed, expiring tokens. Validation is a
// pure function of the token content and the clock; no server-side state.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService creates a token service with the given signing secret and
// per-kind TTLs.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL returns the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// TTL returns the lifetime for the given token kind.
func (s *TokenService) TTL(kind Kind) time.Duration {
	if kind == KindRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}

// Issue signs a new token of the given kind for the user. Refresh tokens get
// a unique JTI so they can be told apart in diagnostics.
func (s *TokenService) Issue(userID uint, email string, kind Kind) (string, error) {
	now := s.now()
	claims := &Claims{
		TokenType: kind,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL(kind))),
		},
	}
	if kind == KindRefresh {
		claims.ID = uuid.New().String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and verifies a token and checks that it is of the expected
// kind and not expired. Expiry is checked against the service clock so the
// error taxonomy stays deterministic under test.
func (s *TokenService) Validate(tokenString string, expected Kind) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, &TokenError{Reason: classifyParseError(err), cause: err}
	}

	if claims.ExpiresAt == nil {
		return nil, &TokenError{Reason: ReasonMalformed, cause: errors.New("missing exp claim")}
	}
	if !s.now().Before(claims.ExpiresAt.Time) {
		return nil, &TokenError{Reason: ReasonExpired}
	}
	if claims.TokenType != expected {
		return nil, &TokenError{
			Reason: ReasonWrongKind,
			cause:  fmt.Errorf("got %q, want %q", claims.TokenType, expected),
		}
	}

	if _, err := claims.UserID(); err != nil {
		return nil, &TokenError{Reason: ReasonMalformed, cause: err}
	}
	return claims, nil
}

func classifyParseError(err error) Reason {
	var vErr *jwt.ValidationError
	if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorSignatureInvalid != 0 {
		return ReasonBadSignature
	}
	return ReasonMalformed
}
