package service

import (
	"fmt"
	"time"

	"github.com/moura-ar/portfolio/internal/api/validation"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Token defaults expected by the webhook receiver.
const (
	DefaultTokenIssuer   = "https://moura.ar"
	DefaultTokenAudience = "moura-contact-form-api"
	DefaultTokenTTL      = 30 * time.Second
)

// ContactClaims is the claim set of a relay token. Audience is a single
// string rather than the array form some libraries emit.
type ContactClaims struct {
	Issuer    string `json:"iss" validate:"required,url"`
	Audience  string `json:"aud" validate:"required"`
	IssuedAt  int64  `json:"iat" validate:"gt=0"`
	ExpiresAt int64  `json:"exp" validate:"gtfield=IssuedAt"`
	ID        string `json:"jti" validate:"required,uuid4"`
}

// Valid checks the shape of the claims. Expiry is checked separately against
// the service clock.
func (c ContactClaims) Valid() error {
	return validation.Struct(c)
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// TokenService issues and checks the short-lived HS256 tokens that
// authenticate each webhook call. Tokens are never stored.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
}

// NewTokenService creates a token service. Empty issuer, audience and TTL use
// the defaults. An empty secret is accepted here and reported on Issue.
func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	if cfg.Audience == "" {
		cfg.Audience = DefaultTokenAudience
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &TokenService{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// SetClock replaces time.Now.
func (s *TokenService) SetClock(now func() time.Time) {
	s.now = now
}

// Configured reports whether a signing secret is present.
func (s *TokenService) Configured() bool {
	return len(s.secret) > 0
}

// Issue creates a fresh signed token.
func (s *TokenService) Issue() (string, error) {
	if !s.Configured() {
		return "", fmt.Errorf("%w: signing secret is not set", ErrConfiguration)
	}

	iat := s.now().Unix()
	claims := ContactClaims{
		Issuer:    s.issuer,
		Audience:  s.audience,
		IssuedAt:  iat,
		ExpiresAt: iat + int64(s.ttl/time.Second),
		ID:        s.newID(),
	}
	if err := claims.Valid(); err != nil {
		return "", fmt.Errorf("%w: invalid claims: %v", ErrSigning, err)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}

// Decode reads the claims without checking the signature. For introspection
// only; never trust the result.
func (s *TokenService) Decode(token string) (*ContactClaims, error) {
	claims := &ContactClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// IsExpired reports whether the token's exp is in the past. A token that
// cannot be decoded counts as expired.
func (s *TokenService) IsExpired(token string) bool {
	claims, err := s.Decode(token)
	if err != nil || claims.ExpiresAt == 0 {
		return true
	}
	return claims.ExpiresAt < s.now().Unix()
}

// TimeToExpiry returns how long the token stays valid, or 0.
func (s *TokenService) TimeToExpiry(token string) time.Duration {
	claims, err := s.Decode(token)
	if err != nil || claims.ExpiresAt == 0 {
		return 0
	}
	left := claims.ExpiresAt - s.now().Unix()
	if left <= 0 {
		return 0
	}
	return time.Duration(left) * time.Second
}

// Verify checks algorithm, signature, claim shape, issuer, audience and
// expiry. Every failure wraps ErrInvalidToken.
func (s *TokenService) Verify(token string) (*ContactClaims, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: signing secret is not set", ErrConfiguration)
	}

	claims := &ContactClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Issuer != s.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if claims.Audience != s.audience {
		return nil, fmt.Errorf("%w: unexpected audience %q", ErrInvalidToken, claims.Audience)
	}
	if claims.ExpiresAt < s.now().Unix() {
		return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}
	return claims, nil
}
