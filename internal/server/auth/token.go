// Package auth issues and validates the HS256 session tokens handed out
// after a successful login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/metrics"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is written to and required in the iss claim.
const Issuer = "taskkeeper"

// Claims is the token payload: sub, iat, exp, iss and jti.
type Claims struct {
	jwt.RegisteredClaims
}

// IssuedAtTime returns the iat claim in UTC, or the zero time when it is absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time.UTC()
}

// ExpiresAtTime returns the exp claim, or the zero time when it is absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time.UTC()
}

// TokenService is stateless apart from its secret, so it is safe for
// concurrent use.
type TokenService struct {
	secret  []byte
	ttl     time.Duration
	clock   timex.Clock
	metrics *metrics.Collector
	parser  *jwt.Parser
}

type Option func(*TokenService)

func WithClock(c timex.Clock) Option {
	return func(s *TokenService) { s.clock = c }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(s *TokenService) { s.metrics = m }
}

// NewTokenService returns a service signing with secret. Tokens expire ttl
// after issue.
func NewTokenService(secret []byte, ttl time.Duration, opts ...Option) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, common.ErrMissingSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: token ttl must be positive, got %s", common.ErrInvalidConfig, ttl)
	}

	s := &TokenService{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		clock:  timex.SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.clock.Now),
	)

	return s, nil
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject.
func (s *TokenService) Issue(subject string) (string, error) {
	token, _, err := s.IssueClaims(subject)
	return token, err
}

// IssueClaims is Issue that also returns the signed claims.
func (s *TokenService) IssueClaims(subject string) (string, *Claims, error) {
	if subject == "" {
		s.metrics.TokenOutcome(metrics.OpIssue, metrics.OutcomeInvalidInput)
		return "", nil, common.ErrEmptySubject
	}

	now := s.clock.Now().UTC().Truncate(time.Second)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.metrics.TokenOutcome(metrics.OpIssue, metrics.OutcomeError)
		return "", nil, fmt.Errorf("error signing token: %w", err)
	}

	s.metrics.TokenOutcome(metrics.OpIssue, metrics.OutcomeSuccess)
	return token, claims, nil
}

// Validate checks the signature, issuer and expiry of token and returns its
// claims. Every failure wraps common.ErrInvalidToken together with one of
// common.ErrMalformedToken, common.ErrInvalidSignature or
// common.ErrTokenExpired.
func (s *TokenService) Validate(token string) (*Claims, error) {
	claims := &Claims{}

	_, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err == nil && claims.Subject == "" {
		err = errors.New("token has no subject")
	}
	if err != nil {
		outcome, kind := classify(err)
		s.metrics.TokenOutcome(metrics.OpValidate, outcome)
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, kind)
	}

	s.metrics.TokenOutcome(metrics.OpValidate, metrics.OutcomeSuccess)
	return claims, nil
}

// classify maps a jwt parse error to its metric outcome and sentinel. The
// parser checks the signature before any claim, so a forged token never
// reports as expired.
func classify(err error) (string, error) {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return metrics.OutcomeInvalidSignature, common.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return metrics.OutcomeExpired, common.ErrTokenExpired
	default:
		return metrics.OutcomeMalformed, common.ErrMalformedToken
	}
}
