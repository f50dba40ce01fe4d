// Package jwt issues and verifies HMAC-signed tokens for a caller-defined
// claims type.
//
//	type Claims struct {
//	    Username string `json:"username"`
//	    jwt.RegisteredClaims
//	}
//
//	svc, err := jwt.NewService(cfg, func() *Claims { return &Claims{} })
//	token, err := svc.Generate(&Claims{Username: "ada"})
//	claims, err := svc.Parse(token)
package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("jwt: invalid token")

// Stamper is implemented by claims types that accept the standard time and
// issuer claims before signing.
type Stamper interface {
	Stamp(now time.Time, ttl time.Duration, issuer string)
}

// Service generates and parses tokens carrying claims of type T.
type Service[T gojwt.Claims] struct {
	cfg      Config
	newEmpty func() T
	now      func() time.Time
}

// NewService creates a token service. newEmpty returns a zero claims value
// used as the parse target.
func NewService[T gojwt.Claims](cfg Config, newEmpty func() T) (*Service[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return &Service[T]{cfg: cfg, newEmpty: newEmpty, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens.
func (s *Service[T]) TTL() time.Duration { return s.cfg.TTL }

// Generate signs claims. Claims implementing Stamper get iat, exp and iss
// set first.
func (s *Service[T]) Generate(claims T) (string, error) {
	if st, ok := any(claims).(Stamper); ok {
		st.Stamp(s.now(), s.cfg.TTL, s.cfg.Issuer)
	}
	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, algorithm, expiry and issuer, and returns
// the claims. Every failure wraps ErrInvalidToken.
func (s *Service[T]) Parse(tokenString string) (T, error) {
	var zero T
	claims := s.newEmpty()
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	parsed, ok := token.Claims.(T)
	if !token.Valid || !ok {
		return zero, ErrInvalidToken
	}
	return parsed, nil
}

// ValidatorFunc adapts Parse to callers that work with generic claim maps,
// such as the HTTP auth middleware. The map holds the claims as they appear
// in the token payload.
func (s *Service[T]) ValidatorFunc() func(string) (map[string]interface{}, error) {
	return func(token string) (map[string]interface{}, error) {
		claims, err := s.Parse(token)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(claims)
		if err != nil {
			return nil, fmt.Errorf("jwt: encode claims: %w", err)
		}
		out := make(map[string]interface{})
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("jwt: decode claims: %w", err)
		}
		return out, nil
	}
}

func (s *Service[T]) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}

func (s *Service[T]) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	return opts
}
