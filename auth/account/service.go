package account

import (
	"context"
	"errors"

	"github.com/kbukum/webgen/auth/jwt"
	"github.com/kbukum/webgen/auth/password"
	apperrors "github.com/kbukum/webgen/errors"
	"github.com/kbukum/webgen/logger"
	"github.com/kbukum/webgen/observability"
	"github.com/kbukum/webgen/validation"
)

// Messages returned to callers.
const (
	MsgRegistered         = "User registered!"
	MsgWelcome            = "Welcome!"
	MsgMissingFields      = "Missing fields"
	MsgUserExists         = "User exists"
	MsgInvalidCredentials = "Invalid credentials"
)

// Credentials is the body of sign-up and sign-in.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

// Service registers users and issues tokens.
type Service struct {
	store    Store
	tokens   *jwt.Service[*Claims]
	validate func(string) (map[string]interface{}, error)
	log      *logger.Logger
}

// NewService creates the account service.
func NewService(store Store, tokens *jwt.Service[*Claims]) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		validate: tokens.ValidatorFunc(),
		log:      logger.Get("account"),
	}
}

// NewTokenService creates the token service for account claims.
func NewTokenService(cfg jwt.Config) (*jwt.Service[*Claims], error) {
	return jwt.NewService(cfg, func() *Claims { return &Claims{} })
}

// SignUp registers a user.
func (s *Service) SignUp(ctx context.Context, req Credentials) (user User, err error) {
	ctx, end := startSpan(ctx, "signup")
	defer func() { end(err) }()

	if err := validation.ValidateWithMessage(req, MsgMissingFields); err != nil {
		return User{}, err
	}

	u, err := s.store.Create(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, ErrUserExists):
		return User{}, apperrors.AlreadyExists(MsgUserExists)
	case errors.Is(err, password.ErrTooLong), errors.Is(err, password.ErrEmpty):
		return User{}, apperrors.InvalidRequest(MsgMissingFields).WithCause(err)
	case err != nil:
		return User{}, apperrors.Internal(err)
	}

	s.log.WithContext(ctx).Info("User registered", logger.Fields("user_id", u.ID))
	return u, nil
}

// SignIn verifies credentials and returns a signed token.
func (s *Service) SignIn(ctx context.Context, req Credentials) (token string, err error) {
	ctx, end := startSpan(ctx, "signin")
	defer func() { end(err) }()

	if err := validation.ValidateWithMessage(req, MsgMissingFields); err != nil {
		return "", err
	}

	u, err := s.store.Verify(ctx, req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return "", apperrors.InvalidRequest(MsgInvalidCredentials)
	}
	if err != nil {
		return "", apperrors.Internal(err)
	}

	token, err = s.tokens.Generate(&Claims{Username: u.Username})
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return token, nil
}

// ValidateToken returns the claims of a valid token as a map.
func (s *Service) ValidateToken(token string) (map[string]interface{}, error) {
	return s.validate(token)
}

func startSpan(ctx context.Context, action string) (context.Context, func(error)) {
	ctx, span := observability.StartSpan(ctx, observability.SpanAuth)
	observability.SetSpanAttribute(ctx, "auth.action", action)
	return ctx, func(err error) {
		if err != nil {
			observability.SetSpanError(ctx, err)
		}
		span.End()
	}
}
