package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/webgen/errors"
)

// ClaimsKey is the gin context key holding validated token claims.
const ClaimsKey = "claims"

// Rejection messages.
const (
	MsgNoToken      = "No token"
	MsgInvalidToken = "Invalid token"
)

// TokenValidator validates a token string and returns its claims.
type TokenValidator func(token string) (map[string]interface{}, error)

// AuthOption customizes Auth.
type AuthOption func(*authOptions)

type authOptions struct {
	body func(*errors.AppError) any
}

// WithMessageBody rejects with {"message": ...} instead of {"error": ...}.
func WithMessageBody() AuthOption {
	return func(o *authOptions) {
		o.body = func(e *errors.AppError) any { return e.ToMessageResponse() }
	}
}

// Auth returns a Gin middleware that requires a Bearer token accepted by
// validate. Validated claims are stored under ClaimsKey.
func Auth(validate TokenValidator, opts ...AuthOption) gin.HandlerFunc {
	o := authOptions{body: func(e *errors.AppError) any { return e.ToResponse() }}
	for _, opt := range opts {
		opt(&o)
	}
	abortUnauthorized := func(c *gin.Context, msg string) {
		appErr := errors.Unauthorized(msg)
		c.AbortWithStatusJSON(appErr.HTTPStatus, o.body(appErr))
	}

	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			abortUnauthorized(c, MsgNoToken)
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abortUnauthorized(c, MsgNoToken)
			return
		}

		claims, err := validate(token)
		if err != nil {
			abortUnauthorized(c, MsgInvalidToken)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Claims returns the claims stored by Auth, or nil.
func Claims(c *gin.Context) map[string]interface{} {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(map[string]interface{})
	return claims
}
