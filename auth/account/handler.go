package account

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/webgen/errors"
	"github.com/kbukum/webgen/server"
	"github.com/kbukum/webgen/server/middleware"
)

// Handler exposes the account service over HTTP. Every body, failures
// included, carries a "message" field.
type Handler struct {
	svc *Service
}

// NewHandler creates the HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts sign-up, sign-in and the token-protected profile.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/signup", h.SignUp)
	r.POST("/api/signin", h.SignIn)
	r.GET("/api/profile", middleware.Auth(h.svc.ValidateToken, middleware.WithMessageBody()), h.Profile)
}

func (h *Handler) SignUp(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}
	if _, err := h.svc.SignUp(c.Request.Context(), req); err != nil {
		server.RespondWithMessage(c, err)
		return
	}
	server.RespondOK(c, gin.H{"message": MsgRegistered})
}

func (h *Handler) SignIn(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}
	token, err := h.svc.SignIn(c.Request.Context(), req)
	if err != nil {
		server.RespondWithMessage(c, err)
		return
	}
	server.RespondOK(c, gin.H{"token": token})
}

// Profile echoes the verified token claims.
func (h *Handler) Profile(c *gin.Context) {
	server.RespondOK(c, gin.H{"message": MsgWelcome, "user": middleware.Claims(c)})
}

func bindCredentials(c *gin.Context) (Credentials, bool) {
	var req Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithMessage(c, errors.FromBindError(err, MsgMissingFields))
		return req, false
	}
	return req, true
}
