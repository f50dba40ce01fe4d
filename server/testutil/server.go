// Package testutil starts fully wired servers for handler tests.
package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/webgen/logger"
	"github.com/kbukum/webgen/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewServer builds a server with the standard middleware stack, lets
// register add routes and serves it from an httptest.Server that is closed
// when the test ends. configure runs after defaults are applied.
func NewServer(t testing.TB, register func(s *server.Server), configure ...func(*server.Config)) *httptest.Server {
	t.Helper()

	cfg := &server.Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	for _, fn := range configure {
		fn(cfg)
	}

	srv := server.New(cfg, logger.Nop())
	gin.SetMode(gin.TestMode)
	srv.ApplyMiddleware()
	if register != nil {
		register(srv)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}
