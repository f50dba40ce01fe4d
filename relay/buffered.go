package relay

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/webgen/errors"
	"github.com/kbukum/webgen/httpclient"
	"github.com/kbukum/webgen/llm"
	"github.com/kbukum/webgen/logger"
)

// Relay delivers upstream generations to callers.
type Relay struct {
	defaults Defaults
	log      *logger.Logger
}

// New creates a relay with the given empty-generation policy.
func New(defaults Defaults) *Relay {
	return &Relay{defaults: defaults, log: logger.Get("relay")}
}

// Defaults returns the relay's empty-generation policy.
func (r *Relay) Defaults() Defaults { return r.defaults }

// Buffered extracts the text from a complete upstream response and answers
// 200 {field: text}. An error is returned, and nothing written, when the
// body cannot be parsed.
func (r *Relay) Buffered(c *gin.Context, d llm.Dialect, resp *httpclient.Response, field Field) error {
	text, ok, err := d.ParseText(resp.Body)
	if err != nil {
		r.log.WithContext(c.Request.Context()).Error("Malformed upstream response", logger.ErrorFields("relay.buffered", err))
		return errors.Internal(err)
	}
	if !ok || text == "" {
		r.log.WithContext(c.Request.Context()).Warn("Upstream returned no text, using fallback", logger.Fields(
			logger.FieldOperation, "relay.buffered",
			"field", string(field),
		))
	}
	c.JSON(http.StatusOK, gin.H{string(field): r.defaults.TextOr(field, text, ok)})
	return nil
}
