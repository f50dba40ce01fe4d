package generate

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/webgen/chat"
	"github.com/kbukum/webgen/errors"
	"github.com/kbukum/webgen/intent"
	"github.com/kbukum/webgen/logger"
	"github.com/kbukum/webgen/observability"
	"github.com/kbukum/webgen/relay"
	"github.com/kbukum/webgen/server"
)

// ChatRequest is the body of the chat endpoints.
type ChatRequest struct {
	ChatHistory chat.History `json:"chatHistory"`
}

// WebsiteRequest is the body of the single-shot website endpoint.
type WebsiteRequest struct {
	Prompt string `json:"prompt"`
}

// Handler binds the generation service to HTTP routes.
type Handler struct {
	svc         *Service
	relay       *relay.Relay
	cfg         relay.Config
	metrics     *observability.Metrics
	serviceName string
}

// NewHandler creates the HTTP handler. metrics may be nil.
func NewHandler(svc *Service, cfg relay.Config, metrics *observability.Metrics, serviceName string) *Handler {
	cfg.ApplyDefaults()
	return &Handler{
		svc:         svc,
		relay:       relay.New(cfg.Defaults()),
		cfg:         cfg,
		metrics:     metrics,
		serviceName: serviceName,
	}
}

// RegisterRoutes mounts the generation endpoints.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/chat", h.Chat)
	r.POST("/api/generate", h.Chat)
	r.POST("/generate-website", h.Website)
}

// Chat answers a conversation, buffered or streamed per deployment mode.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.FromBindError(err, errors.MsgChatHistoryRequired))
		return
	}
	if len(req.ChatHistory) == 0 {
		server.RespondWithError(c, errors.InvalidRequest(errors.MsgChatHistoryRequired))
		return
	}

	h.run(c, "generate.chat", req.ChatHistory, PlanOptions{}, relay.FieldText, h.cfg.Mode)
}

// Website answers a single prompt with one HTML document under "code".
// It is always buffered and always uses the website-builder instruction.
func (h *Handler) Website(c *gin.Context) {
	var req WebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.FromBindError(err, errors.MsgPromptRequired))
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		server.RespondWithError(c, errors.InvalidRequest(errors.MsgPromptRequired))
		return
	}

	code := intent.CodeRequest
	h.run(c, "generate.website", chat.FromPrompt(req.Prompt), PlanOptions{Intent: &code}, relay.FieldCode, relay.ModeBuffered)
}

func (h *Handler) run(c *gin.Context, op string, history chat.History, opts PlanOptions, field relay.Field, mode relay.Mode) {
	oc := observability.NewOperationContext(h.serviceName, op, logger.RequestIDFromContext(c.Request.Context()), h.metrics)
	ctx, span := oc.StartSpanForOperation(c.Request.Context(), observability.SpanGeneration)
	c.Request = c.Request.WithContext(ctx)
	observability.SetSpanAttribute(ctx, observability.AttrMode, string(mode))

	err := h.serve(ctx, c, history, opts, field, mode)
	if err != nil {
		server.RespondWithError(c, err)
	}
	oc.EndOperation(ctx, span, err)
}

func (h *Handler) serve(ctx context.Context, c *gin.Context, history chat.History, opts PlanOptions, field relay.Field, mode relay.Mode) error {
	plan, err := h.svc.Plan(ctx, history, opts)
	if err != nil {
		return err
	}
	if h.metrics != nil {
		h.metrics.RecordGeneration(ctx, plan.Intent.String(), string(mode))
	}

	if mode == relay.ModeStreamed {
		return h.stream(ctx, c, plan)
	}

	resp, err := h.svc.Generate(ctx, plan)
	if err != nil {
		return err
	}
	return h.relay.Buffered(c, h.svc.Dialect(), resp, field)
}

// stream returns an error only before the status line is committed.
func (h *Handler) stream(ctx context.Context, c *gin.Context, plan *Plan) error {
	resp, err := h.svc.Stream(ctx, plan)
	if err != nil {
		return err
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanStreamRelay)
	defer span.End()

	var out relay.Outcome
	if h.cfg.StreamFormat == relay.FormatText {
		out = h.relay.TextStream(ctx, c.Writer, h.svc.Dialect(), resp)
	} else {
		out = h.relay.Stream(ctx, c.Writer, resp.Body)
	}

	status := relay.StatusComplete
	if !out.Complete() {
		status = relay.StatusAborted
	}
	observability.SetSpanAttribute(ctx, observability.AttrStreamOutcome, status)
	observability.SetSpanAttribute(ctx, observability.AttrStreamBytes, out.Bytes)
	if h.metrics != nil {
		h.metrics.RecordStream(ctx, status, out.Bytes)
	}
	return nil
}
