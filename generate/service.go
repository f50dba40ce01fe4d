package generate

import (
	"context"
	"fmt"

	"github.com/kbukum/webgen/chat"
	"github.com/kbukum/webgen/errors"
	"github.com/kbukum/webgen/httpclient"
	"github.com/kbukum/webgen/intent"
	"github.com/kbukum/webgen/llm"
	"github.com/kbukum/webgen/logger"
	"github.com/kbukum/webgen/observability"
)

const maxLoggedUpstreamBody = 2048

// Upstream performs generation calls. *llm.Adapter satisfies it.
type Upstream interface {
	Dialect() llm.Dialect
	Model() string
	APIKeyEnv() string
	Generate(ctx context.Context, apiKey string, payload any) (*httpclient.Response, error)
	Stream(ctx context.Context, apiKey string, payload any) (*httpclient.StreamResponse, error)
}

// Plan is a validated, classified request ready for the upstream call.
type Plan struct {
	Intent      intent.Intent
	Instruction intent.Instruction
	Turns       int
	Payload     any
	apiKey      string
}

// PlanOptions adjusts how a plan is built.
type PlanOptions struct {
	// Intent skips classification and uses this intent instead.
	Intent *intent.Intent
}

// Service runs classify, select, build and call.
type Service struct {
	upstream   Upstream
	creds      Credentials
	classifier *intent.Classifier
	selector   *intent.Selector
	noInstr    bool
	log        *logger.Logger
}

// NewService creates the generation service.
func NewService(upstream Upstream, creds Credentials, cfg intent.Config) *Service {
	cfg.ApplyDefaults()
	return &Service{
		upstream:   upstream,
		creds:      creds,
		classifier: intent.NewClassifier(cfg),
		selector:   intent.NewSelector(cfg),
		noInstr:    cfg.DisableInstructions,
		log:        logger.Get("generate"),
	}
}

// Dialect returns the upstream dialect.
func (s *Service) Dialect() llm.Dialect { return s.upstream.Dialect() }

// Plan validates history, checks the credential and builds the payload. No
// upstream call is made.
func (s *Service) Plan(ctx context.Context, history chat.History, opts PlanOptions) (*Plan, error) {
	if err := history.Validate(); err != nil {
		return nil, err
	}

	apiKey, ok := s.creds.APIKey()
	if !ok {
		return nil, s.missingKey()
	}

	var in intent.Intent
	if opts.Intent != nil {
		in = *opts.Intent
	} else {
		last, _ := history.Last()
		in = s.classifier.Classify(last.Text())
	}

	// A forced intent always carries its instruction.
	var instr intent.Instruction
	if opts.Intent != nil || !s.noInstr {
		var err error
		if instr, err = s.selector.Select(in); err != nil {
			return nil, err
		}
	}

	payload, err := s.upstream.Dialect().BuildPayload(history, instr.String())
	if err != nil {
		return nil, errors.Internal(err)
	}

	observability.SetSpanAttribute(ctx, observability.AttrIntent, in.String())
	observability.SetSpanAttribute(ctx, observability.AttrTurns, len(history))
	observability.SetSpanAttribute(ctx, observability.AttrModel, s.upstream.Model())
	s.log.WithContext(ctx).Debug("Generation planned", logger.Fields(
		logger.FieldIntent, in.String(),
		logger.FieldTurns, len(history),
		logger.FieldModel, s.upstream.Model(),
		"granularity", string(s.classifier.Granularity()),
	))

	return &Plan{Intent: in, Instruction: instr, Turns: len(history), Payload: payload, apiKey: apiKey}, nil
}

// Generate makes one buffered upstream call.
func (s *Service) Generate(ctx context.Context, p *Plan) (*httpclient.Response, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanUpstreamCall)
	defer span.End()

	resp, err := s.upstream.Generate(ctx, p.apiKey, p.Payload)
	if err != nil {
		s.logUpstreamFailure(ctx, err)
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrUpstreamStatus, resp.StatusCode)
	return resp, nil
}

// Stream makes one streaming upstream call. The caller owns the response
// body and must close it.
func (s *Service) Stream(ctx context.Context, p *Plan) (*httpclient.StreamResponse, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanUpstreamCall)
	defer span.End()

	resp, err := s.upstream.Stream(ctx, p.apiKey, p.Payload)
	if err != nil {
		s.logUpstreamFailure(ctx, err)
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrUpstreamStatus, resp.StatusCode)
	return resp, nil
}

// CheckHealth reports the upstream as degraded while the credential is missing.
func (s *Service) CheckHealth(context.Context) observability.Health {
	h := observability.Health{
		Name:   "upstream",
		Status: observability.HealthStatusUp,
		Details: map[string]string{
			"dialect": s.upstream.Dialect().Name(),
			"model":   s.upstream.Model(),
		},
	}
	if _, ok := s.creds.APIKey(); !ok {
		h.Status = observability.HealthStatusDegraded
		h.Message = s.missingKey().Message
	}
	return h
}

func (s *Service) missingKey() *errors.AppError {
	env := s.upstream.APIKeyEnv()
	if env == "" || env == llm.DefaultAPIKeyEnv {
		return errors.ConfigurationError(errors.MsgAPIKeyNotConfigured)
	}
	return errors.ConfigurationError(fmt.Sprintf("API key is not configured. Set the %s environment variable.", env))
}

// logUpstreamFailure records the upstream's own answer, which callers never see.
func (s *Service) logUpstreamFailure(ctx context.Context, err error) {
	appErr := errors.Wrap(err)
	fields := logger.Fields(
		logger.FieldOperation, "upstream.call",
		"code", string(appErr.Code),
		logger.FieldModel, s.upstream.Model(),
	)
	if status, ok := appErr.Details["upstream_status"]; ok {
		fields[logger.FieldUpstreamStatus] = status
	}
	if body, ok := appErr.Details["upstream_body"].(string); ok {
		if len(body) > maxLoggedUpstreamBody {
			body = body[:maxLoggedUpstreamBody] + "...(truncated)"
		}
		fields["upstream_body"] = body
	}
	s.log.WithContext(ctx).Error("Upstream call failed", logger.MergeWithError(fields, appErr.Cause))
}
