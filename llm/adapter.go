package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/kbukum/webgen/errors"
	"github.com/kbukum/webgen/httpclient"
	"github.com/kbukum/webgen/version"
)

// ErrNoDialect is returned when an adapter is built without a dialect.
var ErrNoDialect = errors.New("llm: dialect is required")

// Adapter sends payloads built by a Dialect to the provider over httpclient.
type Adapter struct {
	client  *httpclient.Client
	dialect Dialect
	cfg     Config
}

// New creates an adapter using the dialect named in cfg from the registry.
func New(cfg Config) (*Adapter, error) {
	cfg.ApplyDefaults()
	dialect, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return NewWithDialect(dialect, cfg)
}

// NewWithDialect creates an adapter with an explicit dialect instance.
func NewWithDialect(dialect Dialect, cfg Config) (*Adapter, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	headers := map[string]string{"User-Agent": version.UserAgent()}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	client, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: headers,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create http client: %w", err)
	}

	return &Adapter{client: client, dialect: dialect, cfg: cfg}, nil
}

// Name returns the adapter name.
func (a *Adapter) Name() string { return a.dialect.Name() + "-llm" }

// Dialect returns the dialect used by this adapter.
func (a *Adapter) Dialect() Dialect { return a.dialect }

// Model returns the configured model.
func (a *Adapter) Model() string { return a.cfg.Model }

// APIKeyEnv returns the name of the environment variable holding the credential.
func (a *Adapter) APIKeyEnv() string { return a.cfg.APIKeyEnv }

// Generate performs one buffered generation call.
func (a *Adapter) Generate(ctx context.Context, apiKey string, payload any) (*httpclient.Response, error) {
	resp, err := a.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   a.dialect.GeneratePath(a.cfg.Model),
		Body:   payload,
		Key:    a.credential(apiKey),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

// Stream performs one streaming generation call. The body is not read; the
// caller must Close the returned response.
func (a *Adapter) Stream(ctx context.Context, apiKey string, payload any) (*httpclient.StreamResponse, error) {
	resp, err := a.client.DoStream(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   a.dialect.StreamPath(a.cfg.Model),
		Query:  a.dialect.StreamQuery(),
		Body:   payload,
		Key:    a.credential(apiKey),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func (a *Adapter) credential(apiKey string) *httpclient.APIKey {
	if a.cfg.APIKeyHeader != "" {
		return httpclient.HeaderKey(a.cfg.APIKeyHeader, apiKey)
	}
	return httpclient.QueryKey(a.cfg.APIKeyParam, apiKey)
}

// mapError converts httpclient failures into service errors. The upstream
// body travels in the error details for logging and is never shown to callers.
func mapError(err error) error {
	hErr, ok := httpclient.AsError(err)
	if !ok {
		return apperrors.Internal(err)
	}
	if hErr.StatusCode > 0 {
		return apperrors.UpstreamError(hErr.StatusCode, hErr.Body).
			WithDetail("upstream_code", hErr.Code.String()).
			WithCause(err)
	}
	if hErr.Code == httpclient.ErrCodeValidation {
		return apperrors.Internal(err)
	}
	return apperrors.UpstreamUnreachable(err).WithDetail("upstream_code", hErr.Code.String())
}
