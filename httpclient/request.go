package httpclient

import (
	"io"
	"strings"

	"github.com/kbukum/webgen/httpclient/sse"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL if BaseURL is empty.
	Path string
	// Headers are request-specific headers (merged with client defaults).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is the request body. Accepts io.Reader, []byte, string, or any value
	// that will be JSON-encoded.
	Body any
	// Key overrides the client-level key for this request.
	Key *APIKey
}

// Response is the result of a buffered HTTP request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StreamResponse wraps a streaming HTTP response whose body has not been read.
type StreamResponse struct {
	StatusCode int
	Headers    map[string]string
	// Body is the raw upstream body. Reads return bytes as they arrive.
	Body io.ReadCloser
}

// IsSSE reports whether the upstream declared a text/event-stream body.
func (r *StreamResponse) IsSSE() bool {
	return strings.Contains(r.Headers["Content-Type"], "text/event-stream")
}

// Events wraps the body in a Server-Sent Events reader. The reader owns the
// body from then on; closing either closes the stream.
func (r *StreamResponse) Events() sse.Reader {
	return sse.NewReader(r.Body)
}

// Close releases the upstream connection. Safe to call more than once.
func (r *StreamResponse) Close() error {
	if r.Body == nil {
		return nil
	}
	return r.Body.Close()
}
