package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/webgen/errors"
	"github.com/kbukum/webgen/httpclient"
	"github.com/kbukum/webgen/llm/gemini"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// chunkBody returns one chunk per Read, then end.
type chunkBody struct {
	chunks [][]byte
	end    error
	closed atomic.Bool
}

func (b *chunkBody) Read(p []byte) (int, error) {
	if len(b.chunks) == 0 {
		if b.end != nil {
			return 0, b.end
		}
		return 0, io.EOF
	}
	n := copy(p, b.chunks[0])
	b.chunks = b.chunks[1:]
	return n, nil
}

func (b *chunkBody) Close() error {
	b.closed.Store(true)
	return nil
}

// pipeBody is a blocking upstream that records Close.
type pipeBody struct {
	*io.PipeReader
	closed atomic.Bool
}

func (b *pipeBody) Close() error {
	b.closed.Store(true)
	return b.PipeReader.Close()
}

// writeRecorder records each Write call separately.
type writeRecorder struct {
	*httptest.ResponseRecorder
	writes [][]byte
	fail   error
}

func (w *writeRecorder) Write(p []byte) (int, error) {
	if w.fail != nil {
		return 0, w.fail
	}
	w.writes = append(w.writes, append([]byte(nil), p...))
	return w.ResponseRecorder.Write(p)
}

func newWriteRecorder() *writeRecorder {
	return &writeRecorder{ResponseRecorder: httptest.NewRecorder()}
}

func trailer(w *httptest.ResponseRecorder) string {
	return w.Result().Trailer.Get(StatusTrailer)
}

func TestDefaults_TextOr(t *testing.T) {
	d := Defaults{EmptyText: "nothing", EmptyCode: "no code"}

	tests := []struct {
		name  string
		field Field
		text  string
		ok    bool
		want  string
	}{
		{"text present", FieldText, "hello", true, "hello"},
		{"text missing", FieldText, "", false, "nothing"},
		{"text empty", FieldText, "", true, "nothing"},
		{"code missing", FieldCode, "", false, "no code"},
		{"code present", FieldCode, "<html></html>", true, "<html></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.TextOr(tt.field, tt.text, tt.ok); got != tt.want {
				t.Errorf("TextOr = %q, want %q", got, tt.want)
			}
		})
	}

	var zero Defaults
	if got := zero.TextOr(FieldText, "", false); got != DefaultEmptyText {
		t.Errorf("zero defaults text = %q", got)
	}
	if got := zero.TextOr(FieldCode, "", false); got != DefaultEmptyCode {
		t.Errorf("zero defaults code = %q", got)
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Mode != ModeBuffered || cfg.StreamFormat != FormatRaw {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cfg.Mode = "chunked"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown mode")
	}

	cfg.Mode = ModeStreamed
	cfg.StreamFormat = "ndjson"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown stream format")
	}
}

func bufferedContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	return c, w
}

func TestBuffered(t *testing.T) {
	r := New(Defaults{})
	d := &gemini.Dialect{}

	t.Run("text", func(t *testing.T) {
		c, w := bufferedContext()
		body := []byte(`{"candidates":[{"content":{"parts":[{"text":"Hello there"}]}}]}`)

		if err := r.Buffered(c, d, &httpclient.Response{StatusCode: 200, Body: body}, FieldText); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var got map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 1 || got["text"] != "Hello there" {
			t.Errorf("body = %v", got)
		}
	})

	t.Run("empty code uses fallback", func(t *testing.T) {
		c, w := bufferedContext()
		body := []byte(`{"candidates":[]}`)

		if err := r.Buffered(c, d, &httpclient.Response{StatusCode: 200, Body: body}, FieldCode); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &got)
		if got["code"] != DefaultEmptyCode {
			t.Errorf("code = %q", got["code"])
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		c, w := bufferedContext()

		err := r.Buffered(c, d, &httpclient.Response{StatusCode: 200, Body: []byte("<html>")}, FieldText)
		if !apperrors.IsCode(err, apperrors.ErrCodeInternal) {
			t.Fatalf("expected internal error, got %v", err)
		}
		if w.Body.Len() != 0 {
			t.Errorf("nothing should be written, got %q", w.Body.String())
		}
	})
}

func TestStream_PreservesChunks(t *testing.T) {
	r := New(Defaults{})
	// The middle chunk splits a multi-byte rune.
	chunks := [][]byte{[]byte("<!DOCTYPE html>"), []byte("<p>caf\xc3"), []byte("\xa9</p>")}
	body := &chunkBody{chunks: append([][]byte(nil), chunks...)}
	w := newWriteRecorder()

	out := r.Stream(context.Background(), w, body)

	if !out.Complete() || out.Err != nil {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Chunks != 3 {
		t.Errorf("chunks = %d, want 3", out.Chunks)
	}
	if len(w.writes) != len(chunks) {
		t.Fatalf("writes = %d, want %d", len(w.writes), len(chunks))
	}
	for i := range chunks {
		if !bytes.Equal(w.writes[i], chunks[i]) {
			t.Errorf("write %d = %q, want %q", i, w.writes[i], chunks[i])
		}
	}
	if w.Body.String() != "<!DOCTYPE html><p>café</p>" {
		t.Errorf("body = %q", w.Body.String())
	}
	if got := trailer(w.ResponseRecorder); got != StatusComplete {
		t.Errorf("trailer = %q, want complete", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("content-type = %q", ct)
	}
	if w.Header().Get("Cache-Control") != "no-cache" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing streaming headers")
	}
	if !w.Flushed {
		t.Error("expected flush")
	}
	if !body.closed.Load() {
		t.Error("upstream body not closed")
	}
}

func TestStream_UpstreamCutOff(t *testing.T) {
	r := New(Defaults{})
	body := &chunkBody{chunks: [][]byte{[]byte("<html><bo")}, end: io.ErrUnexpectedEOF}
	w := newWriteRecorder()

	out := r.Stream(context.Background(), w, body)

	if out.State != Aborted || !errors.Is(out.Err, io.ErrUnexpectedEOF) {
		t.Fatalf("outcome = %+v", out)
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "<html><bo" {
		t.Errorf("body = %q, bytes must not be altered", w.Body.String())
	}
	if got := trailer(w.ResponseRecorder); got != StatusAborted {
		t.Errorf("trailer = %q, want aborted", got)
	}
}

func TestStream_CancelClosesUpstream(t *testing.T) {
	r := New(Defaults{})
	pr, pw := io.Pipe()
	defer pw.Close()
	body := &pipeBody{PipeReader: pr}
	w := newWriteRecorder()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan Outcome, 1)
	go func() { done <- r.Stream(ctx, w, body) }()

	cancel()

	select {
	case out := <-done:
		if out.State != Aborted {
			t.Errorf("state = %s, want aborted", out.State)
		}
		if !errors.Is(out.Err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", out.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after cancellation")
	}
	if !body.closed.Load() {
		t.Error("upstream body not closed on cancellation")
	}
	if got := trailer(w.ResponseRecorder); got != StatusAborted {
		t.Errorf("trailer = %q, want aborted", got)
	}
}

func TestStream_WriteFailureStopsReading(t *testing.T) {
	r := New(Defaults{})
	body := &chunkBody{chunks: [][]byte{[]byte("a"), []byte("b")}}
	w := newWriteRecorder()
	w.fail = errors.New("broken pipe")

	out := r.Stream(context.Background(), w, body)

	if out.State != Aborted || out.Chunks != 0 {
		t.Fatalf("outcome = %+v", out)
	}
	if !body.closed.Load() {
		t.Error("upstream body not closed after write failure")
	}
	if len(body.chunks) != 1 {
		t.Errorf("reading should stop after the failed write, %d chunks left", len(body.chunks))
	}
}

func sseBody(events ...string) io.ReadCloser {
	var b strings.Builder
	for _, e := range events {
		b.WriteString("data: ")
		b.WriteString(e)
		b.WriteString("\n\n")
	}
	return io.NopCloser(strings.NewReader(b.String()))
}

func TestTextStream(t *testing.T) {
	r := New(Defaults{})
	d := &gemini.Dialect{}

	t.Run("complete", func(t *testing.T) {
		resp := &httpclient.StreamResponse{StatusCode: 200, Body: sseBody(
			`{"candidates":[{"content":{"parts":[{"text":"Hello"}]}}]}`,
			`{"candidates":[]}`,
			`{"candidates":[{"content":{"parts":[{"text":", world"}]}}]}`,
		)}
		w := newWriteRecorder()

		out := r.TextStream(context.Background(), w, d, resp)

		if !out.Complete() {
			t.Fatalf("outcome = %+v", out)
		}
		if w.Body.String() != "Hello, world" {
			t.Errorf("body = %q", w.Body.String())
		}
		if len(w.writes) != 2 {
			t.Errorf("writes = %d, want 2", len(w.writes))
		}
		if got := trailer(w.ResponseRecorder); got != StatusComplete {
			t.Errorf("trailer = %q", got)
		}
	})

	t.Run("malformed event aborts", func(t *testing.T) {
		resp := &httpclient.StreamResponse{StatusCode: 200, Body: sseBody(
			`{"candidates":[{"content":{"parts":[{"text":"Hi"}]}}]}`,
			`{not json`,
		)}
		w := newWriteRecorder()

		out := r.TextStream(context.Background(), w, d, resp)

		if out.State != Aborted {
			t.Fatalf("state = %s, want aborted", out.State)
		}
		if w.Body.String() != "Hi" {
			t.Errorf("body = %q", w.Body.String())
		}
		if got := trailer(w.ResponseRecorder); got != StatusAborted {
			t.Errorf("trailer = %q", got)
		}
	})
}

func TestState_String(t *testing.T) {
	states := map[State]string{
		Idle:        "idle",
		HeadersSent: "headers_sent",
		Streaming:   "streaming",
		Closed:      "closed",
		Aborted:     "aborted",
	}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
