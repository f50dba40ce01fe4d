package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: srv.URL + "/v1beta", Headers: map[string]string{"User-Agent": "webgen/test"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestClient_Do_POST_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1beta/models/m:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "secret" {
			t.Errorf("expected key query param, got %q", got)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		if ua := r.Header.Get("User-Agent"); ua != "webgen/test" {
			t.Errorf("expected default header, got %q", ua)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv).Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "models/m:generateContent",
		Body:   map[string]string{"text": "hi"},
		Key:    QueryKey("key", "secret"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("expected success, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), `"text":"hi"`) {
		t.Errorf("unexpected body %s", resp.Body)
	}
}

func TestClient_Do_BodyKinds(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		wantCT string
	}{
		{"string", "plain", "text/plain"},
		{"bytes", []byte("raw"), ""},
		{"reader", strings.NewReader("stream"), ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Content-Type"); got != tc.wantCT {
					t.Errorf("content type = %q, want %q", got, tc.wantCT)
				}
			}))
			defer srv.Close()
			if _, err := newTestClient(t, srv).Do(context.Background(), Request{Method: http.MethodPost, Path: "/", Body: tc.body}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestClient_Do_ErrorClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"quota"}}`)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv).Do(context.Background(), Request{Method: http.MethodPost, Path: "/"})
	if err == nil {
		t.Fatal("expected error")
	}
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected response alongside error, got %+v", resp)
	}
	e, ok := AsError(err)
	if !ok || e.Code != ErrCodeRateLimit || e.StatusCode != 429 {
		t.Fatalf("unexpected error %v", err)
	}
	if !strings.Contains(string(e.Body), "quota") {
		t.Errorf("expected upstream body on error, got %s", e.Body)
	}
}

func TestClient_Do_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(Config{BaseURL: url})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	e, ok := AsError(err)
	if !ok || !e.IsTransport() {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestClient_Do_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := newTestClient(t, srv).Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if !IsCanceled(err) {
		t.Fatalf("expected canceled error, got %v", err)
	}
}

func TestClient_Do_FullURL_IgnoresBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/direct" {
			t.Errorf("expected /direct, got %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: "http://unused.invalid"})
	if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: srv.URL + "/direct"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_DoStream_SSE(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") != "sse" {
			t.Errorf("expected alt=sse")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = fmt.Fprint(w, "data: hello\n\ndata: world\n\n")
	}))
	defer srv.Close()

	stream, err := newTestClient(t, srv).DoStream(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "models/m:streamGenerateContent",
		Query:  map[string]string{"alt": "sse"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Close()

	if !stream.IsSSE() {
		t.Fatal("expected SSE content type")
	}
	events := stream.Events()
	for _, want := range []string{"hello", "world"} {
		ev, err := events.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.Data != want {
			t.Errorf("event data = %q, want %q", ev.Data, want)
		}
	}
	if _, err := events.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestClient_DoStream_RawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "chunk-1chunk-2")
	}))
	defer srv.Close()

	stream, err := newTestClient(t, srv).DoStream(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Close()
	if stream.IsSSE() {
		t.Error("plain body should not be SSE")
	}
	data, _ := io.ReadAll(stream.Body)
	if string(data) != "chunk-1chunk-2" {
		t.Errorf("unexpected body %q", data)
	}
	if err := stream.Close(); err != nil {
		t.Errorf("second close should be harmless, got %v", err)
	}
}

func TestClient_DoStream_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, strings.Repeat("e", 100*1024))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).DoStream(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	e, ok := AsError(err)
	if !ok || e.Code != ErrCodeAuth || e.StatusCode != http.StatusForbidden {
		t.Fatalf("expected auth error, got %v", err)
	}
	if len(e.Body) != 64*1024 {
		t.Errorf("expected error body capped at 64KB, got %d", len(e.Body))
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{BaseURL: "::bad"}); err == nil {
		t.Fatal("expected error for invalid base url")
	}
}
