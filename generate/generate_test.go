package generate_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kbukum/webgen/chat"
	"github.com/kbukum/webgen/errors"
	"github.com/kbukum/webgen/generate"
	"github.com/kbukum/webgen/intent"
	"github.com/kbukum/webgen/llm"
	"github.com/kbukum/webgen/llm/gemini"
	"github.com/kbukum/webgen/observability"
	"github.com/kbukum/webgen/relay"
	"github.com/kbukum/webgen/server"
	"github.com/kbukum/webgen/server/testutil"
)

// fakeUpstream stands in for the Gemini API and records what it receives.
type fakeUpstream struct {
	srv     *httptest.Server
	calls   atomic.Int32
	mu      sync.Mutex
	last    gemini.Request
	lastURL string
	handle  http.HandlerFunc
}

func newFakeUpstream(t *testing.T, handle http.HandlerFunc) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{handle: handle}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		var req gemini.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("upstream received invalid JSON: %v", err)
		}
		f.mu.Lock()
		f.last = req
		f.lastURL = r.URL.String()
		f.mu.Unlock()
		f.handle(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) request() (gemini.Request, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.lastURL
}

func replyText(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(gemini.Response{Candidates: []gemini.Candidate{{
			Content: &gemini.Content{Role: "model", Parts: []chat.Part{{Text: text}}},
		}}})
	}
}

type setup struct {
	creds   generate.Credentials
	intent  intent.Config
	relay   relay.Config
	metrics *observability.Metrics
	maxBody string
}

func newService(t *testing.T, upstreamURL string, s setup) *httptest.Server {
	t.Helper()
	adapter, err := llm.NewWithDialect(&gemini.Dialect{}, llm.Config{BaseURL: upstreamURL, Model: "test-model"})
	if err != nil {
		t.Fatalf("NewWithDialect() error: %v", err)
	}
	if s.creds == nil {
		s.creds = generate.StaticCredentials("test-key")
	}
	svc := generate.NewService(adapter, s.creds, s.intent)
	h := generate.NewHandler(svc, s.relay, s.metrics, "webgen-test")
	return testutil.NewServer(t, func(srv *server.Server) {
		h.RegisterRoutes(srv.GinEngine())
	}, func(cfg *server.Config) {
		if s.maxBody != "" {
			cfg.MaxBodySize = s.maxBody
		}
	})
}

func post(t *testing.T, url, body string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]string
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("response is not JSON: %q", raw)
	}
	return resp, out
}

func instructionFor(t *testing.T, in intent.Intent) string {
	t.Helper()
	instr, err := intent.NewSelector(intent.Config{}).Select(in)
	if err != nil {
		t.Fatalf("Select(%v) error: %v", in, err)
	}
	return instr.String()
}

const hiHistory = `{"chatHistory":[{"role":"user","parts":[{"text":"hi"}]}]}`

func systemText(req gemini.Request) string {
	if req.SystemInstruction == nil || len(req.SystemInstruction.Parts) == 0 {
		return ""
	}
	return req.SystemInstruction.Parts[0].Text
}

func TestChat_GreetingUsesGreetingInstruction(t *testing.T) {
	up := newFakeUpstream(t, replyText("Hello! How can I help?"))
	ts := newService(t, up.srv.URL, setup{})

	resp, body := post(t, ts.URL+"/api/chat", `{"chatHistory":[{"role":"user","parts":[{"text":"hi"}]}]}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["text"] != "Hello! How can I help?" {
		t.Errorf("text = %q", body["text"])
	}
	req, rawURL := up.request()
	if got := systemText(req); got != instructionFor(t, intent.Greeting) {
		t.Errorf("system instruction = %q, want greeting instruction", got)
	}
	if !strings.Contains(rawURL, "key=test-key") {
		t.Errorf("credential not sent as key query param: %s", rawURL)
	}
	if !strings.Contains(rawURL, "models/test-model:generateContent") {
		t.Errorf("unexpected upstream path: %s", rawURL)
	}
}

func TestChat_CodeRequestUsesCodeInstruction(t *testing.T) {
	up := newFakeUpstream(t, replyText("<html></html>"))
	ts := newService(t, up.srv.URL, setup{})

	resp, body := post(t, ts.URL+"/api/chat", `{"chatHistory":[{"role":"user","parts":[{"text":"Build me a landing page for a bakery"}]}]}`)

	if resp.StatusCode != http.StatusOK || body["text"] != "<html></html>" {
		t.Fatalf("got %d %v", resp.StatusCode, body)
	}
	req, _ := up.request()
	if got := systemText(req); got != instructionFor(t, intent.CodeRequest) {
		t.Errorf("system instruction = %q, want code instruction", got)
	}
}

func TestChat_HistoryForwardedUnchanged(t *testing.T) {
	up := newFakeUpstream(t, replyText("ok"))
	ts := newService(t, up.srv.URL, setup{})

	history := chat.History{
		{Role: chat.RoleUser, Parts: []chat.Part{{Text: "hello"}}},
		{Role: chat.RoleModel, Parts: []chat.Part{{Text: "Hi! What shall we build?"}}},
		{Role: chat.RoleUser, Parts: []chat.Part{{Text: "tell me about flexbox"}, {Text: "and grid"}}},
	}
	raw, _ := json.Marshal(map[string]any{"chatHistory": history})

	resp, _ := post(t, ts.URL+"/api/chat", string(raw))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	req, _ := up.request()
	if len(req.Contents) != len(history) {
		t.Fatalf("contents has %d turns, want %d", len(req.Contents), len(history))
	}
	for i := range history {
		if req.Contents[i].Role != history[i].Role || len(req.Contents[i].Parts) != len(history[i].Parts) {
			t.Fatalf("turn %d changed: %+v", i, req.Contents[i])
		}
		for j := range history[i].Parts {
			if req.Contents[i].Parts[j].Text != history[i].Parts[j].Text {
				t.Errorf("turn %d part %d = %q", i, j, req.Contents[i].Parts[j].Text)
			}
		}
	}
	if got := systemText(req); got != instructionFor(t, intent.Conversational) {
		t.Errorf("system instruction = %q, want conversational", got)
	}
}

func TestChat_GenerateAlias(t *testing.T) {
	up := newFakeUpstream(t, replyText("ok"))
	ts := newService(t, up.srv.URL, setup{})

	resp, _ := post(t, ts.URL+"/api/generate", `{"chatHistory":[{"role":"user","parts":[{"text":"what is css"}]}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	req, _ := up.request()
	if len(req.Contents) != 1 || req.Contents[0].Text() != "what is css" {
		t.Errorf("contents = %+v", req.Contents)
	}
}

func TestChat_BadRequests(t *testing.T) {
	up := newFakeUpstream(t, replyText("unused"))
	ts := newService(t, up.srv.URL, setup{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty object", `{}`, errors.MsgChatHistoryRequired},
		{"empty history", `{"chatHistory":[]}`, errors.MsgChatHistoryRequired},
		{"prompt only", `{"prompt":"hi"}`, errors.MsgChatHistoryRequired},
		{"prompt with empty history", `{"prompt":"hi","chatHistory":[]}`, errors.MsgChatHistoryRequired},
		{"whitespace prompt", `{"prompt":"   "}`, errors.MsgChatHistoryRequired},
		{"malformed json", `{"chatHistory":`, errors.MsgChatHistoryRequired},
		{"wrong type", `{"chatHistory":"hi"}`, errors.MsgChatHistoryRequired},
		{"turn without parts", `{"chatHistory":[{"role":"user","parts":[]}]}`, chat.MsgEmptyTurn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, ts.URL+"/api/chat", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if body["error"] != tt.want {
				t.Errorf("error = %q, want %q", body["error"], tt.want)
			}
		})
	}
	if n := up.calls.Load(); n != 0 {
		t.Errorf("upstream called %d times for invalid input", n)
	}
}

func TestChat_BodyTooLarge(t *testing.T) {
	up := newFakeUpstream(t, replyText("unused"))
	ts := newService(t, up.srv.URL, setup{maxBody: "1KB"})

	long := strings.Repeat("x", 2048)
	for _, path := range []string{"/api/chat", "/generate-website"} {
		body := `{"chatHistory":[{"role":"user","parts":[{"text":"` + long + `"}]}],"prompt":"` + long + `"}`
		resp, out := post(t, ts.URL+path, body)
		if resp.StatusCode != http.StatusRequestEntityTooLarge {
			t.Errorf("%s: status = %d, want 413", path, resp.StatusCode)
		}
		if out["error"] != errors.MsgPayloadTooLarge {
			t.Errorf("%s: error = %q", path, out["error"])
		}
	}
	if n := up.calls.Load(); n != 0 {
		t.Errorf("upstream called %d times for oversized bodies", n)
	}
}

func TestChat_MethodNotAllowed(t *testing.T) {
	up := newFakeUpstream(t, replyText("unused"))
	ts := newService(t, up.srv.URL, setup{})

	resp, err := http.Get(ts.URL + "/api/chat")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] != errors.MsgMethodNotAllowed {
		t.Errorf("error = %q", body["error"])
	}
}

func TestChat_MissingKey(t *testing.T) {
	up := newFakeUpstream(t, replyText("unused"))
	ts := newService(t, up.srv.URL, setup{creds: generate.StaticCredentials("")})

	resp, body := post(t, ts.URL+"/api/chat", hiHistory)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if body["error"] != errors.MsgAPIKeyNotConfigured {
		t.Errorf("error = %q", body["error"])
	}
	if n := up.calls.Load(); n != 0 {
		t.Errorf("upstream called %d times without a key", n)
	}
}

func TestChat_UpstreamStatusMirrored(t *testing.T) {
	const secret = `{"error":{"message":"quota exhausted for project 1234"}}`
	up := newFakeUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, secret)
	})
	ts := newService(t, up.srv.URL, setup{})

	resp, err := http.Post(ts.URL+"/api/chat", "application/json", strings.NewReader(hiHistory))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	if strings.Contains(string(raw), "quota") {
		t.Errorf("upstream body leaked to caller: %s", raw)
	}
	var body map[string]string
	_ = json.Unmarshal(raw, &body)
	if body["error"] != errors.MsgUpstreamFailed {
		t.Errorf("error = %q", body["error"])
	}
	if n := up.calls.Load(); n != 1 {
		t.Errorf("upstream called %d times, want exactly 1", n)
	}
}

func TestChat_UpstreamUnreachable(t *testing.T) {
	up := newFakeUpstream(t, replyText("unused"))
	url := up.srv.URL
	up.srv.Close()
	ts := newService(t, url, setup{})

	resp, body := post(t, ts.URL+"/api/chat", hiHistory)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if body["error"] != errors.MsgUnexpected {
		t.Errorf("error = %q", body["error"])
	}
}

func TestChat_EmptyGenerationFallback(t *testing.T) {
	up := newFakeUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	})
	ts := newService(t, up.srv.URL, setup{})

	resp, body := post(t, ts.URL+"/api/chat", hiHistory)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["text"] != relay.DefaultEmptyText {
		t.Errorf("text = %q, want fallback", body["text"])
	}
}

func TestChat_DisabledInstructions(t *testing.T) {
	up := newFakeUpstream(t, replyText("ok"))
	ts := newService(t, up.srv.URL, setup{intent: intent.Config{DisableInstructions: true}})

	post(t, ts.URL+"/api/chat", hiHistory)
	req, _ := up.request()
	if req.SystemInstruction != nil {
		t.Errorf("system instruction sent while disabled: %+v", req.SystemInstruction)
	}
}

func TestWebsite_InstructionSurvivesDisable(t *testing.T) {
	up := newFakeUpstream(t, replyText("<html></html>"))
	ts := newService(t, up.srv.URL, setup{intent: intent.Config{DisableInstructions: true}})

	post(t, ts.URL+"/generate-website", `{"prompt":"a bakery"}`)
	req, _ := up.request()
	if got := systemText(req); got != instructionFor(t, intent.CodeRequest) {
		t.Errorf("system instruction = %q, want code instruction", got)
	}
}

func TestWebsite_ReturnsCode(t *testing.T) {
	up := newFakeUpstream(t, replyText("<!DOCTYPE html><html></html>"))
	ts := newService(t, up.srv.URL, setup{relay: relay.Config{Mode: relay.ModeStreamed}})

	// A greeting prompt still gets the website instruction on this route.
	resp, body := post(t, ts.URL+"/generate-website", `{"prompt":"hello"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["code"] != "<!DOCTYPE html><html></html>" {
		t.Errorf("code = %q", body["code"])
	}
	req, _ := up.request()
	if got := systemText(req); got != instructionFor(t, intent.CodeRequest) {
		t.Errorf("system instruction = %q, want code instruction", got)
	}
}

func TestWebsite_Validation(t *testing.T) {
	up := newFakeUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[]}}]}`)
	})
	ts := newService(t, up.srv.URL, setup{})

	for _, b := range []string{`{}`, `{"prompt":""}`, `not json`} {
		resp, body := post(t, ts.URL+"/generate-website", b)
		if resp.StatusCode != http.StatusBadRequest || body["error"] != errors.MsgPromptRequired {
			t.Errorf("%s: got %d %v", b, resp.StatusCode, body)
		}
	}

	resp, body := post(t, ts.URL+"/generate-website", `{"prompt":"a portfolio"}`)
	if resp.StatusCode != http.StatusOK || body["code"] != relay.DefaultEmptyCode {
		t.Errorf("empty generation: got %d %v", resp.StatusCode, body)
	}
}

func sseUpstream(events ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") != "sse" {
			http.Error(w, "expected alt=sse", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, e := range events {
			_, _ = io.WriteString(w, "data: "+e+"\n\n")
			flusher.Flush()
		}
	}
}

func sseText(text string) string {
	raw, _ := json.Marshal(gemini.Response{Candidates: []gemini.Candidate{{
		Content: &gemini.Content{Parts: []chat.Part{{Text: text}}},
	}}})
	return string(raw)
}

func TestChat_StreamedRaw(t *testing.T) {
	events := []string{sseText("Hel"), sseText("lo")}
	up := newFakeUpstream(t, sseUpstream(events...))
	ts := newService(t, up.srv.URL, setup{relay: relay.Config{Mode: relay.ModeStreamed}})

	resp, err := http.Post(ts.URL+"/api/chat", "application/json", strings.NewReader(hiHistory))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	want := "data: " + events[0] + "\n\ndata: " + events[1] + "\n\n"
	if string(raw) != want {
		t.Errorf("body = %q, want upstream bytes %q", raw, want)
	}
	if got := resp.Trailer.Get(relay.StatusTrailer); got != relay.StatusComplete {
		t.Errorf("trailer = %q, want %q", got, relay.StatusComplete)
	}
}

func TestChat_StreamedText(t *testing.T) {
	up := newFakeUpstream(t, sseUpstream(sseText("Hel"), `{"candidates":[]}`, sseText("lo")))
	ts := newService(t, up.srv.URL, setup{relay: relay.Config{Mode: relay.ModeStreamed, StreamFormat: relay.FormatText}})

	resp, err := http.Post(ts.URL+"/api/chat", "application/json", strings.NewReader(hiHistory))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if string(raw) != "Hello" {
		t.Errorf("body = %q, want Hello", raw)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	if got := resp.Trailer.Get(relay.StatusTrailer); got != relay.StatusComplete {
		t.Errorf("trailer = %q", got)
	}
}

func TestChat_StreamedUpstreamErrorBeforeBytes(t *testing.T) {
	up := newFakeUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"overloaded"}`)
	})
	ts := newService(t, up.srv.URL, setup{relay: relay.Config{Mode: relay.ModeStreamed}})

	resp, body := post(t, ts.URL+"/api/chat", hiHistory)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	if body["error"] != errors.MsgUpstreamFailed {
		t.Errorf("error = %q", body["error"])
	}
}

func TestService_PlanWithoutUpstreamCall(t *testing.T) {
	up := newFakeUpstream(t, replyText("unused"))
	adapter, err := llm.NewWithDialect(&gemini.Dialect{}, llm.Config{BaseURL: up.srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	svc := generate.NewService(adapter, generate.StaticCredentials("k"), intent.Config{Granularity: intent.Binary})

	plan, err := svc.Plan(context.Background(), chat.FromPrompt("hello"), generate.PlanOptions{})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if plan.Intent != intent.Conversational {
		t.Errorf("binary granularity classified greeting as %v", plan.Intent)
	}
	if plan.Turns != 1 {
		t.Errorf("Turns = %d", plan.Turns)
	}
	if n := up.calls.Load(); n != 0 {
		t.Errorf("Plan made %d upstream calls", n)
	}
}

func TestService_CheckHealth(t *testing.T) {
	adapter, err := llm.NewWithDialect(&gemini.Dialect{}, llm.Config{BaseURL: "http://127.0.0.1:1", APIKeyEnv: "WEBGEN_TEST_KEY"})
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("WEBGEN_TEST_KEY", "")
	svc := generate.NewService(adapter, generate.EnvCredentials("WEBGEN_TEST_KEY"), intent.Config{})
	h := svc.CheckHealth(context.Background())
	if h.Status != observability.HealthStatusDegraded {
		t.Errorf("status = %v, want degraded", h.Status)
	}
	if !strings.Contains(h.Message, "WEBGEN_TEST_KEY") {
		t.Errorf("message should name the variable: %q", h.Message)
	}

	t.Setenv("WEBGEN_TEST_KEY", "  \"abc\"  ")
	if h := svc.CheckHealth(context.Background()); h.Status != observability.HealthStatusUp {
		t.Errorf("status = %v, want up once the key is set", h.Status)
	}
}
