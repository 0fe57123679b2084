package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/processing/conversation"
	"mercator-hq/switchboard/pkg/providers"
	"mercator-hq/switchboard/pkg/proxy/types"
	"mercator-hq/switchboard/pkg/routing"

	testrouting "mercator-hq/switchboard/internal/routing"
)

type fakeCompleter struct {
	result *routing.Result
	err    error
	got    *types.ChatCompletionRequest
}

func (f *fakeCompleter) Handle(ctx context.Context, req *types.ChatCompletionRequest) (*routing.Result, error) {
	f.got = req
	return f.result, f.err
}

func newTestRouter(gen *testrouting.MockGenerator, score float64) *routing.Router {
	catalog := testCatalog()
	return routing.NewRouter(routing.Options{
		Analyzer: conversation.NewAnalyzer(conversation.NewRuleSet(config.DefaultRules())),
		Selector: routing.NewSelector(routing.SelectorOptions{
			Catalog:   catalog,
			Rater:     testrouting.NewMockRater(score),
			Threshold: 0.6,
		}),
		Generator: gen,
		Catalog:   catalog,
	})
}

func testCatalog() *routing.Catalog {
	return routing.NewCatalog(&config.ModelsConfig{
		Rate:    "gemini-2.0-flash",
		Lite:    "gemini-2.0-flash-lite",
		Simple:  "gemini-2.5-flash",
		Complex: "gemini-2.5-pro",
		Catalog: []string{"gemini-2.0-flash-lite", "gemini-2.5-flash", "gemini-2.5-pro"},
	})
}

func postChat(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestChatHandler_NonStream(t *testing.T) {
	gen := testrouting.NewMockGenerator()
	gen.SetReply("gemini-2.5-flash", "4")
	h := NewChatHandler(newTestRouter(gen, 0.1), nil)

	w := postChat(h, `{"model":"gemini-2.5-pro attrib","messages":[{"role":"user","content":"What's 2+2?"}],"stream":false}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp types.ChatCompletionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.ID != "chatcmpl-1" || resp.Object != "chat.completion" {
		t.Errorf("unexpected envelope: %+v", resp)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != "4" || resp.Choices[0].FinishReason != "stop" {
		t.Errorf("unexpected choices: %+v", resp.Choices)
	}
}

func TestChatHandler_Stream(t *testing.T) {
	gen := testrouting.NewMockGenerator()
	gen.SetDeltas("gemini-2.5-flash", "Hel", "lo")
	h := NewChatHandler(newTestRouter(gen, 0.1), nil)

	w := postChat(h, `{"model":"Auto","messages":[{"role":"user","content":"Say hello"}]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	events := strings.Split(strings.TrimSuffix(w.Body.String(), "\n\n"), "\n\n")
	if len(events) != 4 {
		t.Fatalf("expected 4 SSE events, got %d: %q", len(events), w.Body.String())
	}
	if events[3] != "data: [DONE]" {
		t.Errorf("expected [DONE] last, got %q", events[3])
	}

	var text strings.Builder
	for i, ev := range events[:3] {
		var chunk types.ChatCompletionStreamChunk
		if err := json.Unmarshal([]byte(strings.TrimPrefix(ev, "data: ")), &chunk); err != nil {
			t.Fatalf("event %d is not a chunk: %v", i, err)
		}
		if chunk.Object != "chat.completion.chunk" {
			t.Errorf("event %d: object = %q", i, chunk.Object)
		}
		text.WriteString(chunk.Choices[0].Delta.Content)
	}
	if text.String() != "Hello" {
		t.Errorf("streamed text = %q, want Hello", text.String())
	}
	if !strings.Contains(events[2], `"delta":{},"finish_reason":"stop"`) {
		t.Errorf("expected empty stop chunk, got %q", events[2])
	}
}

func TestChatHandler_ExhaustedIsSuccess(t *testing.T) {
	gen := testrouting.NewMockGenerator()
	gen.SetFailing("gemini-2.5-pro")
	gen.SetFailing("gemini-2.5-flash")
	h := NewChatHandler(newTestRouter(gen, 0.9), nil)

	w := postChat(h, `{"messages":[{"role":"user","content":"Explain monads"}]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, providers.ErrorSentinel) {
		t.Errorf("expected sentinel in stream, got %q", body)
	}
	if strings.Count(body, `"finish_reason":"stop"`) != 1 || strings.Count(body, "[DONE]") != 1 {
		t.Errorf("expected one stop chunk and one [DONE], got %q", body)
	}
}

func TestChatHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		err        error
		wantStatus int
	}{
		{"wrong method", http.MethodGet, "", nil, http.StatusBadRequest},
		{"invalid json", http.MethodPost, `{`, nil, http.StatusBadRequest},
		{"no messages", http.MethodPost, `{"messages":[]}`, nil, http.StatusBadRequest},
		{"selection failure", http.MethodPost, `{"messages":[{"role":"user","content":"hi"}]}`,
			&routing.SelectionError{Cause: errors.New("down")}, http.StatusInternalServerError},
		{"router not ready", http.MethodPost, `{"messages":[{"role":"user","content":"hi"}]}`,
			routing.ErrNoRouter, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewChatHandler(&fakeCompleter{err: tt.err}, nil)
			req := httptest.NewRequest(tt.method, "/v1/chat/completions", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var errResp types.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil || errResp.Error.Message == "" {
				t.Errorf("expected OpenAI error body, got %q", w.Body.String())
			}
		})
	}
}

func TestChatHandler_ClientDisconnect(t *testing.T) {
	gen := testrouting.NewMockGenerator()
	gen.SetStream("gemini-2.5-flash", providers.StreamEvent{Index: 1, Delta: "partial"})
	gen.SetBlocking("gemini-2.5-flash")
	h := NewChatHandler(newTestRouter(gen, 0.1), nil)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions",
		strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`)).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after client disconnect")
	}
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != `{"message":"OK"}` {
		t.Errorf("body = %q", body)
	}
}

type staticCatalog struct{ c *routing.Catalog }

func (s staticCatalog) Catalog() *routing.Catalog { return s.c }

func TestModelsHandler(t *testing.T) {
	h := NewModelsHandler(staticCatalog{testCatalog()})
	h.now = func() time.Time { return time.Unix(1700000000, 0) }

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/models", nil))

	var list types.ModelList
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if list.Object != "list" {
		t.Errorf("object = %q, want list", list.Object)
	}

	want := []string{"Auto", "gemini-2.0-flash-lite", "gemini-2.5-flash", "gemini-2.5-pro"}
	if len(list.Data) != len(want) {
		t.Fatalf("expected %d models, got %d", len(want), len(list.Data))
	}
	for i, card := range list.Data {
		if card.ID != want[i] || card.Object != "model" || card.OwnedBy != "system" || card.Created != 1700000000 {
			t.Errorf("model %d: unexpected card %+v", i, card)
		}
	}
}
