package providers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockServer is a mock Gemini API server for testing provider adapters.
// Responses are scripted per model and per API key.
type MockServer struct {
	server    *httptest.Server
	responses map[string]MockResponse
	requests  []RecordedRequest
	mu        sync.Mutex
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode   int
	Body         interface{}
	Delay        time.Duration
	Headers      map[string]string
	StreamChunks []string // Raw SSE data payloads for streaming responses
	RawStream    string   // Written verbatim instead of StreamChunks when set
	Drop         bool     // Close the connection without a response
}

// RecordedRequest captures one request received by the server.
type RecordedRequest struct {
	Model  string
	Method string // generateContent or streamGenerateContent
	Key    string
	Alt    string
	Body   []byte
}

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		responses: make(map[string]MockResponse),
	}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the versioned base URL of the mock API.
func (ms *MockServer) URL() string {
	return ms.server.URL + "/v1"
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// On scripts the response for a model and key. An empty model or key
// matches any value; the most specific match wins.
func (ms *MockServer) On(model, key string, response MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.responses[matchKey(model, key)] = response
}

// SetResponse sets the default response for every request.
func (ms *MockServer) SetResponse(response MockResponse) {
	ms.On("", "", response)
}

// Requests returns a copy of the requests received so far.
func (ms *MockServer) Requests() []RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return append([]RecordedRequest(nil), ms.requests...)
}

// GetRequestCount returns the number of requests received.
func (ms *MockServer) GetRequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.requests)
}

// ResetRequestCount clears the recorded requests.
func (ms *MockServer) ResetRequestCount() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.requests = nil
}

func matchKey(model, key string) string {
	return model + "|" + key
}

// handler handles incoming HTTP requests.
func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	model, method, ok := parsePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	body, _ := io.ReadAll(r.Body)
	key := r.URL.Query().Get("key")

	ms.mu.Lock()
	ms.requests = append(ms.requests, RecordedRequest{
		Model:  model,
		Method: method,
		Key:    key,
		Alt:    r.URL.Query().Get("alt"),
		Body:   body,
	})
	response, found := ms.lookup(model, key)
	ms.mu.Unlock()

	if !found {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	if response.Drop {
		if hj, ok := w.(http.Hijacker); ok {
			if conn, _, err := hj.Hijack(); err == nil {
				conn.Close()
				return
			}
		}
		http.Error(w, "hijack not supported", http.StatusInternalServerError)
		return
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}

	if response.RawStream != "" || len(response.StreamChunks) > 0 {
		ms.handleStream(w, response)
		return
	}

	status := response.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if response.Body != nil {
		switch v := response.Body.(type) {
		case string:
			_, _ = w.Write([]byte(v))
		case []byte:
			_, _ = w.Write(v)
		default:
			_ = json.NewEncoder(w).Encode(response.Body)
		}
	}
}

// lookup resolves the most specific scripted response. Callers hold mu.
func (ms *MockServer) lookup(model, key string) (MockResponse, bool) {
	for _, k := range []string{matchKey(model, key), matchKey(model, ""), matchKey("", key), matchKey("", "")} {
		if resp, ok := ms.responses[k]; ok {
			return resp, true
		}
	}
	return MockResponse{}, false
}

// parsePath splits /v1/models/{model}:{method}.
func parsePath(path string) (model, method string, ok bool) {
	i := strings.Index(path, "/models/")
	if i < 0 {
		return "", "", false
	}
	rest := path[i+len("/models/"):]
	j := strings.LastIndex(rest, ":")
	if j <= 0 {
		return "", "", false
	}
	return rest[:j], rest[j+1:], true
}

// handleStream handles Server-Sent Events streaming responses.
func (ms *MockServer) handleStream(w http.ResponseWriter, response MockResponse) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	status := response.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if response.RawStream != "" {
		_, _ = io.WriteString(w, response.RawStream)
		flusher.Flush()
		return
	}

	for _, chunk := range response.StreamChunks {
		fmt.Fprintf(w, "data: %s\r\n\r\n", chunk)
		flusher.Flush()
	}
}

// MockGenerateResponse creates a generateContent response carrying text.
func MockGenerateResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role": "model",
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
	}
}

// MockStreamChunk creates one streamGenerateContent SSE payload.
func MockStreamChunk(text string) string {
	bytes, _ := json.Marshal(MockGenerateResponse(text))
	return string(bytes)
}

// MockStream creates a streaming response from text deltas.
func MockStream(deltas ...string) MockResponse {
	chunks := make([]string, len(deltas))
	for i, d := range deltas {
		chunks[i] = MockStreamChunk(d)
	}
	return MockResponse{StatusCode: http.StatusOK, StreamChunks: chunks}
}

// MockText creates a successful non-streaming response.
func MockText(text string) MockResponse {
	return MockResponse{StatusCode: http.StatusOK, Body: MockGenerateResponse(text)}
}

// MockErrorResponse creates a mock error response in the Google API shape.
func MockErrorResponse(statusCode int, message string) MockResponse {
	body := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    statusCode,
			"message": message,
			"status":  http.StatusText(statusCode),
		},
	}

	return MockResponse{
		StatusCode: statusCode,
		Body:       body,
	}
}

// MockAuthError creates a 403 invalid key response.
func MockAuthError() MockResponse {
	return MockErrorResponse(http.StatusForbidden, "API key not valid. Please pass a valid API key.")
}

// MockRateLimitError creates a 429 quota response.
func MockRateLimitError(retryAfter int) MockResponse {
	response := MockErrorResponse(http.StatusTooManyRequests, "Resource has been exhausted (e.g. check quota).")
	response.Headers = map[string]string{
		"Retry-After": fmt.Sprintf("%d", retryAfter),
	}
	return response
}

// MockServerError creates a 500 internal server error response.
func MockServerError() MockResponse {
	return MockErrorResponse(http.StatusInternalServerError, "Internal error encountered.")
}

// MockDrop creates a response that fails at the transport level.
func MockDrop() MockResponse {
	return MockResponse{Drop: true}
}
