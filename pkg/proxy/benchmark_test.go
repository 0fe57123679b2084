package proxy

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/switchboard/pkg/proxy/types"
	"mercator-hq/switchboard/pkg/routing"
)

func BenchmarkParseChatCompletionRequest(b *testing.B) {
	bodies := map[string][]byte{
		"text": []byte(`{"model":"Auto","messages":[{"role":"system","content":"You are a helpful assistant"},{"role":"user","content":"Hello, world!"}]}`),
		"multimodal": []byte(`{"model":"Auto","stream":true,"messages":[{"role":"user","content":[` +
			`{"type":"text","text":"Summarize the attachment"},` +
			`{"type":"image_url","image_url":{"url":"data:image/png;base64,` + strings.Repeat("A", 4096) + `"}},` +
			`{"type":"file","mime_type":"application/pdf","data":"` + strings.Repeat("J", 4096) + `"}]}]}`),
	}

	for name, body := range bodies {
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(body)))
			for i := 0; i < b.N; i++ {
				req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewReader(body))
				if _, err := ParseChatCompletionRequest(req); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkWriteSSEStream(b *testing.B) {
	const deltas = 64
	stop := types.FinishReasonStop
	frames := make([]routing.Frame, 0, deltas+2)
	for i := 0; i < deltas; i++ {
		frames = append(frames, routing.Frame{Chunk: &types.ChatCompletionStreamChunk{
			ID:      "chatcmpl-1",
			Object:  types.ObjectChatCompletionChunk,
			Model:   "gemini-2.5-flash",
			Choices: []types.StreamChoice{{Delta: types.Delta{Content: "token "}}},
		}})
	}
	frames = append(frames,
		routing.Frame{Chunk: &types.ChatCompletionStreamChunk{
			ID:      "chatcmpl-65",
			Object:  types.ObjectChatCompletionChunk,
			Model:   "gemini-2.5-flash",
			Choices: []types.StreamChoice{{FinishReason: &stop}},
		}},
		routing.Frame{Done: true},
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ch := make(chan routing.Frame, len(frames))
		for _, f := range frames {
			ch <- f
		}
		close(ch)
		if _, err := WriteSSEStream(context.Background(), httptest.NewRecorder(), ch); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHandleError(b *testing.B) {
	err := &RequestError{Message: "messages must contain at least one message", Code: types.CodeMissingField, Param: "messages"}
	for i := 0; i < b.N; i++ {
		_ = HandleError(err)
	}
}
