package routing

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"mercator-hq/switchboard/pkg/providers"
	"mercator-hq/switchboard/pkg/proxy/types"
)

func TestRouter_NonStreamEndToEnd(t *testing.T) {
	f := newFixture(t, 0.1)
	f.generator.SetReply(simpleModel, "4")

	result, err := f.router.Handle(context.Background(), userRequest("gemini-2.5-pro attrib", "What's 2+2?", boolPtr(false)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Streaming() {
		t.Fatal("expected non-streaming result")
	}

	resp := result.Response
	if resp.ID != CompletionID || resp.Object != types.ObjectChatCompletion {
		t.Errorf("unexpected envelope: id=%q object=%q", resp.ID, resp.Object)
	}
	if resp.Created != 1700000000 {
		t.Errorf("created = %d, want 1700000000", resp.Created)
	}
	if resp.Model != simpleModel {
		t.Errorf("model = %q, want %q", resp.Model, simpleModel)
	}
	if len(resp.Choices) != 1 {
		t.Fatalf("expected 1 choice, got %d", len(resp.Choices))
	}
	choice := resp.Choices[0]
	if choice.Message.Role != types.RoleAssistant || choice.Message.Content != "4" {
		t.Errorf("unexpected message: %+v", choice.Message)
	}
	if choice.FinishReason != types.FinishReasonStop {
		t.Errorf("finish_reason = %q, want stop", choice.FinishReason)
	}

	calls := f.generator.Calls()
	if len(calls) != 1 || calls[0].Method != "generate" || calls[0].Text != "What's 2+2?" {
		t.Errorf("unexpected generator calls: %+v", calls)
	}
}

func TestRouter_NonStreamFallback(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(f *fixture)
		wantText   string
		wantModels []string
		wantServed string
		fallbacks  int64
	}{
		{
			name: "primary succeeds",
			setup: func(f *fixture) {
				f.generator.SetReply(complexModel, "deep answer")
			},
			wantText:   "deep answer",
			wantModels: []string{complexModel},
			wantServed: complexModel,
		},
		{
			name: "primary fails, simple succeeds",
			setup: func(f *fixture) {
				f.generator.SetFailing(complexModel)
				f.generator.SetReply(simpleModel, "fallback answer")
			},
			wantText:   "fallback answer",
			wantModels: []string{complexModel, simpleModel},
			wantServed: simpleModel,
			fallbacks:  1,
		},
		{
			name: "both fail",
			setup: func(f *fixture) {
				f.generator.SetFailing(complexModel)
				f.generator.SetFailing(simpleModel)
			},
			wantText:   providers.ErrorSentinel,
			wantModels: []string{complexModel, simpleModel},
			wantServed: simpleModel,
			fallbacks:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0.9)
			tt.setup(f)

			result, err := f.router.Handle(context.Background(), userRequest("", "Compare two sorting algorithms", boolPtr(false)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := result.Response.Choices[0].Message.Content; got != tt.wantText {
				t.Errorf("content = %q, want %q", got, tt.wantText)
			}
			if result.Response.Model != tt.wantServed {
				t.Errorf("model = %q, want serving model %q", result.Response.Model, tt.wantServed)
			}
			if result.Model != complexModel {
				t.Errorf("selected model = %q, want %q", result.Model, complexModel)
			}
			if got := f.generator.Models(); strings.Join(got, ",") != strings.Join(tt.wantModels, ",") {
				t.Errorf("models called = %v, want %v", got, tt.wantModels)
			}
			if got := f.router.Stats().Fallbacks; got != tt.fallbacks {
				t.Errorf("fallbacks = %d, want %d", got, tt.fallbacks)
			}
		})
	}
}

func TestRouter_MetaForcesNonStream(t *testing.T) {
	f := newFixture(t, 0.9)
	f.generator.SetReply(liteModel, `{"title": "Math"}`)

	result, err := f.router.Handle(context.Background(), userRequest("", "Generate a concise, 3-5 word title", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Streaming() {
		t.Fatal("meta request must not stream")
	}
	if result.Model != liteModel || result.Response.Choices[0].Message.Content != `{"title": "Math"}` {
		t.Errorf("unexpected result: model=%q content=%q", result.Model, result.Response.Choices[0].Message.Content)
	}
	if len(f.rater.Texts()) != 0 {
		t.Error("meta request must not be rated")
	}
}

func TestRouter_Stream(t *testing.T) {
	f := newFixture(t, 0.1)
	f.generator.SetDeltas(simpleModel, "Hel", "lo")

	result, err := f.router.Handle(context.Background(), userRequest("", "Say hello", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Streaming() {
		t.Fatal("expected streaming result")
	}

	frames := collect(t, result.Frames)
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}
	if got := deltas(frames); strings.Join(got, "") != "Hello" {
		t.Errorf("deltas = %v", got)
	}
	for i, want := range []string{"chatcmpl-1", "chatcmpl-2", "chatcmpl-3"} {
		chunk := frames[i].Chunk
		if chunk.ID != want || chunk.Object != types.ObjectChatCompletionChunk || chunk.Model != simpleModel {
			t.Errorf("frame %d: unexpected chunk %+v", i, chunk)
		}
	}
	stop := frames[2].Chunk.Choices[0]
	if stop.FinishReason == nil || *stop.FinishReason != types.FinishReasonStop || stop.Delta.Content != "" {
		t.Errorf("expected empty stop chunk, got %+v", stop)
	}
	if !frames[3].Done {
		t.Error("expected Done frame last")
	}

	calls := f.generator.Calls()
	if len(calls) != 1 || calls[0].Method != "stream" || len(calls[0].Contents) != 1 {
		t.Errorf("unexpected generator calls: %+v", calls)
	}
}

func TestRouter_StreamFallback(t *testing.T) {
	tests := []struct {
		name       string
		primary    []providers.StreamEvent
		fallback   []string
		wantDeltas []string
	}{
		{
			name: "primary exhausted before any output",
			primary: []providers.StreamEvent{
				{Index: 1, Delta: providers.ErrorSentinel, FinishReason: providers.FinishReasonStop},
				{Done: true},
			},
			fallback:   []string{"ok"},
			wantDeltas: []string{"ok"},
		},
		{
			name: "error after partial output",
			primary: []providers.StreamEvent{
				{Index: 1, Delta: "par"},
				{Index: 2, Delta: "[Error: upstream]"},
				{Done: true},
			},
			fallback:   []string{"full", " answer"},
			wantDeltas: []string{"par", "full", " answer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0.9)
			f.generator.SetStream(complexModel, tt.primary...)
			f.generator.SetDeltas(simpleModel, tt.fallback...)

			result, err := f.router.Handle(context.Background(), userRequest("", "Explain recursion", nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			frames := collect(t, result.Frames)

			if got := deltas(frames); strings.Join(got, "|") != strings.Join(tt.wantDeltas, "|") {
				t.Errorf("deltas = %v, want %v", got, tt.wantDeltas)
			}
			assertTerminated(t, frames)
			if got := f.generator.Models(); len(got) != 2 || got[1] != simpleModel {
				t.Errorf("expected fallback to %s, got %v", simpleModel, got)
			}
			if got := f.router.Stats().Fallbacks; got != 1 {
				t.Errorf("fallbacks = %d, want 1", got)
			}
		})
	}
}

func TestRouter_StreamBothFail(t *testing.T) {
	f := newFixture(t, 0.9)
	f.generator.SetFailing(complexModel)
	f.generator.SetFailing(simpleModel)

	result, err := f.router.Handle(context.Background(), userRequest("", "Explain recursion", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frames := collect(t, result.Frames)
	assertTerminated(t, frames)

	if len(frames) != 2 {
		t.Fatalf("expected sentinel chunk and Done, got %d frames", len(frames))
	}
	if got := frames[0].Chunk.Choices[0].Delta.Content; got != providers.ErrorSentinel {
		t.Errorf("expected sentinel delta, got %q", got)
	}
}

func TestRouter_StreamWithoutDone(t *testing.T) {
	f := newFixture(t, 0.1)
	f.generator.SetStream(simpleModel, providers.StreamEvent{Index: 1, Delta: "x"})

	result, err := f.router.Handle(context.Background(), userRequest("", "hi", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frames := collect(t, result.Frames)
	assertTerminated(t, frames)
	if got := deltas(frames); len(got) != 1 || got[0] != "x" {
		t.Errorf("deltas = %v", got)
	}
}

func TestRouter_StreamCancelled(t *testing.T) {
	f := newFixture(t, 0.1)
	f.generator.SetStream(simpleModel, providers.StreamEvent{Index: 1, Delta: "first"})
	f.generator.SetBlocking(simpleModel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := f.router.Handle(ctx, userRequest("", "hi", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := <-result.Frames
	if first.Chunk == nil || first.Chunk.Choices[0].Delta.Content != "first" {
		t.Fatalf("unexpected first frame: %+v", first)
	}
	cancel()

	for _, frame := range collect(t, result.Frames) {
		if frame.Done {
			t.Error("cancelled stream must not emit Done")
		}
	}
	if got := f.generator.Models(); len(got) != 1 {
		t.Errorf("cancelled stream must not fall back, calls: %v", got)
	}
}

func TestRouter_SelectionError(t *testing.T) {
	f := newFixture(t, 0)
	f.rater.SetError(errors.New("classifier down"))

	_, err := f.router.Handle(context.Background(), userRequest("", "hi", nil))
	if !errors.Is(err, ErrClassificationFailed) {
		t.Fatalf("expected classification error, got %v", err)
	}
	if got := f.router.Stats().Errors; got != 1 {
		t.Errorf("errors = %d, want 1", got)
	}
	if len(f.generator.Calls()) != 0 {
		t.Error("generator must not be called when selection fails")
	}
}

func TestReloadable(t *testing.T) {
	rl := NewReloadable(nil)
	if _, err := rl.Handle(context.Background(), userRequest("", "hi", boolPtr(false))); !errors.Is(err, ErrNoRouter) {
		t.Fatalf("expected ErrNoRouter, got %v", err)
	}

	first := newFixture(t, 0.1)
	first.generator.SetReply(simpleModel, "one")
	second := newFixture(t, 0.1)
	second.generator.SetReply(simpleModel, "two")

	if prev := rl.Swap(first.router); prev != nil {
		t.Errorf("expected no previous router, got %p", prev)
	}
	assertReply(t, rl, "one")

	if prev := rl.Swap(second.router); prev != first.router {
		t.Error("Swap must return the previous router")
	}
	assertReply(t, rl, "two")
	if rl.Current() != second.router {
		t.Error("Current must return the installed router")
	}
}

func TestReloadable_Stats(t *testing.T) {
	rl := NewReloadable(nil)
	if rl.Stats() != nil {
		t.Error("expected nil stats without a router")
	}
	rl.ResetStats()

	f := newFixture(t, 0.1)
	f.generator.SetReply(simpleModel, "ok")
	rl.Swap(f.router)
	assertReply(t, rl, "ok")

	if got := rl.Stats().TotalRequests; got != 1 {
		t.Errorf("total requests = %d, want 1", got)
	}
	rl.ResetStats()
	if got := rl.Stats().TotalRequests; got != 0 {
		t.Errorf("total requests after reset = %d, want 0", got)
	}
}

func assertReply(t *testing.T, c Completer, want string) {
	t.Helper()
	result, err := c.Handle(context.Background(), userRequest("", "hi", boolPtr(false)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Response.Choices[0].Message.Content; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

// assertTerminated checks the outward stream ends with exactly one stop
// chunk followed by Done, with strictly increasing chunk ids.
func assertTerminated(t *testing.T, frames []Frame) {
	t.Helper()
	if len(frames) < 2 {
		t.Fatalf("expected at least 2 frames, got %d", len(frames))
	}
	if !frames[len(frames)-1].Done {
		t.Fatal("expected Done frame last")
	}

	stops := 0
	for i, frame := range frames[:len(frames)-1] {
		if frame.Done || frame.Chunk == nil {
			t.Fatalf("frame %d: unexpected non-chunk frame", i)
		}
		if want := "chatcmpl-" + strconv.Itoa(i+1); frame.Chunk.ID != want {
			t.Errorf("frame %d: id = %q, want %q", i, frame.Chunk.ID, want)
		}
		if frame.Chunk.Choices[0].FinishReason != nil {
			stops++
		}
	}
	if stops != 1 {
		t.Errorf("expected exactly one stop chunk, got %d", stops)
	}
	if frames[len(frames)-2].Chunk.Choices[0].FinishReason == nil {
		t.Error("stop chunk must directly precede Done")
	}
}
