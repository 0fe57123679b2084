package routing

import (
	"testing"
	"time"

	"mercator-hq/switchboard/pkg/config"
	"mercator-hq/switchboard/pkg/processing/conversation"
	"mercator-hq/switchboard/pkg/proxy/types"

	testrouting "mercator-hq/switchboard/internal/routing"
)

const (
	rateModel    = "gemini-2.0-flash"
	liteModel    = "gemini-2.0-flash-lite"
	simpleModel  = "gemini-2.5-flash"
	complexModel = "gemini-2.5-pro"
)

func testCatalog() *Catalog {
	return NewCatalog(&config.ModelsConfig{
		Rate:    rateModel,
		Lite:    liteModel,
		Simple:  simpleModel,
		Complex: complexModel,
		Catalog: []string{liteModel, simpleModel, complexModel},
	})
}

type fixture struct {
	router    *Router
	generator *testrouting.MockGenerator
	rater     *testrouting.MockRater
}

func newFixture(t *testing.T, score float64) *fixture {
	t.Helper()
	catalog := testCatalog()
	gen := testrouting.NewMockGenerator()
	rater := testrouting.NewMockRater(score)
	router := NewRouter(Options{
		Analyzer:  conversation.NewAnalyzer(conversation.NewRuleSet(config.DefaultRules())),
		Selector:  NewSelector(SelectorOptions{Catalog: catalog, Rater: rater, Threshold: 0.6}),
		Generator: gen,
		Catalog:   catalog,
		Now:       func() time.Time { return time.Unix(1700000000, 0) },
	})
	return &fixture{router: router, generator: gen, rater: rater}
}

func userRequest(model, text string, stream *bool) *types.ChatCompletionRequest {
	return &types.ChatCompletionRequest{
		Model:    model,
		Messages: []types.Message{{Role: types.RoleUser, Content: types.TextContent(text)}},
		Stream:   stream,
	}
}

func boolPtr(b bool) *bool { return &b }

// collect drains frames, failing the test if the stream does not end in time.
func collect(t *testing.T, frames <-chan Frame) []Frame {
	t.Helper()
	var out []Frame
	timeout := time.After(2 * time.Second)
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				return out
			}
			out = append(out, f)
		case <-timeout:
			t.Fatalf("stream did not close, got %d frames", len(out))
			return out
		}
	}
}

func deltas(frames []Frame) []string {
	var out []string
	for _, f := range frames {
		if f.Chunk != nil && f.Chunk.Choices[0].FinishReason == nil {
			out = append(out, f.Chunk.Choices[0].Delta.Content)
		}
	}
	return out
}
