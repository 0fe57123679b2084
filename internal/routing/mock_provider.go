package routing

import (
	"context"
	"sync"

	"mercator-hq/switchboard/pkg/providers"
)

// MockGenerator is a scripted providers.Generator for testing.
//
// Responses are keyed by model. A model with no script streams nothing and
// generates providers.ErrorSentinel, mirroring an exhausted credential pool.
type MockGenerator struct {
	mu      sync.Mutex
	streams map[string][]providers.StreamEvent
	replies map[string]string
	calls   []Call

	// block keeps a model's stream open after its scripted events until the
	// context is cancelled.
	block map[string]bool
}

// Call records one invocation of the mock.
type Call struct {
	Method   string
	Model    string
	Text     string
	Contents []providers.Content
}

var _ providers.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates an empty mock generator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		streams: make(map[string][]providers.StreamEvent),
		replies: make(map[string]string),
		block:   make(map[string]bool),
	}
}

// SetStream scripts the events Stream emits for model.
func (m *MockGenerator) SetStream(model string, events ...providers.StreamEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams[model] = events
}

// SetDeltas scripts a well-formed stream for model: one event per delta,
// followed by the stop event and Done.
func (m *MockGenerator) SetDeltas(model string, deltas ...string) {
	events := make([]providers.StreamEvent, 0, len(deltas)+2)
	for i, d := range deltas {
		events = append(events, providers.StreamEvent{Index: i + 1, Model: model, Delta: d})
	}
	events = append(events,
		providers.StreamEvent{Index: len(deltas) + 1, Model: model, FinishReason: providers.FinishReasonStop},
		providers.StreamEvent{Done: true},
	)
	m.SetStream(model, events...)
}

// SetFailing scripts model to report exhausted credentials.
func (m *MockGenerator) SetFailing(model string) {
	m.SetStream(model,
		providers.StreamEvent{Index: 1, Model: model, Delta: providers.ErrorSentinel, FinishReason: providers.FinishReasonStop},
		providers.StreamEvent{Done: true},
	)
	m.SetReply(model, providers.ErrorSentinel)
}

// SetReply scripts the text Generate returns for model.
func (m *MockGenerator) SetReply(model, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[model] = text
}

// SetBlocking keeps model's stream open after its scripted events.
func (m *MockGenerator) SetBlocking(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.block[model] = true
}

// Stream implements providers.Generator.
func (m *MockGenerator) Stream(ctx context.Context, model string, contents []providers.Content) <-chan providers.StreamEvent {
	m.mu.Lock()
	events := append([]providers.StreamEvent(nil), m.streams[model]...)
	block := m.block[model]
	m.calls = append(m.calls, Call{Method: "stream", Model: model, Contents: contents})
	m.mu.Unlock()

	out := make(chan providers.StreamEvent)
	go func() {
		defer close(out)
		for _, ev := range events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
		if block {
			<-ctx.Done()
		}
	}()
	return out
}

// Generate implements providers.Generator.
func (m *MockGenerator) Generate(ctx context.Context, model, text string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: "generate", Model: model, Text: text})
	if reply, ok := m.replies[model]; ok {
		return reply
	}
	return providers.ErrorSentinel
}

// Calls returns the recorded invocations in order.
func (m *MockGenerator) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Models returns the model of each recorded invocation in order.
func (m *MockGenerator) Models() []string {
	calls := m.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Model
	}
	return out
}

// MockRater is a scripted routing.Rater.
type MockRater struct {
	mu    sync.Mutex
	score float64
	err   error
	texts []string
}

// NewMockRater creates a rater that always returns score.
func NewMockRater(score float64) *MockRater {
	return &MockRater{score: score}
}

// SetError makes Rate fail with err.
func (r *MockRater) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Rate returns the scripted score.
func (r *MockRater) Rate(ctx context.Context, text string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	if r.err != nil {
		return 0, r.err
	}
	return r.score, nil
}

// Texts returns the texts that were rated.
func (r *MockRater) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}
