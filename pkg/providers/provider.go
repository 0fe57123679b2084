package providers

import "context"

// Generator produces model output with credential rotation.
//
// Neither method returns an error: exhausting every credential is reported
// in-band with ErrorSentinel, so callers always receive well-formed output.
// Implementations must respect context cancellation.
//
// Example usage:
//
//	for ev := range gen.Stream(ctx, "gemini-2.5-flash", contents) {
//	    if ev.Done {
//	        break
//	    }
//	    fmt.Print(ev.Delta)
//	}
type Generator interface {
	// Stream opens a streaming generation for the full conversation. The
	// returned channel follows the StreamEvent sequence contract.
	Stream(ctx context.Context, model string, contents []Content) <-chan StreamEvent

	// Generate performs a single non-streaming generation for text sent as
	// one user turn.
	Generate(ctx context.Context, model, text string) string
}

// ContentCaller issues exactly one generateContent call with a specific
// credential. It is the primitive that auxiliary callers rotate over.
type ContentCaller interface {
	// Keys returns the credential pool.
	Keys() *KeyPool

	// Call sends contents to model using key and returns the first
	// candidate's text.
	Call(ctx context.Context, model, key string, contents []Content, cfg GenerationConfig) (string, error)
}
