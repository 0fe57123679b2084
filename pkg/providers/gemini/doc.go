// Package gemini implements the Gemini generateContent adapter.
//
// Provider rotates over a shuffled credential pool for every call. Streaming
// uses streamGenerateContent with alt=sse; only "data:" lines are parsed and
// unparsable payloads are skipped. A connection that yields no text counts as
// a failed credential. When every credential fails, Stream emits a single
// stop event carrying providers.ErrorSentinel and Generate returns it.
//
// Basic usage:
//
//	p, err := gemini.NewProvider(gemini.Options{
//	    Provider:   providers.ProviderConfig{BaseURL: "https://generativelanguage.googleapis.com/v1"},
//	    Keys:       providers.NewKeyPool(keys),
//	    Generation: providers.GenerationConfig{MaxOutputTokens: 65000, Temperature: 0.7},
//	})
//	if err != nil {
//	    return err
//	}
//	for ev := range p.Stream(ctx, "gemini-2.5-pro", contents) {
//	    fmt.Print(ev.Delta)
//	}
package gemini
