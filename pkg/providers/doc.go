// Package providers holds the provider-agnostic pieces of upstream
// generation: the content model sent to the provider, the stream event
// contract, the credential pool and the base HTTP transport.
//
// # Content model
//
// A conversation is an ordered []Content. Each Content has a role ("user" or
// "model") and parts; a Part is either text or inline base64 data:
//
//	contents := []providers.Content{{
//	    Role:  providers.RoleUser,
//	    Parts: []providers.Part{providers.TextPart("Hello!")},
//	}}
//
// # Streams
//
// Generator.Stream returns a channel of StreamEvent values: deltas, then one
// terminal event with FinishReason "stop", then one Done event. When every
// credential fails the stream still terminates the same way, with the single
// terminal event carrying ErrorSentinel as its delta.
//
// # Credentials
//
// KeyPool is read-only after construction. Shuffled returns a request-local
// copy, so concurrent requests never share iteration state.
//
// # Transport
//
// HTTPProvider retries transport errors with exponential backoff
// (1s, 2s, 4s, ...) up to ProviderConfig.MaxRetries. Non-2xx statuses are
// returned immediately as typed errors so the caller can rotate to the next
// credential.
package providers
