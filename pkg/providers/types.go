package providers

import (
	"encoding/json"
	"time"
)

// ProviderConfig contains the transport configuration for an HTTP provider.
type ProviderConfig struct {
	// Name is the provider identifier used in errors and logs (e.g., "gemini")
	Name string

	// BaseURL is the API endpoint base URL, including the version segment
	BaseURL string

	// Timeout is the request timeout duration. Zero means unbounded, which is
	// what long-lived streams need.
	Timeout time.Duration

	// MaxRetries is the number of extra attempts on transport errors for a
	// single credential. Non-2xx responses are never retried.
	MaxRetries int

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration

	// Backoff returns the delay before retry attempt n (n >= 1).
	// Nil means DefaultBackoff.
	Backoff func(attempt int) time.Duration
}

// Content roles understood by the provider.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Content is one turn of provider content: a role and its ordered parts.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part is either a text part or an inline binary part.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData is a base64 payload with its media type.
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart builds an inline binary part.
func InlinePart(mimeType, data string) Part {
	return Part{InlineData: &InlineData{MimeType: mimeType, Data: data}}
}

// MarshalJSON always renders a text part with its "text" key, even when
// empty, so that a model turn with no text still has a well-formed part.
func (p Part) MarshalJSON() ([]byte, error) {
	if p.InlineData != nil {
		return json.Marshal(struct {
			InlineData *InlineData `json:"inline_data"`
		}{p.InlineData})
	}
	return json.Marshal(struct {
		Text string `json:"text"`
	}{p.Text})
}

// GenerationConfig carries sampling parameters sent with every request.
type GenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}
