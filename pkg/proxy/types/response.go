package types

// Object names used in responses.
const (
	ObjectChatCompletion      = "chat.completion"
	ObjectChatCompletionChunk = "chat.completion.chunk"
	ObjectModel               = "model"
	ObjectList                = "list"

	// FinishReasonStop is the only finish reason Switchboard emits.
	FinishReasonStop = "stop"
)

// ChatCompletionResponse represents an OpenAI-compatible chat completion response.
// This is returned for non-streaming requests.
type ChatCompletionResponse struct {
	// ID identifies the completion.
	ID string `json:"id"`

	// Object is always "chat.completion".
	Object string `json:"object"`

	// Created is the Unix timestamp (seconds since epoch) of when the completion was created.
	Created int64 `json:"created"`

	// Model is the model selected for the request.
	Model string `json:"model"`

	// Choices holds exactly one choice.
	Choices []Choice `json:"choices"`
}

// Choice represents a single completion choice.
type Choice struct {
	// Index is the index of this choice in the list of choices.
	Index int `json:"index"`

	// Message is the generated message.
	Message ResponseMessage `json:"message"`

	// FinishReason explains why the model stopped generating tokens.
	FinishReason string `json:"finish_reason"`
}

// ResponseMessage is the assistant message of a non-streaming completion.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionStreamChunk represents a chunk in a streaming response.
// This is sent as Server-Sent Events (SSE) when stream=true.
type ChatCompletionStreamChunk struct {
	// ID is "chatcmpl-<n>" with n strictly increasing within a stream.
	ID string `json:"id"`

	// Object is always "chat.completion.chunk".
	Object string `json:"object"`

	// Created is the Unix timestamp (seconds since epoch) of when the chunk was created.
	Created int64 `json:"created"`

	// Model is the model that produced the chunk.
	Model string `json:"model"`

	// Choices is a list of streaming choices.
	Choices []StreamChoice `json:"choices"`
}

// StreamChoice represents a single choice in a streaming response.
type StreamChoice struct {
	// Index is the index of this choice in the list of choices.
	Index int `json:"index"`

	// Delta contains incremental content.
	Delta Delta `json:"delta"`

	// FinishReason is null on content chunks and "stop" on the terminal chunk.
	FinishReason *string `json:"finish_reason"`
}

// Delta contains incremental content in a streaming response.
// The terminal chunk carries an empty delta, rendered as {}.
type Delta struct {
	Content string `json:"content,omitempty"`
}

// ModelList is the body of GET /v1/models.
type ModelList struct {
	Object string      `json:"object"`
	Data   []ModelCard `json:"data"`
}

// ModelCard describes one advertised model.
type ModelCard struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Message string `json:"message"`
}
