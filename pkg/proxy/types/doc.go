// Package types defines the OpenAI-compatible wire types of the proxy.
//
// # Core Types
//
// Request types:
//   - ChatCompletionRequest: body of POST /v1/chat/completions
//   - Message: one conversation turn
//   - Content: plain text, a block sequence, or invalid
//   - ContentBlock: text, image_url, or file/document block
//
// Response types:
//   - ChatCompletionResponse: non-streaming response
//   - ChatCompletionStreamChunk: one SSE frame of a streaming response
//   - ModelList / ModelCard: GET /v1/models
//   - HealthResponse: GET /health
//
// Error types:
//   - ErrorResponse: OpenAI-compatible error envelope
//
// # Lenient Content Decoding
//
// Content never fails to decode because of its shape. Values that are neither
// a string nor an array become ContentInvalid, and block fields of the wrong
// JSON type are treated as absent. Downstream components substitute
// placeholder text for such content instead of rejecting the request.
package types
