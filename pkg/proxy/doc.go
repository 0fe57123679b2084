// Package proxy holds the HTTP-facing helpers of the OpenAI-compatible
// surface: request parsing, error mapping and response writing.
//
// # Request Flow
//
//  1. Client sends an OpenAI-compatible request to /v1/chat/completions
//  2. Middleware runs: recovery, request ID, logging, tracing, CORS
//  3. The handler parses and validates the body with ParseChatCompletionRequest
//  4. The router selects a model and generates, falling back to the simple model
//  5. The result is written as one JSON completion or as an SSE stream
//
// # Streaming Support
//
// Streams are written with WriteSSEStream:
//
//	data: {"id":"chatcmpl-1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"Hel"},"finish_reason":null}]}
//	data: {"id":"chatcmpl-2","object":"chat.completion.chunk","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}
//	data: [DONE]
//
// Each frame is flushed as soon as it is written.
//
// # Error Handling
//
// All errors follow OpenAI error response format:
//
//	{
//	  "error": {
//	    "message": "messages must contain at least one message",
//	    "type": "invalid_request_error",
//	    "param": "messages",
//	    "code": "missing_field"
//	  }
//	}
//
// Upstream generation failures are not errors at this layer; they arrive
// as completion content.
package proxy
