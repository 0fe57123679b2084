// Package handlers provides HTTP request handlers for the proxy server.
//
// # Handler Types
//
//   - ChatHandler: POST /v1/chat/completions, JSON or Server-Sent Events
//   - ModelsHandler: GET /v1/models, "Auto" plus the advertised catalog
//   - Health: GET /health, always {"message":"OK"}
//
// # Request Flow
//
// ChatHandler follows a fixed pattern:
//
//  1. Parse and validate the request body
//  2. Hand the request to the routing.Completer
//  3. Write the completion as JSON, or stream frames as SSE
//  4. Log the outcome with request and response metadata
//
// Only request and selection failures become HTTP errors. A generation
// that exhausted every credential is still a 200 whose content is the
// in-band error text.
package handlers
