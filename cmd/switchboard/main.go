// Switchboard is an OpenAI-compatible proxy that routes chat completions to
// Gemini models by conversation complexity.
//
// It accepts OpenAI chat completion requests and:
//   - Picks a lite, simple or complex model per request
//   - Rotates over a pool of API keys with bounded backoff
//   - Falls back to the simple model when the chosen one is exhausted
//   - Streams responses as OpenAI-shaped server-sent events
//
// Usage:
//
//	# Start server with default configuration
//	switchboard run
//
//	# Start with custom configuration file and hot reload
//	switchboard run --config /path/to/config.yaml --watch
//
//	# Check a configuration file
//	switchboard validate --config /path/to/config.yaml
//
//	# Show version information
//	switchboard version
package main

func main() {
	Execute()
}
