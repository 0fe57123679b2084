// Package content converts OpenAI chat messages into provider content.
//
// Conversion rules:
//
//   - system messages are merged into a "[System]: ..." user turn placed
//     before the next user turn
//   - assistant messages become model turns
//   - text blocks pass through; data-URL images become inline data; remote
//     image URLs are dropped
//   - file and document blocks carry either literal text or a payload.
//     Archives are replaced by a placeholder, PDF and media are sent inline,
//     anything else is decoded from base64 as UTF-8 text
//
// Malformed input never fails the conversion; it is dropped or replaced by a
// placeholder.
package content
