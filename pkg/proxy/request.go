package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mercator-hq/switchboard/pkg/proxy/types"
)

const (
	// MaxRequestBodySize caps a chat completion body. Inline images and
	// documents travel base64 encoded, so the cap is generous.
	MaxRequestBodySize = 10 << 20

	// RequestIDHeader carries a caller-chosen request ID.
	RequestIDHeader = "X-Request-ID"
)

// RequestError is a request the proxy refuses before routing. It is always
// reported as a 400 invalid_request_error.
type RequestError struct {
	Message string
	Code    string
	Param   string
}

func (e *RequestError) Error() string {
	return e.Message
}

// ToErrorResponse renders the error as an OpenAI error envelope.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	return types.NewInvalidRequestError(e.Message, e.Param, e.Code)
}

// ParseChatCompletionRequest decodes and validates a chat completion body.
//
// Only the envelope is validated: a message list must be present and every
// message needs a role. Content of an unexpected shape is accepted as
// types.ContentInvalid and replaced by a placeholder during conversion.
func ParseChatCompletionRequest(r *http.Request) (*types.ChatCompletionRequest, error) {
	var req types.ChatCompletionRequest

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxRequestBodySize))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, &RequestError{
				Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", MaxRequestBodySize),
				Code:    types.CodeRequestTooLarge,
				Param:   "body",
			}
		case errors.Is(err, io.EOF):
			return nil, &RequestError{Message: "request body is empty", Code: types.CodeInvalidJSON, Param: "body"}
		default:
			return nil, &RequestError{Message: fmt.Sprintf("invalid JSON: %v", err), Code: types.CodeInvalidJSON, Param: "body"}
		}
	}

	if err := validateMessages(req.Messages); err != nil {
		return nil, err
	}
	return &req, nil
}

func validateMessages(messages []types.Message) error {
	if len(messages) == 0 {
		return &RequestError{
			Message: "messages must contain at least one message",
			Code:    types.CodeMissingField,
			Param:   "messages",
		}
	}
	for i, msg := range messages {
		if msg.Role == "" {
			param := fmt.Sprintf("messages[%d].role", i)
			return &RequestError{Message: param + " is required", Code: types.CodeMissingField, Param: param}
		}
	}
	return nil
}
