package types

import "net/http"

// ErrorResponse is the OpenAI error envelope. Every non-2xx response from
// the proxy carries one so client SDKs can surface the message.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the body of an ErrorResponse.
type ErrorDetail struct {
	// Message is shown to the caller.
	Message string `json:"message"`

	// Type is one of the ErrorType constants.
	Type string `json:"type"`

	// Param names the offending request field, if any.
	Param string `json:"param,omitempty"`

	// Code is a machine-readable refinement of Type.
	Code string `json:"code,omitempty"`
}

// Error types returned by the proxy.
const (
	ErrorTypeInvalidRequest     = "invalid_request_error" // 400
	ErrorTypeNotFound           = "not_found"             // 404
	ErrorTypeServerError        = "server_error"          // 500
	ErrorTypeServiceUnavailable = "service_unavailable"   // 503
	ErrorTypeGatewayTimeout     = "gateway_timeout"       // 504
)

// Error codes.
const (
	CodeMissingField     = "missing_field"
	CodeInvalidJSON      = "invalid_json"
	CodeRequestTooLarge  = "request_too_large"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternalError    = "internal_error"
)

var statusByType = map[string]int{
	ErrorTypeInvalidRequest:     http.StatusBadRequest,
	ErrorTypeNotFound:           http.StatusNotFound,
	ErrorTypeServerError:        http.StatusInternalServerError,
	ErrorTypeServiceUnavailable: http.StatusServiceUnavailable,
	ErrorTypeGatewayTimeout:     http.StatusGatewayTimeout,
}

// NewErrorResponse builds an error envelope.
func NewErrorResponse(message, errorType, param, code string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{
		Message: message,
		Type:    errorType,
		Param:   param,
		Code:    code,
	}}
}

// NewInvalidRequestError reports a malformed request (400).
func NewInvalidRequestError(message, param, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeInvalidRequest, param, code)
}

// NewNotFoundError reports an unknown route (404).
func NewNotFoundError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeNotFound, "", "")
}

// NewServerError reports an internal fault (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServerError, "", CodeInternalError)
}

// HTTPStatusCode maps the error type to its status. Unknown types are 500.
func (e *ErrorDetail) HTTPStatusCode() int {
	if status, ok := statusByType[e.Type]; ok {
		return status
	}
	return http.StatusInternalServerError
}
