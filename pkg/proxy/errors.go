package proxy

import (
	"context"
	"errors"

	"mercator-hq/switchboard/pkg/proxy/types"
	"mercator-hq/switchboard/pkg/routing"
)

// HandleError converts errors to OpenAI-compatible error responses.
//
// Generation failures never reach this function: they are reported in-band
// as completion content. What remains are request errors (400), a router
// that is not yet installed (503), and selection or other internal faults
// (500). Internal error details are not exposed to the client.
//
// Example usage:
//
//	if err != nil {
//	    errResp := HandleError(err)
//	    WriteErrorResponse(w, errResp)
//	    return
//	}
func HandleError(err error) *types.ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ToErrorResponse()
	}

	if errors.Is(err, routing.ErrNoRouter) {
		return types.NewErrorResponse(
			"The service is starting. Please try again later.",
			types.ErrorTypeServiceUnavailable,
			"",
			"",
		)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewErrorResponse(
			"The request timed out.",
			types.ErrorTypeGatewayTimeout,
			"",
			"",
		)
	}

	if errors.Is(err, routing.ErrClassificationFailed) {
		return types.NewServerError("Model selection failed. Please try again later.")
	}

	return types.NewServerError(
		"An internal error occurred. Please try again later.",
	)
}
