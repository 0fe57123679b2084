package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"mercator-hq/switchboard/pkg/routing"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "request error",
			err:        &RequestError{Message: "bad", Code: "invalid_json", Param: "body"},
			wantStatus: http.StatusBadRequest,
			wantType:   "invalid_request_error",
		},
		{
			name:       "wrapped request error",
			err:        fmt.Errorf("parse: %w", &RequestError{Message: "bad"}),
			wantStatus: http.StatusBadRequest,
			wantType:   "invalid_request_error",
		},
		{
			name:       "selection failure",
			err:        &routing.SelectionError{Cause: errors.New("classifier down: key AIzaSecret")},
			wantStatus: http.StatusInternalServerError,
			wantType:   "server_error",
		},
		{
			name:       "no router",
			err:        routing.ErrNoRouter,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   "service_unavailable",
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("rate: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   "gateway_timeout",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "server_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := HandleError(tt.err)
			if got := resp.Error.HTTPStatusCode(); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
			if resp.Error.Type != tt.wantType {
				t.Errorf("type = %q, want %q", resp.Error.Type, tt.wantType)
			}
			if strings.Contains(resp.Error.Message, "AIza") {
				t.Errorf("internal details leaked: %q", resp.Error.Message)
			}
		})
	}
}
