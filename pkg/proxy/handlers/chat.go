package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/switchboard/pkg/proxy"
	"mercator-hq/switchboard/pkg/proxy/types"
	"mercator-hq/switchboard/pkg/routing"
)

// ChatHandler serves POST /v1/chat/completions.
type ChatHandler struct {
	completer routing.Completer
	logger    *slog.Logger
}

// NewChatHandler creates a new chat handler. A nil logger uses slog.Default().
func NewChatHandler(completer routing.Completer, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{completer: completer, logger: logger}
}

// ServeHTTP implements http.Handler.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	if r.Method != http.MethodPost {
		errResp := types.NewInvalidRequestError(
			fmt.Sprintf("Method %s not allowed. Use POST instead.", r.Method),
			"method",
			types.CodeMethodNotAllowed,
		)
		h.writeError(ctx, w, errResp)
		return
	}

	chatReq, err := proxy.ParseChatCompletionRequest(r)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to parse request", "error", err)
		h.writeError(ctx, w, proxy.HandleError(err))
		return
	}

	reqMeta := proxy.ExtractRequestMetadata(r, chatReq)
	h.logger.InfoContext(ctx, "processing chat completion request", reqMeta.LogAttrs()...)

	result, err := h.completer.Handle(ctx, chatReq)
	if err != nil {
		errResp := proxy.HandleError(err)
		respMeta := &proxy.ResponseMetadata{
			StatusCode: errResp.Error.HTTPStatusCode(),
			Latency:    time.Since(startTime),
			Error:      err,
		}
		h.logger.ErrorContext(ctx, "chat completion failed", respMeta.LogAttrs()...)
		h.writeError(ctx, w, errResp)
		return
	}

	respMeta := &proxy.ResponseMetadata{
		StatusCode: http.StatusOK,
		Model:      result.Model,
		Streamed:   result.Streaming(),
	}

	if result.Streaming() {
		respMeta.Chunks, respMeta.Error = proxy.WriteSSEStream(ctx, w, result.Frames)
	} else {
		respMeta.Error = proxy.WriteJSONResponse(w, http.StatusOK, result.Response)
	}
	respMeta.Latency = time.Since(startTime)

	switch {
	case respMeta.Error == nil:
		h.logger.InfoContext(ctx, "chat completion successful", respMeta.LogAttrs()...)
	case errors.Is(respMeta.Error, context.Canceled):
		h.logger.InfoContext(ctx, "client disconnected", respMeta.LogAttrs()...)
	default:
		h.logger.WarnContext(ctx, "failed to write response", respMeta.LogAttrs()...)
	}
}

func (h *ChatHandler) writeError(ctx context.Context, w http.ResponseWriter, errResp *types.ErrorResponse) {
	if err := proxy.WriteErrorResponse(w, errResp); err != nil {
		h.logger.ErrorContext(ctx, "failed to write error response", "error", err)
	}
}
