package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mercator-hq/switchboard/pkg/proxy/types"
	"mercator-hq/switchboard/pkg/routing"
)

// WriteJSONResponse writes data as a JSON body with the given status.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// WriteErrorResponse writes errResp with the status its type maps to.
func WriteErrorResponse(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, errResp.Error.HTTPStatusCode(), errResp)
}

var sseDone = []byte("[DONE]")

// writeEvent writes one "data:" event and flushes it to the client.
func writeEvent(w http.ResponseWriter, payload []byte) error {
	buf := make([]byte, 0, len(payload)+8)
	buf = append(buf, "data: "...)
	buf = append(buf, payload...)
	buf = append(buf, "\n\n"...)
	if _, err := w.Write(buf); err != nil {
		return err
	}
	if err := http.NewResponseController(w).Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// WriteSSEChunk writes one completion chunk event.
func WriteSSEChunk(w http.ResponseWriter, chunk *types.ChatCompletionStreamChunk) error {
	data, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("failed to marshal SSE chunk: %w", err)
	}
	if err := writeEvent(w, data); err != nil {
		return fmt.Errorf("failed to write SSE chunk: %w", err)
	}
	return nil
}

// WriteSSEDone writes the "data: [DONE]" end-of-stream marker.
func WriteSSEDone(w http.ResponseWriter) error {
	if err := writeEvent(w, sseDone); err != nil {
		return fmt.Errorf("failed to write SSE done marker: %w", err)
	}
	return nil
}

// SetSSEHeaders prepares w for an event stream. X-Accel-Buffering turns off
// proxy buffering in nginx.
func SetSSEHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

// WriteSSEStream writes frames as Server-Sent Events until the channel
// closes, the Done frame is written, or ctx is cancelled. It returns the
// number of chunks written.
//
// On a write error the function returns immediately; the producer is
// released when the request context ends.
func WriteSSEStream(ctx context.Context, w http.ResponseWriter, frames <-chan routing.Frame) (int, error) {
	SetSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	written := 0
	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				return written, nil
			}
			if frame.Done {
				return written, WriteSSEDone(w)
			}
			if frame.Chunk == nil {
				continue
			}
			if err := WriteSSEChunk(w, frame.Chunk); err != nil {
				return written, err
			}
			written++
		}
	}
}
