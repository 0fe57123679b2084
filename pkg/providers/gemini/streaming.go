package gemini

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"mercator-hq/switchboard/pkg/providers"
)

const (
	dataPrefix = "data:"

	// maxEventSize bounds a single SSE line.
	maxEventSize = 8 << 20
)

// streamReader reads text deltas from a streamGenerateContent SSE body.
type streamReader struct {
	provider string
	body     io.ReadCloser
	scanner  *bufio.Scanner
	skipped  int
}

func newStreamReader(provider string, body io.ReadCloser) *streamReader {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64<<10), maxEventSize)
	return &streamReader{
		provider: provider,
		body:     body,
		scanner:  scanner,
	}
}

// Read returns the next non-empty delta.
// Returns "", io.EOF when the stream ends normally.
// Lines that are not data lines, or whose payload does not parse, are
// skipped.
func (s *streamReader) Read(ctx context.Context) (string, error) {
	for s.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))

		text, err := parseResponse([]byte(payload))
		if err != nil {
			s.skipped++
			continue
		}
		if text == "" {
			continue
		}
		return text, nil
	}

	if err := s.scanner.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &providers.StreamError{
			Provider: s.provider,
			Message:  "failed to read stream",
			Cause:    err,
		}
	}
	return "", io.EOF
}

// Skipped returns how many data lines failed to parse.
func (s *streamReader) Skipped() int {
	return s.skipped
}

// Close closes the underlying body.
func (s *streamReader) Close() error {
	return s.body.Close()
}

var errNoCandidates = errors.New("response has no candidate text")
