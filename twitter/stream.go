package twitter

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
)

const (
	// Streamed entities can be large; give the line scanner room.
	streamInitialBuffer = 64 * 1024
	streamMaxLine       = 1024 * 1024
)

// StreamResponse is the envelope returned for an open streaming
// request. It owns the underlying connection: the stream stays open
// until the server closes it or the caller invokes Close. The line
// source is single-pass and never restartable.
type StreamResponse struct {
	ResourceURL   string
	RequestMethod string
	Headers       http.Header

	body    io.ReadCloser
	scanner *bufio.Scanner
	// closed is atomic so Close can abandon a stream while another
	// goroutine blocks in Next.
	closed atomic.Bool
}

func newStreamResponse(method string, resp *http.Response) *StreamResponse {
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, streamInitialBuffer), streamMaxLine)

	return &StreamResponse{
		ResourceURL:   resp.Request.URL.String(),
		RequestMethod: method,
		Headers:       resp.Header,
		body:          resp.Body,
		scanner:       scanner,
	}
}

// String implements fmt.Stringer
func (s *StreamResponse) String() string {
	return fmt.Sprintf("<StreamResponse: %s %s>", s.RequestMethod, s.ResourceURL)
}

// Next returns the next decoded JSON object from the stream, blocking
// until one arrives. Empty keep-alive lines are skipped and lines that
// fail to decode are dropped silently, so a transient malformed
// fragment never terminates the stream. Next returns io.EOF once the
// connection is closed or exhausted, and keeps returning it thereafter.
func (s *StreamResponse) Next() (any, error) {
	if s.closed.Load() {
		return nil, io.EOF
	}

	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		data, err := decodeJSON(line)
		if err != nil {
			continue
		}
		return data, nil
	}

	if err := s.scanner.Err(); err != nil && !s.closed.Load() {
		return nil, &ClientError{
			Message:       err.Error(),
			ResourceURL:   s.ResourceURL,
			RequestMethod: s.RequestMethod,
			Err:           err,
		}
	}

	return nil, io.EOF
}

// Close abandons the stream early by closing the underlying
// connection. Subsequent Next calls return io.EOF.
func (s *StreamResponse) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.body.Close()
}
