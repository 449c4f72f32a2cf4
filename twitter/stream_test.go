package twitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestStreamClient(t *testing.T, handler http.Handler) *StreamClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewStreamClient("ck", "cs", "at", "ats",
		WithEndpointFormat(server.URL+"/{endpoint}"),
	)
	require.NoError(t, err)

	return client
}

func TestNewStreamClientValidation(t *testing.T) {
	_, err := NewStreamClient("ck", "cs", "", "")
	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Contains(t, clientErr.Message, "access token")
}

func TestStreamDecoding(t *testing.T) {
	client := newTestStreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stream/1.1/statuses/filter.json", r.URL.Path)
		// Blank keep-alive and malformed lines interleaved with real ones
		io.WriteString(w, "\n")
		io.WriteString(w, "{\"a\":1}\n")
		io.WriteString(w, "not json\n")
		io.WriteString(w, "{\"b\":2}\n")
	}))

	stream, err := client.Resource("stream", "statuses", "filter").Post(context.Background(), Params{
		"track": "golang",
	})
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, http.MethodPost, stream.RequestMethod)
	assert.Contains(t, stream.String(), "<StreamResponse: POST")

	first, err := stream.Next()
	require.NoError(t, err)
	a, err := first.(JSONObject).Get("a")
	require.NoError(t, err)
	assert.Equal(t, float64(1), a)

	second, err := stream.Next()
	require.NoError(t, err)
	b, err := second.(JSONObject).Get("b")
	require.NoError(t, err)
	assert.Equal(t, float64(2), b)

	// Blank and malformed lines were skipped, not yielded and not fatal
	_, err = stream.Next()
	assert.ErrorIs(t, err, io.EOF)

	// The line source is single-pass; exhaustion is permanent
	_, err = stream.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStreamErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		check       func(t *testing.T, err error)
	}{
		{
			name:        "401 is an auth error",
			status:      401,
			body:        "ignored",
			wantMessage: "Unauthorized.",
			check: func(t *testing.T, err error) {
				assert.True(t, IsAuthError(err))
			},
		},
		{
			name:        "404 is an invalid resource",
			status:      404,
			body:        "ignored",
			wantMessage: "Invalid API resource.",
		},
		{
			name:        "420 is a rate limit error with the raw body",
			status:      420,
			body:        "Easy there, Turbo. Too many requests recently.",
			wantMessage: "Easy there, Turbo. Too many requests recently.",
			check: func(t *testing.T, err error) {
				assert.True(t, IsRateLimitError(err))
			},
		},
		{
			name:        "other failures use the raw body as the message",
			status:      503,
			body:        "<html>Service Unavailable</html>",
			wantMessage: "<html>Service Unavailable</html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestStreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))

			_, err := client.Resource("stream/statuses/sample").Get(context.Background(), nil)
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			// The streaming channel reuses the status as the error code
			assert.Equal(t, tt.status, apiErr.ErrorCode)

			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestStreamEarlyAbandonment(t *testing.T) {
	client := newTestStreamClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)

		// Unbounded feed until the client drops the connection
		for i := 0; ; i++ {
			select {
			case <-r.Context().Done():
				return
			default:
			}
			fmt.Fprintf(w, "{\"seq\":%d}\n", i)
			flusher.Flush()
			time.Sleep(5 * time.Millisecond)
		}
	}))

	stream, err := client.Resource("stream/statuses/sample").Get(context.Background(), nil)
	require.NoError(t, err)

	received := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		first, err := stream.Next()
		if err != nil {
			return err
		}
		if _, err := first.(JSONObject).Get("seq"); err != nil {
			return err
		}
		close(received)

		// Keep consuming until Close terminates the feed
		for {
			if _, err := stream.Next(); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		}
	})

	<-received
	require.NoError(t, stream.Close())
	require.NoError(t, g.Wait())

	_, err = stream.Next()
	assert.ErrorIs(t, err, io.EOF)
}
