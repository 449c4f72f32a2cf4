package twitter

import (
	"context"
	"io"
	"net/http"

	"github.com/dghubble/oauth1"
)

// StreamClient is the streaming client: OAuth1 session construction
// identical to UserClient, but responses are not buffered — a 200
// opens a lazy line-delimited JSON stream that stays connected until
// closed. Streaming requires a full credential pair up front.
type StreamClient struct {
	baseClient

	accessToken       string
	accessTokenSecret string
}

// NewStreamClient creates a new streaming client.
func NewStreamClient(consumerKey, consumerSecret, accessToken, accessTokenSecret string, opts ...Option) (*StreamClient, error) {
	o := newClientOptions(opts)

	base, err := newBaseClient(consumerKey, consumerSecret, o)
	if err != nil {
		return nil, err
	}
	if accessToken == "" || accessTokenSecret == "" {
		return nil, &ClientError{Message: "twitter access token and secret are required for streaming"}
	}

	client := &StreamClient{
		baseClient:        base,
		accessToken:       accessToken,
		accessTokenSecret: accessTokenSecret,
	}
	client.rebuildSession()

	return client, nil
}

// Resource returns an API path rooted at the given segments, e.g.
// Resource("stream", "statuses", "filter").
func (c *StreamClient) Resource(segments ...string) Resource[*StreamResponse] {
	return newResource(c.requestStream, segments...)
}

// requestStream is the streaming pipeline: same URL construction and
// sending as the REST pipeline, but the response body is handed to the
// stream reader instead of being buffered.
func (c *StreamClient) requestStream(ctx context.Context, method, path string, params Params) (*StreamResponse, error) {
	resourceURL := c.resourceURL(path)

	resp, err := c.do(ctx, method, resourceURL, params)
	if err != nil {
		return nil, err
	}

	return handleStreamResponse(method, resp)
}

// handleStreamResponse maps a streaming HTTP outcome. Failure bodies
// at this channel are typically plain text or HTML, so they are used
// raw as the error message rather than JSON-parsed, and the HTTP
// status doubles as the error code. Rate limiting is status 420 here,
// not the REST channel's 429.
func handleStreamResponse(method string, resp *http.Response) (*StreamResponse, error) {
	if resp.StatusCode == http.StatusOK {
		return newStreamResponse(method, resp), nil
	}

	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	apiErr := APIError{
		Message:       string(body),
		ResourceURL:   resp.Request.URL.String(),
		RequestMethod: method,
		StatusCode:    resp.StatusCode,
		ErrorCode:     resp.StatusCode,
		Headers:       resp.Header,
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		apiErr.Message = "Unauthorized."
		return nil, &AuthError{apiErr}
	case http.StatusNotFound:
		apiErr.Message = "Invalid API resource."
		return nil, &apiErr
	case 420:
		return nil, &RateLimitError{apiErr}
	}

	return nil, &apiErr
}

// rebuildSession constructs a new signing session from the current
// credentials and replaces the session slot in one assignment.
func (c *StreamClient) rebuildSession() {
	endpoints := c.oauthEndpoints()
	config := &oauth1.Config{
		ConsumerKey:    c.consumerKey,
		ConsumerSecret: c.consumerSecret,
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: endpoints.requestToken,
			AuthorizeURL:    endpoints.authorize,
			AccessTokenURL:  endpoints.accessToken,
		},
	}
	c.session = oauth1Session(config, c.accessToken, c.accessTokenSecret, c.httpClient)
}
