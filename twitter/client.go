package twitter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Version is the library version, reported in the default User-Agent.
const Version = "0.1.0"

const (
	// DefaultAPIVersion is the Twitter API version used when no
	// WithAPIVersion option is given.
	DefaultAPIVersion = "1.1"
	// DefaultEndpointFormat is the API endpoint template. The
	// {endpoint} placeholder is replaced by the first path segment
	// of each request, selecting the API subdomain.
	DefaultEndpointFormat = "https://{endpoint}.twitter.com"
)

const defaultUserAgent = "chirp/" + Version

const unknownErrorMessage = "An unknown error has occurred processing your request."

// baseClient carries the state and request pipeline shared by the three
// client variants. Credentials live on the variant; the signed session
// lives here in a single slot that is swapped wholesale whenever
// credentials change.
type baseClient struct {
	consumerKey    string
	consumerSecret string
	apiVersion     string
	endpointFormat string
	userAgent      string
	httpClient     *http.Client
	logger         zerolog.Logger

	// session is the authenticated *http.Client used for API calls.
	// It is rebuilt, never patched, on credential change.
	session *http.Client
}

func newBaseClient(consumerKey, consumerSecret string, opts *clientOptions) (baseClient, error) {
	if consumerKey == "" {
		return baseClient{}, fmt.Errorf("twitter consumer key is required")
	}
	if consumerSecret == "" {
		return baseClient{}, fmt.Errorf("twitter consumer secret is required")
	}

	return baseClient{
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		apiVersion:     opts.apiVersion,
		endpointFormat: opts.endpointFormat,
		userAgent:      opts.userAgent,
		httpClient:     opts.httpClient,
		logger:         opts.logger,
	}, nil
}

// endpointURL resolves the {endpoint} placeholder in the endpoint
// format template.
func (c *baseClient) endpointURL(endpoint string) string {
	return strings.ReplaceAll(c.endpointFormat, "{endpoint}", endpoint)
}

// resourceURL turns an accumulated resource path into a full API URL.
// The first segment selects the endpoint subdomain; the remaining
// segments form the resource path:
//
//	search/tweets -> https://search.twitter.com/1.1/tweets.json
func (c *baseClient) resourceURL(path string) string {
	segments := strings.Split(path, "/")
	return fmt.Sprintf("%s/%s/%s.json",
		c.endpointURL(segments[0]),
		c.apiVersion,
		strings.Join(segments[1:], "/"),
	)
}

// do builds and sends a request through the current session. GET sends
// sanitized params as the query string; POST sends them as a form body,
// or as multipart when any param routed to the files map. Transport
// failures are wrapped as *ClientError carrying the method and URL.
func (c *baseClient) do(ctx context.Context, method, resourceURL string, params Params) (*http.Response, error) {
	fields, files := sanitizeParams(params)

	var (
		requestURL  = resourceURL
		body        io.Reader
		contentType string
		err         error
	)

	switch method {
	case http.MethodGet:
		if len(fields) > 0 {
			values := url.Values{}
			for k, v := range fields {
				values.Set(k, v)
			}
			requestURL += "?" + values.Encode()
		}
	case http.MethodPost:
		if len(files) > 0 {
			body, contentType, err = encodeMultipart(fields, files)
			if err != nil {
				return nil, &ClientError{
					Message:       err.Error(),
					ResourceURL:   resourceURL,
					RequestMethod: method,
					Err:           err,
				}
			}
		} else {
			values := url.Values{}
			for k, v := range fields {
				values.Set(k, v)
			}
			body = strings.NewReader(values.Encode())
			contentType = "application/x-www-form-urlencoded"
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, &ClientError{
			Message:       err.Error(),
			ResourceURL:   resourceURL,
			RequestMethod: method,
			Err:           err,
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().
		Str("method", method).
		Str("url", resourceURL).
		Msg("Making Twitter API request")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, &ClientError{
			Message:       err.Error(),
			ResourceURL:   resourceURL,
			RequestMethod: method,
			Err:           err,
		}
	}

	return resp, nil
}

// request is the REST pipeline shared by UserClient and AppClient:
// resolve the URL, send, buffer the body, and map the outcome.
func (c *baseClient) request(ctx context.Context, method, path string, params Params) (*APIResponse, error) {
	resourceURL := c.resourceURL(path)

	resp, err := c.do(ctx, method, resourceURL, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return c.handleResponse(method, resp)
}

// handleResponse maps a buffered REST response onto the error taxonomy.
func (c *baseClient) handleResponse(method string, resp *http.Response) (*APIResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{
			Message:       err.Error(),
			ResourceURL:   resp.Request.URL.String(),
			RequestMethod: method,
			Err:           err,
		}
	}

	data, decodeErr := decodeJSON(body)

	if resp.StatusCode == http.StatusOK {
		// A 200 with a non-JSON body still succeeds, with nil data.
		if decodeErr != nil {
			data = nil
		}
		return &APIResponse{
			ResourceURL:   resp.Request.URL.String(),
			RequestMethod: method,
			Headers:       resp.Header,
			Data:          data,
		}, nil
	}

	apiErr := APIError{
		ResourceURL:   resp.Request.URL.String(),
		RequestMethod: method,
		StatusCode:    resp.StatusCode,
		Headers:       resp.Header,
	}

	if decodeErr != nil {
		apiErr.Message = "Unable to decode JSON response."
		return nil, &apiErr
	}

	apiErr.ErrorCode, apiErr.Message = extractErrorDetails(data)

	switch {
	case resp.StatusCode == http.StatusUnauthorized ||
		strings.Contains(apiErr.Message, "Bad Authentication data"):
		return nil, &AuthError{apiErr}
	case resp.StatusCode == http.StatusNotFound:
		apiErr.Message = "Invalid API resource."
		return nil, &apiErr
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{apiErr}
	}

	return nil, &apiErr
}

// extractErrorDetails pulls {code, message} out of a decoded error
// body. Twitter sends the errors field either as an array of
// {code, message} objects or as a single such object.
func extractErrorDetails(data any) (int, string) {
	obj, ok := data.(JSONObject)
	if !ok || !obj.Has("errors") {
		return 0, unknownErrorMessage
	}

	v, _ := obj.Get("errors")
	switch v := v.(type) {
	case []any:
		if len(v) == 0 {
			return 0, unknownErrorMessage
		}
		if first, ok := v[0].(JSONObject); ok {
			return errorCodeAndMessage(first)
		}
	case JSONObject:
		return errorCodeAndMessage(v)
	}

	return 0, unknownErrorMessage
}

func errorCodeAndMessage(obj JSONObject) (int, string) {
	code := 0
	msg := unknownErrorMessage

	if v, err := obj.Get("code"); err == nil {
		if f, ok := v.(float64); ok {
			code = int(f)
		}
	}
	if v, err := obj.Get("message"); err == nil {
		if s, ok := v.(string); ok {
			msg = s
		}
	}

	return code, msg
}

// encodeMultipart builds a multipart/form-data body carrying both the
// sanitized string fields and the routed file parts.
func encodeMultipart(fields map[string]string, files map[string]io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("failed to encode form field %s: %w", k, err)
		}
	}

	for name, r := range files {
		part, err := w.CreateFormFile(name, name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part %s: %w", name, err)
		}
		if _, err := io.Copy(part, r); err != nil {
			return nil, "", fmt.Errorf("failed to encode file part %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
