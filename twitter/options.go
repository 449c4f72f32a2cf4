package twitter

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Option configures a client at construction time.
type Option func(*clientOptions)

// clientOptions holds configuration options shared by the client
// variants. Options that do not apply to a variant are ignored by it:
// WithAccessToken binds only user and streaming clients, WithBearerToken
// and WithTokenType only application clients.
type clientOptions struct {
	apiVersion        string
	endpointFormat    string
	userAgent         string
	httpClient        *http.Client
	logger            zerolog.Logger
	accessToken       string
	accessTokenSecret string
	bearerToken       string
	tokenType         string
}

func newClientOptions(opts []Option) *clientOptions {
	o := &clientOptions{
		apiVersion:     DefaultAPIVersion,
		endpointFormat: DefaultEndpointFormat,
		userAgent:      defaultUserAgent,
		logger:         zerolog.Nop(),
		tokenType:      "bearer",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAPIVersion sets the API version used in resource URLs.
func WithAPIVersion(version string) Option {
	return func(o *clientOptions) {
		o.apiVersion = version
	}
}

// WithEndpointFormat sets the API endpoint template. The template must
// contain an {endpoint} placeholder.
func WithEndpointFormat(format string) Option {
	return func(o *clientOptions) {
		o.endpointFormat = format
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient sets the base *http.Client the signed session is
// built on. Useful for custom transports and timeouts.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// WithLogger sets the client logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithAccessToken supplies an already-obtained OAuth1 credential pair
// to a user client.
func WithAccessToken(token, secret string) Option {
	return func(o *clientOptions) {
		o.accessToken = token
		o.accessTokenSecret = secret
	}
}

// WithBearerToken supplies an already-obtained OAuth2 bearer token to
// an application client.
func WithBearerToken(token string) Option {
	return func(o *clientOptions) {
		o.bearerToken = token
	}
}

// WithTokenType sets the OAuth2 token type of an application client.
// Defaults to "bearer".
func WithTokenType(tokenType string) Option {
	return func(o *clientOptions) {
		o.tokenType = tokenType
	}
}
