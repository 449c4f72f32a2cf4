package twitter

import "net/url"

// oauthEndpoints holds the OAuth endpoint URLs, all fixed under the
// "api" endpoint of the configured endpoint format.
type oauthEndpoints struct {
	requestToken    string
	accessToken     string
	authenticate    string
	authorize       string
	token           string
	invalidateToken string
}

func (c *baseClient) oauthEndpoints() oauthEndpoints {
	base := c.endpointURL("api")
	return oauthEndpoints{
		requestToken:    base + "/oauth/request_token",
		accessToken:     base + "/oauth/access_token",
		authenticate:    base + "/oauth/authenticate",
		authorize:       base + "/oauth/authorize",
		token:           base + "/oauth2/token",
		invalidateToken: base + "/oauth2/invalidate_token",
	}
}

// OAuthToken is a user-flow credential pair. AuthURL is set when a
// base authorization endpoint was in play for the fetch.
type OAuthToken struct {
	Token       string
	TokenSecret string
	AuthURL     string
}

// BearerToken is an application-flow credential.
type BearerToken struct {
	AccessToken string
	TokenType   string
}

// TokenOption configures a single token acquisition call.
type TokenOption func(*tokenOptions)

type tokenOptions struct {
	callbackURL string
	authBaseURL string
	authParams  url.Values
	apply       bool
}

func newTokenOptions(opts []TokenOption) *tokenOptions {
	o := &tokenOptions{apply: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCallbackURL attaches an OAuth callback URL to the signing
// configuration before a request token fetch.
func WithCallbackURL(callbackURL string) TokenOption {
	return func(o *tokenOptions) {
		o.callbackURL = callbackURL
	}
}

// WithAuthBaseURL sets the base authorization endpoint used to compute
// OAuthToken.AuthURL. GetSignInToken and GetAuthorizeToken preset it.
func WithAuthBaseURL(authBaseURL string) TokenOption {
	return func(o *tokenOptions) {
		o.authBaseURL = authBaseURL
	}
}

// WithAuthParam appends an extra query parameter to the computed
// authorization URL, such as force_login or screen_name.
func WithAuthParam(key, value string) TokenOption {
	return func(o *tokenOptions) {
		if o.authParams == nil {
			o.authParams = url.Values{}
		}
		o.authParams.Set(key, value)
	}
}

// WithoutApplying returns the fetched token to the caller without
// installing it on the client; the client's session is left untouched.
func WithoutApplying() TokenOption {
	return func(o *tokenOptions) {
		o.apply = false
	}
}
