package twitter

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dghubble/oauth1"
)

// UserClient is the user-context client: requests are signed with
// OAuth1 consumer and access credentials, obtained through the
// three-legged flow (GetRequestToken, user authorization,
// GetAccessToken) or supplied up front via WithAccessToken.
type UserClient struct {
	baseClient

	accessToken       string
	accessTokenSecret string
}

// NewUserClient creates a new user-context client.
func NewUserClient(consumerKey, consumerSecret string, opts ...Option) (*UserClient, error) {
	o := newClientOptions(opts)

	base, err := newBaseClient(consumerKey, consumerSecret, o)
	if err != nil {
		return nil, err
	}

	client := &UserClient{
		baseClient:        base,
		accessToken:       o.accessToken,
		accessTokenSecret: o.accessTokenSecret,
	}
	client.rebuildSession()

	return client, nil
}

// Resource returns an API path rooted at the given segments, e.g.
// Resource("api", "search", "tweets") or Resource("api/search/tweets").
func (c *UserClient) Resource(segments ...string) Resource[*APIResponse] {
	return newResource(c.request, segments...)
}

// AccessToken returns the currently installed credential pair.
func (c *UserClient) AccessToken() (token, secret string) {
	return c.accessToken, c.accessTokenSecret
}

// GetRequestToken fetches a temporary credential pair from the request
// token endpoint. WithCallbackURL attaches a callback to the signing
// configuration before the fetch; WithAuthBaseURL computes
// OAuthToken.AuthURL against the given authorization endpoint. Unless
// WithoutApplying is given, the pair is installed on the client and the
// session is rebuilt.
func (c *UserClient) GetRequestToken(ctx context.Context, opts ...TokenOption) (*OAuthToken, error) {
	o := newTokenOptions(opts)

	if err := ctx.Err(); err != nil {
		return nil, &ClientError{Message: err.Error(), Err: err}
	}

	c.logger.Debug().Str("url", c.oauthEndpoints().requestToken).Msg("Fetching OAuth request token")

	requestToken, requestSecret, err := c.oauthConfig(o.callbackURL).RequestToken()
	if err != nil {
		return nil, tokenFetchError(err, "Response does not contain a token.")
	}

	token := &OAuthToken{Token: requestToken, TokenSecret: requestSecret}

	if o.authBaseURL != "" {
		token.AuthURL, err = authorizationURL(o.authBaseURL, requestToken, o.authParams)
		if err != nil {
			return nil, &ClientError{Message: err.Error(), Err: err}
		}
	}

	if o.apply {
		c.applyToken(token)
	}

	return token, nil
}

// GetSignInToken is GetRequestToken with the authorization URL computed
// against the sign-in endpoint (/oauth/authenticate).
func (c *UserClient) GetSignInToken(ctx context.Context, opts ...TokenOption) (*OAuthToken, error) {
	opts = append([]TokenOption{WithAuthBaseURL(c.oauthEndpoints().authenticate)}, opts...)
	return c.GetRequestToken(ctx, opts...)
}

// GetAuthorizeToken is GetRequestToken with the authorization URL
// computed against the full-authorize endpoint (/oauth/authorize).
func (c *UserClient) GetAuthorizeToken(ctx context.Context, opts ...TokenOption) (*OAuthToken, error) {
	opts = append([]TokenOption{WithAuthBaseURL(c.oauthEndpoints().authorize)}, opts...)
	return c.GetRequestToken(ctx, opts...)
}

// GetAccessToken exchanges the temporary credential pair held by the
// client plus the user's verifier for an authorized access token. The
// client must already hold both halves of the temporary pair. Unless
// WithoutApplying is given, the new pair replaces the client's
// credentials and the session is rebuilt atomically.
func (c *UserClient) GetAccessToken(ctx context.Context, verifier string, opts ...TokenOption) (*OAuthToken, error) {
	o := newTokenOptions(opts)

	if c.accessToken == "" || c.accessTokenSecret == "" {
		return nil, &ClientError{
			Message: "UserClient must be initialized with an access token and access token secret to fetch an authorized access token",
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, &ClientError{Message: err.Error(), Err: err}
	}

	c.logger.Debug().Str("url", c.oauthEndpoints().accessToken).Msg("Fetching OAuth access token")

	accessToken, accessSecret, err := c.oauthConfig("").AccessToken(c.accessToken, c.accessTokenSecret, verifier)
	if err != nil {
		return nil, tokenFetchError(err, "Response does not contain a token.")
	}

	token := &OAuthToken{Token: accessToken, TokenSecret: accessSecret}

	if o.apply {
		c.applyToken(token)
	}

	return token, nil
}

// applyToken installs a credential pair and swaps in a fresh session.
func (c *UserClient) applyToken(token *OAuthToken) {
	c.accessToken = token.Token
	c.accessTokenSecret = token.TokenSecret
	c.rebuildSession()
}

// rebuildSession constructs a new signing session from the current
// credentials and replaces the session slot in one assignment.
func (c *UserClient) rebuildSession() {
	c.session = oauth1Session(
		c.oauthConfig(""),
		c.accessToken,
		c.accessTokenSecret,
		c.httpClient,
	)
}

func (c *UserClient) oauthConfig(callbackURL string) *oauth1.Config {
	endpoints := c.oauthEndpoints()
	return &oauth1.Config{
		ConsumerKey:    c.consumerKey,
		ConsumerSecret: c.consumerSecret,
		CallbackURL:    callbackURL,
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: endpoints.requestToken,
			AuthorizeURL:    endpoints.authorize,
			AccessTokenURL:  endpoints.accessToken,
		},
	}
}

// oauth1Session builds a signing *http.Client from an OAuth1 config
// and credential pair, layered over the optional base client.
func oauth1Session(config *oauth1.Config, token, secret string, base *http.Client) *http.Client {
	ctx := context.Background()
	if base != nil {
		ctx = context.WithValue(ctx, oauth1.HTTPClient, base)
	}
	return config.Client(ctx, oauth1.NewToken(token, secret))
}

// authorizationURL appends the request token and any extra parameters
// to a base authorization endpoint.
func authorizationURL(baseURL, requestToken string, extra url.Values) (string, error) {
	authURL, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	query := authURL.Query()
	query.Set("oauth_token", requestToken)
	for k, vs := range extra {
		for _, v := range vs {
			query.Set(k, v)
		}
	}
	authURL.RawQuery = query.Encode()

	return authURL.String(), nil
}

// tokenFetchError maps a token endpoint failure onto the error
// taxonomy: transport failures keep the underlying message, anything
// else means the response did not carry the expected token fields.
func tokenFetchError(err error, missingMessage string) *ClientError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &ClientError{Message: err.Error(), Err: err}
	}
	return &ClientError{Message: missingMessage, Err: err}
}
