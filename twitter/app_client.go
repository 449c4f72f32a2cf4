package twitter

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AppClient is the application-only client: requests carry an OAuth2
// bearer token obtained through the client-credentials grant
// (GetAccessToken) or supplied up front via WithBearerToken.
type AppClient struct {
	baseClient

	accessToken string
	tokenType   string
}

// NewAppClient creates a new application-only client.
func NewAppClient(consumerKey, consumerSecret string, opts ...Option) (*AppClient, error) {
	o := newClientOptions(opts)

	base, err := newBaseClient(consumerKey, consumerSecret, o)
	if err != nil {
		return nil, err
	}

	client := &AppClient{
		baseClient:  base,
		accessToken: o.bearerToken,
		tokenType:   o.tokenType,
	}
	client.rebuildSession()

	return client, nil
}

// Resource returns an API path rooted at the given segments.
func (c *AppClient) Resource(segments ...string) Resource[*APIResponse] {
	return newResource(c.request, segments...)
}

// BearerToken returns the currently installed token, empty when the
// client is unauthenticated.
func (c *AppClient) BearerToken() string {
	return c.accessToken
}

// GetAccessToken posts a client-credentials grant with consumer
// basic-auth to the OAuth2 token endpoint. Unless WithoutApplying is
// given, the bearer token is installed and the session rebuilt.
func (c *AppClient) GetAccessToken(ctx context.Context, opts ...TokenOption) (*BearerToken, error) {
	o := newTokenOptions(opts)

	config := &clientcredentials.Config{
		ClientID:     c.consumerKey,
		ClientSecret: c.consumerSecret,
		TokenURL:     c.oauthEndpoints().token,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	c.logger.Debug().Str("url", config.TokenURL).Msg("Fetching OAuth2 bearer token")

	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	tok, err := config.Token(ctx)
	if err != nil {
		return nil, bearerFetchError(err)
	}

	token := &BearerToken{AccessToken: tok.AccessToken, TokenType: tok.TokenType}
	if token.TokenType == "" {
		token.TokenType = c.tokenType
	}

	if o.apply {
		c.accessToken = token.AccessToken
		c.tokenType = token.TokenType
		c.rebuildSession()
	}

	return token, nil
}

// InvalidateAccessToken posts the current bearer token to the
// invalidation endpoint with consumer basic-auth. Only a confirmed 200
// clears the stored token (and rebuilds an unauthenticated session);
// the invalidated token is returned. On any other outcome the stored
// token is left untouched and a *ClientError is returned.
func (c *AppClient) InvalidateAccessToken(ctx context.Context) (string, error) {
	if c.accessToken == "" {
		return "", &ClientError{Message: "AppClient holds no access token to invalidate"}
	}

	endpoint := c.oauthEndpoints().invalidateToken
	form := url.Values{"access_token": {c.accessToken}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &ClientError{Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	c.logger.Debug().Str("url", endpoint).Msg("Invalidating OAuth2 bearer token")

	resp, err := c.transport().Do(req)
	if err != nil {
		return "", &ClientError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ClientError{Message: "Could not invalidate access token."}
	}

	invalidated := c.accessToken
	c.accessToken = ""
	c.rebuildSession()

	return invalidated, nil
}

// rebuildSession constructs a session from the current token and
// replaces the session slot in one assignment. Without a token the
// session is the bare transport.
func (c *AppClient) rebuildSession() {
	if c.accessToken == "" {
		c.session = c.transport()
		return
	}

	ctx := context.Background()
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: c.accessToken,
		TokenType:   c.tokenType,
	})
	c.session = oauth2.NewClient(ctx, source)
}

// transport returns the unauthenticated base client.
func (c *AppClient) transport() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return http.DefaultClient
}

// bearerFetchError maps a token endpoint failure: an HTTP-level
// rejection or a body without an access_token field means the response
// did not carry a token; anything else is a transport failure carrying
// the underlying message.
func bearerFetchError(err error) *ClientError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) || strings.Contains(err.Error(), "missing access_token") {
		return &ClientError{Message: "Response does not contain an access token.", Err: err}
	}
	return &ClientError{Message: err.Error(), Err: err}
}
