package twitter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserClientValidation(t *testing.T) {
	tests := []struct {
		name           string
		consumerKey    string
		consumerSecret string
		wantErr        string
	}{
		{
			name:           "valid",
			consumerKey:    "ck",
			consumerSecret: "cs",
		},
		{
			name:           "missing consumer key",
			consumerSecret: "cs",
			wantErr:        "consumer key is required",
		},
		{
			name:        "missing consumer secret",
			consumerKey: "ck",
			wantErr:     "consumer secret is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewUserClient(tt.consumerKey, tt.consumerSecret)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestOAuthEndpoints(t *testing.T) {
	client, err := NewUserClient("ck", "cs")
	require.NoError(t, err)

	endpoints := client.oauthEndpoints()
	assert.Equal(t, "https://api.twitter.com/oauth/request_token", endpoints.requestToken)
	assert.Equal(t, "https://api.twitter.com/oauth/access_token", endpoints.accessToken)
	assert.Equal(t, "https://api.twitter.com/oauth/authenticate", endpoints.authenticate)
	assert.Equal(t, "https://api.twitter.com/oauth/authorize", endpoints.authorize)
	assert.Equal(t, "https://api.twitter.com/oauth2/token", endpoints.token)
	assert.Equal(t, "https://api.twitter.com/oauth2/invalidate_token", endpoints.invalidateToken)
}

// newRequestTokenServer serves the OAuth1 token endpoints with canned
// credentials and records the Authorization header it saw.
func newRequestTokenServer(t *testing.T) (*httptest.Server, *string) {
	t.Helper()

	var lastAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastAuth = r.Header.Get("Authorization")

		switch r.URL.Path {
		case "/api/oauth/request_token":
			io.WriteString(w, "oauth_token=rtok&oauth_token_secret=rsec&oauth_callback_confirmed=true")
		case "/api/oauth/access_token":
			io.WriteString(w, "oauth_token=atok&oauth_token_secret=asec")
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)

	return server, &lastAuth
}

func TestGetRequestToken(t *testing.T) {
	server, lastAuth := newRequestTokenServer(t)

	client, err := NewUserClient("ck", "cs",
		WithEndpointFormat(server.URL+"/{endpoint}"),
	)
	require.NoError(t, err)

	oldSession := client.session

	token, err := client.GetRequestToken(context.Background(),
		WithCallbackURL("https://example.org/callback"),
	)
	require.NoError(t, err)

	assert.Equal(t, "rtok", token.Token)
	assert.Equal(t, "rsec", token.TokenSecret)
	assert.Empty(t, token.AuthURL)

	// The callback rode along in the signed request
	assert.Contains(t, *lastAuth, "oauth_callback")

	// Auto-apply installed the pair and swapped the session wholesale
	gotToken, gotSecret := client.AccessToken()
	assert.Equal(t, "rtok", gotToken)
	assert.Equal(t, "rsec", gotSecret)
	assert.NotSame(t, oldSession, client.session)
}

func TestGetRequestTokenWithoutApplying(t *testing.T) {
	server, _ := newRequestTokenServer(t)

	client, err := NewUserClient("ck", "cs",
		WithEndpointFormat(server.URL+"/{endpoint}"),
	)
	require.NoError(t, err)

	oldSession := client.session

	token, err := client.GetRequestToken(context.Background(), WithoutApplying())
	require.NoError(t, err)
	assert.Equal(t, "rtok", token.Token)

	gotToken, gotSecret := client.AccessToken()
	assert.Empty(t, gotToken)
	assert.Empty(t, gotSecret)
	assert.Same(t, oldSession, client.session)
}

func TestGetSignInAndAuthorizeTokens(t *testing.T) {
	server, _ := newRequestTokenServer(t)

	client, err := NewUserClient("ck", "cs",
		WithEndpointFormat(server.URL+"/{endpoint}"),
	)
	require.NoError(t, err)

	t.Run("sign-in variant", func(t *testing.T) {
		token, err := client.GetSignInToken(context.Background())
		require.NoError(t, err)

		authURL, err := url.Parse(token.AuthURL)
		require.NoError(t, err)
		assert.Equal(t, "/api/oauth/authenticate", authURL.Path)
		assert.Equal(t, "rtok", authURL.Query().Get("oauth_token"))
	})

	t.Run("authorize variant with extra params", func(t *testing.T) {
		token, err := client.GetAuthorizeToken(context.Background(),
			WithAuthParam("force_login", "true"),
			WithAuthParam("screen_name", "gopher"),
		)
		require.NoError(t, err)

		authURL, err := url.Parse(token.AuthURL)
		require.NoError(t, err)
		assert.Equal(t, "/api/oauth/authorize", authURL.Path)
		assert.Equal(t, "rtok", authURL.Query().Get("oauth_token"))
		assert.Equal(t, "true", authURL.Query().Get("force_login"))
		assert.Equal(t, "gopher", authURL.Query().Get("screen_name"))
	})
}

func TestGetRequestTokenFailures(t *testing.T) {
	t.Run("malformed response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "oauth_token=rtok")
		}))
		defer server.Close()

		client, err := NewUserClient("ck", "cs",
			WithEndpointFormat(server.URL+"/{endpoint}"),
		)
		require.NoError(t, err)

		_, err = client.GetRequestToken(context.Background())
		var clientErr *ClientError
		require.ErrorAs(t, err, &clientErr)
		assert.Equal(t, "Response does not contain a token.", clientErr.Message)
	})

	t.Run("transport failure keeps the underlying message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		client, err := NewUserClient("ck", "cs",
			WithEndpointFormat(server.URL+"/{endpoint}"),
		)
		require.NoError(t, err)
		server.Close()

		_, err = client.GetRequestToken(context.Background())
		var clientErr *ClientError
		require.ErrorAs(t, err, &clientErr)
		assert.NotEqual(t, "Response does not contain a token.", clientErr.Message)
		assert.NotEmpty(t, clientErr.Message)
	})
}

func TestGetAccessToken(t *testing.T) {
	server, _ := newRequestTokenServer(t)

	t.Run("requires the temporary pair", func(t *testing.T) {
		client, err := NewUserClient("ck", "cs",
			WithEndpointFormat(server.URL+"/{endpoint}"),
		)
		require.NoError(t, err)

		_, err = client.GetAccessToken(context.Background(), "verifier")
		var clientErr *ClientError
		require.ErrorAs(t, err, &clientErr)
		assert.Contains(t, clientErr.Message, "must be initialized with an access token")
	})

	t.Run("exchanges and applies", func(t *testing.T) {
		client, err := NewUserClient("ck", "cs",
			WithAccessToken("rtok", "rsec"),
			WithEndpointFormat(server.URL+"/{endpoint}"),
		)
		require.NoError(t, err)

		oldSession := client.session

		token, err := client.GetAccessToken(context.Background(), "verifier")
		require.NoError(t, err)
		assert.Equal(t, "atok", token.Token)
		assert.Equal(t, "asec", token.TokenSecret)

		gotToken, gotSecret := client.AccessToken()
		assert.Equal(t, "atok", gotToken)
		assert.Equal(t, "asec", gotSecret)
		assert.NotSame(t, oldSession, client.session)
	})

	t.Run("without applying", func(t *testing.T) {
		client, err := NewUserClient("ck", "cs",
			WithAccessToken("rtok", "rsec"),
			WithEndpointFormat(server.URL+"/{endpoint}"),
		)
		require.NoError(t, err)

		token, err := client.GetAccessToken(context.Background(), "verifier", WithoutApplying())
		require.NoError(t, err)
		assert.Equal(t, "atok", token.Token)

		gotToken, gotSecret := client.AccessToken()
		assert.Equal(t, "rtok", gotToken)
		assert.Equal(t, "rsec", gotSecret)
	})
}

func TestAuthorizationURL(t *testing.T) {
	extra := url.Values{}
	extra.Set("force_login", "true")

	got, err := authorizationURL("https://api.twitter.com/oauth/authorize", "rtok", extra)
	require.NoError(t, err)

	parsed, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "rtok", parsed.Query().Get("oauth_token"))
	assert.Equal(t, "true", parsed.Query().Get("force_login"))
	assert.True(t, strings.HasPrefix(got, "https://api.twitter.com/oauth/authorize?"))
}
