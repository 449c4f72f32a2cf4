// Package twitter provides a client library for the Twitter v1.1 REST
// and streaming APIs.
//
// Three client variants cover the API's authentication modes:
//
//   - UserClient: OAuth1 user context, with the full three-legged
//     token flow (request token, authorization URL, access token)
//   - AppClient: OAuth2 application-only context via the
//     client-credentials grant, with token invalidation
//   - StreamClient: OAuth1 user context over the streaming endpoints,
//     reading line-delimited JSON incrementally
//
// All three share one request pipeline: resources are addressed with a
// lazy path builder, parameters are normalized before transport, and
// responses are mapped onto a small typed error taxonomy.
//
// # Usage
//
//	client, err := twitter.NewUserClient(consumerKey, consumerSecret,
//		twitter.WithAccessToken(accessToken, accessTokenSecret),
//		twitter.WithLogger(logger),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Resource("api", "search", "tweets").Get(ctx, twitter.Params{
//		"q":                "golang",
//		"include_entities": true,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	tweets, err := resp.Data.(twitter.JSONObject).Get("statuses")
//
// The first path segment selects the API subdomain ("api", "upload",
// "stream"); the rest form the resource path. No network call happens
// until Get or Post.
//
// Streaming consumption is pull-based:
//
//	stream, err := client.Resource("stream", "statuses", "filter").Post(ctx, twitter.Params{
//		"track": "golang",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer stream.Close()
//
//	for {
//		tweet, err := stream.Next()
//		if err != nil {
//			break
//		}
//		// handle tweet
//	}
//
// # Error Handling
//
// Local failures (transport errors, misuse such as Get on an empty
// path, malformed token responses) surface as *ClientError and never
// carry a status code. Remote rejections surface as *APIError, with
// *AuthError and *RateLimitError refinements reachable through
// errors.As. No raw transport error escapes the request boundary.
package twitter
