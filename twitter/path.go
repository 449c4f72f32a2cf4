package twitter

import (
	"context"
	"fmt"
	"net/http"
)

// requestFunc executes a request for an accumulated resource path.
type requestFunc[T any] func(ctx context.Context, method, path string, params Params) (T, error)

// Resource is an immutable, lazily resolved API path. Child extends the
// path without validating it; no network call happens until Get or Post.
// The type parameter selects the envelope: *APIResponse for REST
// clients, *StreamResponse for the streaming client.
//
// Building is associative: Child("a/b") yields the same path as
// Child("a").Child("b").
type Resource[T any] struct {
	request requestFunc[T]
	path    string
}

// Child returns a new Resource whose path is "parent/segment". The root
// resource has an empty path, so its first child is the segment itself.
// Segments are not escaped or validated; a malformed segment surfaces
// only as a 404-class remote error.
func (r Resource[T]) Child(segment string) Resource[T] {
	path := segment
	if r.path != "" {
		path = r.path + "/" + segment
	}
	return Resource[T]{request: r.request, path: path}
}

// Path returns the accumulated path, empty for the root.
func (r Resource[T]) Path() string {
	return r.path
}

// String implements fmt.Stringer
func (r Resource[T]) String() string {
	return fmt.Sprintf("<Resource: %s>", r.path)
}

// Get issues a GET request for the accumulated path. Calling it on the
// root resource is a usage error and performs no network call.
func (r Resource[T]) Get(ctx context.Context, params Params) (T, error) {
	return r.terminal(ctx, http.MethodGet, params)
}

// Post issues a POST request for the accumulated path. Calling it on
// the root resource is a usage error and performs no network call.
func (r Resource[T]) Post(ctx context.Context, params Params) (T, error) {
	return r.terminal(ctx, http.MethodPost, params)
}

func (r Resource[T]) terminal(ctx context.Context, method string, params Params) (T, error) {
	if r.path == "" {
		var zero T
		return zero, &ClientError{
			Message: fmt.Sprintf("calling %s on an empty API path is not supported", method),
		}
	}
	return r.request(ctx, method, r.path, params)
}

// newResource builds a root resource bound to a client's request
// pipeline, pre-extended with the given path segments.
func newResource[T any](request requestFunc[T], segments ...string) Resource[T] {
	r := Resource[T]{request: request}
	for _, s := range segments {
		r = r.Child(s)
	}
	return r
}
