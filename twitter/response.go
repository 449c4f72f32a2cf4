package twitter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
)

// APIResponse is the envelope returned for a completed REST request.
// It is built once per request and never pooled or reused.
type APIResponse struct {
	ResourceURL   string
	RequestMethod string
	Headers       http.Header
	// Data holds the decoded response body: a JSONObject for object
	// bodies, a []any for array bodies, or nil when a 200 response
	// carried no decodable JSON.
	Data any
}

// String implements fmt.Stringer
func (r *APIResponse) String() string {
	return fmt.Sprintf("<APIResponse: %s %s>", r.RequestMethod, r.ResourceURL)
}

// JSONObject is a read-only view over a decoded JSON object. Nested
// objects, including those inside arrays, are wrapped recursively.
// The type exposes no mutation entry points.
type JSONObject struct {
	fields map[string]any
}

// NewJSONObject wraps a decoded JSON object. The map is wrapped
// recursively; callers must not retain references into it.
func NewJSONObject(fields map[string]any) JSONObject {
	wrapped := make(map[string]any, len(fields))
	for k, v := range fields {
		wrapped[k] = wrapJSONValue(v)
	}
	return JSONObject{fields: wrapped}
}

// Get returns the value for key, or a *MissingFieldError naming the
// key when it is absent.
func (o JSONObject) Get(key string) (any, error) {
	v, ok := o.fields[key]
	if !ok {
		return nil, &MissingFieldError{Field: key}
	}
	return v, nil
}

// Has reports whether key is present.
func (o JSONObject) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Keys returns the present keys in sorted order.
func (o JSONObject) Keys() []string {
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of fields.
func (o JSONObject) Len() int {
	return len(o.fields)
}

// String implements fmt.Stringer
func (o JSONObject) String() string {
	return fmt.Sprintf("<JSONObject: %v>", o.fields)
}

// MarshalJSON implements json.Marshaler
func (o JSONObject) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.fields)
}

// wrapJSONValue applies the JSONObject view recursively to a decoded
// JSON value.
func wrapJSONValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return NewJSONObject(v)
	case []any:
		wrapped := make([]any, len(v))
		for i, elem := range v {
			wrapped[i] = wrapJSONValue(elem)
		}
		return wrapped
	default:
		return v
	}
}

// decodeJSON decodes a JSON document and wraps objects in the
// read-only JSONObject view.
func decodeJSON(body []byte) (any, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return wrapJSONValue(v), nil
}
