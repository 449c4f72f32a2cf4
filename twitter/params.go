package twitter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Params is the request parameter bag accepted by Resource.Get and
// Resource.Post. Values may be strings, booleans, string slices, other
// scalars, or io.Reader file handles; sanitizeParams normalizes them
// before transport.
type Params map[string]any

// sanitizeParams converts a parameter bag into transport-ready form:
// a string map destined for the query string or form body, and a reader
// map destined for multipart file parts. The input is not mutated.
//
// Rules, checked in order per key:
//  1. io.Reader values are routed to the files map.
//  2. booleans become the literal strings "true"/"false".
//  3. string slices are joined with "," preserving element order.
//  4. strings pass through unchanged; any other scalar is stringified.
func sanitizeParams(input Params) (map[string]string, map[string]io.Reader) {
	params := make(map[string]string, len(input))
	files := make(map[string]io.Reader)

	for k, v := range input {
		switch v := v.(type) {
		case io.Reader:
			files[k] = v
		case bool:
			params[k] = strconv.FormatBool(v)
		case []string:
			params[k] = strings.Join(v, ",")
		case string:
			params[k] = v
		default:
			params[k] = fmt.Sprint(v)
		}
	}

	return params, files
}
