package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a successful API exchange.
type Response struct {
	StatusCode int
	// Headers holds one value per header name, as received. When a header
	// repeats, the last value wins.
	Headers map[string]string
	// Body is the decoded JSON document: map[string]any, []any, string,
	// json.Number, bool or nil.
	Body any
	// Raw is the undecoded response body.
	Raw json.RawMessage
}

// Decode unmarshals the raw response body into v.
func (r *Response) Decode(v any) error {
	if len(r.Raw) == 0 {
		return fmt.Errorf("decode response: empty body (status %d)", r.StatusCode)
	}
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func flattenHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) == 0 {
			continue
		}
		headers[name] = values[len(values)-1]
	}
	return headers
}
