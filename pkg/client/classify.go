package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fallback messages used when an error body carries no usable message.
const (
	msgAuthentication = "authentication failed"
	msgInvalidRequest = "the request was invalid"
	msgRateLimit      = "rate limit exceeded"
	msgServer         = "something went wrong on the API server"
)

// classify maps a received response to a result or a typed error.
//
// The status code always decides the error kind. A body that is not valid
// JSON is only an error in its own right when the status is below 400; only
// 204 responses and HEAD requests may succeed without a body.
func classify(method string, statusCode int, header http.Header, body []byte, now time.Time) (*Response, error) {
	if statusCode < 400 {
		return classifySuccess(method, statusCode, header, body)
	}

	e := &Error{StatusCode: statusCode}
	switch {
	case statusCode == http.StatusUnauthorized:
		e.Kind, e.Message = KindAuthentication, msgAuthentication
	case statusCode == http.StatusTooManyRequests:
		e.Kind, e.Message = KindRateLimit, msgRateLimit
		e.RetryAfter = parseRetryAfter(header.Get("Retry-After"), now)
	case statusCode < 500:
		e.Kind, e.Message = KindInvalidRequest, msgInvalidRequest
	default:
		e.Kind, e.Message = KindAPI, msgServer
	}

	if parsed, err := decodeJSON(body); err == nil && parsed != nil {
		e.Body = parsed
		if fields, ok := parsed.(map[string]any); ok {
			if msg, ok := fields["message"].(string); ok && msg != "" {
				e.Message = msg
			}
			e.Type, _ = fields["type"].(string)
			e.Param, _ = fields["param"].(string)
		}
	}
	return nil, e
}

func classifySuccess(method string, statusCode int, header http.Header, body []byte) (*Response, error) {
	resp := &Response{
		StatusCode: statusCode,
		Headers:    flattenHeaders(header),
	}
	if statusCode == http.StatusNoContent || method == http.MethodHead {
		return resp, nil
	}

	parsed, err := decodeJSON(body)
	if err != nil {
		return nil, &Error{
			Kind:       KindAPI,
			Message:    fmt.Sprintf("invalid JSON received from the API (HTTP %d)", statusCode),
			StatusCode: statusCode,
		}
	}
	resp.Body = parsed
	resp.Raw = json.RawMessage(body)
	return resp, nil
}

// decodeJSON decodes exactly one JSON value, keeping numbers as json.Number
// so that large identifiers survive.
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}
