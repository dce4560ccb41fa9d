package client

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySuccessRange(t *testing.T) {
	for _, code := range []int{200, 201, 202, 301, 304, 399} {
		resp, err := classify(http.MethodGet, code, http.Header{"X-Foo": {"Bar"}}, []byte(`{"test":true}`), time.Now())
		require.NoError(t, err, "status %d", code)
		assert.Equal(t, code, resp.StatusCode)
		assert.Equal(t, map[string]any{"test": true}, resp.Body)
		assert.JSONEq(t, `{"test":true}`, string(resp.Raw))
	}
}

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		code int
		want ErrorKind
	}{
		{400, KindInvalidRequest},
		{401, KindAuthentication},
		{402, KindInvalidRequest},
		{403, KindInvalidRequest},
		{404, KindInvalidRequest},
		{409, KindInvalidRequest},
		{422, KindInvalidRequest},
		{429, KindRateLimit},
		{499, KindInvalidRequest},
		{500, KindAPI},
		{502, KindAPI},
		{503, KindAPI},
		{599, KindAPI},
	}

	for _, tt := range tests {
		for _, body := range []string{`{"message":"m"}`, "not valid json", ""} {
			_, err := classify(http.MethodGet, tt.code, http.Header{}, []byte(body), time.Now())
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.want, apiErr.Kind, "status %d body %q", tt.code, body)
			assert.Equal(t, tt.code, apiErr.StatusCode)
		}
	}
}

func TestClassifyErrorBodyFields(t *testing.T) {
	body := `{"type":"invalid_request","message":"Customer name is missing","param":"name"}`
	_, err := classify(http.MethodGet, 400, http.Header{}, []byte(body), time.Now())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Customer name is missing", apiErr.Message)
	assert.Equal(t, "invalid_request", apiErr.Type)
	assert.Equal(t, "name", apiErr.Param)
	assert.Equal(t, map[string]any{
		"type":    "invalid_request",
		"message": "Customer name is missing",
		"param":   "name",
	}, apiErr.Body)
}

func TestClassifyErrorBodyWithoutMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"error":"api"}`, msgServer},
		{`{"message":""}`, msgServer},
		{`{"message":42}`, msgServer},
		{`["not","an","object"]`, msgServer},
		{`not valid json`, msgServer},
	}

	for _, tt := range tests {
		_, err := classify(http.MethodGet, 500, http.Header{}, []byte(tt.body), time.Now())
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, tt.want, apiErr.Message, tt.body)
	}
}

func TestClassifyMalformedErrorBodyHasNoBody(t *testing.T) {
	_, err := classify(http.MethodGet, 502, http.Header{}, []byte("<html>Bad Gateway</html>"), time.Now())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Nil(t, apiErr.Body)
	assert.Empty(t, apiErr.Type)
}

func TestClassifyRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	_, err := classify(http.MethodGet, 429, http.Header{"Retry-After": {"30"}}, nil, now)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 30*time.Second, apiErr.RetryAfter)

	_, err = classify(http.MethodGet, 503, http.Header{"Retry-After": {"30"}}, nil, now)
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.RetryAfter)
}

func TestClassifyInvalidJSONSuccess(t *testing.T) {
	for _, body := range []string{"not valid json", `{"a":1}garbage`, `{"a":`, "{}{}"} {
		resp, err := classify(http.MethodGet, 200, http.Header{}, []byte(body), time.Now())
		assert.Nil(t, resp)
		require.Error(t, err, body)
		assert.True(t, IsAPIError(err))
	}
}

func TestClassifyEmptySuccess(t *testing.T) {
	resp, err := classify(http.MethodGet, 204, http.Header{}, nil, time.Now())
	require.NoError(t, err)
	assert.Nil(t, resp.Body)
	assert.Empty(t, resp.Raw)

	resp, err = classify(http.MethodHead, 200, http.Header{"X-Total-Count": {"3"}}, nil, time.Now())
	require.NoError(t, err)
	assert.Nil(t, resp.Body)
	assert.Equal(t, "3", resp.Headers["X-Total-Count"])
}

func TestClassifyEmptyBodyNeedsNoContent(t *testing.T) {
	for _, code := range []int{200, 201, 302} {
		for _, body := range []string{"", "  \n"} {
			resp, err := classify(http.MethodGet, code, http.Header{}, []byte(body), time.Now())
			assert.Nil(t, resp)
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr, "status %d body %q", code, body)
			assert.Equal(t, KindAPI, apiErr.Kind)
			assert.Equal(t, code, apiErr.StatusCode)
			assert.Contains(t, apiErr.Message, "invalid JSON received from the API")
		}
	}
}

func TestDecodeJSONKeepsNumbers(t *testing.T) {
	v, err := decodeJSON([]byte(`{"id":9007199254740993}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), v.(map[string]any)["id"])
}
