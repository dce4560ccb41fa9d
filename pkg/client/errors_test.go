package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrorMessage tests Error() formatting
func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with status",
			err:  &Error{Kind: KindAuthentication, Message: "invalid api key", StatusCode: 401},
			want: "invoiced: authentication_error: invalid api key (status 401)",
		},
		{
			name: "with param",
			err:  &Error{Kind: KindInvalidRequest, Message: "name is missing", StatusCode: 400, Param: "name"},
			want: "invoiced: invalid_request: name is missing (status 400) (param name)",
		},
		{
			name: "connection error without status",
			err:  &Error{Kind: KindConnection, Message: "unable to communicate with the API: dial tcp: refused"},
			want: "invoiced: api_connection_error: unable to communicate with the API: dial tcp: refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

// TestErrorSentinels tests errors.Is matching by kind
func TestErrorSentinels(t *testing.T) {
	sentinels := map[ErrorKind]error{
		KindAuthentication: ErrAuthentication,
		KindInvalidRequest: ErrInvalidRequest,
		KindRateLimit:      ErrRateLimit,
		KindConnection:     ErrConnection,
		KindAPI:            ErrAPI,
	}

	for kind := range sentinels {
		err := fmt.Errorf("wrapped: %w", &Error{Kind: kind})
		for otherKind, other := range sentinels {
			assert.Equal(t, kind == otherKind, errors.Is(err, other), "%s vs %s", kind, otherKind)
		}
		assert.False(t, errors.Is(err, ErrInvalidArgument))
	}
}

// TestIsHelpers tests the IsXxx helpers against wrapped and foreign errors
func TestIsHelpers(t *testing.T) {
	helpers := map[ErrorKind]func(error) bool{
		KindAuthentication: IsAuthenticationError,
		KindInvalidRequest: IsInvalidRequest,
		KindRateLimit:      IsRateLimitError,
		KindConnection:     IsConnectionError,
		KindAPI:            IsAPIError,
	}

	for kind, is := range helpers {
		t.Run(string(kind), func(t *testing.T) {
			assert.True(t, is(&Error{Kind: kind}))
			assert.True(t, is(fmt.Errorf("context: %w", &Error{Kind: kind})))
			assert.False(t, is(errors.New("plain")))
			assert.False(t, is(nil))
			assert.False(t, is(&InvalidArgumentError{Message: "x"}))
		})
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	err := newConnectionError(fmt.Errorf("dial: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrConnection)
	assert.Contains(t, err.Error(), "deadline exceeded")
}

func TestInvalidArgumentError(t *testing.T) {
	err := newInvalidArgument("apiKey", "API key cannot be empty")
	assert.Equal(t, "invalid argument apiKey: API key cannot be empty", err.Error())
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.True(t, IsInvalidArgument(fmt.Errorf("wrapped: %w", err)))

	noField := &InvalidArgumentError{Message: "bad"}
	assert.Equal(t, "invalid argument: bad", noField.Error())
	assert.False(t, IsInvalidArgument(&Error{Kind: KindAPI}))
}
