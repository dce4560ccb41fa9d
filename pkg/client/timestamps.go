package client

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// parseRetryAfter converts a Retry-After header value, either delay seconds
// or an HTTP date, into a duration relative to now.
// Returns zero if the value is absent, unparsable or in the past.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return 0
	}
	if d := t.Sub(now); d > 0 {
		return d
	}
	return 0
}
