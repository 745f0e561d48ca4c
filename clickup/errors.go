package clickup

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"clickupai/domain"
)

// statusError maps a non-200 ClickUp response to a ProviderError.
func statusError(resp *http.Response, body []byte) error {
	pe := &domain.ProviderError{Provider: domain.ProviderClickUp, StatusCode: resp.StatusCode}
	if msg := parseErrorBody(body); msg != "" {
		pe.Err = errors.New(msg)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		pe.Kind = domain.ErrAuth
	case resp.StatusCode == http.StatusNotFound:
		pe.Kind = domain.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		pe.Kind = domain.ErrRateLimit
		pe.RetryAfter = retryAfter(resp.Header, time.Now())
	case resp.StatusCode >= 500:
		pe.Kind = domain.ErrTransient
	default:
		pe.Kind = domain.ErrInvalidInput
	}
	return pe
}

// retryAfter reads Retry-After (delay seconds or an HTTP date), falling back
// to ClickUp's X-RateLimit-Reset (unix seconds).
func retryAfter(h http.Header, now time.Time) time.Duration {
	if v := strings.TrimSpace(h.Get("Retry-After")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			if secs > 0 {
				return time.Duration(secs) * time.Second
			}
		} else if at, err := http.ParseTime(v); err == nil {
			if d := at.Sub(now); d > 0 {
				return d
			}
		}
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if reset, err := strconv.ParseInt(v, 10, 64); err == nil {
			if d := time.Unix(reset, 0).Sub(now); d > 0 {
				return d
			}
		}
	}
	return 0
}
