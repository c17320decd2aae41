package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable matches every failure to get a usable answer from a provider.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamTimeout marks failures caused by the request deadline.
	ErrUpstreamTimeout = errors.New("upstream timed out")
	// ErrMalformedPayload marks responses that could not be decoded.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)

// UpstreamError describes a failed call to a third-party provider.
type UpstreamError struct {
	Provider   string
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request to %s failed with %d: %v", e.Provider, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request to %s failed: %v", e.Provider, e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is makes every UpstreamError match ErrUpstreamUnavailable.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}
