package parser

import (
	"errors"
	"fmt"
)

// Fetch errors.
var (
	// ErrUnexpectedStatus is returned when a server answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrUnsupportedScheme is returned for URLs that are not http, https or file.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrInvalidProxyAddress is returned when the proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// FetchError describes a page that could not be fetched or read.
// The crawler logs it and moves on; it never fails a crawl.
type FetchError struct {
	// URL is the page that failed.
	URL string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
