package scraper

import "errors"

var (
	// ErrUnknownPlatform is returned for a platform with no registered source
	ErrUnknownPlatform = errors.New("unknown platform")

	// ErrMissingCredential is returned when a source runs without its API credential
	ErrMissingCredential = errors.New("missing credential")

	// ErrEmptyQuery is returned when a query holds no usable term
	ErrEmptyQuery = errors.New("empty query")
)
