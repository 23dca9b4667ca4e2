package cache

import "errors"

var (
	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrMissingAddress is returned by Open when a network backend has no URL.
	ErrMissingAddress = errors.New("cache backend address not configured")
)
