package cache

import "errors"

var (
	// ErrNotFound reports a missing or expired key. GetOrSet treats it as a miss.
	ErrNotFound = errors.New("cache: not found")

	// ErrClosed is returned by writes to a closed Memory cache.
	ErrClosed = errors.New("cache: closed")

	ErrMarshal   = errors.New("cache: encode value")
	ErrUnmarshal = errors.New("cache: decode value")
)
