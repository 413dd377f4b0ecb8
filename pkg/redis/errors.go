package redis

import "errors"

var (
	// ErrNoURL is returned when Config.URL is empty.
	ErrNoURL = errors.New("redis: no connection URL")

	// ErrInvalidURL is returned for URLs that are not redis:// or rediss://.
	ErrInvalidURL = errors.New("redis: invalid connection URL")

	ErrUnreachable = errors.New("redis: server unreachable")
	ErrUnhealthy   = errors.New("redis: ping failed")
)
