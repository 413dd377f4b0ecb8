package loader

import "errors"

var (
	ErrClosed            = errors.New("loader: closed")
	ErrUnknownKind       = errors.New("loader: unknown resource kind")
	ErrUnsupportedScheme = errors.New("loader: unsupported url scheme")
	ErrBadStatus         = errors.New("loader: unexpected response status")
	ErrTooLarge          = errors.New("loader: resource exceeds size limit")
	ErrTimeout           = errors.New("loader: resource load timed out")
)
