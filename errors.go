package awesome

import "errors"

var (
	ErrAlreadyStarted  = errors.New("awesome: runtime already started")
	ErrClosed          = errors.New("awesome: runtime closed")
	ErrNotReady        = errors.New("awesome: runtime not ready")
	ErrInvalidManifest = errors.New("awesome: invalid manifest")
	ErrInvalidOption   = errors.New("awesome: failed to apply option")
)
