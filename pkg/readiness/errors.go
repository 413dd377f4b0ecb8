package readiness

import "errors"

// ErrNotPending is returned by Done when no load is outstanding.
var ErrNotPending = errors.New("readiness: no pending loads")
