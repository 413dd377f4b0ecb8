package constants

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry writes.
var (
	ErrDuplicateKey     = errors.New("constants: duplicate key")
	ErrDuplicateValue   = errors.New("constants: duplicate value")
	ErrUnknownNamespace = errors.New("constants: unknown namespace")
)

// DuplicateError describes a uniqueness violation.
// Key is the entry being written; for value collisions Other is the key that
// already holds Value.
type DuplicateError struct {
	Err       error
	Namespace Namespace
	Key       string
	Other     string
	Value     string
}

func (e *DuplicateError) Error() string {
	if errors.Is(e.Err, ErrDuplicateValue) {
		return fmt.Sprintf("%s: duplicate value string of %s found on %s && %s const value strings MUST be unique!",
			e.Namespace, e.Value, e.Key, e.Other)
	}
	return fmt.Sprintf("%s: duplicate key of %s const keys MUST be unique!", e.Namespace, e.Key)
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}
