package config

import "errors"

var ErrInvalidDocument = errors.New("config: invalid document")
