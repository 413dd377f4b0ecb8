package i18n

import "errors"

var (
	ErrEmptyLanguage = errors.New("i18n: language cannot be empty")
	ErrNilResources  = errors.New("i18n: resources and url mapping are required")
	ErrInvalidOption = errors.New("i18n: failed to apply option")
	ErrInvalidFile   = errors.New("i18n: invalid translation file")
)
