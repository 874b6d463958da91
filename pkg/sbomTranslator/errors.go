package sbomTranslator

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMalformedDocument = errors.New("malformed document")
)

// TranslationError is returned when a single document cannot be translated.
// Err wraps either ErrUnsupportedFormat or ErrMalformedDocument, so callers can
// use errors.Is on it.
type TranslationError struct {
	Name string
	Err  error
}

func (e *TranslationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("translation failed: %v", e.Err)
	}
	return fmt.Sprintf("translation of %s failed: %v", e.Name, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedDocument, fmt.Sprintf(format, args...))
}

func unsupported(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, fmt.Sprintf(format, args...))
}
