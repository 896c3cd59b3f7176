package train

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors.
var (
	ErrInvalidConfig = errors.New("invalid training configuration")
	ErrClipConflict  = errors.New("gradient clipping and gradient norm fitting are mutually exclusive")
	ErrEmptyStream   = errors.New("training stream is empty")
	ErrIndexRange    = errors.New("training stream index out of vocabulary range")
)

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string // yaml name of the offending field
	Reason string
	Err    error // sentinel, ErrInvalidConfig unless more specific
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// Unwrap returns the sentinel error.
func (e *ConfigError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidConfig
	}
	return e.Err
}

func invalid(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
