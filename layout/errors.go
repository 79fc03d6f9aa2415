package layout

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned by the strict projector when a computed
// position rounds to a cell outside the grid
var ErrOutOfBounds = errors.New("coordinate outside grid bounds")

// ConfigError reports a missing or invalid geometry parameter. It is
// raised synchronously from BuildMappingTable and always propagated; a
// config bug must be fixed by the caller, not retried.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("geometry config: %s: %s", e.Field, e.Reason)
}

// configErrf builds a ConfigError for the given field
func configErrf(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is (or wraps) a ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
