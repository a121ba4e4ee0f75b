package paginator

import (
	"errors"
	"fmt"
)

// ErrAlreadyBuilt is returned when Build is called on a session that has
// already left the Idle state. Building twice is undefined behavior and is
// guarded against explicitly.
var ErrAlreadyBuilt = errors.New("session already built")

// ConfigError reports an invalid configuration value. Setters record the
// first one they hit and Build surfaces it before any message is sent.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// configErr builds a ConfigError for a configuration field.
func configErr(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// RuntimeError wraps a failure surfaced while a session is running: a render
// failure, a transport refusal, a permission problem during Build. During
// Build it aborts the session start; during a dispatch it is reported to the
// error observers and the session keeps listening.
type RuntimeError struct {
	Op  string
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// runtimeErr wraps err with the failing operation name.
func runtimeErr(op string, err error) *RuntimeError {
	return &RuntimeError{Op: op, Err: err}
}
