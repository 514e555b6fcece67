package swagger

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every *ConfigError.
	ErrInvalidConfig = errors.New("swagger: invalid configuration")

	// ErrRouteTable wraps failures of the host route table.
	ErrRouteTable = errors.New("swagger: route table unavailable")

	// ErrDereference is matched by every *DereferenceError.
	ErrDereference = errors.New("failed to dereference schema")
)

// ConfigError reports a settings value that failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("swagger: invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// DereferenceError reports a failure to inline $ref pointers. The message is
// stable; Pointer and Reason carry the details.
type DereferenceError struct {
	Pointer string
	Reason  string
}

func (e *DereferenceError) Error() string {
	return ErrDereference.Error()
}

func (e *DereferenceError) Is(target error) bool {
	return target == ErrDereference
}

// Warning records a schema fragment that could not be translated exactly
// and was degraded. Path locates the fragment inside the route.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	return w.Path + ": " + w.Message
}
