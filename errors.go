package layercfg

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound is returned when a resource cannot be located or fetched.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrUnsupportedFormat is returned when no parser is registered for a resource kind.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrPathIsDirectory is returned when a file resource points at a directory.
	ErrPathIsDirectory = errors.New("path is a directory, not a file")
	// ErrResourceTooLarge is returned when a resource exceeds FetchOptions.MaxSize.
	ErrResourceTooLarge = errors.New("resource exceeds maximum size")
)

// ParseError reports content rejected by a format parser.
type ParseError struct {
	Resource string
	Kind     string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("failed to parse %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("failed to parse %s resource %s: %v", e.Kind, e.Resource, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
