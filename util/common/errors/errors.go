package errors

import (
	"fmt"
)

// ValidationError represents an error that occurs during validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// FileError represents an error that occurs during file operations
type FileError struct {
	Path    string
	Op      string
	Wrapped error
}

func (e *FileError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s operation failed on %s: %v", e.Op, e.Path, e.Wrapped)
	}
	return fmt.Sprintf("%s operation failed on %s", e.Op, e.Path)
}

func (e *FileError) Unwrap() error {
	return e.Wrapped
}

// NewFileError creates a new FileError
func NewFileError(path, op string, wrapped error) error {
	return &FileError{
		Path:    path,
		Op:      op,
		Wrapped: wrapped,
	}
}

// ComponentError represents an error that occurs while moving one component
type ComponentError struct {
	Op        string
	Component string
	Version   string
	Wrapped   error
}

func (e *ComponentError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("component %s failed for %s@%s: %v", e.Op, e.Component, e.Version, e.Wrapped)
	}
	return fmt.Sprintf("component %s failed for %s: %v", e.Op, e.Component, e.Wrapped)
}

func (e *ComponentError) Unwrap() error {
	return e.Wrapped
}

// NewComponentError creates a new ComponentError
func NewComponentError(op, component, version string, wrapped error) error {
	if wrapped == nil {
		return nil
	}
	return &ComponentError{
		Op:        op,
		Component: component,
		Version:   version,
		Wrapped:   wrapped,
	}
}
